// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/steamwaiter/internal/recommend"
)

// fakeRecommender records requests and returns a canned response or error.
type fakeRecommender struct {
	mu   sync.Mutex
	reqs []recommend.Request
	err  error
}

func (f *fakeRecommender) Recommend(_ context.Context, req recommend.Request) (*recommend.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return &recommend.Response{
		RequestID: req.RequestID,
		Results: []recommend.Ranked{
			{Game: &recommend.Game{ID: 400, Name: "Portal"}, LeafOrder: 0, CombinedScore: 1.5},
		},
	}, nil
}

func (f *fakeRecommender) Stats() recommend.EngineStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return recommend.EngineStats{Requests: int64(len(f.reqs))}
}

func (f *fakeRecommender) requests() []recommend.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recommend.Request(nil), f.reqs...)
}

// fakeSource serves one game and one vanity name.
type fakeSource struct {
	games      map[recommend.AppID]*recommend.Game
	profiles   map[string]string
	resolveErr error
}

func (f *fakeSource) GameMetadata(_ context.Context, appID recommend.AppID) (*recommend.Game, error) {
	if g, ok := f.games[appID]; ok {
		return g.Clone(), nil
	}
	return nil, fmt.Errorf("%w: app %d", recommend.ErrMetadataUnavailable, appID)
}

func (f *fakeSource) ResolveProfile(_ context.Context, input string) (string, error) {
	if f.resolveErr != nil {
		return "", f.resolveErr
	}
	if id, ok := f.profiles[input]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %s", recommend.ErrNotFound, input)
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		games: map[recommend.AppID]*recommend.Game{
			620: {ID: 620, Name: "Portal 2", Genres: []string{"puzzle"}, Price: 9.99, ReleaseYear: 2011},
		},
		profiles: map[string]string{"gabelogannewell": "76561197960287930"},
	}
}

type testServer struct {
	handler http.Handler
	engine  *fakeRecommender
	source  *fakeSource
}

func newTestServer(t *testing.T, mwCfg *ChiMiddlewareConfig, checks ...ReadinessCheck) *testServer {
	t.Helper()
	engine := &fakeRecommender{}
	source := newFakeSource()
	h, err := NewHandler(engine, source, HandlerConfig{
		RequestTimeout: time.Minute,
		Tree:           recommend.DefaultConfig().Tree,
		Version:        "test",
	}, checks...)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	if mwCfg == nil {
		mwCfg = DefaultChiMiddlewareConfig()
		mwCfg.RateLimitDisabled = true
	}
	return &testServer{handler: NewRouter(h, NewChiMiddleware(mwCfg)), engine: engine, source: source}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func recommendBody(t *testing.T, req RecommendationRequest) string {
	t.Helper()
	b, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestNewHandler_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(nil, newFakeSource(), HandlerConfig{}); err == nil {
		t.Error("expected error for nil recommender")
	}
	if _, err := NewHandler(&fakeRecommender{}, nil, HandlerConfig{}); err == nil {
		t.Error("expected error for nil source")
	}

	h, err := NewHandler(&fakeRecommender{}, newFakeSource(), HandlerConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if h.cfg.RequestTimeout != 3*time.Minute || h.cfg.Version != "dev" {
		t.Errorf("defaults = %+v", h.cfg)
	}
}

func TestRecommendations_SeedList(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)
	w := s.do(http.MethodPost, "/api/v1/recommendations",
		recommendBody(t, RecommendationRequest{Games: []int{620, 400}, Preferences: wireAnswers()}))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}

	reqs := s.engine.requests()
	if len(reqs) != 1 {
		t.Fatalf("engine called %d times, want 1", len(reqs))
	}
	got := reqs[0]
	if got.ProfileID != "" || len(got.SeedGames) != 2 || got.SeedGames[0] != 620 {
		t.Errorf("engine request = %+v", got)
	}
	if got.RequestID != w.Header().Get("X-Request-ID") {
		t.Errorf("RequestID = %q, header %q", got.RequestID, w.Header().Get("X-Request-ID"))
	}
	if kinds := got.Preferences.Kinds(); len(kinds) != 5 || kinds[0] != recommend.QuestionGenre {
		t.Errorf("preference order = %v", kinds)
	}

	var envelope struct {
		Success bool               `json:"success"`
		Data    recommend.Response `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	if !envelope.Success || len(envelope.Data.Results) != 1 || envelope.Data.Results[0].Game.ID != 400 {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestRecommendations_Profile(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)
	w := s.do(http.MethodPost, "/api/v1/recommendations",
		recommendBody(t, RecommendationRequest{SteamID: "gabelogannewell", Preferences: wireAnswers()}))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	reqs := s.engine.requests()
	if len(reqs) != 1 || reqs[0].ProfileID != "76561197960287930" {
		t.Errorf("engine requests = %+v", reqs)
	}
}

func TestRecommendations_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		engineErr  error
		resolveErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "malformed json",
			body:       `{"games": [620`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"games": [620], "mood": "happy"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeBadRequest,
		},
		{
			name:       "too few answers",
			body:       `{"games": [620], "preferences": [{"question": "genre"}]}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidationFailed,
		},
		{
			name:       "both inputs",
			body:       "both",
			wantStatus: http.StatusBadRequest,
			wantCode:   ErrCodeValidationFailed,
		},
		{
			name:       "unknown profile",
			body:       "unknown-profile",
			wantStatus: http.StatusNotFound,
			wantCode:   ErrCodeProfileNotFound,
		},
		{
			name:       "steam down while resolving",
			body:       "profile",
			resolveErr: errors.New("dial tcp: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrCodeInternalError,
		},
		{
			name:       "no seed games",
			body:       "games",
			engineErr:  fmt.Errorf("crawl: %w", recommend.ErrNoSeedGames),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrCodeNoSeedGames,
		},
		{
			name:       "insufficient candidates",
			body:       "games",
			engineErr:  recommend.ErrInsufficientCandidates,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   ErrCodeInsufficientCandidates,
		},
		{
			name:       "timeout",
			body:       "games",
			engineErr:  context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   ErrCodeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestServer(t, nil)
			s.engine.err = tt.engineErr
			s.source.resolveErr = tt.resolveErr

			body := tt.body
			switch body {
			case "both":
				body = recommendBody(t, RecommendationRequest{SteamID: "gabelogannewell", Games: []int{620}, Preferences: wireAnswers()})
			case "unknown-profile":
				body = recommendBody(t, RecommendationRequest{SteamID: "nobody_here", Preferences: wireAnswers()})
			case "profile":
				body = recommendBody(t, RecommendationRequest{SteamID: "gabelogannewell", Preferences: wireAnswers()})
			case "games":
				body = recommendBody(t, RecommendationRequest{Games: []int{620}, Preferences: wireAnswers()})
			}

			w := s.do(http.MethodPost, "/api/v1/recommendations", body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			resp := decodeEnvelope(t, w)
			if resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestRecommendations_BodyTooLarge(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)
	body := `{"steam_id": "` + strings.Repeat("a", maxRequestBodyBytes+1) + `"}`
	w := s.do(http.MethodPost, "/api/v1/recommendations", body)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", w.Code)
	}
	if len(s.engine.requests()) != 0 {
		t.Error("engine should not be called")
	}
}

func TestQuestions(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)
	w := s.do(http.MethodGet, "/api/v1/questions", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var envelope struct {
		Data QuestionsResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatal(err)
	}
	got := envelope.Data
	if len(got.Questions) != 5 {
		t.Fatalf("Questions = %d, want 5", len(got.Questions))
	}
	if got.Questions[0].Question != "genre" || got.Questions[0].Field != "genres" {
		t.Errorf("Questions[0] = %+v", got.Questions[0])
	}
	if got.Depth != recommend.TreeDepth || got.Leaves != recommend.LeafCount || got.Results != recommend.PoolSize {
		t.Errorf("shape = %d/%d/%d", got.Depth, got.Leaves, got.Results)
	}
	if got.Tuning.YearWindow != 7 {
		t.Errorf("Tuning.YearWindow = %d, want 7", got.Tuning.YearWindow)
	}
}

func TestGame(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		w := s.do(http.MethodGet, "/api/v1/games/620", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var envelope struct {
			Data recommend.Game `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
			t.Fatal(err)
		}
		if envelope.Data.Name != "Portal 2" || envelope.Data.ReleaseYear != 2011 {
			t.Errorf("game = %+v", envelope.Data)
		}
	})

	t.Run("unavailable", func(t *testing.T) {
		t.Parallel()
		w := s.do(http.MethodGet, "/api/v1/games/999", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
		if resp := decodeEnvelope(t, w); resp.Error.Code != ErrCodeGameNotFound {
			t.Errorf("code = %s", resp.Error.Code)
		}
	})

	t.Run("bad id", func(t *testing.T) {
		t.Parallel()
		for _, id := range []string{"abc", "0", "-5"} {
			w := s.do(http.MethodGet, "/api/v1/games/"+id, "")
			if w.Code != http.StatusBadRequest {
				t.Errorf("GET /games/%s status = %d, want 400", id, w.Code)
			}
		}
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()

	failing := ReadinessCheck{Name: "store", Check: func(context.Context) error { return errors.New("closed") }}
	passing := ReadinessCheck{Name: "steam-api", Check: func(context.Context) error { return nil }}

	t.Run("healthy", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t, nil, passing)

		w := s.do(http.MethodGet, "/api/v1/health", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var envelope struct {
			Data HealthStatus `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
			t.Fatal(err)
		}
		if envelope.Data.Status != "healthy" || envelope.Data.Version != "test" || envelope.Data.Checks["steam-api"] != "ok" {
			t.Errorf("health = %+v", envelope.Data)
		}

		if w := s.do(http.MethodGet, "/api/v1/health/ready", ""); w.Code != http.StatusOK {
			t.Errorf("ready status = %d, want 200", w.Code)
		}
	})

	t.Run("degraded", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t, nil, passing, failing)

		w := s.do(http.MethodGet, "/api/v1/health", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"degraded"`) {
			t.Errorf("body = %s", w.Body.String())
		}

		if w := s.do(http.MethodGet, "/api/v1/health/ready", ""); w.Code != http.StatusServiceUnavailable {
			t.Errorf("ready status = %d, want 503", w.Code)
		}
		if w := s.do(http.MethodGet, "/api/v1/health/live", ""); w.Code != http.StatusOK {
			t.Errorf("live status = %d, want 200", w.Code)
		}
	})
}

func TestRouter_Fallbacks(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)

	w := s.do(http.MethodGet, "/api/v1/nope", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", w.Code)
	}
	if resp := decodeEnvelope(t, w); resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("unknown route body = %s", w.Body.String())
	}

	w = s.do(http.MethodDelete, "/api/v1/questions", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method status = %d, want 405", w.Code)
	}

	w = s.do(http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Errorf("/metrics status = %d, want 200", w.Code)
	}
}

func TestRouter_SecurityHeaders(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, nil)
	w := s.do(http.MethodGet, "/api/v1/questions", "")
	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Cache-Control":          "no-store",
	} {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}

func TestRouter_RateLimitRecommend(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitRequests = 2
	cfg.RateLimitWindow = time.Minute
	s := newTestServer(t, cfg)

	body := recommendBody(t, RecommendationRequest{Games: []int{620}, Preferences: wireAnswers()})
	for i := 0; i < 2; i++ {
		if w := s.do(http.MethodPost, "/api/v1/recommendations", body); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, w.Code)
		}
	}

	w := s.do(http.MethodPost, "/api/v1/recommendations", body)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if resp := decodeEnvelope(t, w); resp.Error == nil || resp.Error.Code != ErrCodeTooManyRequests {
		t.Errorf("body = %s", w.Body.String())
	}

	// Reads have their own, larger budget.
	if w := s.do(http.MethodGet, "/api/v1/questions", ""); w.Code != http.StatusOK {
		t.Errorf("questions status = %d, want 200", w.Code)
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"https://waiter.example"}
	cfg.RateLimitDisabled = true
	s := newTestServer(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/recommendations", nil)
	req.Header.Set("Origin", "https://waiter.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://waiter.example" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
