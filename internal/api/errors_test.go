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
	"testing"

	"github.com/tomtom215/steamwaiter/internal/recommend"
	"github.com/tomtom215/steamwaiter/internal/steam"
)

var errTest = errors.New("test failure")

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid preferences", fmt.Errorf("x: %w", recommend.ErrInvalidPreferences), http.StatusBadRequest, ErrCodeValidationFailed},
		{"input mode", errInputMode, http.StatusBadRequest, ErrCodeValidationFailed},
		{"no seeds", recommend.ErrNoSeedGames, http.StatusUnprocessableEntity, ErrCodeNoSeedGames},
		{"insufficient", fmt.Errorf("x: %w", recommend.ErrInsufficientCandidates), http.StatusUnprocessableEntity, ErrCodeInsufficientCandidates},
		{"game missing", fmt.Errorf("x: %w", recommend.ErrMetadataUnavailable), http.StatusNotFound, ErrCodeGameNotFound},
		{"profile missing", fmt.Errorf("x: %w", recommend.ErrNotFound), http.StatusNotFound, ErrCodeProfileNotFound},
		{"deadline", fmt.Errorf("x: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, ErrCodeTimeout},
		{"breaker open", fmt.Errorf("%w: steam-api", steam.ErrUnavailable), http.StatusBadGateway, ErrCodeExternalServiceFail},
		{"rate limited", steam.ErrRateLimited, http.StatusBadGateway, ErrCodeExternalServiceFail},
		{"status error", fmt.Errorf("x: %w", &steam.StatusError{StatusCode: 503}), http.StatusBadGateway, ErrCodeExternalServiceFail},
		{"unknown", errTest, http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := classifyError(tt.err)
			if got.status != tt.wantStatus || got.code != tt.wantCode {
				t.Errorf("classifyError() = %d %s, want %d %s", got.status, got.code, tt.wantStatus, tt.wantCode)
			}
		})
	}
}

func TestWriteError_ClientCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx)
	writeError(NewResponseWriter(w, r), r, context.Canceled)

	if w.Body.Len() != 0 {
		t.Errorf("expected no body for canceled request, got %s", w.Body.String())
	}
}
