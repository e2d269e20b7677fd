// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package steam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/steamwaiter/internal/logging"
	"github.com/tomtom215/steamwaiter/internal/metrics"
	"github.com/tomtom215/steamwaiter/internal/recommend"
)

// Endpoint labels used in logs and metrics.
const (
	endpointOwnedGames = "owned_games"
	endpointReviews    = "reviews"
	endpointStorePage  = "store_page"
	endpointVanity     = "resolve_vanity"
)

// maxErrorBodySize limits the maximum amount of response body read for error reporting
const maxErrorBodySize = 64 * 1024 // 64KB

// ErrRateLimited is returned when Steam keeps answering HTTP 429 after all retries.
var ErrRateLimited = errors.New("steam rate limit exceeded")

// StatusError reports an unexpected HTTP status from Steam.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s request failed with status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Config holds client settings.
type Config struct {
	APIKey            string
	APIBaseURL        string
	StoreBaseURL      string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
	Language          string
	ReviewFilter      string
	UserAgent         string
}

// Source is everything the service needs from Steam: the recommendation
// collaborator plus profile resolution for the HTTP front-end.
type Source interface {
	recommend.Fetcher
	ResolveProfile(ctx context.Context, input string) (string, error)
}

// Client talks to the Steam Web API and the storefront.
//
// Features:
//   - Token bucket pacing shared by every request
//   - Automatic retry on HTTP 429 with exponential backoff (1s, 2s, 4s...)
//   - Retry-After honored when present
//   - Error bodies read with a size cap, api key masked in logs
//
// Thread Safety: Safe for concurrent use.
type Client struct {
	cfg            Config
	http           *http.Client
	limiter        *rate.Limiter
	retryBaseDelay time.Duration
	logger         zerolog.Logger
}

var _ Source = (*Client)(nil)

// NewClient creates a Steam client.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("steam api key is required")
	}
	if cfg.APIBaseURL == "" || cfg.StoreBaseURL == "" {
		return nil, errors.New("steam base urls are required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 4
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.Language == "" {
		cfg.Language = "english"
	}
	if cfg.ReviewFilter == "" {
		cfg.ReviewFilter = "recent"
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.StoreBaseURL = strings.TrimRight(cfg.StoreBaseURL, "/")

	return &Client{
		cfg:            cfg,
		http:           &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		retryBaseDelay: time.Second,
		logger:         logger.With().Str("component", "steam").Logger(),
	}, nil
}

// readBodyForError reads the response body for error reporting (max 64KB)
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	return body
}

// do performs a GET with pacing and HTTP 429 handling. The caller closes
// the returned body. Any status other than 429 is returned to the caller.
func (c *Client) do(ctx context.Context, endpoint, reqURL string, cookies []*http.Cookie) (*http.Response, error) {
	safeURL := logging.SanitizeURL(reqURL)

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		metrics.RecordRateLimitWait(time.Since(waitStart))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s request: %w", endpoint, err)
		}
		if c.cfg.UserAgent != "" {
			req.Header.Set("User-Agent", c.cfg.UserAgent)
		}
		for _, ck := range cookies {
			req.AddCookie(ck)
		}

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			metrics.RecordSteamRequest(endpoint, 0, time.Since(start))
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("%s request to %s failed: %s", endpoint, safeURL, logging.SanitizeURL(err.Error()))
		}
		metrics.RecordSteamRequest(endpoint, resp.StatusCode, time.Since(start))

		if resp.StatusCode != http.StatusTooManyRequests {
			c.logger.Debug().
				Str("endpoint", endpoint).
				Str("url", safeURL).
				Int("status", resp.StatusCode).
				Dur("duration", time.Since(start)).
				Msg("Steam request")
			return resp, nil
		}

		_ = resp.Body.Close()
		if attempt == c.cfg.MaxRetries {
			break
		}

		// Exponential backoff: 1s, 2s, 4s, 8s, 16s
		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(strings.TrimSpace(retryAfter)); err == nil && seconds >= 0 {
				delay = time.Duration(seconds) * time.Second
			}
		}

		metrics.RecordSteamRetry(endpoint)
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Steam rate limited, backing off")

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("%w: %s after %d retries", ErrRateLimited, endpoint, c.cfg.MaxRetries)
}

// getJSON performs a GET and decodes a 200 response into out.
func (c *Client) getJSON(ctx context.Context, endpoint, reqURL string, out any) error {
	resp, err := c.do(ctx, endpoint, reqURL, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       logging.SanitizeBody(readBodyForError(resp.Body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", endpoint, err)
	}
	return nil
}
