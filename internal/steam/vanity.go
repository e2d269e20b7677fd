// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package steam

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/steamwaiter/internal/recommend"
)

// vanityResponse is the ISteamUser/ResolveVanityURL payload.
type vanityResponse struct {
	Response struct {
		SteamID string `json:"steamid"`
		Success int    `json:"success"`
		Message string `json:"message"`
	} `json:"response"`
}

// IsSteamID64 reports whether s looks like a 17 digit SteamID64.
func IsSteamID64(s string) bool {
	if len(s) != 17 || !strings.HasPrefix(s, "7656") {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ResolveProfile turns user input (a SteamID64, a community profile URL or
// a vanity name) into a SteamID64. Unknown vanity names yield
// recommend.ErrNotFound.
func (c *Client) ResolveProfile(ctx context.Context, input string) (string, error) {
	name, id := splitProfileInput(input)
	if id != "" {
		return id, nil
	}
	if name == "" {
		return "", fmt.Errorf("%w: empty profile", recommend.ErrNotFound)
	}

	params := url.Values{}
	params.Set("key", c.cfg.APIKey)
	params.Set("vanityurl", name)
	reqURL := c.cfg.APIBaseURL + "/ISteamUser/ResolveVanityURL/v0001/?" + params.Encode()

	var payload vanityResponse
	if err := c.getJSON(ctx, endpointVanity, reqURL, &payload); err != nil {
		return "", fmt.Errorf("resolve vanity %q: %w", name, err)
	}
	if payload.Response.Success != 1 || !IsSteamID64(payload.Response.SteamID) {
		return "", fmt.Errorf("%w: vanity name %q", recommend.ErrNotFound, name)
	}
	return payload.Response.SteamID, nil
}

// splitProfileInput returns either a SteamID64 (id) or a vanity name still
// to resolve (name).
func splitProfileInput(input string) (name, id string) {
	s := strings.TrimSpace(input)
	if IsSteamID64(s) {
		return "", s
	}

	if strings.Contains(s, "steamcommunity.com/") {
		if !strings.Contains(s, "://") {
			s = "https://" + s
		}
		u, err := url.Parse(s)
		if err != nil {
			return "", ""
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) < 2 {
			return "", ""
		}
		switch parts[0] {
		case "profiles":
			if IsSteamID64(parts[1]) {
				return "", parts[1]
			}
			return "", ""
		case "id":
			return parts[1], ""
		default:
			return "", ""
		}
	}

	return s, ""
}
