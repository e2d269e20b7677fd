// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package logging

import (
	"net/url"
	"strings"
)

// sensitiveKeys are query parameter and field names whose values are masked
// before they reach a log line.
var sensitiveKeys = map[string]bool{
	"key":           true,
	"api_key":       true,
	"apikey":        true,
	"token":         true,
	"access_token":  true,
	"password":      true,
	"secret":        true,
	"authorization": true,
}

// SanitizeToken masks a credential, keeping the first and last 4 characters.
// Values of 12 characters or fewer are fully masked.
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeValue masks value when key names a credential.
func SanitizeValue(key, value string) string {
	if sensitiveKeys[strings.ToLower(key)] {
		return SanitizeToken(value)
	}
	return value
}

// SanitizeURL returns rawURL with every credential query parameter masked.
// Steam Web API calls carry the api key as ?key=..., so request URLs pass
// through here before they are logged or wrapped into errors.
func SanitizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return truncateString(rawURL, 64)
	}
	q := u.Query()
	changed := false
	for k, vals := range q {
		if !sensitiveKeys[strings.ToLower(k)] {
			continue
		}
		for i, v := range vals {
			vals[i] = SanitizeToken(v)
		}
		changed = true
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// SanitizeBody trims an upstream response body for inclusion in error
// messages.
func SanitizeBody(body []byte) string {
	return truncateString(strings.TrimSpace(string(body)), 200)
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
