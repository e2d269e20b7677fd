// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package steam

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tomtom215/steamwaiter/internal/recommend"
)

// maxReviewsPerPage is the largest page the appreviews endpoint serves.
const maxReviewsPerPage = 100

// reviewsResponse is one page of the storefront appreviews endpoint.
type reviewsResponse struct {
	Success int    `json:"success"`
	Cursor  string `json:"cursor"`
	Reviews []struct {
		Author struct {
			SteamID string `json:"steamid"`
		} `json:"author"`
	} `json:"reviews"`
}

// ReviewerIDs returns up to limit distinct reviewer profile ids for appID in
// response order. Paging stops at limit, on an empty page, or when the
// cursor stops advancing.
func (c *Client) ReviewerIDs(ctx context.Context, appID recommend.AppID, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	perPage := limit
	if perPage > maxReviewsPerPage {
		perPage = maxReviewsPerPage
	}

	seen := make(map[string]struct{}, limit)
	ids := make([]string, 0, limit)
	cursor := "*"

	for len(ids) < limit {
		params := url.Values{}
		params.Set("json", "1")
		params.Set("filter", c.cfg.ReviewFilter)
		params.Set("language", c.cfg.Language)
		params.Set("day_range", "365")
		params.Set("review_type", "all")
		params.Set("purchase_type", "all")
		params.Set("num_per_page", strconv.Itoa(perPage))
		params.Set("cursor", cursor)
		reqURL := c.cfg.StoreBaseURL + "/appreviews/" + appID.String() + "?" + params.Encode()

		var page reviewsResponse
		if err := c.getJSON(ctx, endpointReviews, reqURL, &page); err != nil {
			return nil, fmt.Errorf("reviews for %d: %w", appID, err)
		}
		if page.Success != 1 {
			return nil, fmt.Errorf("%w: reviews for %d", recommend.ErrNotFound, appID)
		}

		for _, r := range page.Reviews {
			id := r.Author.SteamID
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
			if len(ids) == limit {
				break
			}
		}

		if len(page.Reviews) == 0 || page.Cursor == "" || page.Cursor == cursor {
			break
		}
		cursor = page.Cursor
	}

	return ids, nil
}
