// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package steam

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/tomtom215/steamwaiter/internal/recommend"
)

// ownedGamesResponse is the IPlayerService/GetOwnedGames payload. A private
// profile answers with an empty response object.
type ownedGamesResponse struct {
	Response struct {
		GameCount int `json:"game_count"`
		Games     []struct {
			AppID           int `json:"appid"`
			PlaytimeForever int `json:"playtime_forever"`
		} `json:"games"`
	} `json:"response"`
}

// OwnedGames returns the profile's games, most played first with ties broken
// by app id. limit <= 0 returns all of them. Private profiles yield an empty
// list.
func (c *Client) OwnedGames(ctx context.Context, profileID string, limit int) ([]recommend.AppID, error) {
	if profileID == "" {
		return nil, fmt.Errorf("%w: empty profile id", recommend.ErrNotFound)
	}

	params := url.Values{}
	params.Set("key", c.cfg.APIKey)
	params.Set("steamid", profileID)
	params.Set("format", "json")
	params.Set("include_played_free_games", "1")
	reqURL := c.cfg.APIBaseURL + "/IPlayerService/GetOwnedGames/v0001/?" + params.Encode()

	var payload ownedGamesResponse
	if err := c.getJSON(ctx, endpointOwnedGames, reqURL, &payload); err != nil {
		return nil, fmt.Errorf("owned games for %s: %w", profileID, err)
	}

	games := payload.Response.Games
	sort.SliceStable(games, func(i, j int) bool {
		if games[i].PlaytimeForever != games[j].PlaytimeForever {
			return games[i].PlaytimeForever > games[j].PlaytimeForever
		}
		return games[i].AppID < games[j].AppID
	})

	if limit > 0 && len(games) > limit {
		games = games[:limit]
	}
	ids := make([]recommend.AppID, 0, len(games))
	for _, g := range games {
		ids = append(ids, recommend.AppID(g.AppID))
	}
	return ids, nil
}
