// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package steam

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/tomtom215/steamwaiter/internal/logging"
	"github.com/tomtom215/steamwaiter/internal/recommend"
)

// maxStorePageSize caps how much of a store page is parsed.
const maxStorePageSize = 4 << 20

// ageGateCookies skip the mature content interstitial.
var ageGateCookies = []*http.Cookie{
	{Name: "birthtime", Value: "568022401"},
	{Name: "lastagecheckage", Value: "1-0-1988"},
	{Name: "mature_content", Value: "1"},
	{Name: "wants_mature_content", Value: "1"},
}

var (
	multiplayerKeywords = []string{"multiplayer", "multi-player", "co-op", "pvp"}
	onlineKeywords      = []string{"online", "mmo"}
)

// GameMetadata scrapes the store page for appID. Unknown, delisted or
// region locked apps have no app name on the page and yield
// recommend.ErrMetadataUnavailable.
func (c *Client) GameMetadata(ctx context.Context, appID recommend.AppID) (*recommend.Game, error) {
	reqURL := c.cfg.StoreBaseURL + "/app/" + appID.String() + "/"

	resp, err := c.do(ctx, endpointStorePage, reqURL, ageGateCookies)
	if err != nil {
		return nil, fmt.Errorf("store page for %d: %w", appID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, fmt.Errorf("%w: app %d returned %d", recommend.ErrMetadataUnavailable, appID, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, &StatusError{
			Endpoint:   endpointStorePage,
			StatusCode: resp.StatusCode,
			Body:       logging.SanitizeBody(readBodyForError(resp.Body)),
		}
	}

	game, err := ParseStorePage(appID, io.LimitReader(resp.Body, maxStorePageSize))
	if err != nil {
		return nil, err
	}
	return game, nil
}

// ParseStorePage extracts a game record from store page HTML.
func ParseStorePage(appID recommend.AppID, r io.Reader) (*recommend.Game, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: app %d: parse html: %v", recommend.ErrMetadataUnavailable, appID, err)
	}

	name := ""
	if n := findFirst(doc, "div", "apphub_AppName"); n != nil {
		name = textContent(n)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: app %d has no store name", recommend.ErrMetadataUnavailable, appID)
	}

	var tags []string
	for _, n := range findAll(doc, "a", "app_tag") {
		if t := textContent(n); t != "" {
			tags = append(tags, t)
		}
	}
	genres := recommend.NormalizeGenres(tags)

	description := ""
	if n := findFirst(doc, "div", "game_description_snippet"); n != nil {
		description = strings.ToLower(textContent(n))
	}

	price := 0.0
	priceNode := findFirst(doc, "div", "game_purchase_price")
	if priceNode == nil {
		priceNode = findFirst(doc, "div", "discount_final_price")
	}
	if priceNode != nil {
		price = parsePrice(textContent(priceNode))
	}

	year := 0
	if n := findFirst(doc, "div", "date"); n != nil {
		year = parseReleaseYear(textContent(n))
	}

	// Titles without a review summary row have no reviews yet and rate 0.
	rating := 0.0
	if row := findFirst(doc, "div", "user_reviews_summary_row"); row != nil {
		rating = defaultRating
		if n := findFirst(row, "span", "game_review_summary"); n != nil {
			rating = RatingFromSummary(textContent(n))
		}
	}

	game := &recommend.Game{
		ID:          appID,
		Name:        name,
		Genres:      genres,
		Price:       price,
		ReleaseYear: year,
		Online:      mentionsAny(description, genres, onlineKeywords),
		Multiplayer: mentionsAny(description, genres, multiplayerKeywords),
		Rating:      rating,
	}
	if err := game.Validate(); err != nil {
		return nil, fmt.Errorf("%w: app %d: %v", recommend.ErrMetadataUnavailable, appID, err)
	}
	return game, nil
}

// parsePrice keeps the digits of a price label and reads them as cents.
// "Free to Play" and other labels without digits are 0.
func parsePrice(label string) float64 {
	var digits strings.Builder
	for _, r := range label {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	cents, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return float64(cents) / 100
}

// parseReleaseYear reads the last four characters of a release date label
// ("10 Oct, 2007"). Labels such as "Coming soon" are 0.
func parseReleaseYear(label string) int {
	label = strings.TrimSpace(label)
	if len(label) < 4 {
		return 0
	}
	year, err := strconv.Atoi(label[len(label)-4:])
	if err != nil || year < 0 {
		return 0
	}
	return year
}

func mentionsAny(description string, genres, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(description, k) {
			return true
		}
		for _, g := range genres {
			if strings.Contains(g, k) {
				return true
			}
		}
	}
	return false
}

// hasClass reports whether n carries class among its space separated classes.
func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func matches(n *html.Node, tag, class string) bool {
	return n.Type == html.ElementNode && n.Data == tag && hasClass(n, class)
}

func findFirst(root *html.Node, tag, class string) *html.Node {
	if matches(root, tag, class) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := findFirst(c, tag, class); n != nil {
			return n
		}
	}
	return nil
}

func findAll(root *html.Node, tag, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if matches(n, tag, class) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// textContent returns the whitespace-collapsed text below n.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
