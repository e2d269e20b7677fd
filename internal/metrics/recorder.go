// Steam Waiter - Game Recommendations from Steam Ownership Graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/steamwaiter

package metrics

import (
	"time"

	"github.com/tomtom215/steamwaiter/internal/recommend"
)

// Recorder feeds engine observations into the Prometheus collectors.
type Recorder struct{}

// NewRecorder returns a recommend.Recorder backed by the package collectors.
func NewRecorder() *Recorder {
	return &Recorder{}
}

var _ recommend.Recorder = (*Recorder)(nil)

// ObserveCrawl records the outcome of one network crawl.
func (r *Recorder) ObserveCrawl(stats recommend.BuildStats) {
	CrawlDuration.Observe(stats.Duration.Seconds())
	CrawlGames.Observe(float64(stats.Games))
	CrawlEdgesTotal.Add(float64(stats.Edges))
	CrawlFetchErrors.Add(float64(stats.FetchErrors))
	CrawlMetadataSkipped.Add(float64(stats.MetadataSkipped))
	if stats.Reason != "" {
		CrawlStops.WithLabelValues(stats.Reason).Inc()
	}
}

// ObserveRecommendation records one finished recommendation request.
func (r *Recorder) ObserveRecommendation(outcome string, d time.Duration) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationDuration.Observe(d.Seconds())
}
