// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

// Package metrics exposes Prometheus instrumentation for the ranking
// pipeline: request throughput and latency, per-reason exclusion counts,
// override admissions, and index build statistics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ranking request metrics
	RankRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animatch_rank_requests_total",
			Help: "Total number of ranking requests",
		},
		[]string{"mode"}, // "seeded", "personalized"
	)

	RankDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "animatch_rank_duration_seconds",
			Help:    "Ranking request duration in seconds",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"mode"},
	)

	RankCandidatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animatch_rank_candidates_total",
			Help: "Total number of candidates labeled, by terminal exclusion reason",
		},
		[]string{"reason"},
	)

	OverrideAdmissionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "animatch_override_admissions_total",
			Help: "Total number of candidates admitted via the high-similarity override",
		},
	)

	// Index build metrics
	IndexBuildsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "animatch_index_builds_total",
			Help: "Total number of similarity index builds",
		},
	)

	IndexBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "animatch_index_build_duration_seconds",
			Help:    "Similarity index build duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	IndexDocuments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "animatch_index_documents",
			Help: "Number of documents in the active similarity index",
		},
	)

	IndexVocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "animatch_index_vocabulary_terms",
			Help: "Number of vocabulary terms in the active similarity index",
		},
	)
)

// ObserveRank records one completed ranking request.
func ObserveRank(mode string, start time.Time) {
	RankRequestsTotal.WithLabelValues(mode).Inc()
	RankDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
}

// ObserveIndexBuild records one completed index build.
func ObserveIndexBuild(start time.Time, documents, terms int) {
	IndexBuildsTotal.Inc()
	IndexBuildDuration.Observe(time.Since(start).Seconds())
	IndexDocuments.Set(float64(documents))
	IndexVocabularySize.Set(float64(terms))
}
