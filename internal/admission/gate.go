// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

// Package admission decides whether a content-similar candidate is an
// acceptable recommendation for a seed set.
//
// The gate compares the candidate's type against the dominant type of the
// seed set and admits mismatches only when the candidate is long-form or
// when its content similarity is strong enough to justify an override. The
// override exists because the closest content matches for long franchises
// are frequently movies or specials, which a strict type gate would exclude.
package admission

import (
	"sort"

	"github.com/tomtom215/animatch/internal/catalog"
)

const (
	// DefaultMinEpisodes is the episode count at which a candidate of a
	// different type is still admitted.
	DefaultMinEpisodes = 12

	// DefaultOverrideThreshold is the similarity at or above which a
	// gate-failing candidate is admitted anyway.
	DefaultOverrideThreshold = 0.12

	// OverridePenalty is the flat score penalty applied downstream to
	// candidates admitted via the similarity override, so same-type matches
	// are preferred at comparable similarity.
	OverridePenalty = 0.001
)

// Config holds the gate thresholds.
type Config struct {
	// MinEpisodes admits different-type candidates at or above this episode
	// count. Default: 12.
	MinEpisodes int `koanf:"min_episodes" json:"min_episodes"`

	// OverrideThreshold admits gate-failing candidates whose similarity is
	// at or above it. Default: 0.12.
	OverrideThreshold float64 `koanf:"override_threshold" json:"override_threshold"`
}

// DefaultConfig returns the default gate thresholds.
func DefaultConfig() Config {
	return Config{
		MinEpisodes:       DefaultMinEpisodes,
		OverrideThreshold: DefaultOverrideThreshold,
	}
}

func (c Config) withDefaults() Config {
	if c.MinEpisodes <= 0 {
		c.MinEpisodes = DefaultMinEpisodes
	}
	if c.OverrideThreshold <= 0 {
		c.OverrideThreshold = DefaultOverrideThreshold
	}
	return c
}

// Decision records the gate outcome for one candidate.
type Decision struct {
	// Admitted reports whether the candidate may proceed to scoring.
	Admitted bool

	// ViaOverride is set when admission required the similarity override.
	// Such candidates carry OverridePenalty downstream.
	ViaOverride bool
}

// DominantType returns the majority type among the seeds, ignoring seeds
// with no usable type. Ties break to the lexicographically smallest type
// name. The second return is false when no seed has a usable type.
func DominantType(c *catalog.Catalog, seedIDs []int) (string, bool) {
	votes := make(map[string]int)
	for _, id := range seedIDs {
		item, ok := c.Get(id)
		if !ok {
			continue
		}
		if t := item.TypeName(); t != "" {
			votes[t]++
		}
	}
	if len(votes) == 0 {
		return "", false
	}

	types := make([]string, 0, len(votes))
	for t := range votes {
		types = append(types, t)
	}
	sort.Strings(types)

	best := types[0]
	for _, t := range types[1:] {
		if votes[t] > votes[best] {
			best = t
		}
	}
	return best, true
}

// Passes reports whether the candidate clears the type/episode gate: same
// type as the seed (both present), or long-form at minEpisodes or more.
// An unknown seed type degrades to the episode test alone.
func Passes(seedType, candType string, episodes, minEpisodes int) bool {
	if minEpisodes <= 0 {
		minEpisodes = DefaultMinEpisodes
	}
	if seedType != "" && candType != "" && seedType == candType {
		return true
	}
	return episodes >= minEpisodes
}

// HighSimilarityOverride reports whether a gate-failing candidate is
// admitted on similarity alone.
func HighSimilarityOverride(similarity, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultOverrideThreshold
	}
	return similarity >= threshold
}

// Decide runs the full gate for one candidate. Candidates clearing the
// type/episode test are admitted outright; the override only applies to
// candidates that fail it and requires a known similarity.
func Decide(seedType string, item catalog.Item, similarity float64, hasSimilarity bool, cfg Config) Decision {
	cfg = cfg.withDefaults()

	if Passes(seedType, item.TypeName(), item.Episodes(), cfg.MinEpisodes) {
		return Decision{Admitted: true}
	}
	if hasSimilarity && HighSimilarityOverride(similarity, cfg.OverrideThreshold) {
		return Decision{Admitted: true, ViaOverride: true}
	}
	return Decision{}
}
