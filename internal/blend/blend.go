// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

// Package blend merges heterogeneous raw signal scores into one explainable
// final score with a normalized per-signal contribution breakdown.
//
// The blender is agnostic to weight provenance. Weights are supplied by the
// caller, expected to sum to at most 1, and never re-normalized here. Given
// identical inputs the output is bit-identical; there is no randomness.
package blend

import "sort"

// Well-known signal names supplied by upstream models.
const (
	SignalCollaborative = "mf"
	SignalNeighborhood  = "knn"
	SignalPopularity    = "pop"
)

const (
	// MinSimilarity is the floor below which content similarity contributes
	// no bonus.
	MinSimilarity = 0.02

	// ColdStartCoefficient scales the content bonus when no trained
	// collaborative score exists for the candidate.
	ColdStartCoefficient = 2.00

	// WarmCoefficient scales the content bonus for candidates with a
	// collaborative score.
	WarmCoefficient = 0.50

	// PersonalizedCoefficient scales the content bonus in personalized
	// (non-seed-based) ranking.
	PersonalizedCoefficient = 0.50

	// BasePenalty is the starting penalty for gate-failing short-form
	// candidates, before similarity relief.
	BasePenalty = 0.75

	// PenaltyRelief scales how much similarity softens BasePenalty. The
	// penalty is clamped so relief can never flip it into a bonus.
	PenaltyRelief = 1.0

	// OverridePenalty is subtracted from candidates admitted via the
	// high-similarity override.
	OverridePenalty = 0.001
)

// Config holds the blend coefficients.
type Config struct {
	MinSimilarity           float64 `koanf:"min_similarity" json:"min_similarity"`
	ColdStartCoefficient    float64 `koanf:"cold_start_coefficient" json:"cold_start_coefficient"`
	WarmCoefficient         float64 `koanf:"warm_coefficient" json:"warm_coefficient"`
	PersonalizedCoefficient float64 `koanf:"personalized_coefficient" json:"personalized_coefficient"`
	BasePenalty             float64 `koanf:"base_penalty" json:"base_penalty"`
	PenaltyRelief           float64 `koanf:"penalty_relief" json:"penalty_relief"`
}

// DefaultConfig returns the default blend coefficients.
func DefaultConfig() Config {
	return Config{
		MinSimilarity:           MinSimilarity,
		ColdStartCoefficient:    ColdStartCoefficient,
		WarmCoefficient:         WarmCoefficient,
		PersonalizedCoefficient: PersonalizedCoefficient,
		BasePenalty:             BasePenalty,
		PenaltyRelief:           PenaltyRelief,
	}
}

func (c Config) withDefaults() Config {
	if c.MinSimilarity <= 0 {
		c.MinSimilarity = MinSimilarity
	}
	if c.ColdStartCoefficient <= 0 {
		c.ColdStartCoefficient = ColdStartCoefficient
	}
	if c.WarmCoefficient <= 0 {
		c.WarmCoefficient = WarmCoefficient
	}
	if c.PersonalizedCoefficient <= 0 {
		c.PersonalizedCoefficient = PersonalizedCoefficient
	}
	if c.BasePenalty <= 0 {
		c.BasePenalty = BasePenalty
	}
	if c.PenaltyRelief <= 0 {
		c.PenaltyRelief = PenaltyRelief
	}
	return c
}

// Inputs carries everything the blender needs for one candidate. Upstream
// stage outcomes arrive as recorded facts; the blender never re-runs the
// gate or the index.
type Inputs struct {
	// RawScores maps signal name to the raw model output. Absent signals
	// simply contribute nothing.
	RawScores map[string]float64

	// Weights maps signal name to its caller-supplied blend weight.
	Weights map[string]float64

	// Similarity is the content similarity to the seed set; valid only when
	// HasSimilarity is set.
	Similarity    float64
	HasSimilarity bool

	// Admitted and ViaOverride record the gate outcome.
	Admitted    bool
	ViaOverride bool

	// ShortForm marks candidates below the gate's episode minimum.
	ShortForm bool

	// Personalized marks non-seed-based ranking requests.
	Personalized bool
}

// Result is the blended score with its explanation.
type Result struct {
	// Final is the blended score.
	Final float64

	// Shares is the normalized per-signal contribution breakdown. All
	// shares are zero when the weighted base sum is exactly zero.
	Shares map[string]float64
}

// Score blends the raw signals, the content bonus or penalty, and the
// override penalty into one final score.
func Score(in Inputs, cfg Config) Result {
	cfg = cfg.withDefaults()

	base := 0.0
	for _, name := range signalNames(in.RawScores) {
		base += in.Weights[name] * in.RawScores[name]
	}

	final := base
	switch {
	case !in.Admitted && in.ShortForm:
		final -= penalty(in, cfg)
	case in.HasSimilarity && in.Similarity >= cfg.MinSimilarity:
		final += contentCoefficient(in, cfg) * in.Similarity
	}
	if in.ViaOverride {
		final -= OverridePenalty
	}

	return Result{Final: final, Shares: Shares(in.RawScores, in.Weights)}
}

// contentCoefficient picks the bonus multiplier. Cold-start candidates,
// which have no trained collaborative score to speak for them, lean harder
// on content similarity.
func contentCoefficient(in Inputs, cfg Config) float64 {
	if in.Personalized {
		return cfg.PersonalizedCoefficient
	}
	if in.RawScores[SignalCollaborative] == 0 {
		return cfg.ColdStartCoefficient
	}
	return cfg.WarmCoefficient
}

// penalty computes the bounded adjustment for gate-failing short-form
// candidates. Similarity softens the base penalty but the clamp keeps the
// result in [0, 1]; it can never become a bonus.
func penalty(in Inputs, cfg Config) float64 {
	sim := 0.0
	if in.HasSimilarity {
		sim = in.Similarity
	}
	p := cfg.BasePenalty - cfg.PenaltyRelief*sim
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Shares computes the normalized contribution of each signal to the weighted
// base sum. When the denominator is exactly zero every share is zero; there
// is no division by zero and no undefined share reported to callers.
func Shares(raw, weights map[string]float64) map[string]float64 {
	shares := make(map[string]float64, len(raw))

	var total float64
	for name, score := range raw {
		total += weights[name] * score
	}
	if total == 0 {
		for name := range raw {
			shares[name] = 0
		}
		return shares
	}
	for name, score := range raw {
		shares[name] = weights[name] * score / total
	}
	return shares
}

// signalNames returns raw-score keys in sorted order so float accumulation
// is deterministic across runs.
func signalNames(raw map[string]float64) []string {
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
