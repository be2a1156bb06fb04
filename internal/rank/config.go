// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

package rank

import (
	"fmt"

	"github.com/tomtom215/animatch/internal/admission"
	"github.com/tomtom215/animatch/internal/blend"
	"github.com/tomtom215/animatch/internal/hygiene"
	"github.com/tomtom215/animatch/internal/textindex"
)

// Config aggregates the per-stage configuration of the pipeline.
type Config struct {
	Admission  admission.Config         `koanf:"admission" json:"admission"`
	Hygiene    hygiene.Config           `koanf:"hygiene" json:"hygiene"`
	Structural hygiene.StructuralConfig `koanf:"structural" json:"structural"`
	Blend      blend.Config             `koanf:"blend" json:"blend"`
	Index      textindex.Config         `koanf:"index" json:"index"`
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Admission:  admission.DefaultConfig(),
		Hygiene:    hygiene.DefaultConfig(),
		Structural: hygiene.DefaultStructuralConfig(),
		Blend:      blend.DefaultConfig(),
		Index:      textindex.DefaultConfig(),
	}
}

// Validate rejects configurations that cannot produce meaningful rankings.
func (c Config) Validate() error {
	if c.Admission.MinEpisodes < 0 {
		return fmt.Errorf("admission.min_episodes must not be negative, got %d", c.Admission.MinEpisodes)
	}
	if c.Admission.OverrideThreshold < 0 || c.Admission.OverrideThreshold > 1 {
		return fmt.Errorf("admission.override_threshold must be in [0,1], got %v", c.Admission.OverrideThreshold)
	}
	if c.Hygiene.MinMembers < 0 {
		return fmt.Errorf("hygiene.min_members must not be negative, got %v", c.Hygiene.MinMembers)
	}
	if c.Hygiene.MaxPopularityRank < 0 {
		return fmt.Errorf("hygiene.max_popularity_rank must not be negative, got %d", c.Hygiene.MaxPopularityRank)
	}
	if c.Blend.MinSimilarity < 0 || c.Blend.MinSimilarity > 1 {
		return fmt.Errorf("blend.min_similarity must be in [0,1], got %v", c.Blend.MinSimilarity)
	}
	if c.Blend.BasePenalty < 0 || c.Blend.BasePenalty > 1 {
		return fmt.Errorf("blend.base_penalty must be in [0,1], got %v", c.Blend.BasePenalty)
	}
	if c.Index.MaxDocFraction < 0 || c.Index.MaxDocFraction > 1 {
		return fmt.Errorf("index.max_doc_fraction must be in [0,1], got %v", c.Index.MaxDocFraction)
	}
	return nil
}
