// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

// Package hygiene removes catalog rows too unreliable to recommend.
//
// Two independent passes exist. The numeric pass (PassesQuality,
// FilterCandidates) applies confidence thresholds over community signals.
// The structural pass (StructuralExclusions) inspects release type and title
// text only and carries no numeric thresholds. Both report precedence-stable
// removal reasons so identical inputs always produce identical diagnostics.
package hygiene

import (
	"sort"

	"github.com/tomtom215/animatch/internal/catalog"
)

// RemovalReason is the diagnostic detail attached to a removed candidate.
type RemovalReason string

const (
	ReasonBlacklisted        RemovalReason = "blacklisted"
	ReasonLowMembers         RemovalReason = "low_members"
	ReasonLowScore           RemovalReason = "low_score"
	ReasonHighPopularityRank RemovalReason = "high_popularity_rank"
	ReasonMissingSynopsis    RemovalReason = "missing_synopsis"
	ReasonNotInMetadata      RemovalReason = "not_in_metadata"
	ReasonDisallowedType     RemovalReason = "disallowed_type"
	ReasonBadTitle           RemovalReason = "bad_title"
)

const (
	DefaultMinMembers        = 200.0
	DefaultMinScore          = 4.0
	DefaultMaxPopularityRank = 23000
)

// Config holds the numeric thresholds and the id blacklist.
type Config struct {
	// MinMembers is the minimum community size. A missing members count
	// disqualifies. Default: 200.
	MinMembers float64 `koanf:"min_members" json:"min_members"`

	// MinScore is the minimum community score. A missing score does not
	// disqualify. Default: 4.0.
	MinScore float64 `koanf:"min_score" json:"min_score"`

	// MaxPopularityRank is the maximum rank; larger rank numbers mean more
	// obscure items. A missing rank does not disqualify. Default: 23000.
	MaxPopularityRank int `koanf:"max_popularity_rank" json:"max_popularity_rank"`

	// Blacklist is a fixed set of known-bad row ids.
	Blacklist []int `koanf:"blacklist" json:"blacklist"`
}

// DefaultConfig returns the default thresholds with an empty blacklist.
func DefaultConfig() Config {
	return Config{
		MinMembers:        DefaultMinMembers,
		MinScore:          DefaultMinScore,
		MaxPopularityRank: DefaultMaxPopularityRank,
	}
}

func (c Config) withDefaults() Config {
	if c.MinMembers <= 0 {
		c.MinMembers = DefaultMinMembers
	}
	if c.MinScore <= 0 {
		c.MinScore = DefaultMinScore
	}
	if c.MaxPopularityRank <= 0 {
		c.MaxPopularityRank = DefaultMaxPopularityRank
	}
	return c
}

func (c Config) blacklisted(id int) bool {
	for _, b := range c.Blacklist {
		if b == id {
			return true
		}
	}
	return false
}

// PassesQuality reports whether a catalog row clears the numeric thresholds.
// Missing score or rank never disqualifies; it supports cold-start items with
// no accumulated signal. A missing members count does disqualify.
func PassesQuality(item catalog.Item, cfg Config) bool {
	cfg = cfg.withDefaults()

	if cfg.blacklisted(item.ID) {
		return false
	}
	if item.MembersCount == nil || *item.MembersCount < cfg.MinMembers {
		return false
	}
	if item.QualityScore != nil && *item.QualityScore < cfg.MinScore {
		return false
	}
	if item.PopularityRank != nil && *item.PopularityRank > cfg.MaxPopularityRank {
		return false
	}
	return true
}

// Removal tags one removed candidate with its reason.
type Removal struct {
	AnimeID int           `json:"anime_id"`
	Reason  RemovalReason `json:"reason"`
}

// FilterCandidates splits candidate ids into kept and removed lists. Removal
// reasons are re-derived in a fixed precedence order (blacklist, members,
// score, popularity rank, missing synopsis) rather than taken from whichever
// check happened to short-circuit, so diagnostics stay stable. Ids absent
// from the catalog are removed with ReasonNotInMetadata.
func FilterCandidates(ids []int, c *catalog.Catalog, cfg Config) (kept []int, removed []Removal) {
	cfg = cfg.withDefaults()
	kept = make([]int, 0, len(ids))

	for _, id := range ids {
		item, ok := c.Get(id)
		if !ok {
			removed = append(removed, Removal{AnimeID: id, Reason: ReasonNotInMetadata})
			continue
		}
		if reason, drop := removalReason(item, cfg); drop {
			removed = append(removed, Removal{AnimeID: id, Reason: reason})
			continue
		}
		kept = append(kept, id)
	}
	return kept, removed
}

// removalReason derives the precedence-ordered reason for a failing row.
// The missing-synopsis check sits below every numeric threshold: a row that
// clears them but has no usable text is still unexplainable and is dropped.
func removalReason(item catalog.Item, cfg Config) (RemovalReason, bool) {
	switch {
	case cfg.blacklisted(item.ID):
		return ReasonBlacklisted, true
	case item.MembersCount == nil || *item.MembersCount < cfg.MinMembers:
		return ReasonLowMembers, true
	case item.QualityScore != nil && *item.QualityScore < cfg.MinScore:
		return ReasonLowScore, true
	case item.PopularityRank != nil && *item.PopularityRank > cfg.MaxPopularityRank:
		return ReasonHighPopularityRank, true
	}
	if _, ok := item.SynopsisText(); !ok {
		return ReasonMissingSynopsis, true
	}
	return "", false
}

// SortRemovals orders removals by ascending id for deterministic output.
func SortRemovals(removals []Removal) {
	sort.Slice(removals, func(i, j int) bool {
		return removals[i].AnimeID < removals[j].AnimeID
	})
}
