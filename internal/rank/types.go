// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

package rank

import "github.com/tomtom215/animatch/internal/hygiene"

// ExclusionReason is the terminal label assigned to every candidate.
// The taxonomy is closed and ordered; classification applies the first
// matching reason.
type ExclusionReason string

const (
	ReasonNotInShortlist  ExclusionReason = "not_in_shortlist"
	ReasonLowSimilarity   ExclusionReason = "blocked_low_semantic_similarity"
	ReasonLowOverlap      ExclusionReason = "blocked_low_overlap"
	ReasonOtherAdmission  ExclusionReason = "blocked_other_admission"
	ReasonMissingVector   ExclusionReason = "missing_semantic_vector"
	ReasonQualityFiltered ExclusionReason = "dropped_by_quality_filters"
	ReasonScored          ExclusionReason = "scored"
)

// AllReasons lists the taxonomy in classification order.
var AllReasons = []ExclusionReason{
	ReasonNotInShortlist,
	ReasonLowSimilarity,
	ReasonLowOverlap,
	ReasonOtherAdmission,
	ReasonMissingVector,
	ReasonQualityFiltered,
	ReasonScored,
}

// Mode selects how a ranking request is anchored.
type Mode string

const (
	// ModeSeeded ranks against a seed item set using content similarity.
	ModeSeeded Mode = "seeded"

	// ModePersonalized ranks from per-user model scores without seeds.
	ModePersonalized Mode = "personalized"
)

// Candidate is the per-request working record for one item. It is
// constructed from upstream raw scores, annotated in place by each pipeline
// stage, and discarded after the response is emitted.
type Candidate struct {
	AnimeID   int                `json:"anime_id"`
	RawScores map[string]float64 `json:"raw_scores,omitempty"`

	// Similarity is the content similarity to the seed set; valid only when
	// HasSimilarity is set.
	Similarity    float64 `json:"similarity"`
	HasSimilarity bool    `json:"has_similarity"`

	// Overlap is the caller-supplied tag overlap with the seeds, when the
	// request uses the overlap admission path.
	Overlap *float64 `json:"overlap,omitempty"`

	// Recorded per-stage outcomes. The classifier reads these without
	// re-running any stage.
	InShortlist    bool                  `json:"in_shortlist"`
	Admitted       bool                  `json:"admitted"`
	ViaOverride    bool                  `json:"via_override"`
	GateFailed     bool                  `json:"gate_failed"`
	OverlapBlocked bool                  `json:"overlap_blocked"`
	NoVector       bool                  `json:"no_vector"`
	HygieneReason  hygiene.RemovalReason `json:"hygiene_reason,omitempty"`

	FinalScore float64            `json:"final_score"`
	Shares     map[string]float64 `json:"contribution_shares"`
	Reason     ExclusionReason    `json:"exclusion_reason"`
}

// Request is one ranking request.
type Request struct {
	// RequestID correlates logs and diagnostics; generated when empty.
	RequestID string `json:"request_id,omitempty"`

	// Mode defaults to seeded when seed ids are present, personalized
	// otherwise.
	Mode Mode `json:"mode,omitempty"`

	// SeedIDs anchor seeded requests. Seeds absent from the index are
	// skipped without error.
	SeedIDs []int `json:"seed_ids,omitempty"`

	// Shortlist is the candidate ids produced upstream. Only shortlist
	// members can be scored.
	Shortlist []int `json:"shortlist"`

	// Audit lists extra ids to label without scoring; they report
	// not_in_shortlist.
	Audit []int `json:"audit,omitempty"`

	// RawScores maps item id to signal name to raw model output.
	RawScores map[int]map[string]float64 `json:"raw_scores,omitempty"`

	// Weights maps signal name to its blend weight. Supplied by the caller
	// and never re-normalized.
	Weights map[string]float64 `json:"weights,omitempty"`

	// MinOverlap, when set, blocks candidates whose Overlap value is below
	// it. Used by non-text-similarity admission paths.
	MinOverlap *float64 `json:"min_overlap,omitempty"`

	// Overlap maps item id to the caller-computed tag overlap with the
	// seeds. Missing entries count as zero overlap.
	Overlap map[int]float64 `json:"overlap,omitempty"`

	// K truncates the returned item list when positive. Diagnostics still
	// cover every candidate.
	K int `json:"k,omitempty"`
}

// RankedItem is one entry of the ranked output list.
type RankedItem struct {
	AnimeID    int                `json:"anime_id"`
	FinalScore float64            `json:"final_score"`
	Shares     map[string]float64 `json:"contribution_shares"`
	Reason     ExclusionReason    `json:"exclusion_reason"`
}

// Summary is the per-request diagnostics rollup for offline auditing.
type Summary struct {
	// ByReason counts candidates per terminal reason.
	ByReason map[ExclusionReason]int `json:"by_reason"`

	// OverrideAdmissions counts candidates admitted via the
	// high-similarity override.
	OverrideAdmissions int `json:"override_admissions"`
}

// Result is a complete ranking response.
type Result struct {
	RequestID string       `json:"request_id"`
	Mode      Mode         `json:"mode"`
	Items     []RankedItem `json:"items"`
	Summary   Summary      `json:"summary"`
}
