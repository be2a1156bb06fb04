// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

package rank

// Classify assigns the terminal exclusion reason for a candidate from its
// recorded per-stage outcomes. The taxonomy order is fixed and the first
// applicable reason wins; scored is the only non-exclusionary state.
//
// Classification is purely observational. It never alters ranking and never
// re-runs an upstream stage.
func Classify(c Candidate) ExclusionReason {
	switch {
	case !c.InShortlist:
		return ReasonNotInShortlist
	case c.GateFailed && c.HasSimilarity:
		return ReasonLowSimilarity
	case c.OverlapBlocked:
		return ReasonLowOverlap
	case c.GateFailed:
		return ReasonOtherAdmission
	case c.NoVector:
		return ReasonMissingVector
	case c.HygieneReason != "":
		return ReasonQualityFiltered
	default:
		return ReasonScored
	}
}
