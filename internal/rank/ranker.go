// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

package rank

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/animatch/internal/admission"
	"github.com/tomtom215/animatch/internal/blend"
	"github.com/tomtom215/animatch/internal/catalog"
	"github.com/tomtom215/animatch/internal/hygiene"
	"github.com/tomtom215/animatch/internal/logging"
	"github.com/tomtom215/animatch/internal/metrics"
)

// ErrUnknownMode is returned for a request whose mode is neither seeded nor
// personalized.
var ErrUnknownMode = errors.New("rank: unknown request mode")

// SimilaritySource answers content-similarity queries against an immutable
// index snapshot. *textindex.Index satisfies it.
type SimilaritySource interface {
	// SimilarityToSeeds returns the max cosine similarity of every indexed
	// non-seed item to the seed set.
	SimilarityToSeeds(seedIDs []int) map[int]float64

	// Has reports whether the item has a semantic vector.
	Has(id int) bool
}

// Ranker runs the reranking pipeline over immutable catalog and index
// snapshots. It holds no mutable state and is safe for concurrent use.
type Ranker struct {
	catalog     *catalog.Catalog
	sims        SimilaritySource
	structural  map[int]hygiene.RemovalReason
	cfg         Config
	minEpisodes int
	logger      zerolog.Logger
}

// New constructs a Ranker. Construction errors are fatal; they indicate a
// misconfigured host, not a bad request.
func New(c *catalog.Catalog, sims SimilaritySource, cfg Config) (*Ranker, error) {
	if c == nil {
		return nil, errors.New("rank: nil catalog")
	}
	if sims == nil {
		return nil, errors.New("rank: nil similarity source")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("rank: invalid config: %w", err)
	}

	minEpisodes := cfg.Admission.MinEpisodes
	if minEpisodes <= 0 {
		minEpisodes = admission.DefaultMinEpisodes
	}

	return &Ranker{
		catalog:     c,
		sims:        sims,
		structural:  hygiene.StructuralExclusions(c.Items(), cfg.Structural),
		cfg:         cfg,
		minEpisodes: minEpisodes,
		logger:      logging.With().Str("component", "rank").Logger(),
	}, nil
}

// Rank runs the full pipeline for one request. Request-time anomalies
// (unknown seeds, ids missing from the catalog, zero scores) are absorbed
// into the diagnostic taxonomy; the only failure modes are context
// cancellation and an unknown mode.
func (r *Ranker) Rank(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	mode, err := resolveMode(req)
	if err != nil {
		return nil, err
	}
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	logger := r.logger.With().Str("request_id", requestID).Str("mode", string(mode)).Logger()

	seeded := mode == ModeSeeded
	similarity := map[int]float64{}
	seedType := ""
	if seeded {
		similarity = r.sims.SimilarityToSeeds(req.SeedIDs)
		seedType, _ = admission.DominantType(r.catalog, req.SeedIDs)
	}

	_, removals := hygiene.FilterCandidates(req.Shortlist, r.catalog, r.cfg.Hygiene)
	removedBy := make(map[int]hygiene.RemovalReason, len(removals))
	for _, rm := range removals {
		removedBy[rm.AnimeID] = rm.Reason
	}

	candidates := r.buildCandidates(req, mode, seedType, similarity, removedBy)

	summary := Summary{ByReason: make(map[ExclusionReason]int, len(AllReasons))}
	items := make([]RankedItem, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		c.Reason = Classify(*c)
		summary.ByReason[c.Reason]++
		if c.ViaOverride && c.Admitted {
			summary.OverrideAdmissions++
		}
		metrics.RankCandidatesTotal.WithLabelValues(string(c.Reason)).Inc()
		items = append(items, RankedItem{
			AnimeID:    c.AnimeID,
			FinalScore: c.FinalScore,
			Shares:     c.Shares,
			Reason:     c.Reason,
		})
	}
	metrics.OverrideAdmissionsTotal.Add(float64(summary.OverrideAdmissions))

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].FinalScore != items[j].FinalScore {
			return items[i].FinalScore > items[j].FinalScore
		}
		return items[i].AnimeID < items[j].AnimeID
	})
	if req.K > 0 && len(items) > req.K {
		items = items[:req.K]
	}

	metrics.ObserveRank(string(mode), start)
	logger.Debug().
		Int("candidates", len(candidates)).
		Int("scored", summary.ByReason[ReasonScored]).
		Int("override_admissions", summary.OverrideAdmissions).
		Dur("elapsed", time.Since(start)).
		Msg("ranking complete")

	return &Result{RequestID: requestID, Mode: mode, Items: items, Summary: summary}, nil
}

// buildCandidates runs admission, hygiene annotation, and blending for the
// shortlist plus any audit-only ids.
func (r *Ranker) buildCandidates(req Request, mode Mode, seedType string, similarity map[int]float64, removedBy map[int]hygiene.RemovalReason) []Candidate {
	inShortlist := make(map[int]struct{}, len(req.Shortlist))
	ids := make([]int, 0, len(req.Shortlist)+len(req.Audit))
	for _, id := range req.Shortlist {
		if _, dup := inShortlist[id]; dup {
			continue
		}
		inShortlist[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, id := range req.Audit {
		if _, dup := inShortlist[id]; !dup {
			ids = append(ids, id)
		}
	}

	out := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		c := Candidate{
			AnimeID:   id,
			RawScores: req.RawScores[id],
			Shares:    map[string]float64{},
		}
		if sim, ok := similarity[id]; ok {
			c.Similarity = sim
			c.HasSimilarity = true
		}
		c.NoVector = !r.sims.Has(id)
		if _, ok := inShortlist[id]; !ok {
			out = append(out, c)
			continue
		}
		c.InShortlist = true

		item, known := r.catalog.Get(id)
		shortForm := false
		if known {
			shortForm = item.Episodes() < r.minEpisodes
			if mode == ModeSeeded {
				decision := admission.Decide(seedType, item, c.Similarity, c.HasSimilarity, r.cfg.Admission)
				c.GateFailed = !decision.Admitted
				c.ViaOverride = decision.ViaOverride
			}
		}
		if req.MinOverlap != nil {
			ov := req.Overlap[id]
			c.Overlap = &ov
			if ov < *req.MinOverlap {
				c.OverlapBlocked = true
			}
		}
		c.Admitted = !c.GateFailed && !c.OverlapBlocked

		if reason, ok := r.structural[id]; ok {
			c.HygieneReason = reason
		} else if reason, ok := removedBy[id]; ok {
			c.HygieneReason = reason
		}

		// Hygiene-dropped rows keep a zero score; every other shortlist
		// member gets a computed score so blocked candidates stay auditable.
		if c.HygieneReason == "" {
			res := blend.Score(blend.Inputs{
				RawScores:     c.RawScores,
				Weights:       req.Weights,
				Similarity:    c.Similarity,
				HasSimilarity: c.HasSimilarity,
				Admitted:      c.Admitted,
				ViaOverride:   c.ViaOverride,
				ShortForm:     shortForm,
				Personalized:  mode == ModePersonalized,
			}, r.cfg.Blend)
			c.FinalScore = res.Final
			c.Shares = res.Shares
		}

		out = append(out, c)
	}
	return out
}

// resolveMode defaults an empty mode from the presence of seed ids.
func resolveMode(req Request) (Mode, error) {
	switch req.Mode {
	case ModeSeeded, ModePersonalized:
		return req.Mode, nil
	case "":
		if len(req.SeedIDs) > 0 {
			return ModeSeeded, nil
		}
		return ModePersonalized, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, req.Mode)
	}
}
