// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

// Package rank runs the four-stage reranking pipeline and labels every
// candidate with a terminal exclusion reason.
//
// # Pipeline
//
// Candidate ids arrive from upstream models together with raw per-signal
// scores. The admission gate annotates type/episode eligibility and the
// high-similarity override, the hygiene passes remove unreliable catalog
// rows, the blender computes the final score with per-signal contribution
// shares, and the diagnostic classifier assigns exactly one reason from a
// closed taxonomy to every candidate that entered the pipeline, including
// ones dropped before scoring.
//
// # Error policy
//
// Construction errors are fatal: a Ranker with a nil catalog or similarity
// source is refused. Request-time anomalies (unknown seeds, missing ids,
// zero scores) are absorbed into the diagnostic taxonomy and never abort a
// request; a partial, explainable result is always preferred over a hard
// failure.
//
// # Concurrency
//
// A Ranker operates over immutable snapshots and holds no mutable state, so
// one instance serves concurrent requests without locking. Adopting a
// rebuilt index or catalog means constructing a new Ranker.
package rank
