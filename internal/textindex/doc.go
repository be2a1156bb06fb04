// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

// Package textindex builds and queries a sparse TF-IDF vector space over
// catalog synopses.
//
// # Construction
//
// Build selects, per item, the first non-blank text field (full synopsis,
// then the short fallback), tokenizes with a fixed lowercase alphabetic
// rule, and produces unigram+bigram counts. Term weights use sublinear
// term frequency (1+ln tf) with smoothed inverse document frequency.
// Terms outside the [min document frequency, max document fraction] band
// are pruned and the vocabulary is capped by corpus frequency. Every row
// vector is L2-normalized so cosine similarity reduces to a dot product.
//
// # Determinism
//
// Items are sorted by id before indexing and vocabulary selection breaks
// ties lexicographically, so two builds over the same snapshot produce
// bit-identical indexes.
//
// # Immutability
//
// An Index never changes after Build returns. Rebuilds produce a new
// instance; callers swap references and in-flight queries against the old
// index complete unaffected. All query methods are safe for concurrent use.
//
// # Persistence
//
// Save/Load serialize the index as a versioned artifact: a JSON manifest
// carrying a schema tag and SHA-256 checksum, followed by gzip-compressed
// gob model bytes. Load rejects artifacts whose schema tag does not match
// (ErrSchemaMismatch) and never silently coerces.
package textindex
