// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

// Package animatch is the public surface of the reranking and explanation
// engine. Host services build a catalog snapshot and a similarity index in
// batch, construct a Ranker over them, and serve concurrent ranking
// requests from the shared, immutable pair.
//
//	catalog, err := animatch.NewCatalog(rows)
//	index, err := animatch.BuildIndex(catalog, cfg.Ranker.Index)
//	ranker, err := animatch.NewRanker(catalog, index, cfg.Ranker)
//	result, err := ranker.Rank(ctx, animatch.Request{
//	    SeedIDs:   []int{21},
//	    Shortlist: shortlist,
//	    RawScores: scores,
//	    Weights:   weights,
//	})
package animatch

import (
	"io"
	"time"

	"github.com/tomtom215/animatch/internal/catalog"
	"github.com/tomtom215/animatch/internal/config"
	"github.com/tomtom215/animatch/internal/metrics"
	"github.com/tomtom215/animatch/internal/rank"
	"github.com/tomtom215/animatch/internal/textindex"
)

// Item is one catalog row. All attributes except ID are optional.
type Item = catalog.Item

// Catalog is an immutable metadata snapshot keyed by item id.
type Catalog = catalog.Catalog

// Index is an immutable content-similarity index over catalog synopses.
type Index = textindex.Index

// Ranker runs the reranking pipeline.
type Ranker = rank.Ranker

// Request and Result are the ranking request/response pair.
type (
	Request = rank.Request
	Result  = rank.Result
	Mode    = rank.Mode
)

// ExclusionReason is the terminal label assigned to every candidate.
type ExclusionReason = rank.ExclusionReason

// Config is the root configuration loaded by LoadConfig.
type Config = config.Config

// RankerConfig aggregates per-stage pipeline configuration.
type RankerConfig = rank.Config

// IndexConfig holds vocabulary pruning parameters for BuildIndex.
type IndexConfig = textindex.Config

// Ranking modes.
const (
	ModeSeeded       = rank.ModeSeeded
	ModePersonalized = rank.ModePersonalized
)

// Sentinel errors surfaced to hosts.
var (
	ErrEmptyCorpus    = textindex.ErrEmptyCorpus
	ErrSchemaMismatch = textindex.ErrSchemaMismatch
	ErrUnknownMode    = rank.ErrUnknownMode
)

// Ptr returns a pointer to v, for building optional Item fields.
func Ptr[T any](v T) *T { return catalog.Ptr(v) }

// LoadConfig loads configuration from defaults, an optional YAML file, and
// environment variables.
func LoadConfig() (*Config, error) { return config.Load() }

// DefaultRankerConfig returns the default pipeline configuration.
func DefaultRankerConfig() RankerConfig { return rank.DefaultConfig() }

// DefaultIndexConfig returns the default index pruning parameters.
func DefaultIndexConfig() IndexConfig { return textindex.DefaultConfig() }

// NewCatalog builds a validated, canonicalized catalog snapshot.
func NewCatalog(rows []Item) (*Catalog, error) { return catalog.New(rows) }

// BuildIndex builds a similarity index over the catalog. Build is a batch
// operation; the returned index is immutable and shared across requests.
func BuildIndex(c *Catalog, cfg textindex.Config) (*Index, error) {
	start := time.Now()
	idx, err := textindex.Build(c.Items(), cfg)
	if err != nil {
		return nil, err
	}
	metrics.ObserveIndexBuild(start, idx.Len(), idx.VocabularySize())
	return idx, nil
}

// SaveIndex writes the index as a versioned artifact.
func SaveIndex(idx *Index, w io.Writer) error { return idx.Save(w) }

// LoadIndex reads a previously saved artifact, rejecting schema mismatches.
func LoadIndex(r io.Reader) (*Index, error) { return textindex.Load(r) }

// NewRanker constructs a Ranker over immutable snapshots.
func NewRanker(c *Catalog, idx *Index, cfg rank.Config) (*Ranker, error) {
	return rank.New(c, idx, cfg)
}
