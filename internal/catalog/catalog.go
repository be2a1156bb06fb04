// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

// Package catalog models the read-only anime metadata store consumed by the
// ranking pipeline.
//
// Upstream feeds are loosely typed: absent columns arrive as empty strings,
// NaNs, or negative sentinels depending on the exporter. This package defines
// one canonical missing representation (a nil pointer) and coerces every
// record into it at the boundary, so downstream stages never re-check for
// NaN/empty-string variants.
package catalog

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Item is a single catalog row. All attributes except ID are optional;
// a nil pointer is the only missing representation downstream code sees.
type Item struct {
	// ID is the unique, immutable item identifier.
	ID int `json:"id" validate:"gt=0"`

	// Title is the display title.
	Title *string `json:"title,omitempty"`

	// Type is the release type (TV, Movie, OVA, ONA, Special, Music).
	Type *string `json:"type,omitempty"`

	// EpisodeCount is the number of episodes.
	EpisodeCount *int `json:"episode_count,omitempty"`

	// MembersCount is the community size tracking the item.
	MembersCount *float64 `json:"members_count,omitempty"`

	// QualityScore is the community score (0-10).
	QualityScore *float64 `json:"quality_score,omitempty"`

	// PopularityRank is the popularity rank; larger means more obscure.
	PopularityRank *int `json:"popularity_rank,omitempty"`

	// Synopsis is the full free-text description.
	Synopsis *string `json:"synopsis,omitempty"`

	// SynopsisShort is a shorter fallback description used when the full
	// synopsis is absent.
	SynopsisShort *string `json:"synopsis_short,omitempty"`

	// Tags is the genre/tag list.
	Tags []string `json:"tags,omitempty"`
}

// TypeName returns the release type, or "" when missing.
func (i Item) TypeName() string {
	if i.Type == nil {
		return ""
	}
	return *i.Type
}

// Episodes returns the episode count, or 0 when missing.
func (i Item) Episodes() int {
	if i.EpisodeCount == nil {
		return 0
	}
	return *i.EpisodeCount
}

// DisplayTitle returns the title, or "" when missing.
func (i Item) DisplayTitle() string {
	if i.Title == nil {
		return ""
	}
	return *i.Title
}

// SynopsisText returns the first non-blank text field in preference order:
// full synopsis, then the short fallback. The second return is false when
// neither yields usable text.
func (i Item) SynopsisText() (string, bool) {
	for _, s := range []*string{i.Synopsis, i.SynopsisShort} {
		if s == nil {
			continue
		}
		if t := strings.TrimSpace(*s); t != "" {
			return t, true
		}
	}
	return "", false
}

// Canonical returns a copy with every optional field coerced to the canonical
// missing representation: blank strings, NaN/Inf numbers, and non-positive
// counts/ranks become nil. Tags are normalized via NormalizeStrings.
func (i Item) Canonical() Item {
	out := Item{ID: i.ID}
	out.Title = cleanString(i.Title)
	out.Type = cleanString(i.Type)
	out.Synopsis = cleanString(i.Synopsis)
	out.SynopsisShort = cleanString(i.SynopsisShort)
	if i.EpisodeCount != nil && *i.EpisodeCount > 0 {
		v := *i.EpisodeCount
		out.EpisodeCount = &v
	}
	if f := cleanFloat(i.MembersCount); f != nil && *f >= 0 {
		out.MembersCount = f
	}
	if f := cleanFloat(i.QualityScore); f != nil {
		out.QualityScore = f
	}
	if i.PopularityRank != nil && *i.PopularityRank > 0 {
		v := *i.PopularityRank
		out.PopularityRank = &v
	}
	out.Tags = NormalizeStrings(i.Tags)
	return out
}

func cleanString(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func cleanFloat(f *float64) *float64 {
	if f == nil || math.IsNaN(*f) || math.IsInf(*f, 0) {
		return nil
	}
	v := *f
	return &v
}

// NormalizeStrings coerces a raw tag/genre value into an ordered, deduplicated
// sequence of trimmed non-empty strings. It accepts a string slice, a
// comma-delimited string, a pointer to either, or nil.
//
// This is the single shared coercion contract; callers must not re-implement
// per-column variants.
func NormalizeStrings(v any) []string {
	var raw []string
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		raw = t
	case *[]string:
		if t == nil {
			return nil
		}
		raw = *t
	case string:
		raw = strings.Split(t, ",")
	case *string:
		if t == nil {
			return nil
		}
		raw = strings.Split(*t, ",")
	default:
		return nil
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Catalog is an immutable snapshot of the metadata store, keyed by item id.
// It is safe for concurrent use after construction.
type Catalog struct {
	items map[int]Item
	ids   []int
}

var validate = validator.New()

// New builds a catalog snapshot from raw rows. Rows are canonicalized at the
// boundary; duplicate or non-positive ids are rejected.
func New(rows []Item) (*Catalog, error) {
	items := make(map[int]Item, len(rows))
	ids := make([]int, 0, len(rows))

	for _, row := range rows {
		if err := validate.Struct(row); err != nil {
			return nil, fmt.Errorf("invalid catalog row %d: %w", row.ID, err)
		}
		if _, dup := items[row.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog id %d", row.ID)
		}
		items[row.ID] = row.Canonical()
		ids = append(ids, row.ID)
	}

	sort.Ints(ids)
	return &Catalog{items: items, ids: ids}, nil
}

// Get returns the item for id.
func (c *Catalog) Get(id int) (Item, bool) {
	item, ok := c.items[id]
	return item, ok
}

// Has reports whether id is present.
func (c *Catalog) Has(id int) bool {
	_, ok := c.items[id]
	return ok
}

// Items returns all items ordered by ascending id.
func (c *Catalog) Items() []Item {
	out := make([]Item, 0, len(c.ids))
	for _, id := range c.ids {
		out = append(out, c.items[id])
	}
	return out
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.ids)
}

// Ptr returns a pointer to v. Convenience for building optional fields.
func Ptr[T any](v T) *T {
	return &v
}
