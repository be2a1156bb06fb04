// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

package catalog

import (
	"math"
	"reflect"
	"testing"
)

func TestNormalizeStrings(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{
			name: "nil input",
			in:   nil,
			want: nil,
		},
		{
			name: "slice passes through trimmed and deduplicated",
			in:   []string{" Action ", "Comedy", "Action", ""},
			want: []string{"Action", "Comedy"},
		},
		{
			name: "delimited string is split",
			in:   "Action, Comedy,,Drama",
			want: []string{"Action", "Comedy", "Drama"},
		},
		{
			name: "pointer to string",
			in:   Ptr("Sci-Fi, Sci-Fi"),
			want: []string{"Sci-Fi"},
		},
		{
			name: "nil string pointer",
			in:   (*string)(nil),
			want: nil,
		},
		{
			name: "order of first occurrence is preserved",
			in:   []string{"b", "a", "b", "c", "a"},
			want: []string{"b", "a", "c"},
		},
		{
			name: "unsupported type yields nothing",
			in:   42,
			want: nil,
		},
		{
			name: "all-blank input yields nothing",
			in:   []string{" ", "", "\t"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeStrings(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeStrings() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestItemCanonical(t *testing.T) {
	tests := []struct {
		name   string
		item   Item
		verify func(t *testing.T, got Item)
	}{
		{
			name: "blank strings become missing",
			item: Item{ID: 1, Type: Ptr("  "), Title: Ptr(""), Synopsis: Ptr(" text ")},
			verify: func(t *testing.T, got Item) {
				if got.Type != nil {
					t.Errorf("Type = %v, want nil", *got.Type)
				}
				if got.Title != nil {
					t.Errorf("Title = %v, want nil", *got.Title)
				}
				if got.Synopsis == nil || *got.Synopsis != "text" {
					t.Errorf("Synopsis = %v, want %q", got.Synopsis, "text")
				}
			},
		},
		{
			name: "NaN and Inf become missing",
			item: Item{ID: 2, MembersCount: Ptr(math.NaN()), QualityScore: Ptr(math.Inf(1))},
			verify: func(t *testing.T, got Item) {
				if got.MembersCount != nil {
					t.Error("MembersCount should be nil for NaN")
				}
				if got.QualityScore != nil {
					t.Error("QualityScore should be nil for Inf")
				}
			},
		},
		{
			name: "non-positive counts become missing",
			item: Item{ID: 3, EpisodeCount: Ptr(0), PopularityRank: Ptr(-5)},
			verify: func(t *testing.T, got Item) {
				if got.EpisodeCount != nil {
					t.Error("EpisodeCount should be nil for 0")
				}
				if got.PopularityRank != nil {
					t.Error("PopularityRank should be nil for negative rank")
				}
			},
		},
		{
			name: "tags are normalized",
			item: Item{ID: 4, Tags: []string{" Action ", "Action", "Drama"}},
			verify: func(t *testing.T, got Item) {
				want := []string{"Action", "Drama"}
				if !reflect.DeepEqual(got.Tags, want) {
					t.Errorf("Tags = %v, want %v", got.Tags, want)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.verify(t, tt.item.Canonical())
		})
	}
}

func TestSynopsisText(t *testing.T) {
	tests := []struct {
		name   string
		item   Item
		want   string
		wantOK bool
	}{
		{
			name:   "full synopsis preferred",
			item:   Item{ID: 1, Synopsis: Ptr("full"), SynopsisShort: Ptr("short")},
			want:   "full",
			wantOK: true,
		},
		{
			name:   "falls back to short synopsis",
			item:   Item{ID: 2, Synopsis: Ptr("   "), SynopsisShort: Ptr("short")},
			want:   "short",
			wantOK: true,
		},
		{
			name:   "no usable text",
			item:   Item{ID: 3},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.item.SynopsisText()
			if ok != tt.wantOK {
				t.Fatalf("SynopsisText() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("SynopsisText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("rejects duplicate ids", func(t *testing.T) {
		_, err := New([]Item{{ID: 1}, {ID: 1}})
		if err == nil {
			t.Fatal("New() should reject duplicate ids")
		}
	})

	t.Run("rejects non-positive ids", func(t *testing.T) {
		_, err := New([]Item{{ID: 0}})
		if err == nil {
			t.Fatal("New() should reject id 0")
		}
	})

	t.Run("items ordered by id", func(t *testing.T) {
		c, err := New([]Item{{ID: 30}, {ID: 10}, {ID: 20}})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		items := c.Items()
		if len(items) != 3 {
			t.Fatalf("len(Items()) = %d, want 3", len(items))
		}
		for i, want := range []int{10, 20, 30} {
			if items[i].ID != want {
				t.Errorf("Items()[%d].ID = %d, want %d", i, items[i].ID, want)
			}
		}
	})

	t.Run("lookup", func(t *testing.T) {
		c, err := New([]Item{{ID: 7, Type: Ptr("TV")}})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		item, ok := c.Get(7)
		if !ok || item.TypeName() != "TV" {
			t.Errorf("Get(7) = %+v, %v", item, ok)
		}
		if c.Has(8) {
			t.Error("Has(8) = true, want false")
		}
	})
}
