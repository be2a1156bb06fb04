// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

package hygiene

import (
	"regexp"
	"strings"

	"github.com/tomtom215/animatch/internal/catalog"
)

// DefaultDisallowedTypes are release types excluded from ranked output.
var DefaultDisallowedTypes = []string{"Special", "Music"}

// badTitlePatterns match recap/digest style releases whose titles mark them
// as derivative cuts of an existing work.
var badTitlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\brecaps?\b`),
	regexp.MustCompile(`(?i)\bdigest\b`),
	regexp.MustCompile(`(?i)\bsummary\b`),
	regexp.MustCompile(`(?i)\bcompilation\b`),
}

// StructuralConfig holds the structural exclusion rules.
type StructuralConfig struct {
	// DisallowedTypes lists release types excluded from ranked output.
	// Default: Special, Music.
	DisallowedTypes []string `koanf:"disallowed_types" json:"disallowed_types"`
}

// DefaultStructuralConfig returns the default structural rules.
func DefaultStructuralConfig() StructuralConfig {
	return StructuralConfig{DisallowedTypes: DefaultDisallowedTypes}
}

func (c StructuralConfig) withDefaults() StructuralConfig {
	if len(c.DisallowedTypes) == 0 {
		c.DisallowedTypes = DefaultDisallowedTypes
	}
	return c
}

// BadTitle reports whether a display title matches a recap/digest pattern.
func BadTitle(title string) bool {
	if strings.TrimSpace(title) == "" {
		return false
	}
	for _, p := range badTitlePatterns {
		if p.MatchString(title) {
			return true
		}
	}
	return false
}

// StructuralExclusions scans catalog items and returns the ids to exclude
// from ranked output along with the structural reason. Type checks take
// precedence over title checks. Items with no type and no title are never
// excluded here; only positive structural evidence removes a row.
func StructuralExclusions(items []catalog.Item, cfg StructuralConfig) map[int]RemovalReason {
	cfg = cfg.withDefaults()

	disallowed := make(map[string]struct{}, len(cfg.DisallowedTypes))
	for _, t := range cfg.DisallowedTypes {
		disallowed[t] = struct{}{}
	}

	out := make(map[int]RemovalReason)
	for _, item := range items {
		if _, bad := disallowed[item.TypeName()]; bad {
			out[item.ID] = ReasonDisallowedType
			continue
		}
		if BadTitle(item.DisplayTitle()) {
			out[item.ID] = ReasonBadTitle
		}
	}
	return out
}
