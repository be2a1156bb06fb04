// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
	if cfg.Ranker.Admission.MinEpisodes != 12 {
		t.Errorf("Admission.MinEpisodes = %d, want 12", cfg.Ranker.Admission.MinEpisodes)
	}
	if cfg.Ranker.Hygiene.MinMembers != 200 {
		t.Errorf("Hygiene.MinMembers = %v, want 200", cfg.Ranker.Hygiene.MinMembers)
	}
	if cfg.Ranker.Index.MaxVocabulary != 30000 {
		t.Errorf("Index.MaxVocabulary = %d, want 30000", cfg.Ranker.Index.MaxVocabulary)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RANK_MIN_EPISODES", "6")
	t.Setenv("RANK_OVERRIDE_THRESHOLD", "0.2")
	t.Setenv("RANK_BLACKLIST", "10, 20,30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Ranker.Admission.MinEpisodes != 6 {
		t.Errorf("Admission.MinEpisodes = %d, want 6", cfg.Ranker.Admission.MinEpisodes)
	}
	if cfg.Ranker.Admission.OverrideThreshold != 0.2 {
		t.Errorf("Admission.OverrideThreshold = %v, want 0.2", cfg.Ranker.Admission.OverrideThreshold)
	}
	want := []int{10, 20, 30}
	if len(cfg.Ranker.Hygiene.Blacklist) != len(want) {
		t.Fatalf("Blacklist = %v, want %v", cfg.Ranker.Hygiene.Blacklist, want)
	}
	for i, id := range want {
		if cfg.Ranker.Hygiene.Blacklist[i] != id {
			t.Errorf("Blacklist[%d] = %d, want %d", i, cfg.Ranker.Hygiene.Blacklist[i], id)
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := []byte(`
logging:
  level: warn
  format: console
ranker:
  hygiene:
    min_members: 500
  structural:
    disallowed_types:
      - Special
      - Music
      - CM
`)
	if err := os.WriteFile(path, contents, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
	if cfg.Ranker.Hygiene.MinMembers != 500 {
		t.Errorf("Hygiene.MinMembers = %v, want 500", cfg.Ranker.Hygiene.MinMembers)
	}
	if len(cfg.Ranker.Structural.DisallowedTypes) != 3 {
		t.Errorf("DisallowedTypes = %v, want 3 entries", cfg.Ranker.Structural.DisallowedTypes)
	}
	// File values must not clobber untouched defaults.
	if cfg.Ranker.Admission.MinEpisodes != 12 {
		t.Errorf("Admission.MinEpisodes = %d, want 12", cfg.Ranker.Admission.MinEpisodes)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error (env wins over file)", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad log format", key: "LOG_FORMAT", value: "xml"},
		{name: "bad log level", key: "LOG_LEVEL", value: "loud"},
		{name: "override threshold out of range", key: "RANK_OVERRIDE_THRESHOLD", value: "3.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Error("Load() should reject the invalid value")
			}
		})
	}
}

func TestUnrelatedEnvIgnored(t *testing.T) {
	t.Setenv("PATHLIKE_UNRELATED_VAR", "true")

	if _, err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}
