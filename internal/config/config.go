// Animatch - Anime Recommendation Reranking and Explanation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animatch

// Package config loads Animatch configuration using koanf v2 with layered
// sources: built-in defaults, then an optional YAML file, then environment
// variables. Precedence is ENV > file > defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/animatch/internal/logging"
	"github.com/tomtom215/animatch/internal/rank"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/animatch/config.yaml",
	"/etc/animatch/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Config is the root configuration.
type Config struct {
	Logging logging.Config `koanf:"logging" json:"logging"`
	Ranker  rank.Config    `koanf:"ranker" json:"ranker"`
}

// defaultConfig returns a Config with all default values. These are applied
// first, then overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Logging: logging.DefaultConfig(),
		Ranker:  rank.DefaultConfig(),
	}
}

// Load loads configuration from defaults, an optional YAML file, and
// environment variables, then validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("unknown logging.level %q", c.Logging.Level)
	}
	if err := c.Ranker.Validate(); err != nil {
		return err
	}
	return nil
}

// findConfigFile searches the env override and the default paths, returning
// the first file that exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths defines which config paths are parsed as comma-separated
// slices when supplied via environment variables.
var sliceConfigPaths = []string{
	"ranker.hygiene.blacklist",
	"ranker.structural.disallowed_types",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars arrive as strings while the config expects
// slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unrecognized variables are dropped so unrelated process environment never
// leaks into the configuration.
//
// Examples:
//   - LOG_LEVEL -> logging.level
//   - RANK_MIN_EPISODES -> ranker.admission.min_episodes
//   - RANK_BLACKLIST -> ranker.hygiene.blacklist
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

var envMappings = map[string]string{
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"rank_min_episodes":       "ranker.admission.min_episodes",
	"rank_override_threshold": "ranker.admission.override_threshold",

	"rank_min_members":         "ranker.hygiene.min_members",
	"rank_min_score":           "ranker.hygiene.min_score",
	"rank_max_popularity_rank": "ranker.hygiene.max_popularity_rank",
	"rank_blacklist":           "ranker.hygiene.blacklist",

	"rank_disallowed_types": "ranker.structural.disallowed_types",

	"rank_min_similarity":           "ranker.blend.min_similarity",
	"rank_cold_start_coefficient":   "ranker.blend.cold_start_coefficient",
	"rank_warm_coefficient":         "ranker.blend.warm_coefficient",
	"rank_personalized_coefficient": "ranker.blend.personalized_coefficient",
	"rank_base_penalty":             "ranker.blend.base_penalty",
	"rank_penalty_relief":           "ranker.blend.penalty_relief",

	"index_min_doc_freq":     "ranker.index.min_doc_freq",
	"index_max_doc_fraction": "ranker.index.max_doc_fraction",
	"index_max_vocabulary":   "ranker.index.max_vocabulary",
}
