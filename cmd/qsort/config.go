package main

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// RunConfig is the YAML-driven wiring for the example binary: which items to
// sort, what criteria to judge them by, the tournament's shape, and which
// judge provider to build. It is deliberately thin; none of it is part of
// the library's supported surface.
type RunConfig struct {
	// Items is the list of texts to rank. Must contain at least two
	// pairwise-distinct entries.
	Items []string `yaml:"items" validate:"required,min=2,unique,dive,required"`
	// Criteria is the natural-language dimension the judge compares on.
	Criteria string `yaml:"criteria" validate:"required"`
	// EliminationCount is the number of losses that eliminates a participant.
	EliminationCount int `yaml:"elimination_count" validate:"min=1"`
	// ComparisonRounds is how many times each scheduled pairing is compared.
	ComparisonRounds int `yaml:"comparison_rounds" validate:"min=1"`
	// MaxConcurrentRequests bounds in-flight judge calls.
	MaxConcurrentRequests int `yaml:"max_concurrent_requests" validate:"min=1"`
	// Seed makes the tournament's pairing order reproducible when set.
	Seed *int64 `yaml:"seed"`
	// Provider selects which judge backend to build: "anthropic", "openai",
	// "google", or "mock" (a deterministic, API-free judge for local runs).
	Provider string `yaml:"provider" validate:"required,oneof=anthropic openai google mock"`
	// Model is the provider-specific model identifier. Ignored by "mock".
	Model string `yaml:"model"`
	// CachePath, when set, persists comparisons as one JSON file per key
	// under this directory across runs. When empty, caching is disabled.
	CachePath string `yaml:"cache_path"`
}

// loadRunConfig reads and validates a RunConfig from a YAML file at path.
func loadRunConfig(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, fmt.Errorf("read config: %w", err)
	}

	var cfg RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RunConfig{}, fmt.Errorf("parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return RunConfig{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
