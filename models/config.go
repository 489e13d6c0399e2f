// Package models defines recipe records and pipeline configuration.
package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds pipeline tuning loaded from an optional YAML file.
// Paths and runtime knobs come from CLI flags instead.
type Config struct {
	Similarity SimilarityConfig   `yaml:"similarity"`
	Features   FeaturesConfig     `yaml:"features"`
	Scrape     ScrapeConfig       `yaml:"scrape"`
	Units      map[string]float64 `yaml:"units,omitempty"`
	Fractions  map[string]string  `yaml:"fractions,omitempty"`
}

// SimilarityConfig controls ingredient name merging.
type SimilarityConfig struct {
	Threshold  float64 `yaml:"threshold"`
	Scorer     string  `yaml:"scorer"`
	Transitive bool    `yaml:"transitive"`
}

// FeaturesConfig controls the binarized feature table.
type FeaturesConfig struct {
	MinFrequency     int      `yaml:"min_frequency"`
	DropColumns      []string `yaml:"drop_columns"`
	NormalizeColumns []string `yaml:"normalize_columns"`
}

// ScrapeConfig holds defaults for the scrape command.
type ScrapeConfig struct {
	Filter      string        `yaml:"filter"`
	WorkerCount int           `yaml:"workers"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
	Images      bool          `yaml:"images"`
}

// DefaultConfig returns the settings the tool runs with when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Similarity: SimilarityConfig{
			Threshold: 0.75,
			Scorer:    "lcs",
		},
		Features: FeaturesConfig{
			MinFrequency:     5,
			DropColumns:      []string{ColURL, ColTitle, ColImagePaths},
			NormalizeColumns: append([]string(nil), NumericColumns...),
		},
		Scrape: ScrapeConfig{
			Filter:      "/everyday-cooking/",
			WorkerCount: 4,
			CacheTTL:    24 * time.Hour,
			Images:      true,
		},
	}
}

// LoadConfig reads a YAML config over the defaults. An empty path returns
// the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Similarity.Threshold < 0 || c.Similarity.Threshold > 1 {
		return fmt.Errorf("similarity.threshold must be within [0,1], got %v", c.Similarity.Threshold)
	}
	if c.Features.MinFrequency < 0 {
		return fmt.Errorf("features.min_frequency must not be negative, got %d", c.Features.MinFrequency)
	}
	if c.Scrape.WorkerCount < 0 {
		return fmt.Errorf("scrape.workers must not be negative, got %d", c.Scrape.WorkerCount)
	}
	for unit, factor := range c.Units {
		if factor <= 0 {
			return fmt.Errorf("units.%s must be positive, got %v", unit, factor)
		}
	}
	return nil
}
