// Package config loads YAML-backed configuration for a ChunkSet and its
// optional value-distribution instrumentation.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ChunkSetConfig configures one ChunkSet instance.
type ChunkSetConfig struct {
	// ChunkCount is the number of ring slots, C.
	ChunkCount uint32 `yaml:"chunk_count"`

	// ChunkLengthMillis is the length of each slot, L, in milliseconds.
	ChunkLengthMillis int64 `yaml:"chunk_length_millis"`

	// Percentile configures optional DDSketch value-distribution
	// tracking over stored numeric values.
	Percentile PercentileConfig `yaml:"percentile"`
}

// PercentileConfig configures DDSketch-backed value distribution
// tracking (internal/metrics.ValueDistribution).
type PercentileConfig struct {
	// Enabled turns on value-distribution tracking.
	Enabled bool `yaml:"enabled"`

	// Accuracy is the DDSketch relative accuracy, e.g. 0.01 for 1%.
	Accuracy float64 `yaml:"accuracy"`
}

// Load reads and validates a ChunkSetConfig from a YAML file at path.
func Load(path string) (*ChunkSetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a ChunkSetConfig with sensible defaults: a
// ring covering roughly 24h in 15-minute slots, percentile tracking
// enabled at 1% relative accuracy.
func DefaultConfig() *ChunkSetConfig {
	return &ChunkSetConfig{
		ChunkCount:        96,
		ChunkLengthMillis: 15 * 60 * 1000,
		Percentile: PercentileConfig{
			Enabled:  true,
			Accuracy: 0.01,
		},
	}
}

// Validate checks the configuration for values NewChunkSet would reject
// or that would make percentile tracking meaningless.
func (c *ChunkSetConfig) Validate() error {
	var errs []error

	if c.ChunkCount < 1 {
		errs = append(errs, errors.New("chunk_count must be >= 1"))
	}
	if c.ChunkLengthMillis < 1 {
		errs = append(errs, errors.New("chunk_length_millis must be >= 1"))
	}
	if c.Percentile.Enabled && (c.Percentile.Accuracy <= 0 || c.Percentile.Accuracy >= 1) {
		errs = append(errs, errors.New("percentile.accuracy must be in (0, 1)"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
