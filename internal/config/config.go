// Package config loads the generator configuration from a TOML file.
//
// Size-like keys (cells_per_frame, ring_buffer_size) may be written as
// integers or as strings with hex prefixes, underscore digit separators,
// and K/M/G scale suffixes, e.g. ring_buffer_size = "0x4000_0000".
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/quanterra/framegen/internal/scan"
)

// DefaultPath is the configuration file used when none is given on the
// command line.
const DefaultPath = "framegen.conf"

// Config holds the generator settings. It is read-only to the rest of the
// program once Load returns.
type Config struct {
	// AdcPerNucleotide is the expansion multiplicity for bare nucleotide
	// references inside fragments.
	AdcPerNucleotide int

	// RandomSeed seeds the ADC sampling source once at startup.
	RandomSeed uint64

	// CellsPerFrame is the frame size in cells (bytes).
	CellsPerFrame int

	// RingBufferSize is the destination buffer capacity in bytes.
	RingBufferSize int64

	// DataFrames is the number of frames per frame group.
	DataFrames int

	// FillerValue initializes every frame cell before overlay.
	FillerValue byte

	// NucleotideFile, FragmentFile, and DistributionFile are the three
	// definition texts.
	NucleotideFile   string
	FragmentFile     string
	DistributionFile string

	// OutputFile receives the synthesized frames.
	OutputFile string
}

// Load reads and validates the configuration at path. An empty path falls
// back to DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	cfg := &Config{AdcPerNucleotide: 1, DataFrames: 1}

	adc, err := intKey(raw, "adc_per_nucleotide", int64(cfg.AdcPerNucleotide))
	if err != nil {
		return nil, err
	}
	cfg.AdcPerNucleotide = int(adc)

	seed, err := intKey(raw, "random_seed", 0)
	if err != nil {
		return nil, err
	}
	cfg.RandomSeed = uint64(seed)

	cells, err := intKey(raw, "cells_per_frame", 0)
	if err != nil {
		return nil, err
	}
	cfg.CellsPerFrame = int(cells)

	ringSize, err := intKey(raw, "ring_buffer_size", 0)
	if err != nil {
		return nil, err
	}
	cfg.RingBufferSize = ringSize

	frames, err := intKey(raw, "data_frames", int64(cfg.DataFrames))
	if err != nil {
		return nil, err
	}
	cfg.DataFrames = int(frames)

	filler, err := intKey(raw, "filler_value", 0)
	if err != nil {
		return nil, err
	}
	if filler < 0 || filler > 0xFF {
		return nil, &ValidationError{Key: "filler_value", Message: "must fit in a byte", Value: filler}
	}
	cfg.FillerValue = byte(filler)

	cfg.NucleotideFile = stringKey(raw, "nucleotide_file")
	cfg.FragmentFile = stringKey(raw, "fragment_file")
	cfg.DistributionFile = stringKey(raw, "distribution_file")
	cfg.OutputFile = stringKey(raw, "output_file")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.AdcPerNucleotide < 1 {
		return &ValidationError{Key: "adc_per_nucleotide", Message: "must be at least 1", Value: c.AdcPerNucleotide}
	}
	if c.CellsPerFrame <= 0 {
		return &ValidationError{Key: "cells_per_frame", Message: "must be positive", Value: c.CellsPerFrame}
	}
	if c.RingBufferSize <= 0 {
		return &ValidationError{Key: "ring_buffer_size", Message: "must be positive", Value: c.RingBufferSize}
	}
	if c.DataFrames < 1 {
		return &ValidationError{Key: "data_frames", Message: "must be at least 1", Value: c.DataFrames}
	}
	for key, value := range map[string]string{
		"nucleotide_file":   c.NucleotideFile,
		"fragment_file":     c.FragmentFile,
		"distribution_file": c.DistributionFile,
		"output_file":       c.OutputFile,
	} {
		if value == "" {
			return &ValidationError{Key: key, Message: "is required"}
		}
	}
	return nil
}

// intKey extracts an integer setting. TOML strings are accepted and run
// through the scaled-integer parser, so hex, underscores, and K/M/G
// suffixes all work.
func intKey(raw map[string]any, key string, fallback int64) (int64, error) {
	value, ok := raw[key]
	if !ok {
		return fallback, nil
	}
	switch v := value.(type) {
	case int64:
		return v, nil
	case string:
		parsed, err := scan.ParseScaled(v)
		if err != nil {
			return 0, &ValidationError{Key: key, Message: err.Error(), Value: v}
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("%w: %s is %T, want integer or string", ErrTypeMismatch, key, value)
	}
}

func stringKey(raw map[string]any, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}
