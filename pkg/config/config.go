// Package config provides configuration loading and management for the
// roisignals tool. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the extraction configuration loaded from YAML.
type Config struct {
	// Volume describes the voxel grid of the input files.
	Volume struct {
		// X, Y, Z are the atlas dimensions in voxels.
		X int `yaml:"x"`
		Y int `yaml:"y"`
		Z int `yaml:"z"`

		// Timepoints is the number of volumes in the 4D image file.
		Timepoints int `yaml:"timepoints"`
	} `yaml:"volume"`

	// Extraction controls how region signals are computed.
	Extraction struct {
		// BackgroundLabel is the atlas value marking voxels that belong
		// to no region. Null means every distinct value is a region.
		BackgroundLabel *float64 `yaml:"backgroundLabel"`

		// NormalizeRegions rescales each region's weights to unit sum,
		// producing a weighted mean signal instead of a weighted sum.
		NormalizeRegions bool `yaml:"normalizeRegions"`

		// CheckOverlap verifies that no two regions share a voxel before
		// extracting signals.
		CheckOverlap bool `yaml:"checkOverlap"`
	} `yaml:"extraction"`

	// Output parameters.
	Output struct {
		// SignalsCSV is the path of the per-region signals file.
		SignalsCSV string `yaml:"signalsCsv"`

		// MasksDir, when set, receives one binary mask volume per region.
		MasksDir string `yaml:"masksDir"`

		// SliceImagesDir, when set, receives JPEG slices of the atlas.
		SliceImagesDir string `yaml:"sliceImagesDir"`

		// Verbose controls the level of logging output.
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	background := 0.0
	cfg.Extraction.BackgroundLabel = &background
	cfg.Extraction.NormalizeRegions = true
	cfg.Extraction.CheckOverlap = true

	cfg.Output.SignalsCSV = "signals.csv"
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file. If the file doesn't
// exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the
// specified path.
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
