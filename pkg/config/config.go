// Package config provides configuration loading and management for voxedit.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Selection parameters for the block (brush) tools
	Selection struct {
		// BlockRadius is the brush radius in voxels; the brush block
		// has a side of 2*blockRadius+1
		BlockRadius int `yaml:"blockRadius"`

		// ThreeD selects a cubic brush instead of an in-slice one
		ThreeD bool `yaml:"threeD"`
	} `yaml:"selection"`

	// Grow parameters for intensity region growing
	Grow struct {
		// Precision is the intensity tolerance around the seed value
		Precision float64 `yaml:"precision"`

		// SearchRadius bounds growing to a physical distance around
		// the seed; zero disables the limit
		SearchRadius float64 `yaml:"searchRadius"`

		// Local restricts growing to voxels connected to the seed
		Local bool `yaml:"local"`

		// ReplaceExisting makes each grow replace the current
		// selection instead of adding to it
		ReplaceExisting bool `yaml:"replaceExisting"`
	} `yaml:"grow"`

	// Output parameters
	Output struct {
		// SlicesDir is the directory for exported slice images
		SlicesDir string `yaml:"slicesDir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default selection parameters
	cfg.Selection.BlockRadius = 1
	cfg.Selection.ThreeD = false

	// Set default grow parameters
	cfg.Grow.Precision = 10.0
	cfg.Grow.SearchRadius = 0.0
	cfg.Grow.Local = false
	cfg.Grow.ReplaceExisting = true

	// Set default output parameters
	cfg.Output.SlicesDir = "selection_slices"
	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
