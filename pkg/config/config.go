// Package config provides configuration loading and management for connectome.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters for graph construction
	Processing struct {
		// Workers is how many goroutines split the streamline loop
		Workers int `yaml:"workers"`

		// KeepIsolates retains atlas regions no streamline connects as
		// nodes of the structural graph
		KeepIsolates bool `yaml:"keepIsolates"`
	} `yaml:"processing"`

	// Graph parameters
	Graph struct {
		// Atlas selects which parcellation's graphs are collected for
		// discriminability
		Atlas string `yaml:"atlas"`

		// Eigenvalues is how many top eigenvalues the summary reports
		Eigenvalues int `yaml:"eigenvalues"`
	} `yaml:"graph"`

	// Discriminability parameters
	Discriminability struct {
		// RemoveIsolates drops subjects scanned only once
		RemoveIsolates bool `yaml:"removeIsolates"`
	} `yaml:"discriminability"`

	// Output parameters
	Output struct {
		// Verbose enables debug-level progress logging
		Verbose bool `yaml:"verbose"`

		// LogFormat is "text" or "json"
		LogFormat string `yaml:"logFormat"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Processing.Workers = runtime.NumCPU()
	cfg.Processing.KeepIsolates = false

	cfg.Graph.Atlas = "desikan"
	cfg.Graph.Eigenvalues = 100

	cfg.Discriminability.RemoveIsolates = true

	cfg.Output.Verbose = false
	cfg.Output.LogFormat = "text"

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
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

// SaveConfig saves the configuration to a YAML file
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

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
