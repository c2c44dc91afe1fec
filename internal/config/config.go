// Package config loads adprodoctor settings from an optional YAML file.
// Everything has a working default; the config file exists for suites that
// name their descriptor or task folder differently.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the tool configuration loaded from YAML.
type Config struct {
	// Descriptor is the project descriptor member inside the archive.
	Descriptor string `yaml:"descriptor"`

	// TaskPrefix selects task file members by path prefix.
	TaskPrefix string `yaml:"task_prefix"`

	// TaskSuffix selects task file members by extension.
	TaskSuffix string `yaml:"task_suffix"`

	// MaxPasses caps the repair fixpoint loop.
	MaxPasses int `yaml:"max_passes"`

	// Color controls colored terminal output.
	Color bool `yaml:"color"`
}

// DefaultConfig returns the Productivity Suite defaults.
func DefaultConfig() *Config {
	return &Config{
		Descriptor: "program.prj",
		TaskPrefix: "task",
		TaskSuffix: ".rll",
		MaxPasses:  100,
		Color:      true,
	}
}

// Load reads a YAML config file and overlays it on the defaults. Fields the
// file omits keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	if cfg.MaxPasses <= 0 {
		return nil, fmt.Errorf("max_passes must be positive, got %d", cfg.MaxPasses)
	}
	return cfg, nil
}
