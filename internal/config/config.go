// Package config holds run configuration, yaml persistence, and presets.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/porfanid/N-Body-Simulator/internal/engine"
)

const (
	DefaultBodies = 10
	DefaultSteps  = 1000
)

type Config struct {
	Bodies         int     `yaml:"bodies"`
	Seed           int64   `yaml:"seed"`
	Steps          int     `yaml:"steps"`
	Dt             float64 `yaml:"dt"`
	G              float64 `yaml:"g"`
	Softening      float64 `yaml:"softening"`
	Boundary       float64 `yaml:"boundary"`
	BoundaryMode   string  `yaml:"boundary_mode"`
	MaxTrailLength int     `yaml:"max_trail_length"`
	Backend        string  `yaml:"backend"`
}

func DefaultConfig() *Config {
	return &Config{
		Bodies:         DefaultBodies,
		Steps:          DefaultSteps,
		Dt:             engine.DefaultDt,
		G:              engine.DefaultG,
		Softening:      engine.DefaultSoftening,
		Boundary:       engine.DefaultBoundary,
		BoundaryMode:   engine.BoundaryBounce.String(),
		MaxTrailLength: engine.DefaultMaxTrailLength,
		Backend:        "auto",
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate fails fast on parameter values that would produce NaN or garbage
// downstream rather than letting the engine discover them mid-run.
func (c *Config) Validate() error {
	if c.Bodies <= 0 {
		return fmt.Errorf("bodies must be positive, got %d", c.Bodies)
	}
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.G <= 0 {
		return fmt.Errorf("g must be positive, got %f", c.G)
	}
	if c.Softening < 0 {
		return fmt.Errorf("softening must be non-negative, got %f", c.Softening)
	}
	if c.Boundary <= 0 {
		return fmt.Errorf("boundary must be positive, got %f", c.Boundary)
	}
	if c.MaxTrailLength < 0 {
		return fmt.Errorf("max_trail_length must be non-negative, got %d", c.MaxTrailLength)
	}
	if _, err := engine.ParseBoundaryMode(c.BoundaryMode); err != nil {
		return err
	}
	return nil
}

// Mode returns the parsed boundary mode. Call Validate first.
func (c *Config) Mode() engine.BoundaryMode {
	m, _ := engine.ParseBoundaryMode(c.BoundaryMode)
	return m
}
