package cubefield

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPopulation = 10_000
	InitialBoundary   = 30.0
)

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type Config struct {
	Population int     `yaml:"population"`
	Boundary   float64 `yaml:"boundary"`
	// Workers > 1 splits each tick across that many partitions.
	Workers int    `yaml:"workers"`
	Seed    uint64 `yaml:"seed"`
	Debug   bool   `yaml:"debug"`

	// BoundaryTransition is the duration of the boundary frame tween in seconds, 0 snaps.
	BoundaryTransition float32       `yaml:"boundaryTransition"`
	ProfileInterval    time.Duration `yaml:"profileInterval"`

	Window WindowConfig `yaml:"window"`
}

func DefaultConfig() Config {
	return Config{
		Population:      DefaultPopulation,
		Boundary:        InitialBoundary,
		Workers:         1,
		ProfileInterval: 5 * time.Second,
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "cubefield",
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := ValidatePopulation(c.Population); err != nil {
		return err
	}
	if err := ValidateBoundary(c.Boundary); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidWorkers, c.Workers)
	}
	if c.BoundaryTransition < 0 {
		return fmt.Errorf("boundary transition must not be negative: got %v", c.BoundaryTransition)
	}
	return nil
}

func ValidatePopulation(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidPopulation, n)
	}
	return nil
}

func ValidateBoundary(b float64) error {
	if b <= 0 || math.IsNaN(b) || math.IsInf(b, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidBoundary, b)
	}
	return nil
}
