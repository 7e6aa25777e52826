package cubefield

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10_000, cfg.Population)
	assert.Equal(t, 30.0, cfg.Boundary)
	assert.Equal(t, 1, cfg.Workers)
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		err    error
	}{
		{"negative population", func(c *Config) { c.Population = -1 }, ErrInvalidPopulation},
		{"zero boundary", func(c *Config) { c.Boundary = 0 }, ErrInvalidBoundary},
		{"nan boundary", func(c *Config) { c.Boundary = math.NaN() }, ErrInvalidBoundary},
		{"infinite boundary", func(c *Config) { c.Boundary = math.Inf(1) }, ErrInvalidBoundary},
		{"no workers", func(c *Config) { c.Workers = 0 }, ErrInvalidWorkers},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tc.err)
		})
	}

	cfg := DefaultConfig()
	cfg.Population = 0
	assert.NoError(t, cfg.Validate(), "an empty field is valid")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cubefield.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
population: 2500
boundary: 45.5
workers: 4
seed: 17
boundaryTransition: 0.3
profileInterval: 2s
window:
  width: 800
  title: cubes
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2500, cfg.Population)
	assert.Equal(t, 45.5, cfg.Boundary)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, uint64(17), cfg.Seed)
	assert.Equal(t, float32(0.3), cfg.BoundaryTransition)
	assert.Equal(t, 2*time.Second, cfg.ProfileInterval)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset keys keep their defaults")
	assert.Equal(t, "cubes", cfg.Window.Title)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "population: [1, 2"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "boundary: -2\n"))
	assert.ErrorIs(t, err, ErrInvalidBoundary)
}
