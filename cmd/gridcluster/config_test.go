package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/gridcluster"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, gridcluster.DefaultAcceptance, cfg.Acceptance)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	path := writeFile(t, "gridcluster.yaml", `
threshold_x: 0.5
threshold_y: 10
metric: manhattan
acceptance: 0.6
workers: 4
log:
  level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.ThresholdX)
	assert.Equal(t, 10.0, cfg.ThresholdY)
	assert.Equal(t, "manhattan", cfg.Metric)
	assert.Equal(t, 0.6, cfg.Acceptance)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep their default")
	assert.Equal(t, gridcluster.DefaultSearchFraction, cfg.SearchFraction)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Empty(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, "unknown.yaml", "thresholdx: 1\n"))
	assert.ErrorContains(t, err, "thresholdx")

	_, err = LoadConfig(writeFile(t, "broken.yaml", "threshold_x: [\n"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown metric", func(c *Config) { c.Metric = "cosine" }},
		{"one scale", func(c *Config) { c.ScaleX = 2 }},
		{"negative scale", func(c *Config) { c.ScaleX, c.ScaleY = 1, -1 }},
		{"unknown level", func(c *Config) { c.Log.Level = "loud" }},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_Options(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ThresholdX, cfg.ThresholdY = 1, 1
	cfg.ScaleX, cfg.ScaleY = 1, 2

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Len(t, opts, 7)

	cfg.Metric = "nope"
	_, err = cfg.Options()
	assert.Error(t, err)
}
