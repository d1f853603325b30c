package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/gridcluster"
	"github.com/hupe1980/gridcluster/distance"
)

// Config is the CLI configuration. It is read from a YAML file and then
// overridden by command line flags.
type Config struct {
	ThresholdX     float64   `yaml:"threshold_x"`
	ThresholdY     float64   `yaml:"threshold_y"`
	Metric         string    `yaml:"metric"`
	ScaleX         float64   `yaml:"scale_x"`
	ScaleY         float64   `yaml:"scale_y"`
	Acceptance     float64   `yaml:"acceptance"`
	SearchFraction float64   `yaml:"search_fraction"`
	Tolerance      float64   `yaml:"tolerance"`
	Workers        int       `yaml:"workers"`
	MetricsFile    string    `yaml:"metrics_file"`
	Log            LogConfig `yaml:"log"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when neither a file nor a
// flag sets a value. Thresholds have no default.
func DefaultConfig() Config {
	return Config{
		Metric:         distance.MetricEuclidean.String(),
		Acceptance:     gridcluster.DefaultAcceptance,
		SearchFraction: gridcluster.DefaultSearchFraction,
		Tolerance:      gridcluster.DefaultTolerance,
		Workers:        1,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// LoadConfig reads a YAML config on top of DefaultConfig. An empty path
// returns the defaults. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values the library does not check itself.
func (c Config) Validate() error {
	if _, err := distance.ParseMetric(c.Metric); err != nil {
		return err
	}
	if c.ScaleX != 0 || c.ScaleY != 0 {
		if !(c.ScaleX > 0) || !(c.ScaleY > 0) || math.IsInf(c.ScaleX, 0) || math.IsInf(c.ScaleY, 0) {
			return fmt.Errorf("scale_x and scale_y must both be positive, got %v and %v", c.ScaleX, c.ScaleY)
		}
	}
	if _, err := c.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %q", c.Log.Format)
	}
	return nil
}

func (c Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return l, fmt.Errorf("unknown log level: %q", c.Log.Level)
	}
	return l, nil
}

// Logger builds the structured logger writing to w.
func (c Config) Logger(w io.Writer) (*gridcluster.Logger, error) {
	level, err := c.level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return gridcluster.NewLogger(slog.NewJSONHandler(w, opts)), nil
	}
	return gridcluster.NewLogger(slog.NewTextHandler(w, opts)), nil
}

// Options translates the config into clusterer options.
func (c Config) Options() ([]gridcluster.Option, error) {
	metric, err := distance.ParseMetric(c.Metric)
	if err != nil {
		return nil, err
	}

	opts := []gridcluster.Option{
		gridcluster.WithThresholds(c.ThresholdX, c.ThresholdY),
		gridcluster.WithMetric(metric),
		gridcluster.WithAcceptance(c.Acceptance),
		gridcluster.WithSearchFraction(c.SearchFraction),
		gridcluster.WithTolerance(c.Tolerance),
		gridcluster.WithWorkers(c.Workers),
	}
	if c.ScaleX != 0 || c.ScaleY != 0 {
		opts = append(opts, gridcluster.WithStrategy(distance.Scaled{ScaleX: c.ScaleX, ScaleY: c.ScaleY}))
	}
	return opts, nil
}
