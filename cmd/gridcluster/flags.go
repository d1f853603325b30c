package main

import (
	"github.com/spf13/cobra"
)

// clusterFlags are shared by every command that clusters an input file.
type clusterFlags struct {
	config         string
	input          string
	thresholdX     float64
	thresholdY     float64
	metric         string
	acceptance     float64
	searchFraction float64
	tolerance      float64
	workers        int
	metricsFile    string
	logLevel       string
	logFormat      string
}

func (f *clusterFlags) register(cmd *cobra.Command) {
	d := DefaultConfig()
	fs := cmd.Flags()
	fs.StringVarP(&f.config, "config", "c", "", "YAML config file")
	fs.StringVarP(&f.input, "input", "i", stdio, "Input file (.csv or .json, optionally .zst or .lz4); - reads stdin")
	fs.Float64VarP(&f.thresholdX, "threshold-x", "x", 0, "Grid bucket size on the x axis")
	fs.Float64VarP(&f.thresholdY, "threshold-y", "y", 0, "Grid bucket size on the y axis")
	fs.StringVarP(&f.metric, "metric", "m", d.Metric, "Distance metric (euclidean, manhattan, chebyshev)")
	fs.Float64Var(&f.acceptance, "acceptance", d.Acceptance, "Smallest silhouette width that justifies a split")
	fs.Float64Var(&f.searchFraction, "search-fraction", d.SearchFraction, "Share of final merge steps searched for the best cut")
	fs.Float64Var(&f.tolerance, "tolerance", d.Tolerance, "Silhouette tolerance in percent")
	fs.IntVarP(&f.workers, "workers", "w", d.Workers, "Regions scored concurrently (0 uses all CPUs)")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	fs.StringVar(&f.logLevel, "log-level", d.Log.Level, "Log level (debug, info, warn, error)")
	fs.StringVar(&f.logFormat, "log-format", d.Log.Format, "Log format (text, json)")
}

// resolve loads the config file and applies every flag set explicitly on
// the command line on top of it.
func (f *clusterFlags) resolve(cmd *cobra.Command) (Config, error) {
	cfg, err := LoadConfig(f.config)
	if err != nil {
		return cfg, err
	}

	changed := cmd.Flags().Changed
	if changed("threshold-x") {
		cfg.ThresholdX = f.thresholdX
	}
	if changed("threshold-y") {
		cfg.ThresholdY = f.thresholdY
	}
	if changed("metric") {
		cfg.Metric = f.metric
	}
	if changed("acceptance") {
		cfg.Acceptance = f.acceptance
	}
	if changed("search-fraction") {
		cfg.SearchFraction = f.searchFraction
	}
	if changed("tolerance") {
		cfg.Tolerance = f.tolerance
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("metrics-file") {
		cfg.MetricsFile = f.metricsFile
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = f.logFormat
	}

	return cfg, cfg.Validate()
}
