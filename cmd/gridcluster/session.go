package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hupe1980/gridcluster"
	"github.com/hupe1980/gridcluster/model"
	"github.com/hupe1980/gridcluster/prommetrics"
)

// session holds one converged clustering of an input file.
type session struct {
	cfg       Config
	logger    *gridcluster.Logger
	registry  *prometheus.Registry
	points    []model.Point
	clusterer *gridcluster.Clusterer
}

func openSession(cmd *cobra.Command, flags *clusterFlags) (*session, error) {
	cfg, err := flags.resolve(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, gridcluster.WithLogger(logger))

	s := &session{cfg: cfg, logger: logger}
	if cfg.MetricsFile != "" {
		s.registry = prometheus.NewRegistry()
		opts = append(opts, gridcluster.WithMetricsCollector(prommetrics.New(s.registry)))
	}

	in, format, err := openInput(flags.input, cmd.InOrStdin())
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	s.points, err = ReadPoints(in, format)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", flags.input, err)
	}
	logger.InfoContext(cmd.Context(), "points loaded", "count", len(s.points), "format", format.String())

	s.clusterer, err = gridcluster.New(s.points, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.clusterer.Run(); err != nil {
		return nil, err
	}
	return s, nil
}

// flushMetrics writes the collected metrics, if requested.
func (s *session) flushMetrics() error {
	if s.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(s.cfg.MetricsFile, s.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
