package gridcluster

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"github.com/hupe1980/gridcluster/distance"
	"github.com/hupe1980/gridcluster/internal/silhouette"
)

// Default selection parameters.
const (
	DefaultAcceptance     = 0.75
	DefaultSearchFraction = 0.10
	DefaultTolerance      = 0.0
)

type options struct {
	thresholdX       float64
	thresholdY       float64
	strategy         distance.Strategy
	criteria         silhouette.Criteria
	workers          int
	metricsCollector MetricsCollector
	logger           *Logger
	err              error
}

// Option configures a Clusterer.
type Option func(*options)

// WithThresholds sets the grid bucket size on both axes. Points closer than
// one bucket in each direction can be merged; both values must be positive.
func WithThresholds(x, y float64) Option {
	return func(o *options) {
		o.thresholdX = x
		o.thresholdY = y
	}
}

// WithStrategy sets the distance strategy used for merging and scoring.
// Passing nil keeps the current strategy.
func WithStrategy(s distance.Strategy) Option {
	return func(o *options) {
		if s != nil {
			o.strategy = s
		}
	}
}

// WithMetric selects one of the built-in distance strategies.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		s, err := distance.Provider(m)
		if err != nil {
			o.err = fmt.Errorf("%w: %w", ErrInvalidOption, err)
			return
		}
		o.strategy = s
	}
}

// WithAcceptance sets the smallest average silhouette width that justifies
// splitting a region. Regions scoring below it stay whole.
// Default: 0.75.
func WithAcceptance(q float64) Option {
	return func(o *options) {
		o.criteria.Acceptance = q
	}
}

// WithSearchFraction sets the share of merge steps, counted from the end of
// a region's dendrogram, that is searched for the best cut. Must be in
// (0, 1]. Default: 0.10.
func WithSearchFraction(f float64) Option {
	return func(o *options) {
		o.criteria.Fraction = f
	}
}

// WithTolerance sets how far below the best silhouette width, in percent, a
// cut with more clusters may score and still be preferred. Default: 0.
func WithTolerance(percent float64) Option {
	return func(o *options) {
		o.criteria.Tolerance = percent
	}
}

// WithWorkers sets how many regions are scored concurrently. Agglomeration
// itself is always sequential. n <= 0 uses GOMAXPROCS. Default: 1.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		o.workers = n
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &gridcluster.BasicMetricsCollector{}
//	c, _ := gridcluster.New(points, gridcluster.WithThresholds(1, 1), gridcluster.WithMetricsCollector(metrics))
//	// ... run ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) (options, error) {
	o := options{
		strategy: distance.Euclidean{},
		criteria: silhouette.Criteria{
			Acceptance: DefaultAcceptance,
			Fraction:   DefaultSearchFraction,
			Tolerance:  DefaultTolerance,
		},
		workers:          1,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.err != nil {
		return o, o.err
	}

	c := o.criteria
	switch {
	case math.IsNaN(c.Acceptance):
		return o, fmt.Errorf("%w: acceptance is NaN", ErrInvalidOption)
	case !(c.Fraction > 0 && c.Fraction <= 1):
		return o, fmt.Errorf("%w: search fraction %v not in (0, 1]", ErrInvalidOption, c.Fraction)
	case !(c.Tolerance >= 0) || math.IsInf(c.Tolerance, 1):
		return o, fmt.Errorf("%w: tolerance %v must be a non-negative percentage", ErrInvalidOption, c.Tolerance)
	}
	return o, nil
}
