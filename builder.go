package gridcluster

import (
	"github.com/hupe1980/gridcluster/distance"
	"github.com/hupe1980/gridcluster/model"
)

// Grid creates a new builder for a Clusterer with the given bucket size on
// both axes.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration.
//
// Example:
//
//	c, err := gridcluster.Grid(0.5, 10).
//	    Euclidean().
//	    Acceptance(0.8).
//	    Workers(4).
//	    Build(points)
func Grid(thresholdX, thresholdY float64) GridBuilder {
	return GridBuilder{
		thresholdX: thresholdX,
		thresholdY: thresholdY,
		metric:     distance.MetricEuclidean,
		acceptance: DefaultAcceptance,
		fraction:   DefaultSearchFraction,
		tolerance:  DefaultTolerance,
		workers:    1,
	}
}

// GridBuilder is an immutable fluent builder for Clusterer instances.
type GridBuilder struct {
	thresholdX float64
	thresholdY float64
	metric     distance.Metric
	strategy   distance.Strategy
	acceptance float64
	fraction   float64
	tolerance  float64
	workers    int
	logger     *Logger
	metrics    MetricsCollector
}

// Euclidean sets the distance metric to the L2 distance.
func (b GridBuilder) Euclidean() GridBuilder {
	b.metric, b.strategy = distance.MetricEuclidean, nil
	return b
}

// Manhattan sets the distance metric to the L1 distance.
func (b GridBuilder) Manhattan() GridBuilder {
	b.metric, b.strategy = distance.MetricManhattan, nil
	return b
}

// Chebyshev sets the distance metric to the L-infinity distance.
func (b GridBuilder) Chebyshev() GridBuilder {
	b.metric, b.strategy = distance.MetricChebyshev, nil
	return b
}

// Scaled uses the Euclidean distance after multiplying each axis by its
// factor. Useful when the axes have different units.
func (b GridBuilder) Scaled(x, y float64) GridBuilder {
	b.strategy = distance.Scaled{ScaleX: x, ScaleY: y}
	return b
}

// Strategy sets a custom distance strategy. It takes precedence over the
// metric methods.
func (b GridBuilder) Strategy(s distance.Strategy) GridBuilder {
	b.strategy = s
	return b
}

// Acceptance sets the smallest silhouette width that justifies a split.
// Default: 0.75.
func (b GridBuilder) Acceptance(q float64) GridBuilder {
	b.acceptance = q
	return b
}

// SearchFraction sets the share of final merge steps searched for the best
// cut. Default: 0.10.
func (b GridBuilder) SearchFraction(f float64) GridBuilder {
	b.fraction = f
	return b
}

// Tolerance sets the silhouette tolerance in percent. Default: 0.
func (b GridBuilder) Tolerance(percent float64) GridBuilder {
	b.tolerance = percent
	return b
}

// Workers sets how many regions are scored concurrently. Default: 1.
func (b GridBuilder) Workers(n int) GridBuilder {
	b.workers = n
	return b
}

// Logger sets the structured logger.
func (b GridBuilder) Logger(l *Logger) GridBuilder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b GridBuilder) Metrics(mc MetricsCollector) GridBuilder {
	b.metrics = mc
	return b
}

// Options returns the builder configuration as functional options.
func (b GridBuilder) Options() []Option {
	opts := []Option{
		WithThresholds(b.thresholdX, b.thresholdY),
		WithMetric(b.metric),
		WithAcceptance(b.acceptance),
		WithSearchFraction(b.fraction),
		WithTolerance(b.tolerance),
		WithWorkers(b.workers),
	}
	if b.strategy != nil {
		opts = append(opts, WithStrategy(b.strategy))
	}
	if b.logger != nil {
		opts = append(opts, WithLogger(b.logger))
	}
	if b.metrics != nil {
		opts = append(opts, WithMetricsCollector(b.metrics))
	}
	return opts
}

// Build creates a Clusterer over points.
func (b GridBuilder) Build(points []model.Point) (*Clusterer, error) {
	return New(points, b.Options()...)
}

// MustBuild creates the Clusterer, panicking on error.
func (b GridBuilder) MustBuild(points []model.Point) *Clusterer {
	c, err := b.Build(points)
	if err != nil {
		panic(err)
	}
	return c
}
