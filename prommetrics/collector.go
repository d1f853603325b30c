// Package prommetrics exports gridcluster metrics to Prometheus.
//
// All metrics live under the "gridcluster" namespace:
//   - runs_total, run_duration_seconds, points_total, merges_total
//   - regions_total, region_leaves, region_quality, clusters_total
//   - cuts_total, cut_duration_seconds
//
// Register a Collector once per registry; creating two collectors on the
// same registry panics on the duplicate registration.
package prommetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hupe1980/gridcluster"
)

const namespace = "gridcluster"

// Label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"

	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

var _ gridcluster.MetricsCollector = (*Collector)(nil)

// Collector implements gridcluster.MetricsCollector with Prometheus
// counters and histograms. It is safe for concurrent use.
type Collector struct {
	runsTotal     *prometheus.CounterVec
	runDuration   prometheus.Histogram
	pointsTotal   prometheus.Counter
	mergesTotal   prometheus.Counter
	regionsTotal  *prometheus.CounterVec
	regionLeaves  prometheus.Histogram
	regionQuality prometheus.Histogram
	clustersTotal prometheus.Counter
	cutsTotal     prometheus.Counter
	cutDuration   prometheus.Histogram
}

// New creates a Collector and registers its metrics with reg. A nil reg
// uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total agglomeration runs by status.",
		}, []string{"status"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of agglomeration runs in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		pointsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_total",
			Help:      "Total input points clustered.",
		}),
		mergesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merges_total",
			Help:      "Total cluster merges performed.",
		}),
		regionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "regions_total",
			Help:      "Total regions scored by silhouette outcome.",
		}, []string{"outcome"}),
		regionLeaves: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "region_leaves",
			Help:      "Number of points per scored region.",
			Buckets:   prometheus.ExponentialBuckets(2, 2, 14),
		}),
		regionQuality: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "region_quality",
			Help:      "Best average silhouette width per scored region.",
			Buckets:   prometheus.LinearBuckets(-1, 0.25, 9),
		}),
		clustersTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clusters_total",
			Help:      "Total clusters produced from scored regions.",
		}),
		cutsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cuts_total",
			Help:      "Total dendrogram cuts.",
		}),
		cutDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cut_duration_seconds",
			Help:      "Duration of dendrogram cuts in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
}

// RecordRun implements gridcluster.MetricsCollector.
func (c *Collector) RecordRun(points, merges int, duration time.Duration, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	c.runsTotal.WithLabelValues(status).Inc()
	c.runDuration.Observe(duration.Seconds())
	c.pointsTotal.Add(float64(points))
	c.mergesTotal.Add(float64(merges))
}

// RecordRegion implements gridcluster.MetricsCollector.
func (c *Collector) RecordRegion(leaves, clusters int, quality float64, accepted bool) {
	outcome := OutcomeRejected
	if accepted {
		outcome = OutcomeAccepted
	}
	c.regionsTotal.WithLabelValues(outcome).Inc()
	c.regionLeaves.Observe(float64(leaves))
	c.regionQuality.Observe(quality)
	c.clustersTotal.Add(float64(clusters))
}

// RecordCut implements gridcluster.MetricsCollector.
func (c *Collector) RecordCut(_ int, duration time.Duration) {
	c.cutsTotal.Inc()
	c.cutDuration.Observe(duration.Seconds())
}
