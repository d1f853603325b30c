package gridcluster

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// prommetrics package provides a Prometheus implementation.
//
// RecordRegion and RecordCut may be called concurrently when more than one
// worker is configured.
type MetricsCollector interface {
	// RecordRun is called after each agglomeration run.
	// points is the input size, merges the number of merges performed,
	// err is nil if successful.
	RecordRun(points, merges int, duration time.Duration, err error)

	// RecordRegion is called after a region has been scored.
	// leaves is the region size, clusters the number of clusters it was
	// split into, quality the best silhouette width in the search window.
	RecordRegion(leaves, clusters int, quality float64, accepted bool)

	// RecordCut is called after each dendrogram cut.
	RecordCut(k int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRun(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRegion(int, int, float64, bool)     {}
func (NoopMetricsCollector) RecordCut(int, time.Duration)             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RunCount        atomic.Int64
	RunErrors       atomic.Int64
	RunTotalNanos   atomic.Int64
	PointsTotal     atomic.Int64
	MergesTotal     atomic.Int64
	RegionCount     atomic.Int64
	RegionsAccepted atomic.Int64
	LeavesTotal     atomic.Int64
	ClustersTotal   atomic.Int64
	CutCount        atomic.Int64
	CutTotalNanos   atomic.Int64
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(points, merges int, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	b.PointsTotal.Add(int64(points))
	b.MergesTotal.Add(int64(merges))
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// RecordRegion implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRegion(leaves, clusters int, _ float64, accepted bool) {
	b.RegionCount.Add(1)
	b.LeavesTotal.Add(int64(leaves))
	b.ClustersTotal.Add(int64(clusters))
	if accepted {
		b.RegionsAccepted.Add(1)
	}
}

// RecordCut implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCut(_ int, duration time.Duration) {
	b.CutCount.Add(1)
	b.CutTotalNanos.Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RunCount:        b.RunCount.Load(),
		RunErrors:       b.RunErrors.Load(),
		RunAvgNanos:     avg(b.RunTotalNanos.Load(), b.RunCount.Load()),
		PointsTotal:     b.PointsTotal.Load(),
		MergesTotal:     b.MergesTotal.Load(),
		RegionCount:     b.RegionCount.Load(),
		RegionsAccepted: b.RegionsAccepted.Load(),
		LeavesTotal:     b.LeavesTotal.Load(),
		ClustersTotal:   b.ClustersTotal.Load(),
		CutCount:        b.CutCount.Load(),
		CutAvgNanos:     avg(b.CutTotalNanos.Load(), b.CutCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RunCount        int64
	RunErrors       int64
	RunAvgNanos     int64
	PointsTotal     int64
	MergesTotal     int64
	RegionCount     int64
	RegionsAccepted int64
	LeavesTotal     int64
	ClustersTotal   int64
	CutCount        int64
	CutAvgNanos     int64
}
