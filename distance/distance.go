// Package distance provides the pluggable distance strategies used by the
// clustering engine.
// Norms are computed with gonum's floats package.
package distance

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/hupe1980/gridcluster/model"
)

// Centroid is the view of a cluster node handed to a Strategy.
// Size is the number of points the node has absorbed.
type Centroid struct {
	X    float64
	Y    float64
	Size int
}

// Strategy measures proximity between points and between cluster nodes.
//
// Implementations must be deterministic and symmetric. The engine treats
// a non-finite result as a failure and a result <= 0 between cluster
// nodes as "not linked" during incremental updates.
type Strategy interface {
	// Points returns the distance between two input points.
	Points(a, b model.Point) float64
	// Clusters returns the distance between two cluster nodes.
	Clusters(a, b Centroid) float64
}

// Func adapts a coordinate function into a Strategy.
// Both points and centroids are compared by position only.
type Func func(ax, ay, bx, by float64) float64

// Points implements Strategy.
func (f Func) Points(a, b model.Point) float64 { return f(a.X, a.Y, b.X, b.Y) }

// Clusters implements Strategy.
func (f Func) Clusters(a, b Centroid) float64 { return f(a.X, a.Y, b.X, b.Y) }

// Euclidean is the L2 distance in the plane.
type Euclidean struct{}

// Points implements Strategy.
func (Euclidean) Points(a, b model.Point) float64 { return norm(a.X, a.Y, b.X, b.Y, 2) }

// Clusters implements Strategy.
func (Euclidean) Clusters(a, b Centroid) float64 { return norm(a.X, a.Y, b.X, b.Y, 2) }

// Manhattan is the L1 (city-block) distance in the plane.
type Manhattan struct{}

// Points implements Strategy.
func (Manhattan) Points(a, b model.Point) float64 { return norm(a.X, a.Y, b.X, b.Y, 1) }

// Clusters implements Strategy.
func (Manhattan) Clusters(a, b Centroid) float64 { return norm(a.X, a.Y, b.X, b.Y, 1) }

// Chebyshev is the L-infinity distance in the plane.
type Chebyshev struct{}

// Points implements Strategy.
func (Chebyshev) Points(a, b model.Point) float64 {
	return norm(a.X, a.Y, b.X, b.Y, math.Inf(1))
}

// Clusters implements Strategy.
func (Chebyshev) Clusters(a, b Centroid) float64 {
	return norm(a.X, a.Y, b.X, b.Y, math.Inf(1))
}

// Scaled is a Euclidean distance after multiplying each axis by a factor.
//
// Use it when the axes have different units, e.g. retention time in
// seconds against m/z in Thomson, so that clusters become roughly
// symmetric.
type Scaled struct {
	ScaleX float64
	ScaleY float64
}

// Points implements Strategy.
func (s Scaled) Points(a, b model.Point) float64 {
	return norm(a.X*s.ScaleX, a.Y*s.ScaleY, b.X*s.ScaleX, b.Y*s.ScaleY, 2)
}

// Clusters implements Strategy.
func (s Scaled) Clusters(a, b Centroid) float64 {
	return norm(a.X*s.ScaleX, a.Y*s.ScaleY, b.X*s.ScaleX, b.Y*s.ScaleY, 2)
}

func norm(ax, ay, bx, by, l float64) float64 {
	a, b := [2]float64{ax, ay}, [2]float64{bx, by}
	return floats.Distance(a[:], b[:], l)
}

// IsFinite reports whether d is a usable distance value.
func IsFinite(d float64) bool {
	return !math.IsNaN(d) && !math.IsInf(d, 0)
}

// Metric names a built-in Strategy.
type Metric int

const (
	MetricEuclidean Metric = iota
	MetricManhattan
	MetricChebyshev
)

func (m Metric) String() string {
	switch m {
	case MetricEuclidean:
		return "Euclidean"
	case MetricManhattan:
		return "Manhattan"
	case MetricChebyshev:
		return "Chebyshev"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMetric parses a metric name (case-insensitive). "l2" and "l1" are
// accepted as aliases.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "euclidean", "l2", "":
		return MetricEuclidean, nil
	case "manhattan", "l1":
		return MetricManhattan, nil
	case "chebyshev", "linf":
		return MetricChebyshev, nil
	default:
		return 0, fmt.Errorf("unknown metric: %q", s)
	}
}

// Provider returns the Strategy for the given metric.
func Provider(m Metric) (Strategy, error) {
	switch m {
	case MetricEuclidean:
		return Euclidean{}, nil
	case MetricManhattan:
		return Manhattan{}, nil
	case MetricChebyshev:
		return Chebyshev{}, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
