// Package distance provides distance strategies for 2D clustering.
//
// # Supported Metrics
//
//   - MetricEuclidean: L2 distance (default)
//   - MetricManhattan: L1 distance
//   - MetricChebyshev: L-infinity distance
//
// Scaled applies per-axis factors before a Euclidean distance, and Func
// turns any coordinate function into a Strategy.
//
// # Usage
//
//	s, _ := distance.Provider(distance.MetricEuclidean)
//	d := s.Points(a, b)
//	d = s.Clusters(distance.Centroid{X: 0, Y: 0, Size: 2}, distance.Centroid{X: 1, Y: 1, Size: 1})
package distance
