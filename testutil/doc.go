// Package testutil provides testing utilities for gridcluster.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded generators for point sets with a known structure.
//
//	rng := testutil.NewRNG(seed)
//	pts := rng.UniformPoints(500, 20, 20)
//	blobs := rng.Blobs([]testutil.Centre{{X: 0, Y: 0}, {X: 10, Y: 10}}, 50, 0.2)
package testutil
