package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/gridcluster/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed))
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformPoints returns n points spread uniformly over [0,width)x[0,height).
// Ids run from 1 to n.
func (r *RNG) UniformPoints(n int, width, height float64) []model.Point {
	r.mu.Lock()
	defer r.mu.Unlock()

	pts := make([]model.Point, n)
	for i := range pts {
		pts[i] = model.NewPoint(model.PointID(i+1), r.rand.Float64()*width, r.rand.Float64()*height)
	}
	return pts
}

// Centre is the mean of a generated blob.
type Centre struct {
	X, Y float64
}

// Blobs returns perBlob points around every centre, normally distributed
// with standard deviation sigma on both axes. Points are grouped by blob
// and ids run from 1.
func (r *RNG) Blobs(centres []Centre, perBlob int, sigma float64) []model.Point {
	r.mu.Lock()
	defer r.mu.Unlock()

	pts := make([]model.Point, 0, len(centres)*perBlob)
	for _, c := range centres {
		for range perBlob {
			id := model.PointID(len(pts) + 1)
			pts = append(pts, model.NewPoint(id, c.X+r.rand.NormFloat64()*sigma, c.Y+r.rand.NormFloat64()*sigma))
		}
	}
	return pts
}

// Shuffle returns a copy of points in random order.
func (r *RNG) Shuffle(points []model.Point) []model.Point {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Point, len(points))
	copy(out, points)
	r.rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Line returns points on the x axis at the given positions with ids 1..n.
func Line(xs ...float64) []model.Point {
	pts := make([]model.Point, len(xs))
	for i, x := range xs {
		pts[i] = model.NewPoint(model.PointID(i+1), x, 0)
	}
	return pts
}
