package silhouette

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/hupe1980/gridcluster/distance"
	"github.com/hupe1980/gridcluster/model"
)

// Matrix holds the pairwise distances between the leaves of one region.
// Leaves are indexed in ascending id order.
type Matrix struct {
	ids   []model.PointID
	index map[model.PointID]int
	d     *mat.SymDense
}

// NewMatrix evaluates strategy for every pair of points.
func NewMatrix(points []model.Point, strategy distance.Strategy) (*Matrix, error) {
	pts := slices.Clone(points)
	slices.SortFunc(pts, model.ComparePoints)

	n := len(pts)
	m := &Matrix{
		ids:   make([]model.PointID, n),
		index: make(map[model.PointID]int, n),
	}
	if n > 0 {
		m.d = mat.NewSymDense(n, nil)
	}
	for i, p := range pts {
		m.ids[i] = p.ID
		m.index[p.ID] = i
	}
	for i := range pts {
		for j := i + 1; j < n; j++ {
			v := strategy.Points(pts[i], pts[j])
			if !distance.IsFinite(v) {
				return nil, fmt.Errorf("%w: %v between %d and %d", ErrNonFiniteDistance, v, pts[i].ID, pts[j].ID)
			}
			m.d.SetSym(i, j, v)
		}
	}
	return m, nil
}

// Len returns the number of leaves.
func (m *Matrix) Len() int {
	return len(m.ids)
}

// At returns the distance between leaves i and j.
func (m *Matrix) At(i, j int) float64 {
	return m.d.At(i, j)
}

// ID returns the point id of leaf i.
func (m *Matrix) ID(i int) model.PointID {
	return m.ids[i]
}

// IDs returns the leaf ids in index order.
func (m *Matrix) IDs() []model.PointID {
	return slices.Clone(m.ids)
}

// Index returns the leaf index of id.
func (m *Matrix) Index(id model.PointID) (int, bool) {
	i, ok := m.index[id]
	return i, ok
}

// Mean returns the average over all leaf pairs.
func (m *Matrix) Mean() float64 {
	n := m.Len()
	if n < 2 {
		return 0
	}
	var sum float64
	for i := range n {
		for j := i + 1; j < n; j++ {
			sum += m.d.At(i, j)
		}
	}
	return sum / float64(n*(n-1)/2)
}
