package silhouette

import (
	"fmt"
	"math"

	"github.com/hupe1980/gridcluster/model"
)

// Cohesion returns the average pairwise distance inside each group.
// Singleton groups report the average distance over all leaves.
func Cohesion(groups [][]model.PointID, m *Matrix) ([]float64, error) {
	if len(groups) == 0 || len(groups) > m.Len() {
		return nil, fmt.Errorf("%w: %d groups for %d leaves", ErrInvalidClusterCount, len(groups), m.Len())
	}

	overall := m.Mean()
	out := make([]float64, len(groups))
	for gi, g := range groups {
		idx := make([]int, len(g))
		for i, id := range g {
			j, ok := m.Index(id)
			if !ok {
				return nil, fmt.Errorf("%w: unknown leaf %d", ErrInvalidDendrogram, id)
			}
			idx[i] = j
		}
		if len(idx) < 2 {
			out[gi] = overall
			continue
		}
		var sum float64
		for i := range idx {
			for j := range i {
				sum += m.At(idx[i], idx[j])
			}
		}
		out[gi] = sum / float64(len(idx)*(len(idx)-1)/2)
	}
	return out, nil
}

// PopulationAberration cuts into k groups and returns the mean absolute
// deviation of the group sizes from leaves/k. k must leave at least one
// merge applied, so 1 <= k < leaves.
func PopulationAberration(k int, events []model.MergeEvent, leaves []model.PointID) (float64, error) {
	if k < 1 || k >= len(leaves) {
		return 0, fmt.Errorf("%w: %d for %d leaves", ErrInvalidClusterCount, k, len(leaves))
	}
	groups, err := Cut(k, events, leaves)
	if err != nil {
		return 0, err
	}

	ideal := float64(len(leaves)) / float64(k)
	var sum float64
	for _, g := range groups {
		sum += math.Abs(float64(len(g)) - ideal)
	}
	return sum / float64(len(groups)), nil
}
