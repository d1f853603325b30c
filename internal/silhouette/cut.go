package silhouette

import (
	"fmt"
	"slices"

	"github.com/hupe1980/gridcluster/model"
)

// Cut replays the first len(leaves)-k events and returns the resulting k
// groups. Ids within a group are ascending and groups are ordered by their
// smallest id.
func Cut(k int, events []model.MergeEvent, leaves []model.PointID) ([][]model.PointID, error) {
	ids := slices.Clone(leaves)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	n := len(ids)
	if k < 1 || k > n {
		return nil, fmt.Errorf("%w: %d for %d leaves", ErrInvalidClusterCount, k, n)
	}
	steps := n - k
	if steps > len(events) {
		return nil, fmt.Errorf("%w: %d clusters need %d merges, dendrogram has %d", ErrInvalidClusterCount, k, steps, len(events))
	}

	r := newReplay(n, indexOf(ids))
	for _, ev := range events[:steps] {
		keep, gone, err := r.clusters(ev)
		if err != nil {
			return nil, err
		}
		r.apply(keep, gone)
	}

	groups := r.groups()
	out := make([][]model.PointID, len(groups))
	for i, g := range groups {
		out[i] = make([]model.PointID, len(g))
		for j, leaf := range g {
			out[i][j] = ids[leaf]
		}
	}
	return out, nil
}

func indexOf(sorted []model.PointID) func(model.PointID) (int, bool) {
	return func(id model.PointID) (int, bool) {
		return slices.BinarySearch(sorted, id)
	}
}
