package silhouette

import (
	"math"

	"github.com/hupe1980/gridcluster/model"
)

// DunnIndices replays events over the leaves of m and returns the Dunn
// index after every step: the smallest distance between leaves of two
// different clusters divided by the largest distance between leaves of one
// cluster. Like AverageWidth the curve has one entry per event and ends in
// 0. A step whose clusters are all singletons or all coincident reports 0.
func DunnIndices(events []model.MergeEvent, m *Matrix) ([]float64, error) {
	if len(events) == 0 {
		return nil, ErrEmptyDendrogram
	}

	n := m.Len()
	r := newReplay(n, m.Index)

	// nearest[i] is the closest leaf outside the cluster of i, at dist[i].
	nearest := make([]int, n)
	dist := make([]float64, n)
	rescan := func(i int) {
		nearest[i], dist[i] = -1, math.Inf(1)
		for j := range n {
			if r.of[j] == r.of[i] {
				continue
			}
			if d := m.At(i, j); d < dist[i] {
				nearest[i], dist[i] = j, d
			}
		}
	}
	for i := range n {
		rescan(i)
	}

	var diameter float64
	curve := make([]float64, 0, len(events))
	for t, ev := range events {
		x, y, err := r.clusters(ev)
		if err != nil {
			return nil, err
		}
		if t == len(events)-1 {
			curve = append(curve, 0)
			break
		}

		ys := r.members[y].ToArray()
		it := r.members[x].Iterator()
		for it.HasNext() {
			i := int(it.Next())
			for _, j := range ys {
				diameter = math.Max(diameter, m.At(i, int(j)))
			}
		}

		r.apply(x, y)

		separation := math.Inf(1)
		for i := range n {
			if r.of[i] == x && nearest[i] >= 0 && r.of[nearest[i]] == x {
				rescan(i)
			}
			separation = math.Min(separation, dist[i])
		}
		curve = append(curve, dunn(separation, diameter))
	}
	return curve, nil
}

func dunn(separation, diameter float64) float64 {
	if diameter == 0 || math.IsInf(separation, 1) {
		return 0
	}
	return separation / diameter
}
