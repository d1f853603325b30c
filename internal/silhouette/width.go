package silhouette

import (
	"math"

	"github.com/hupe1980/gridcluster/model"
)

// AverageWidth replays events over the leaves of m and returns the average
// silhouette width after every step. The curve has one entry per event;
// the last entry, where everything has collapsed into one cluster, is 0.
//
// Only leaves in clusters with more than one member contribute to a step's
// average. Each leaf keeps its average distance to its own cluster and the
// smallest average distance to any other cluster; both are updated
// incrementally and only rescanned when the nearest cluster takes part in
// the merge.
func AverageWidth(events []model.MergeEvent, m *Matrix) ([]float64, error) {
	if len(events) == 0 {
		return nil, ErrEmptyDendrogram
	}

	n := m.Len()
	r := newReplay(n, m.Index)

	intra := make([]float64, n)
	inter := make([]float64, n)
	nearest := make([]int, n)
	for i := range n {
		inter[i] = math.Inf(1)
		nearest[i] = -1
		for j := range n {
			if j == i {
				continue
			}
			if d := m.At(i, j); d < inter[i] {
				inter[i], nearest[i] = d, j
			}
		}
	}

	sum := func(i, c int) float64 {
		var s float64
		it := r.members[c].Iterator()
		for it.HasNext() {
			s += m.At(i, int(it.Next()))
		}
		return s
	}

	// rescan finds the closest cluster to leaf i, skipping the listed ones.
	rescan := func(i int, skip ...int) {
	next:
		for c, bm := range r.members {
			if bm == nil {
				continue
			}
			for _, s := range skip {
				if c == s {
					continue next
				}
			}
			if avg := sum(i, c) / float64(r.size(c)); avg < inter[i] {
				inter[i], nearest[i] = avg, c
			}
		}
	}

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

		nx, ny := r.size(x), r.size(y)
		for i := range n {
			c := r.of[i]

			if c != x && c != y {
				if nearest[i] != x && nearest[i] != y {
					avg := (sum(i, x) + sum(i, y)) / float64(nx+ny)
					if avg < inter[i] {
						inter[i], nearest[i] = avg, x
					}
					continue
				}

				other := y
				if nearest[i] == y {
					other = x
				}
				prev := inter[i]
				avg := (prev*float64(r.size(nearest[i])) + sum(i, other)) / float64(nx+ny)
				inter[i], nearest[i] = avg, x
				if avg > prev {
					rescan(i, x, y, c)
				}
				continue
			}

			own, other := x, y
			if c == y {
				own, other = y, x
			}
			nl, nk := float64(r.size(own)-1), float64(r.size(other))
			if nearest[i] != other {
				intra[i] = (intra[i]*nl + sum(i, other)) / (nl + nk)
				continue
			}
			intra[i] = (intra[i]*nl + inter[i]*nk) / (nl + nk)
			inter[i], nearest[i] = math.Inf(1), -1
			rescan(i, x, y)
		}

		r.apply(x, y)

		var total float64
		var counted int
		for i := range n {
			if r.size(r.of[i]) < 2 {
				continue
			}
			counted++
			total += width(intra[i], inter[i])
		}
		if counted > 0 {
			total /= float64(counted)
		}
		curve = append(curve, total)
	}
	return curve, nil
}

func width(intra, inter float64) float64 {
	hi := math.Max(intra, inter)
	if hi == 0 || math.IsInf(hi, 1) {
		return 0
	}
	return (inter - intra) / hi
}
