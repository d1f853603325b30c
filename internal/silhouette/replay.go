package silhouette

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/gridcluster/model"
)

// replay tracks the clusters produced by applying merge events in order.
// Cluster ids are leaf indices; a merge keeps the id of the cluster holding
// the event's left leaf.
type replay struct {
	index   func(model.PointID) (int, bool)
	members []*roaring.Bitmap
	of      []int
}

func newReplay(n int, index func(model.PointID) (int, bool)) *replay {
	r := &replay{
		index:   index,
		members: make([]*roaring.Bitmap, n),
		of:      make([]int, n),
	}
	for i := range n {
		r.members[i] = roaring.BitmapOf(uint32(i)) //nolint:gosec // leaf counts fit in uint32
		r.of[i] = i
	}
	return r
}

// clusters resolves the two clusters joined by ev.
func (r *replay) clusters(ev model.MergeEvent) (keep, gone int, err error) {
	l, ok := r.index(ev.Left)
	if !ok {
		return 0, 0, fmt.Errorf("%w: unknown leaf %d", ErrInvalidDendrogram, ev.Left)
	}
	rt, ok := r.index(ev.Right)
	if !ok {
		return 0, 0, fmt.Errorf("%w: unknown leaf %d", ErrInvalidDendrogram, ev.Right)
	}
	keep, gone = r.of[l], r.of[rt]
	if keep == gone {
		return 0, 0, fmt.Errorf("%w: %d and %d are already joined", ErrInvalidDendrogram, ev.Left, ev.Right)
	}
	return keep, gone, nil
}

// apply moves all members of gone into keep.
func (r *replay) apply(keep, gone int) {
	it := r.members[gone].Iterator()
	for it.HasNext() {
		r.of[it.Next()] = keep
	}
	r.members[keep].Or(r.members[gone])
	r.members[gone] = nil
}

func (r *replay) size(c int) int {
	return int(r.members[c].GetCardinality()) //nolint:gosec // bounded by leaf count
}

// groups returns the non-empty clusters as ascending leaf index lists,
// ordered by their smallest leaf.
func (r *replay) groups() [][]uint32 {
	var out [][]uint32
	for _, bm := range r.members {
		if bm == nil || bm.IsEmpty() {
			continue
		}
		out = append(out, bm.ToArray())
	}
	// A kept cluster id need not be its smallest leaf.
	slices.SortFunc(out, func(a, b []uint32) int {
		return cmp.Compare(a[0], b[0])
	})
	return out
}
