package hac

import (
	"errors"

	"github.com/hupe1980/gridcluster/internal/arena"
	"github.com/hupe1980/gridcluster/internal/distcache"
	"github.com/hupe1980/gridcluster/model"
)

// Merge absorbs one node of p into the other and repairs the grid and the
// distance cache around both. The node with the smaller canonical id
// survives. Merging a pair with a destroyed node is a no-op.
//
// A distance failure aborts the merge halfway. The error is kept and every
// later Merge or Run returns it.
func (d *Driver) Merge(p Pair) error {
	if d.err != nil {
		return d.err
	}
	if err := d.merge(p); err != nil {
		d.err = err
		return err
	}
	return nil
}

func (d *Driver) merge(p Pair) error {
	a, b := p.A, p.B
	na, nb := d.nodes.Get(a), d.nodes.Get(b)
	if na == nil || nb == nil || a == b {
		return nil
	}
	if na.canon > nb.canon {
		a, b = b, a
		na, nb = nb, na
	}

	before, absorbed := na.centroid(), nb.centroid()

	na.dendrogram = append(na.dendrogram, nb.dendrogram...)
	na.dendrogram = append(na.dendrogram, model.MergeEvent{Left: na.canon, Right: nb.canon, Distance: p.Distance})

	oldA, oldB := na.cell, nb.cell

	sa, sb := float64(na.size()), float64(nb.size())
	na.cx = (na.cx*sa + nb.cx*sb) / (sa + sb)
	na.cy = (na.cy*sa + nb.cy*sb) / (sa + sb)
	na.points = append(na.points, nb.points...)

	d.grid.Remove(oldB, b)
	newA := d.grid.CellOf(na.cx, na.cy)
	moved := newA != oldA
	if moved {
		d.grid.Remove(oldA, a)
	}
	na.cell = newA

	// Records owned by the survivor.
	for _, n := range na.neighbors() {
		if n == b || !d.valid(a, n) {
			d.unlink(a, n)
			continue
		}
		if err := d.relink(a, n); err != nil {
			return err
		}
	}

	// Records owned by the absorbed node move to the survivor unless the
	// pair is already represented.
	for _, n := range nb.neighbors() {
		d.unlink(b, n)
		if n == a || !d.valid(a, n) {
			continue
		}
		if err := d.rekey(a, n); err != nil {
			return err
		}
	}

	// Records pointing into either node from the mirror neighbourhood.
	cells := mirrorCells(oldA, oldB)
	if moved {
		cells = mirrorCells(oldA, oldB, newA)
	}
	for _, c := range cells {
		owners, ok := d.grid.Find(c)
		if !ok {
			continue
		}
		for _, o := range owners {
			if o == a || o == b {
				continue
			}
			d.unlink(o, b)
			if !d.valid(o, a) {
				d.unlink(o, a)
				continue
			}
			if err := d.relink(o, a); err != nil {
				return err
			}
		}
	}

	// Pick up forward neighbours the survivor had no record for: a new
	// bucket, or a pair previously left unlinked at distance zero.
	for _, c := range forwardCells(newA) {
		neighbors, ok := d.grid.Find(c)
		if !ok {
			continue
		}
		for _, n := range neighbors {
			if !d.valid(a, n) || d.cache.Contains(distcache.Key{Owner: a, Neighbor: n}) {
				continue
			}
			if err := d.relink(a, n); err != nil {
				return err
			}
		}
	}
	if moved {
		d.grid.InsertAt(newA, a)
	}

	d.nodes.Free(b)
	d.merges++

	if d.observer != nil {
		na = d.nodes.MustGet(a)
		d.observer(MergeInfo{
			Event:         na.dendrogram[len(na.dendrogram)-1],
			Survivor:      before,
			Absorbed:      absorbed,
			Result:        na.centroid(),
			Step:          d.merges,
			CacheLen:      d.cache.Len(),
			SurvivorMoved: moved,
		})
	}
	return nil
}

// relink recomputes the distance owner -> neighbor and stores it when
// strictly positive. Otherwise the pair is left unlinked.
func (d *Driver) relink(owner, neighbor arena.ID) error {
	dist, err := d.measure(owner, neighbor)
	if err != nil {
		return err
	}
	if dist <= 0 {
		d.unlink(owner, neighbor)
		return nil
	}
	d.link(owner, neighbor, dist)
	return nil
}

// rekey moves a record of the absorbed node onto the survivor. A pair the
// survivor already holds keeps its record.
func (d *Driver) rekey(owner, neighbor arena.ID) error {
	dist, err := d.measure(owner, neighbor)
	if err != nil {
		return err
	}
	if dist <= 0 {
		return nil
	}
	if err := d.insert(owner, neighbor, dist); err != nil && !errors.Is(err, distcache.ErrDuplicateRecord) {
		return err
	}
	return nil
}
