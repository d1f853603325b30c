package hac

import (
	"fmt"
	"math"

	"github.com/hupe1980/gridcluster/internal/distcache"
)

// verifyTolerance bounds the drift between a cached distance and a fresh
// evaluation.
const verifyTolerance = 1e-9

// Verify checks the structural invariants of the driver state and returns
// the first violation found. It is intended for tests and debugging; it
// walks every node and record.
func (d *Driver) Verify() error {
	owner := make([]int, len(d.points))
	for i := range owner {
		owner[i] = -1
	}

	live := 0
	for id, n := range d.nodes.All() {
		live++

		if want := d.grid.CellOf(n.cx, n.cy); want != n.cell {
			return fmt.Errorf("node %d: stored in cell %v, centroid maps to %v", n.canon, n.cell, want)
		}
		bucket, _ := d.grid.Find(n.cell)
		found := false
		for _, e := range bucket {
			if e == id {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("node %d: missing from grid cell %v", n.canon, n.cell)
		}

		if len(n.dendrogram) != len(n.points)-1 {
			return fmt.Errorf("node %d: dendrogram has %d events for %d points", n.canon, len(n.dendrogram), len(n.points))
		}
		if len(n.points) == 0 || d.points[n.points[0]].ID != n.canon {
			return fmt.Errorf("node %d: canonical id does not match first point", n.canon)
		}

		var sx, sy float64
		for _, idx := range n.points {
			if owner[idx] >= 0 {
				return fmt.Errorf("point %d: owned by two nodes", d.points[idx].ID)
			}
			owner[idx] = int(id)
			sx += d.points[idx].X
			sy += d.points[idx].Y
		}
		k := float64(len(n.points))
		if math.Abs(sx/k-n.cx) > 1e-6*(1+math.Abs(n.cx)) || math.Abs(sy/k-n.cy) > 1e-6*(1+math.Abs(n.cy)) {
			return fmt.Errorf("node %d: centroid (%v, %v) is not the mean of its points", n.canon, n.cx, n.cy)
		}

		for nb := range n.out {
			if !d.cache.Contains(distcache.Key{Owner: id, Neighbor: nb}) {
				return fmt.Errorf("node %d: neighbour map entry %d has no record", n.canon, nb)
			}
		}
	}

	if live != d.grid.Len() {
		return fmt.Errorf("grid holds %d nodes, arena %d", d.grid.Len(), live)
	}
	for i, o := range owner {
		if o < 0 {
			return fmt.Errorf("point %d: not owned by any node", d.points[i].ID)
		}
	}

	for r := range d.cache.All() {
		o, n := d.nodes.Get(r.Owner), d.nodes.Get(r.Neighbor)
		if o == nil || n == nil {
			return fmt.Errorf("record (%d, %d): references a destroyed node", r.Owner, r.Neighbor)
		}
		if _, ok := o.out[r.Neighbor]; !ok {
			return fmt.Errorf("record (%d, %d): not in owner's neighbour map", o.canon, n.canon)
		}
		if !d.valid(r.Owner, r.Neighbor) {
			return fmt.Errorf("record (%d, %d): pair is outside the stencil", o.canon, n.canon)
		}
		if d.cache.Contains(distcache.Key{Owner: r.Neighbor, Neighbor: r.Owner}) {
			return fmt.Errorf("record (%d, %d): pair is stored twice", o.canon, n.canon)
		}
		if o.canon != r.OwnerCanon || n.canon != r.NeighborCanon {
			return fmt.Errorf("record (%d, %d): stale canonical ids", o.canon, n.canon)
		}
		want := d.strategy.Clusters(o.centroid(), n.centroid())
		if math.Abs(want-r.Distance) > verifyTolerance*(1+math.Abs(want)) {
			return fmt.Errorf("record (%d, %d): cached %v, current %v", o.canon, n.canon, r.Distance, want)
		}
	}

	// Every linkable pair must be cached.
	for id, n := range d.nodes.All() {
		for _, c := range forwardCells(n.cell) {
			neighbors, _ := d.grid.Find(c)
			for _, nb := range neighbors {
				if !d.valid(id, nb) || d.cache.Contains(distcache.Key{Owner: id, Neighbor: nb}) {
					continue
				}
				other := d.nodes.MustGet(nb)
				if dist := d.strategy.Clusters(n.centroid(), other.centroid()); dist > 0 {
					return fmt.Errorf("pair (%d, %d): linkable at %v but not cached", n.canon, other.canon, dist)
				}
			}
		}
	}
	return nil
}
