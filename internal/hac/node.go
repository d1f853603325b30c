package hac

import (
	"maps"
	"slices"

	"github.com/hupe1980/gridcluster/distance"
	"github.com/hupe1980/gridcluster/internal/arena"
	"github.com/hupe1980/gridcluster/internal/grid"
	"github.com/hupe1980/gridcluster/model"
)

// node is a cluster under construction.
type node struct {
	cx, cy float64
	cell   grid.Cell

	// canon is the id of the first absorbed point; it never changes for a
	// surviving node.
	canon model.PointID

	// points are indices into Driver.points in absorption order.
	points []int

	dendrogram []model.MergeEvent

	// out holds the neighbours this node owns a cache record for.
	out map[arena.ID]struct{}
}

func (n *node) size() int {
	return len(n.points)
}

func (n *node) centroid() distance.Centroid {
	return distance.Centroid{X: n.cx, Y: n.cy, Size: len(n.points)}
}

// neighbors returns the owned neighbour ids in ascending order.
func (n *node) neighbors() []arena.ID {
	return slices.Sorted(maps.Keys(n.out))
}

// forward is the half neighbourhood scanned from a home cell. Together with
// its point reflection it covers the 3x3 block exactly once; (-1, 0) is
// reached from the other side as (1, 0).
var forward = [...]grid.Cell{{X: -1, Y: 1}, {X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 0}, {X: 1, Y: 1}}

func inForward(off grid.Cell) bool {
	for _, f := range forward {
		if f == off {
			return true
		}
	}
	return false
}

// forwardCells returns the cells scanned from home.
func forwardCells(home grid.Cell) []grid.Cell {
	cells := make([]grid.Cell, len(forward))
	for i, f := range forward {
		cells[i] = home.Add(f.X, f.Y)
	}
	return cells
}

// mirrorCells returns the cells whose forward stencil contains one of the
// given centres, deduplicated and ordered.
func mirrorCells(centres ...grid.Cell) []grid.Cell {
	seen := make(map[grid.Cell]struct{}, len(centres)*len(forward))
	for _, c := range centres {
		for _, f := range forward {
			seen[c.Add(-f.X, -f.Y)] = struct{}{}
		}
	}
	return slices.SortedFunc(maps.Keys(seen), grid.Cell.Compare)
}
