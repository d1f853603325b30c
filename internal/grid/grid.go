package grid

import (
	"cmp"
	"errors"
	"iter"
	"maps"
	"math"
	"slices"
)

// ErrInvalidThreshold is returned when a bucket resolution is not a
// positive finite number.
var ErrInvalidThreshold = errors.New("grid: threshold must be positive and finite")

// Cell is the integer coordinate of a bucket.
type Cell struct {
	X int
	Y int
}

// Add returns the cell offset by (dx, dy).
func (c Cell) Add(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Compare orders cells by X, then Y.
func (c Cell) Compare(o Cell) int {
	if r := cmp.Compare(c.X, o.X); r != 0 {
		return r
	}
	return cmp.Compare(c.Y, o.Y)
}

// Grid buckets elements by the floor of their position divided by a fixed
// per-axis threshold. Empty buckets are pruned.
//
// Grid is not safe for concurrent use.
type Grid[E comparable] struct {
	thresholdX float64
	thresholdY float64
	cells      map[Cell][]E
	count      int

	// bounds of occupied cells, recomputed lazily after a bucket is pruned
	lo, hi Cell
	dirty  bool
}

// New creates an empty grid with the given bucket resolution.
func New[E comparable](thresholdX, thresholdY float64) (*Grid[E], error) {
	if !validThreshold(thresholdX) || !validThreshold(thresholdY) {
		return nil, ErrInvalidThreshold
	}
	return &Grid[E]{
		thresholdX: thresholdX,
		thresholdY: thresholdY,
		cells:      make(map[Cell][]E),
	}, nil
}

func validThreshold(t float64) bool {
	return t > 0 && !math.IsInf(t, 0) && !math.IsNaN(t)
}

// Thresholds returns the bucket resolution on both axes.
func (g *Grid[E]) Thresholds() (float64, float64) {
	return g.thresholdX, g.thresholdY
}

// CellOf returns the bucket for a position.
func (g *Grid[E]) CellOf(x, y float64) Cell {
	return Cell{
		X: int(math.Floor(x / g.thresholdX)),
		Y: int(math.Floor(y / g.thresholdY)),
	}
}

// Insert appends e to the bucket of (x, y) and returns that bucket.
func (g *Grid[E]) Insert(x, y float64, e E) Cell {
	c := g.CellOf(x, y)
	g.InsertAt(c, e)
	return c
}

// InsertAt appends e to the bucket c.
func (g *Grid[E]) InsertAt(c Cell, e E) {
	if len(g.cells) == 0 {
		g.lo, g.hi, g.dirty = c, c, false
	} else if !g.dirty {
		g.lo = Cell{X: min(g.lo.X, c.X), Y: min(g.lo.Y, c.Y)}
		g.hi = Cell{X: max(g.hi.X, c.X), Y: max(g.hi.Y, c.Y)}
	}
	g.cells[c] = append(g.cells[c], e)
	g.count++
}

// Remove erases e from bucket c, pruning the bucket if it becomes empty.
// It reports whether e was present; removing a missing element is a no-op.
func (g *Grid[E]) Remove(c Cell, e E) bool {
	list, ok := g.cells[c]
	if !ok {
		return false
	}
	i := slices.Index(list, e)
	if i < 0 {
		return false
	}
	list = slices.Delete(list, i, i+1)
	g.count--
	if len(list) == 0 {
		delete(g.cells, c)
		g.dirty = true
		return true
	}
	g.cells[c] = list
	return true
}

// Find returns the elements in bucket c. The slice is owned by the grid
// and must not be modified or retained across mutations.
func (g *Grid[E]) Find(c Cell) ([]E, bool) {
	list, ok := g.cells[c]
	return list, ok
}

// All iterates over all occupied buckets in no particular order.
func (g *Grid[E]) All() iter.Seq2[Cell, []E] {
	return func(yield func(Cell, []E) bool) {
		for c, list := range g.cells {
			if !yield(c, list) {
				return
			}
		}
	}
}

// Cells returns the occupied buckets ordered by X, then Y.
func (g *Grid[E]) Cells() []Cell {
	return slices.SortedFunc(maps.Keys(g.cells), Cell.Compare)
}

// Len returns the number of elements stored in the grid.
func (g *Grid[E]) Len() int {
	return g.count
}

// NumCells returns the number of occupied buckets.
func (g *Grid[E]) NumCells() int {
	return len(g.cells)
}

// Bounds returns the smallest and largest occupied coordinate on each
// axis. ok is false for an empty grid.
func (g *Grid[E]) Bounds() (lo, hi Cell, ok bool) {
	if len(g.cells) == 0 {
		return Cell{}, Cell{}, false
	}
	if g.dirty {
		first := true
		for c := range g.cells {
			if first {
				g.lo, g.hi, first = c, c, false
				continue
			}
			g.lo = Cell{X: min(g.lo.X, c.X), Y: min(g.lo.Y, c.Y)}
			g.hi = Cell{X: max(g.hi.X, c.X), Y: max(g.hi.Y, c.Y)}
		}
		g.dirty = false
	}
	return g.lo, g.hi, true
}

// SizeX returns the largest occupied X coordinate (0 for an empty grid).
func (g *Grid[E]) SizeX() int {
	_, hi, _ := g.Bounds()
	return hi.X
}

// SizeY returns the largest occupied Y coordinate (0 for an empty grid).
func (g *Grid[E]) SizeY() int {
	_, hi, _ := g.Bounds()
	return hi.Y
}

// InBounds reports whether c lies inside the occupied bounding box.
// Cells outside it cannot hold any element.
func (g *Grid[E]) InBounds(c Cell) bool {
	lo, hi, ok := g.Bounds()
	if !ok {
		return false
	}
	return c.X >= lo.X && c.X <= hi.X && c.Y >= lo.Y && c.Y <= hi.Y
}
