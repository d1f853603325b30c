package hac

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"github.com/hupe1980/gridcluster/distance"
	"github.com/hupe1980/gridcluster/internal/arena"
	"github.com/hupe1980/gridcluster/internal/distcache"
	"github.com/hupe1980/gridcluster/internal/grid"
	"github.com/hupe1980/gridcluster/model"
)

// MinPoints is the smallest input a Driver accepts.
const MinPoints = 2

// Config holds the grid resolution.
type Config struct {
	ThresholdX float64
	ThresholdY float64
}

// Pair is a candidate merge: the current cache minimum.
type Pair struct {
	A, B     arena.ID
	Distance float64
}

// MergeInfo describes a completed merge.
type MergeInfo struct {
	Event         model.MergeEvent
	Survivor      distance.Centroid
	Absorbed      distance.Centroid
	Result        distance.Centroid
	Step          int
	CacheLen      int
	SurvivorMoved bool
}

// Region is a converged node: a spatially isolated group of points and its
// merge history.
type Region struct {
	Canonical  model.PointID
	Centroid   distance.Centroid
	Cell       grid.Cell
	Points     []model.Point
	Dendrogram []model.MergeEvent
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		d.logger = l
	}
}

// WithObserver registers fn to be called after every merge.
func WithObserver(fn func(MergeInfo)) Option {
	return func(d *Driver) {
		d.observer = fn
	}
}

// Driver runs greedy nearest-pair agglomeration over a spatial grid.
//
// A Driver is single use and not safe for concurrent use. A failed merge
// leaves the grid and cache partially updated, so the first merge error is
// kept and returned by every later call to Merge or Run.
type Driver struct {
	points   []model.Point
	strategy distance.Strategy
	grid     *grid.Grid[arena.ID]
	nodes    *arena.Arena[node]
	cache    *distcache.Cache
	merges   int
	logger   *slog.Logger
	observer func(MergeInfo)
	err      error
}

// New validates points, places one node per point into the grid and
// computes the initial neighbour distances.
//
// Fewer than MinPoints points fail with an *InsufficientInputError before
// any state is built.
func New(points []model.Point, cfg Config, strategy distance.Strategy, opts ...Option) (*Driver, error) {
	if len(points) < MinPoints {
		return nil, &InsufficientInputError{Got: len(points)}
	}
	if strategy == nil {
		return nil, ErrNilStrategy
	}
	if err := validate(points); err != nil {
		return nil, err
	}

	g, err := grid.New[arena.ID](cfg.ThresholdX, cfg.ThresholdY)
	if err != nil {
		return nil, err
	}

	d := &Driver{
		points:   slices.Clone(points),
		strategy: strategy,
		grid:     g,
		nodes:    arena.New[node](len(points)),
		cache:    distcache.New(),
	}
	for _, opt := range opts {
		opt(d)
	}

	for i, p := range d.points {
		id, err := d.nodes.Alloc(node{
			cx:     p.X,
			cy:     p.Y,
			canon:  p.ID,
			points: []int{i},
			out:    make(map[arena.ID]struct{}),
		})
		if err != nil {
			return nil, err
		}
		d.nodes.MustGet(id).cell = d.grid.Insert(p.X, p.Y, id)
	}

	if err := d.initializeDistances(); err != nil {
		return nil, err
	}

	if d.logger != nil {
		tx, ty := d.grid.Thresholds()
		d.logger.Info("grid initialized",
			"points", len(d.points),
			"cells", d.grid.NumCells(),
			"size_x", d.grid.SizeX(),
			"size_y", d.grid.SizeY(),
			"threshold_x", tx,
			"threshold_y", ty,
			"records", d.cache.Len(),
		)
	}
	return d, nil
}

func validate(points []model.Point) error {
	seen := make(map[model.PointID]struct{}, len(points))
	for i, p := range points {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("%w: point %d (index %d) at (%v, %v)", ErrInvalidPoint, p.ID, i, p.X, p.Y)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicatePoint, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// initializeDistances scans the forward stencil of every occupied cell and
// records one distance per valid pair.
func (d *Driver) initializeDistances() error {
	for _, home := range d.grid.Cells() {
		owners, _ := d.grid.Find(home)
		for _, c := range forwardCells(home) {
			if !d.grid.InBounds(c) {
				continue
			}
			neighbors, ok := d.grid.Find(c)
			if !ok {
				continue
			}
			for _, o := range owners {
				for _, n := range neighbors {
					if !d.valid(o, n) {
						continue
					}
					dist, err := d.measure(o, n)
					if err != nil {
						return err
					}
					if dist < 0 {
						continue
					}
					if err := d.insert(o, n, dist); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// Minimum returns the closest linked pair. ok is false once the cache is
// empty, which means clustering has converged.
func (d *Driver) Minimum() (Pair, bool) {
	r, ok := d.cache.Min()
	if !ok {
		return Pair{}, false
	}
	return Pair{A: r.Owner, B: r.Neighbor, Distance: r.Distance}, true
}

// Run merges the closest pair until no linked pair remains. After a failed
// merge Run returns that error without touching the state again.
func (d *Driver) Run() error {
	if d.err != nil {
		return d.err
	}
	start := time.Now()

	for {
		p, ok := d.Minimum()
		if !ok {
			break
		}
		if !d.nodes.Contains(p.A) || !d.nodes.Contains(p.B) {
			panic(fmt.Sprintf("hac: cache record (%d, %d) references a destroyed node", p.A, p.B))
		}
		if err := d.Merge(p); err != nil {
			return err
		}
	}

	if d.logger != nil {
		stats := d.nodes.Stats()
		d.logger.Info("clustering converged",
			"points", len(d.points),
			"merges", d.merges,
			"regions", stats.Live,
			"node_capacity", stats.Capacity,
			"duration", time.Since(start),
		)
	}
	return nil
}

// Err returns the error of the first failed merge, or nil.
func (d *Driver) Err() error {
	return d.err
}

// Merges returns the number of merges performed so far.
func (d *Driver) Merges() int {
	return d.merges
}

// Live returns the number of live nodes.
func (d *Driver) Live() int {
	return d.nodes.Live()
}

// Pending returns the number of cached distance records.
func (d *Driver) Pending() int {
	return d.cache.Len()
}

// Regions returns a snapshot of all live nodes ordered by canonical id.
func (d *Driver) Regions() []Region {
	regions := make([]Region, 0, d.nodes.Live())
	for _, n := range d.nodes.All() {
		pts := make([]model.Point, len(n.points))
		for i, idx := range n.points {
			pts[i] = d.points[idx]
		}
		regions = append(regions, Region{
			Canonical:  n.canon,
			Centroid:   n.centroid(),
			Cell:       n.cell,
			Points:     pts,
			Dendrogram: slices.Clone(n.dendrogram),
		})
	}
	slices.SortFunc(regions, func(a, b Region) int {
		switch {
		case a.Canonical < b.Canonical:
			return -1
		case a.Canonical > b.Canonical:
			return 1
		}
		return 0
	})
	return regions
}

// valid reports whether owner may hold a record pointing at neighbor: the
// neighbour must sit in owner's forward stencil and, within one cell, have
// the smaller canonical id.
func (d *Driver) valid(owner, neighbor arena.ID) bool {
	if owner == neighbor {
		return false
	}
	o, n := d.nodes.Get(owner), d.nodes.Get(neighbor)
	if o == nil || n == nil {
		return false
	}
	off := grid.Cell{X: n.cell.X - o.cell.X, Y: n.cell.Y - o.cell.Y}
	if !inForward(off) {
		return false
	}
	if off == (grid.Cell{}) {
		return o.canon > n.canon
	}
	return true
}

func (d *Driver) measure(a, b arena.ID) (float64, error) {
	na, nb := d.nodes.MustGet(a), d.nodes.MustGet(b)
	dist := d.strategy.Clusters(na.centroid(), nb.centroid())
	if !distance.IsFinite(dist) {
		return 0, &DistanceError{A: na.canon, B: nb.canon, Value: dist}
	}
	return dist, nil
}

// link stores or refreshes the record owner -> neighbor.
func (d *Driver) link(owner, neighbor arena.ID, dist float64) {
	o, n := d.nodes.MustGet(owner), d.nodes.MustGet(neighbor)
	d.cache.Upsert(distcache.Record{
		Key:           distcache.Key{Owner: owner, Neighbor: neighbor},
		Distance:      dist,
		OwnerCanon:    o.canon,
		NeighborCanon: n.canon,
	})
	o.out[neighbor] = struct{}{}
}

// insert stores a new record owner -> neighbor. It fails with
// distcache.ErrDuplicateRecord when the pair is already represented.
func (d *Driver) insert(owner, neighbor arena.ID, dist float64) error {
	o, n := d.nodes.MustGet(owner), d.nodes.MustGet(neighbor)
	err := d.cache.Insert(distcache.Record{
		Key:           distcache.Key{Owner: owner, Neighbor: neighbor},
		Distance:      dist,
		OwnerCanon:    o.canon,
		NeighborCanon: n.canon,
	})
	if err != nil {
		return err
	}
	o.out[neighbor] = struct{}{}
	return nil
}

// unlink drops the record owner -> neighbor if present.
func (d *Driver) unlink(owner, neighbor arena.ID) {
	d.cache.Delete(distcache.Key{Owner: owner, Neighbor: neighbor})
	if o := d.nodes.Get(owner); o != nil {
		delete(o.out, neighbor)
	}
}
