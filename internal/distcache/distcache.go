package distcache

import (
	"cmp"
	"errors"
	"iter"

	"github.com/emirpasic/gods/trees/redblacktree"

	"github.com/hupe1980/gridcluster/internal/arena"
	"github.com/hupe1980/gridcluster/model"
)

// ErrDuplicateRecord is returned by Insert when a record with the same
// (owner, neighbor) key is already cached.
var ErrDuplicateRecord = errors.New("distcache: duplicate record")

// Key identifies a record by its owning node and the neighbor it points at.
type Key struct {
	Owner    arena.ID
	Neighbor arena.ID
}

// Record is the cached distance from Owner to Neighbor.
//
// OwnerCanon and NeighborCanon are the canonical point ids of the two
// nodes. They break ties between equal distances so that the minimum is
// deterministic.
type Record struct {
	Key
	Distance      float64
	OwnerCanon    model.PointID
	NeighborCanon model.PointID
}

type sortKey struct {
	distance float64
	lo, hi   model.PointID
	key      Key
}

func (r Record) sortKey() sortKey {
	lo, hi := r.OwnerCanon, r.NeighborCanon
	if hi < lo {
		lo, hi = hi, lo
	}
	return sortKey{distance: r.Distance, lo: lo, hi: hi, key: r.Key}
}

// compareSortKeys orders by distance, then by the smaller and larger
// canonical id of the pair. Owner/neighbor ids make the order total.
func compareSortKeys(a, b interface{}) int {
	x, y := a.(sortKey), b.(sortKey)
	if c := cmp.Compare(x.distance, y.distance); c != 0 {
		return c
	}
	if c := cmp.Compare(x.lo, y.lo); c != 0 {
		return c
	}
	if c := cmp.Compare(x.hi, y.hi); c != 0 {
		return c
	}
	if c := cmp.Compare(x.key.Owner, y.key.Owner); c != 0 {
		return c
	}
	return cmp.Compare(x.key.Neighbor, y.key.Neighbor)
}

// Cache is a distance-sorted collection of records with O(1) lookup by key
// and O(log n) insert, update and delete.
//
// Cache is not safe for concurrent use.
type Cache struct {
	tree  *redblacktree.Tree
	index map[Key]Record
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		tree:  redblacktree.NewWith(compareSortKeys),
		index: make(map[Key]Record),
	}
}

// Insert adds r. It fails with ErrDuplicateRecord if r.Key is present.
func (c *Cache) Insert(r Record) error {
	if _, ok := c.index[r.Key]; ok {
		return ErrDuplicateRecord
	}
	c.index[r.Key] = r
	c.tree.Put(r.sortKey(), r)
	return nil
}

// Get returns the record stored under k.
func (c *Cache) Get(k Key) (Record, bool) {
	r, ok := c.index[k]
	return r, ok
}

// Contains reports whether a record is stored under k.
func (c *Cache) Contains(k Key) bool {
	_, ok := c.index[k]
	return ok
}

// Delete removes the record stored under k and reports whether it existed.
func (c *Cache) Delete(k Key) bool {
	r, ok := c.index[k]
	if !ok {
		return false
	}
	c.tree.Remove(r.sortKey())
	delete(c.index, k)
	return true
}

// Update changes the distance of the record stored under k, keeping the
// sorted view consistent. It reports false if k is not present.
func (c *Cache) Update(k Key, distance float64) bool {
	r, ok := c.index[k]
	if !ok {
		return false
	}
	if r.Distance == distance {
		return true
	}
	c.tree.Remove(r.sortKey())
	r.Distance = distance
	c.index[k] = r
	c.tree.Put(r.sortKey(), r)
	return true
}

// Upsert inserts r or updates the distance of an existing record.
func (c *Cache) Upsert(r Record) {
	if c.Update(r.Key, r.Distance) {
		return
	}
	c.index[r.Key] = r
	c.tree.Put(r.sortKey(), r)
}

// Min returns the record with the smallest distance.
func (c *Cache) Min() (Record, bool) {
	n := c.tree.Left()
	if n == nil {
		return Record{}, false
	}
	return n.Value.(Record), true
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	return len(c.index)
}

// All iterates over all records in ascending distance order.
func (c *Cache) All() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		it := c.tree.Iterator()
		for it.Next() {
			if !yield(it.Value().(Record)) {
				return
			}
		}
	}
}
