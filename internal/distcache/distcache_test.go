package distcache

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/gridcluster/internal/arena"
	"github.com/hupe1980/gridcluster/model"
)

func rec(owner, neighbor arena.ID, d float64) Record {
	return Record{
		Key:           Key{Owner: owner, Neighbor: neighbor},
		Distance:      d,
		OwnerCanon:    model.PointID(owner),
		NeighborCanon: model.PointID(neighbor),
	}
}

func TestCache_InsertGetDelete(t *testing.T) {
	c := New()

	require.NoError(t, c.Insert(rec(1, 0, 2.5)))
	require.NoError(t, c.Insert(rec(2, 1, 1.5)))
	assert.ErrorIs(t, c.Insert(rec(1, 0, 9)), ErrDuplicateRecord)
	assert.Equal(t, 2, c.Len())

	r, ok := c.Get(Key{Owner: 1, Neighbor: 0})
	require.True(t, ok)
	assert.Equal(t, 2.5, r.Distance)

	_, ok = c.Get(Key{Owner: 0, Neighbor: 1})
	assert.False(t, ok, "keys are directional")

	assert.True(t, c.Delete(Key{Owner: 1, Neighbor: 0}))
	assert.False(t, c.Delete(Key{Owner: 1, Neighbor: 0}))
	assert.Equal(t, 1, c.Len())
	assert.False(t, c.Contains(Key{Owner: 1, Neighbor: 0}))
}

func TestCache_Min(t *testing.T) {
	c := New()

	_, ok := c.Min()
	assert.False(t, ok)

	require.NoError(t, c.Insert(rec(1, 0, 3)))
	require.NoError(t, c.Insert(rec(3, 2, 1)))
	require.NoError(t, c.Insert(rec(5, 4, 2)))

	m, ok := c.Min()
	require.True(t, ok)
	assert.Equal(t, Key{Owner: 3, Neighbor: 2}, m.Key)

	require.True(t, c.Update(Key{Owner: 3, Neighbor: 2}, 10))
	m, _ = c.Min()
	assert.Equal(t, Key{Owner: 5, Neighbor: 4}, m.Key)

	assert.False(t, c.Update(Key{Owner: 9, Neighbor: 9}, 1))

	c.Delete(Key{Owner: 5, Neighbor: 4})
	m, _ = c.Min()
	assert.Equal(t, Key{Owner: 1, Neighbor: 0}, m.Key)
}

func TestCache_TieBreakByCanonicalPair(t *testing.T) {
	c := New()

	require.NoError(t, c.Insert(rec(7, 5, 1)))
	require.NoError(t, c.Insert(rec(2, 9, 1)))
	require.NoError(t, c.Insert(rec(4, 3, 1)))

	m, _ := c.Min()
	assert.Equal(t, Key{Owner: 2, Neighbor: 9}, m.Key, "pair (2,9) has the lowest canonical id")

	c.Delete(m.Key)
	m, _ = c.Min()
	assert.Equal(t, Key{Owner: 4, Neighbor: 3}, m.Key)
}

func TestCache_Upsert(t *testing.T) {
	c := New()

	c.Upsert(rec(1, 0, 4))
	c.Upsert(rec(1, 0, 2))
	assert.Equal(t, 1, c.Len())

	r, _ := c.Get(Key{Owner: 1, Neighbor: 0})
	assert.Equal(t, 2.0, r.Distance)
}

func TestCache_AllSorted(t *testing.T) {
	c := New()
	rng := rand.New(rand.NewSource(4711))

	for i := range 200 {
		d := float64(rng.Intn(20))
		require.NoError(t, c.Insert(rec(arena.ID(i+1), arena.ID(i), d)))
	}
	for i := 0; i < 200; i += 3 {
		c.Delete(Key{Owner: arena.ID(i + 1), Neighbor: arena.ID(i)})
	}
	for i := 1; i < 200; i += 3 {
		c.Update(Key{Owner: arena.ID(i + 1), Neighbor: arena.ID(i)}, float64(rng.Intn(20)))
	}

	var got []float64
	for r := range c.All() {
		got = append(got, r.Distance)
	}
	assert.Len(t, got, c.Len())
	assert.True(t, slices.IsSorted(got))

	m, ok := c.Min()
	require.True(t, ok)
	assert.Equal(t, got[0], m.Distance)
}
