package arena

import (
	"errors"
	"fmt"
	"iter"
	"math"
)

// ErrArenaFull is returned when every addressable slot has been handed out.
var ErrArenaFull = errors.New("arena: no free slot ids left")

// ID is a stable slot index. It is never reused within one arena, so an
// ID held by a stale reference can be detected instead of aliasing a new
// value.
type ID uint32

// Invalid is the zero-value sentinel; Alloc never returns it.
const Invalid ID = math.MaxUint32

// Stats tracks arena usage.
//
// Note on semantics:
//   - Allocs: cumulative number of slots handed out
//   - Frees: cumulative number of slots released
//   - Live: slots currently holding a value
//   - Capacity: length of the backing slot slice
type Stats struct {
	Allocs   uint64
	Frees    uint64
	Live     int
	Capacity int
}

type slot[T any] struct {
	value T
	used  bool
}

// Arena stores values of type T in a slice and addresses them by ID.
//
// Freed slots keep their position and are tombstoned, so the IDs of live
// values never move. Arena is not safe for concurrent use.
type Arena[T any] struct {
	slots  []slot[T]
	live   int
	allocs uint64
	frees  uint64
}

// New creates an arena with room for capacity values before growing.
func New[T any](capacity int) *Arena[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Arena[T]{slots: make([]slot[T], 0, capacity)}
}

// Alloc stores v in a fresh slot and returns its ID.
func (a *Arena[T]) Alloc(v T) (ID, error) {
	if uint64(len(a.slots)) >= uint64(Invalid) {
		return Invalid, ErrArenaFull
	}
	id := ID(len(a.slots)) //nolint:gosec // bounded above
	a.slots = append(a.slots, slot[T]{value: v, used: true})
	a.live++
	a.allocs++
	return id, nil
}

// Get returns a pointer to the value stored under id, or nil if id was
// freed or never allocated. The pointer is invalidated by the next Alloc.
func (a *Arena[T]) Get(id ID) *T {
	if int(id) >= len(a.slots) || !a.slots[id].used {
		return nil
	}
	return &a.slots[id].value
}

// MustGet is like Get but panics on a dangling id. Use it where a dangling
// id can only be a broken internal invariant.
func (a *Arena[T]) MustGet(id ID) *T {
	v := a.Get(id)
	if v == nil {
		panic(fmt.Sprintf("arena: dangling reference to slot %d", id))
	}
	return v
}

// Contains reports whether id refers to a live value.
func (a *Arena[T]) Contains(id ID) bool {
	return int(id) < len(a.slots) && a.slots[id].used
}

// Free releases the slot. It reports false if the slot was not live.
func (a *Arena[T]) Free(id ID) bool {
	if !a.Contains(id) {
		return false
	}
	var zero T
	a.slots[id] = slot[T]{value: zero}
	a.live--
	a.frees++
	return true
}

// Live returns the number of live values.
func (a *Arena[T]) Live() int {
	return a.live
}

// All iterates over live values in ascending ID order.
func (a *Arena[T]) All() iter.Seq2[ID, *T] {
	return func(yield func(ID, *T) bool) {
		for i := range a.slots {
			if !a.slots[i].used {
				continue
			}
			if !yield(ID(i), &a.slots[i].value) { //nolint:gosec // bounded by Alloc
				return
			}
		}
	}
}

// Stats returns a snapshot of the arena usage.
func (a *Arena[T]) Stats() Stats {
	return Stats{
		Allocs:   a.allocs,
		Frees:    a.frees,
		Live:     a.live,
		Capacity: len(a.slots),
	}
}
