// Package arena provides a slot arena for the cluster nodes of one
// clustering run.
//
// Nodes reference each other, the distance cache and the grid through
// stable integer IDs instead of pointers. Deleting a node tombstones its
// slot, so a stale ID resolves to nil rather than to freed or reused
// memory.
//
// # Safety
//
// Get returns nil for freed or unknown IDs. MustGet panics instead and
// is reserved for call sites where a dangling ID means a broken
// invariant.
package arena
