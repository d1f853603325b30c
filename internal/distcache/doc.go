// Package distcache implements the shared inter-cluster distance cache.
//
// Records are indexed twice: by (owner, neighbor) key in a hash map and
// by (distance, canonical pair) in a red-black tree, so the global minimum
// is always the leftmost tree node.
package distcache
