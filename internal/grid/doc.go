// Package grid provides the spatial hash used to find candidate neighbours.
//
// Elements live in integer buckets computed as floor(position/threshold)
// on each axis. Two elements can only be neighbours when their buckets
// differ by at most one on both axes.
package grid
