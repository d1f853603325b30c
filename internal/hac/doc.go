// Package hac implements grid-accelerated greedy agglomerative clustering.
//
// Every input point starts as a singleton node in a spatial grid. Distances
// are only kept between nodes in neighbouring cells, using a half stencil so
// each unordered pair is stored once. The driver repeatedly merges the
// closest pair, moves the survivor to the cell of its new centroid and
// repairs the cached distances around both nodes. It stops when no linked
// pair remains; every remaining node is a Region with its own dendrogram.
//
// Nodes live in an arena and are addressed by slot id, so cache records and
// grid buckets never hold references to destroyed nodes.
package hac
