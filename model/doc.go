// Package model defines core types used throughout gridcluster.
//
// # Identity Types
//
//   - PointID: Stable, caller-assigned identifier of an observation (uint64)
//
// # Data Types
//
//   - Point: Immutable 2D observation plus output-only cluster annotation
//   - MergeEvent: One step of a dendrogram (two canonical ids + distance)
//   - Cluster: Final flat cluster with its annotated member points
//
// A cluster's canonical identifier is the id of the first point it
// absorbed. Merge events always name clusters by canonical id, so a
// dendrogram can be replayed without any other bookkeeping.
package model
