// Package silhouette scores and cuts dendrograms.
//
// AverageWidth turns a dendrogram into a quality curve, Select picks the
// cluster count from it and Cut replays the merges to produce the groups.
// Membership during replay is tracked with roaring bitmaps over leaf
// indices; leaf distances live in a gonum symmetric matrix.
package silhouette
