package model

import (
	"cmp"
	"fmt"
	"slices"
)

// PointID is the user-facing stable identifier of a point.
// Invariant: unique within one clustering run.
type PointID uint64

// Unassigned marks a point that has not been annotated with a cluster yet.
const Unassigned = -1

// Point is a single observation in the plane.
//
// X and Y are the two axes (e.g. retention time and m/z). ClusterID and
// ClusterSize are written once, when final clusters are created.
type Point struct {
	ID PointID
	X  float64
	Y  float64

	ClusterID   int
	ClusterSize int
}

// NewPoint returns an unannotated point.
func NewPoint(id PointID, x, y float64) Point {
	return Point{ID: id, X: x, Y: y, ClusterID: Unassigned}
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("Point(%d: %g, %g)", p.ID, p.X, p.Y)
}

// ComparePoints orders points by identifier.
func ComparePoints(a, b Point) int {
	return cmp.Compare(a.ID, b.ID)
}

// MergeEvent records that cluster Right was absorbed into cluster Left.
// Left and Right are canonical point identifiers; Left survives.
type MergeEvent struct {
	Left     PointID
	Right    PointID
	Distance float64
}

// String returns a string representation of the MergeEvent.
func (e MergeEvent) String() string {
	return fmt.Sprintf("Merge(%d <- %d @ %g)", e.Left, e.Right, e.Distance)
}

// SortByDistance returns a copy of events ordered by merge distance.
// The sort is stable so events with equal distance keep their merge order.
func SortByDistance(events []MergeEvent) []MergeEvent {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b MergeEvent) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return sorted
}

// Cluster is a final flat cluster.
type Cluster struct {
	// ID is the cluster identifier shared by all member points.
	ID int
	// Points are the members, ordered by point identifier.
	Points []Point
}

// Size returns the number of member points.
func (c Cluster) Size() int {
	return len(c.Points)
}

// IDs returns the identifiers of all member points.
func (c Cluster) IDs() []PointID {
	ids := make([]PointID, len(c.Points))
	for i, p := range c.Points {
		ids[i] = p.ID
	}
	return ids
}
