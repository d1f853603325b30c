package silhouette

import "errors"

var (
	// ErrEmptyDendrogram is returned when a dendrogram has no merge events.
	ErrEmptyDendrogram = errors.New("silhouette: empty dendrogram")

	// ErrInvalidDendrogram is returned when an event references an unknown
	// leaf or joins two leaves that are already in the same cluster.
	ErrInvalidDendrogram = errors.New("silhouette: invalid dendrogram")

	// ErrInvalidClusterCount is returned when k is outside [1, leaves].
	ErrInvalidClusterCount = errors.New("silhouette: invalid cluster count")

	// ErrNonFiniteDistance is returned when a leaf distance is NaN or Inf.
	ErrNonFiniteDistance = errors.New("silhouette: non-finite distance")
)
