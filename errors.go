package gridcluster

import (
	"errors"
	"fmt"

	"github.com/hupe1980/gridcluster/internal/distcache"
	"github.com/hupe1980/gridcluster/internal/grid"
	"github.com/hupe1980/gridcluster/internal/hac"
	"github.com/hupe1980/gridcluster/internal/silhouette"
	"github.com/hupe1980/gridcluster/model"
)

var (
	// ErrInsufficientInput is returned when fewer than two points are supplied.
	ErrInsufficientInput = errors.New("insufficient input")

	// ErrInvalidThreshold is returned when a grid threshold is not positive and finite.
	ErrInvalidThreshold = errors.New("invalid grid threshold")

	// ErrInvalidPoint is returned when a point has a non-finite coordinate.
	ErrInvalidPoint = errors.New("invalid point")

	// ErrDuplicatePoint is returned when two points share an identifier.
	ErrDuplicatePoint = errors.New("duplicate point id")

	// ErrNonFiniteDistance is returned when the distance strategy yields NaN or Inf.
	ErrNonFiniteDistance = errors.New("non-finite distance")

	// ErrInvalidClusterCount is returned when a cut asks for an impossible number of clusters.
	ErrInvalidClusterCount = errors.New("invalid cluster count")

	// ErrEmptyDendrogram is returned when a region has no merge history to score or render.
	ErrEmptyDendrogram = errors.New("empty dendrogram")

	// ErrInvalidDendrogram is returned when a merge history is inconsistent with its leaves.
	ErrInvalidDendrogram = errors.New("invalid dendrogram")

	// ErrDuplicateRecord is returned when a distance record is stored twice.
	ErrDuplicateRecord = errors.New("duplicate distance record")

	// ErrInvalidOption is returned when an option value is out of range.
	ErrInvalidOption = errors.New("invalid option")

	// ErrNotRun is returned when results are requested before Run.
	ErrNotRun = errors.New("clustering has not been run")

	// ErrUnknownRegion is returned when no region has the given canonical id.
	ErrUnknownRegion = errors.New("unknown region")
)

// InsufficientInputError reports how many points were supplied.
//
// It matches ErrInsufficientInput with errors.Is; the original underlying
// error can be accessed via errors.Unwrap.
type InsufficientInputError struct {
	Got   int
	Want  int
	cause error
}

func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("insufficient input: need at least %d points, got %d", e.Want, e.Got)
}

func (e *InsufficientInputError) Is(target error) bool { return target == ErrInsufficientInput }

func (e *InsufficientInputError) Unwrap() error { return e.cause }

// DistanceError reports a non-finite distance between two clusters or
// points, named by their canonical ids.
//
// It matches ErrNonFiniteDistance with errors.Is; the original underlying
// error can be accessed via errors.Unwrap.
type DistanceError struct {
	A, B  model.PointID
	Value float64
	cause error
}

func (e *DistanceError) Error() string {
	return fmt.Sprintf("non-finite distance %v between %d and %d", e.Value, e.A, e.B)
}

func (e *DistanceError) Is(target error) bool { return target == ErrNonFiniteDistance }

func (e *DistanceError) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var ie *hac.InsufficientInputError
	if errors.As(err, &ie) {
		return &InsufficientInputError{Got: ie.Got, Want: hac.MinPoints, cause: err}
	}
	var de *hac.DistanceError
	if errors.As(err, &de) {
		return &DistanceError{A: de.A, B: de.B, Value: de.Value, cause: err}
	}

	for _, m := range []struct {
		internal error
		public   error
	}{
		{grid.ErrInvalidThreshold, ErrInvalidThreshold},
		{hac.ErrInvalidPoint, ErrInvalidPoint},
		{hac.ErrDuplicatePoint, ErrDuplicatePoint},
		{hac.ErrNonFiniteDistance, ErrNonFiniteDistance},
		{hac.ErrNilStrategy, ErrInvalidOption},
		{silhouette.ErrNonFiniteDistance, ErrNonFiniteDistance},
		{silhouette.ErrInvalidClusterCount, ErrInvalidClusterCount},
		{silhouette.ErrEmptyDendrogram, ErrEmptyDendrogram},
		{silhouette.ErrInvalidDendrogram, ErrInvalidDendrogram},
		{distcache.ErrDuplicateRecord, ErrDuplicateRecord},
	} {
		if errors.Is(err, m.internal) {
			return fmt.Errorf("%w: %w", m.public, err)
		}
	}

	return err
}
