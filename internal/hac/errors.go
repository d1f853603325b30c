package hac

import (
	"errors"
	"fmt"

	"github.com/hupe1980/gridcluster/model"
)

var (
	// ErrInsufficientInput is returned when fewer than two points are supplied.
	ErrInsufficientInput = errors.New("hac: insufficient input")

	// ErrInvalidPoint is returned when a point has a non-finite coordinate.
	ErrInvalidPoint = errors.New("hac: invalid point")

	// ErrDuplicatePoint is returned when two points share an identifier.
	ErrDuplicatePoint = errors.New("hac: duplicate point id")

	// ErrNonFiniteDistance is returned when the distance strategy yields NaN or Inf.
	ErrNonFiniteDistance = errors.New("hac: non-finite distance")

	// ErrNilStrategy is returned when no distance strategy is configured.
	ErrNilStrategy = errors.New("hac: distance strategy is nil")
)

// InsufficientInputError reports how many points were supplied.
type InsufficientInputError struct {
	Got int
}

func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("hac: insufficient input: need at least %d points, got %d", MinPoints, e.Got)
}

func (e *InsufficientInputError) Unwrap() error { return ErrInsufficientInput }

// DistanceError reports a distance strategy failure between two nodes,
// named by their canonical point ids.
type DistanceError struct {
	A, B  model.PointID
	Value float64
}

func (e *DistanceError) Error() string {
	return fmt.Sprintf("hac: non-finite distance %v between %d and %d", e.Value, e.A, e.B)
}

func (e *DistanceError) Unwrap() error { return ErrNonFiniteDistance }
