package hjc

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// MinMarkers is the fewest markers that constrain a centre of rotation in 3D.
const MinMarkers = 3

var (
	// ErrInsufficientMarkers is returned when fewer than MinMarkers trajectories are given.
	ErrInsufficientMarkers = errors.New("insufficient markers")

	// ErrInsufficientSamples is returned when the trajectories are shorter than Config.MinSamples.
	ErrInsufficientSamples = errors.New("insufficient samples")
)

// NewInsufficientMarkersError is used when too few markers are supplied.
func NewInsufficientMarkersError(got int) error {
	return errors.Wrapf(ErrInsufficientMarkers, "got %d, need at least %d", got, MinMarkers)
}

// NewInsufficientSamplesError is used when too few samples are supplied.
func NewInsufficientSamplesError(got, want int) error {
	return errors.Wrapf(ErrInsufficientSamples, "got %d, need at least %d", got, want)
}

// ConvergenceFailureError is returned when the bias correction has not settled within the
// iteration cap. Estimate is the last centre computed and Displacement the step that produced it,
// so a caller may still choose to accept the approximate result.
type ConvergenceFailureError struct {
	Estimate     r3.Vector
	Displacement float64
	Iterations   int
}

func (e *ConvergenceFailureError) Error() string {
	return fmt.Sprintf("joint centre did not converge after %d iterations (last displacement %g, estimate %v)",
		e.Iterations, e.Displacement, e.Estimate)
}
