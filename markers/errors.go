package markers

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMarkerNotFound is returned when a requested marker is not present.
	ErrMarkerNotFound = errors.New("marker not found")

	// ErrNonFiniteSample is returned when a trajectory holds a NaN or infinite coordinate where a clean matrix is required.
	ErrNonFiniteSample = errors.New("non-finite sample")
)

// NewMarkerNotFoundError is used when a marker name is missing from a set or source.
func NewMarkerNotFoundError(name string) error {
	return errors.Wrapf(ErrMarkerNotFound, "%q", name)
}

// ShapeMismatchError is returned when sequences that must share a sample count do not.
type ShapeMismatchError struct {
	What     string
	Expected int
	Actual   int
}

// NewShapeMismatchError returns a *ShapeMismatchError.
func NewShapeMismatchError(what string, expected, actual int) error {
	return &ShapeMismatchError{What: what, Expected: expected, Actual: actual}
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch in %s: expected %d samples but got %d", e.What, e.Expected, e.Actual)
}
