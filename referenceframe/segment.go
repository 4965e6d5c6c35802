// Package referenceframe builds anatomical segment frames and moves points between them and the global frame.
package referenceframe

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/hjc/markers"
	"go.viam.com/hjc/spatialmath"
)

// ErrParallelReferenceVectors is returned when the two vectors defining a segment frame are parallel.
var ErrParallelReferenceVectors = errors.New("reference vectors are parallel")

// DegenerateFrameError is returned when no orthonormal frame can be built for a sample.
type DegenerateFrameError struct {
	Sample int
	Err    error
}

func (e *DegenerateFrameError) Error() string {
	return fmt.Sprintf("degenerate segment frame at sample %d: %v", e.Sample, e.Err)
}

func (e *DegenerateFrameError) Unwrap() error {
	return e.Err
}

// SegmentOrientation builds a right-handed orthonormal basis per sample from a longitudinal
// reference v1 and a lateral reference v3. e1 follows v1 exactly; v3 only needs to be
// roughly perpendicular to v1 since e3 is rebuilt as e1 × e2.
func SegmentOrientation(v1, v3 []r3.Vector) (e1, e2, e3 []r3.Vector, err error) {
	if len(v1) != len(v3) {
		return nil, nil, nil, markers.NewShapeMismatchError("segment reference vectors", len(v1), len(v3))
	}
	e1 = make([]r3.Vector, len(v1))
	e2 = make([]r3.Vector, len(v1))
	e3 = make([]r3.Vector, len(v1))
	for i := range v1 {
		e1[i], e2[i], e3[i], err = orthonormalBasis(v1[i], v3[i])
		if err != nil {
			return nil, nil, nil, &DegenerateFrameError{Sample: i, Err: err}
		}
	}
	return e1, e2, e3, nil
}

func orthonormalBasis(v1, v3 r3.Vector) (r3.Vector, r3.Vector, r3.Vector, error) {
	e1, err := spatialmath.Normalize(v1)
	if err != nil {
		return r3.Vector{}, r3.Vector{}, r3.Vector{}, err
	}
	lateral, err := spatialmath.Normalize(v3)
	if err != nil {
		return r3.Vector{}, r3.Vector{}, r3.Vector{}, err
	}
	e2, err := spatialmath.Normalize(spatialmath.Cross(lateral, e1))
	if err != nil {
		return r3.Vector{}, r3.Vector{}, r3.Vector{}, errors.Wrapf(ErrParallelReferenceVectors, "%v and %v", v1, v3)
	}
	return e1, e2, spatialmath.Cross(e1, e2), nil
}
