// Package spatialmath provides the vector and least-squares primitives used to fit joint centres.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// DegenerateVectorEpsilon is the smallest norm a vector may have and still be normalized.
const DegenerateVectorEpsilon = 1e-9

// ErrDegenerateVector is returned when a zero or near-zero length vector is given where a direction is needed.
var ErrDegenerateVector = errors.New("vector is degenerate")

// NewDegenerateVectorError returns an error describing the offending vector.
func NewDegenerateVectorError(v r3.Vector) error {
	return errors.Wrapf(ErrDegenerateVector, "norm %g of %v is below %g", v.Norm(), v, DegenerateVectorEpsilon)
}

// Normalize returns the unit vector in the direction of v.
func Normalize(v r3.Vector) (r3.Vector, error) {
	n := v.Norm()
	if n < DegenerateVectorEpsilon || math.IsNaN(n) {
		return r3.Vector{}, NewDegenerateVectorError(v)
	}
	return v.Mul(1 / n), nil
}

// Cross returns a × b.
func Cross(a, b r3.Vector) r3.Vector {
	return a.Cross(b)
}

// VectorsAlmostEqual reports whether every component of a and b differs by no more than tol.
func VectorsAlmostEqual(a, b r3.Vector, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

// Mean returns the arithmetic mean of the given points, or the zero vector if there are none.
func Mean(points []r3.Vector) r3.Vector {
	var sum r3.Vector
	if len(points) == 0 {
		return sum
	}
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(points)))
}

// OuterProduct returns the 3x3 matrix a·bᵀ in row-major order.
func OuterProduct(a, b r3.Vector) [9]float64 {
	return [9]float64{
		a.X * b.X, a.X * b.Y, a.X * b.Z,
		a.Y * b.X, a.Y * b.Y, a.Y * b.Z,
		a.Z * b.X, a.Z * b.Y, a.Z * b.Z,
	}
}
