package referenceframe

import (
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/hjc/markers"
	"go.viam.com/hjc/spatialmath"
)

func randomVector(rnd *rand.Rand, scale float64) r3.Vector {
	return r3.Vector{
		X: (rnd.Float64()*2 - 1) * scale,
		Y: (rnd.Float64()*2 - 1) * scale,
		Z: (rnd.Float64()*2 - 1) * scale,
	}
}

func TestSegmentOrientationAxes(t *testing.T) {
	// longitudinal along x, lateral along y
	e1, e2, e3, err := SegmentOrientation([]r3.Vector{{X: 2}}, []r3.Vector{{Y: 5}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.VectorsAlmostEqual(e1[0], r3.Vector{X: 1}, 1e-12), test.ShouldBeTrue)
	test.That(t, spatialmath.VectorsAlmostEqual(e2[0], r3.Vector{Z: -1}, 1e-12), test.ShouldBeTrue)
	test.That(t, spatialmath.VectorsAlmostEqual(e3[0], r3.Vector{Y: 1}, 1e-12), test.ShouldBeTrue)
}

func TestSegmentOrientationOrthonormal(t *testing.T) {
	//nolint:gosec
	rnd := rand.New(rand.NewSource(7))
	const n = 1000
	v1 := make([]r3.Vector, n)
	v3 := make([]r3.Vector, n)
	for i := range v1 {
		v1[i] = randomVector(rnd, 300)
		// lateral reference that is not perpendicular to v1
		v3[i] = randomVector(rnd, 300)
	}
	e1, e2, e3, err := SegmentOrientation(v1, v3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, e1, test.ShouldHaveLength, n)
	test.That(t, e2, test.ShouldHaveLength, n)
	test.That(t, e3, test.ShouldHaveLength, n)

	for i := 0; i < n; i++ {
		test.That(t, e1[i].Norm(), test.ShouldAlmostEqual, 1., 1e-9)
		test.That(t, e2[i].Norm(), test.ShouldAlmostEqual, 1., 1e-9)
		test.That(t, e3[i].Norm(), test.ShouldAlmostEqual, 1., 1e-9)
		test.That(t, e1[i].Dot(e2[i]), test.ShouldAlmostEqual, 0., 1e-9)
		test.That(t, e1[i].Dot(e3[i]), test.ShouldAlmostEqual, 0., 1e-9)
		test.That(t, e2[i].Dot(e3[i]), test.ShouldAlmostEqual, 0., 1e-9)
		test.That(t, spatialmath.VectorsAlmostEqual(e1[i].Cross(e2[i]), e3[i], 1e-9), test.ShouldBeTrue)

		// e1 keeps the direction of v1 and e3 stays on the same side as v3
		test.That(t, spatialmath.VectorsAlmostEqual(e1[i], v1[i].Normalize(), 1e-9), test.ShouldBeTrue)
		test.That(t, e3[i].Dot(v3[i]), test.ShouldBeGreaterThan, 0.)
	}
}

func TestSegmentOrientationDegenerate(t *testing.T) {
	good1 := r3.Vector{X: 1}
	good3 := r3.Vector{Y: 1}

	t.Run("parallel", func(t *testing.T) {
		v1 := []r3.Vector{good1, {X: 1, Y: 1}, good1}
		v3 := []r3.Vector{good3, {X: -2, Y: -2}, good3}
		_, _, _, err := SegmentOrientation(v1, v3)
		var frameErr *DegenerateFrameError
		test.That(t, errors.As(err, &frameErr), test.ShouldBeTrue)
		test.That(t, frameErr.Sample, test.ShouldEqual, 1)
		test.That(t, errors.Is(err, ErrParallelReferenceVectors), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, "sample 1")
	})

	t.Run("zero longitudinal", func(t *testing.T) {
		_, _, _, err := SegmentOrientation([]r3.Vector{{}}, []r3.Vector{good3})
		var frameErr *DegenerateFrameError
		test.That(t, errors.As(err, &frameErr), test.ShouldBeTrue)
		test.That(t, frameErr.Sample, test.ShouldEqual, 0)
		test.That(t, errors.Is(err, spatialmath.ErrDegenerateVector), test.ShouldBeTrue)
	})

	t.Run("zero lateral", func(t *testing.T) {
		_, _, _, err := SegmentOrientation([]r3.Vector{good1, good1}, []r3.Vector{good3, {}})
		var frameErr *DegenerateFrameError
		test.That(t, errors.As(err, &frameErr), test.ShouldBeTrue)
		test.That(t, frameErr.Sample, test.ShouldEqual, 1)
		test.That(t, errors.Is(err, spatialmath.ErrDegenerateVector), test.ShouldBeTrue)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, _, _, err := SegmentOrientation([]r3.Vector{good1, good1}, []r3.Vector{good3})
		var shapeErr *markers.ShapeMismatchError
		test.That(t, errors.As(err, &shapeErr), test.ShouldBeTrue)
	})
}
