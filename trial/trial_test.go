package trial

import (
	"context"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/hjc/hjc"
	"go.viam.com/hjc/logging"
	"go.viam.com/hjc/markers"
	"go.viam.com/hjc/referenceframe"
	"go.viam.com/hjc/spatialmath"
)

func rotX(v r3.Vector, a float64) r3.Vector {
	s, c := math.Sincos(a)
	return r3.Vector{X: v.X, Y: c*v.Y - s*v.Z, Z: s*v.Y + c*v.Z}
}

func rotZ(v r3.Vector, a float64) r3.Vector {
	s, c := math.Sincos(a)
	return r3.Vector{X: c*v.X - s*v.Y, Y: s*v.X + c*v.Y, Z: v.Z}
}

var (
	// pelvis-fixed positions, x anterior, y up, z right
	pelvisBody = map[string]r3.Vector{
		"LASI": {X: 60, Y: 0, Z: -120},
		"RASI": {X: 60, Y: 0, Z: 120},
		"LPSI": {X: -100, Y: 30, Z: -40},
		"RPSI": {X: -100, Y: 30, Z: 40},
	}
	hipBody     = r3.Vector{X: 20, Y: -80, Z: 85}
	thighOffset = map[string]r3.Vector{
		"TH1": {X: 40, Y: -150, Z: 30},
		"TH2": {X: -30, Y: -300, Z: 50},
		"TH3": {X: 10, Y: -230, Z: 80},
	}
)

type pose struct {
	yaw   float64
	trans r3.Vector
}

func (p pose) apply(body r3.Vector) r3.Vector {
	return rotZ(rotX(body, p.yaw), 0.1*p.yaw).Add(p.trans)
}

func poseAt(i int) pose {
	t := float64(i) / 100
	return pose{yaw: 0.2 * math.Sin(t), trans: r3.Vector{X: 1000 * t, Y: 900 + 10*math.Sin(5*t), Z: 5 * t}}
}

// walkingTrial moves a pelvis forward while the thigh swings about a hip fixed in the pelvis.
func walkingTrial(n int) markers.Set {
	set := markers.Set{}
	for name := range pelvisBody {
		set[name] = make(markers.Trajectory, n)
	}
	for name := range thighOffset {
		set[name] = make(markers.Trajectory, n)
	}
	for i := 0; i < n; i++ {
		p := poseAt(i)
		for name, body := range pelvisBody {
			set[name][i] = p.apply(body)
		}
		tt := 2 * math.Pi * float64(i) / float64(n)
		for name, off := range thighOffset {
			swung := rotZ(rotX(off, 0.3*math.Sin(2*tt)), 0.6*math.Sin(tt))
			set[name][i] = p.apply(hipBody.Add(swung))
		}
	}
	return set
}

func newEstimator(t *testing.T) *hjc.Estimator {
	t.Helper()
	est, err := hjc.NewEstimator(hjc.DefaultConfig(), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return est
}

func TestPelvisFrames(t *testing.T) {
	set := walkingTrial(50)
	frames, err := PelvisFrames(set, DefaultPelvisMarkers())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, frames, test.ShouldHaveLength, 50)

	for i, f := range frames {
		origin := set["LASI"][i].Add(set["RASI"][i]).Mul(0.5)
		test.That(t, spatialmath.VectorsAlmostEqual(f.Origin, origin, 1e-9), test.ShouldBeTrue)
		// the hip stays put in the pelvis frame
		local := f.ToLocal(poseAt(i).apply(hipBody))
		first := frames[0].ToLocal(poseAt(0).apply(hipBody))
		test.That(t, spatialmath.VectorsAlmostEqual(local, first, 1e-9), test.ShouldBeTrue)
		// RASI lies on the positive lateral axis
		test.That(t, f.ToLocal(set["RASI"][i]).Z, test.ShouldBeGreaterThan, 0.)
	}

	t.Run("missing marker", func(t *testing.T) {
		_, err := PelvisFrames(set, PelvisMarkers{LASI: "L", RASI: "RASI", LPSI: "LPSI", RPSI: "RPSI"})
		test.That(t, errors.Is(err, markers.ErrMarkerNotFound), test.ShouldBeTrue)
	})

	t.Run("coincident asis", func(t *testing.T) {
		bad := markers.Set{}
		for name, traj := range set {
			bad[name] = traj
		}
		bad["RASI"] = bad["LASI"]
		_, err := PelvisFrames(bad, DefaultPelvisMarkers())
		var frameErr *referenceframe.DegenerateFrameError
		test.That(t, errors.As(err, &frameErr), test.ShouldBeTrue)
		test.That(t, frameErr.Sample, test.ShouldEqual, 0)
	})
}

func TestPelvisMarkersDefaults(t *testing.T) {
	pm := PelvisMarkers{LASI: "LAsis"}.WithDefaults()
	test.That(t, pm.Names(), test.ShouldResemble, []string{"LAsis", "RASI", "LPSI", "RPSI"})
}

func TestRun(t *testing.T) {
	const n = 400
	set := walkingTrial(n)
	set["TH2"][17] = r3.Vector{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}
	set["LPSI"][300] = r3.Vector{Y: math.NaN()}

	spec := Spec{
		Name:    "walk01",
		Subject: "S01",
		Source:  markers.NewStaticSource(set),
		Thigh:   []string{"TH1", "TH2", "TH3"},
	}
	logger, logs := logging.NewObservedTestLogger(t)
	res, err := Run(context.Background(), spec, newEstimator(t), logger)
	test.That(t, err, test.ShouldBeNil)
	dropped := logs.FilterMessage("dropped samples with missing markers").All()
	test.That(t, dropped, test.ShouldHaveLength, 1)
	test.That(t, dropped[0].ContextMap()["dropped"], test.ShouldEqual, int64(2))
	test.That(t, dropped[0].ContextMap()["kept"], test.ShouldEqual, int64(n-2))
	test.That(t, res.Name, test.ShouldEqual, "walk01")
	test.That(t, res.Subject, test.ShouldEqual, "S01")
	test.That(t, res.SampleIndices, test.ShouldHaveLength, n-2)
	test.That(t, res.SampleIndices, test.ShouldNotContain, 17)
	test.That(t, res.SampleIndices, test.ShouldNotContain, 300)
	test.That(t, res.GlobalTrajectory, test.ShouldHaveLength, n-2)

	frames, err := PelvisFrames(walkingTrial(1), DefaultPelvisMarkers())
	test.That(t, err, test.ShouldBeNil)
	want := frames[0].ToLocal(poseAt(0).apply(hipBody))
	test.That(t, spatialmath.VectorsAlmostEqual(res.JointCentre.Centre, want, 1e-6), test.ShouldBeTrue)

	for j, i := range res.SampleIndices {
		test.That(t, spatialmath.VectorsAlmostEqual(res.GlobalTrajectory[j], poseAt(i).apply(hipBody), 1e-6), test.ShouldBeTrue)
	}
}

func TestRunErrors(t *testing.T) {
	est := newEstimator(t)
	logger := logging.NewTestLogger(t)

	_, err := Run(context.Background(), Spec{Name: "nosource"}, est, logger)
	test.That(t, err, test.ShouldNotBeNil)

	set := walkingTrial(100)
	_, err = Run(context.Background(), Spec{
		Name:   "two markers",
		Source: markers.NewStaticSource(set),
		Thigh:  []string{"TH1", "TH2"},
	}, est, logger)
	test.That(t, errors.Is(err, hjc.ErrInsufficientMarkers), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "two markers")

	_, err = Run(context.Background(), Spec{
		Name:   "unknown",
		Source: markers.NewStaticSource(set),
		Thigh:  []string{"TH1", "TH2", "TH9"},
	}, est, logger)
	test.That(t, errors.Is(err, markers.ErrMarkerNotFound), test.ShouldBeTrue)

	ragged := walkingTrial(100)
	ragged["TH3"] = ragged["TH3"][:99]
	_, err = Run(context.Background(), Spec{
		Name:   "ragged",
		Source: markers.NewStaticSource(ragged),
		Thigh:  []string{"TH1", "TH2", "TH3"},
	}, est, logger)
	var shapeErr *markers.ShapeMismatchError
	test.That(t, errors.As(err, &shapeErr), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, `trial "ragged"`)
}

func TestRunAll(t *testing.T) {
	est := newEstimator(t)
	logger := logging.NewTestLogger(t)
	thigh := []string{"TH1", "TH2", "TH3"}

	specs := []Spec{
		{Name: "a", Source: markers.NewStaticSource(walkingTrial(200)), Thigh: thigh},
		{Name: "b", Source: markers.NewStaticSource(walkingTrial(300)), Thigh: thigh},
		{Name: "c", Source: markers.NewStaticSource(walkingTrial(250)), Thigh: thigh},
	}
	results, err := RunAll(context.Background(), specs, est, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, results, test.ShouldHaveLength, 3)
	for i, res := range results {
		test.That(t, res.Name, test.ShouldEqual, specs[i].Name)
		test.That(t, spatialmath.VectorsAlmostEqual(res.JointCentre.Centre, results[0].JointCentre.Centre, 1e-6), test.ShouldBeTrue)
	}
	test.That(t, results[1].GlobalTrajectory, test.ShouldHaveLength, 300)

	specs = append(specs, Spec{Name: "broken", Source: markers.NewStaticSource(walkingTrial(10)), Thigh: thigh[:2]})
	_, err = RunAll(context.Background(), specs, est, logger)
	test.That(t, errors.Is(err, hjc.ErrInsufficientMarkers), test.ShouldBeTrue)
}
