package hjc

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"

	"go.viam.com/hjc/markers"
)

func rotX(v r3.Vector, a float64) r3.Vector {
	s, c := math.Sincos(a)
	return r3.Vector{X: v.X, Y: c*v.Y - s*v.Z, Z: s*v.Y + c*v.Z}
}

func rotY(v r3.Vector, a float64) r3.Vector {
	s, c := math.Sincos(a)
	return r3.Vector{X: c*v.X + s*v.Z, Y: v.Y, Z: -s*v.X + c*v.Z}
}

func rotZ(v r3.Vector, a float64) r3.Vector {
	s, c := math.Sincos(a)
	return r3.Vector{X: c*v.X - s*v.Y, Y: s*v.X + c*v.Y, Z: v.Z}
}

// rigidBodyMotion moves markers fixed to a thigh through a star-arc like movement about
// centre: flexion about z, abduction about x and axial rotation about y, each on its own
// frequency so the rotation axis keeps changing.
func rigidBodyMotion(centre r3.Vector, offsets map[string]r3.Vector, n int) markers.Set {
	set := make(markers.Set, len(offsets))
	for name, off := range offsets {
		traj := make(markers.Trajectory, n)
		for i := range traj {
			t := 2 * math.Pi * float64(i) / float64(n)
			p := rotY(off, 0.25*math.Sin(3*t))
			p = rotX(p, 0.35*math.Sin(2*t+0.4))
			p = rotZ(p, 0.7*math.Sin(t))
			traj[i] = centre.Add(p)
		}
		set[name] = traj
	}
	return set
}

func thighOffsets() map[string]r3.Vector {
	return map[string]r3.Vector{
		"TH1": {X: 30, Y: -180, Z: 60},
		"TH2": {X: -20, Y: -320, Z: 70},
		"TH3": {X: 10, Y: -260, Z: 110},
		"TH4": {X: 55, Y: -400, Z: 40},
	}
}

// greatCircles returns three markers each tracing a circle of the given radius about centre in
// one of the three coordinate planes.
func greatCircles(centre r3.Vector, radius float64, n int) markers.Set {
	planes := map[string]func(s, c float64) r3.Vector{
		"TH1": func(s, c float64) r3.Vector { return r3.Vector{X: c, Y: s} },
		"TH2": func(s, c float64) r3.Vector { return r3.Vector{Y: c, Z: s} },
		"TH3": func(s, c float64) r3.Vector { return r3.Vector{X: s, Z: c} },
	}
	set := make(markers.Set, len(planes))
	for name, plane := range planes {
		traj := make(markers.Trajectory, n)
		for i := range traj {
			s, c := math.Sincos(2 * math.Pi * float64(i) / float64(n))
			traj[i] = centre.Add(plane(s, c).Mul(radius))
		}
		set[name] = traj
	}
	return set
}

// withNoise returns a copy of set with independent gaussian noise of the given standard
// deviation on every coordinate. Markers are visited in name order so a seed fixes the result.
func withNoise(set markers.Set, sd float64, seed int64) markers.Set {
	//nolint:gosec
	rnd := rand.New(rand.NewSource(seed))
	out := make(markers.Set, len(set))
	for _, name := range set.Names() {
		traj := make(markers.Trajectory, len(set[name]))
		for i, p := range set[name] {
			traj[i] = p.Add(r3.Vector{X: rnd.NormFloat64() * sd, Y: rnd.NormFloat64() * sd, Z: rnd.NormFloat64() * sd})
		}
		out[name] = traj
	}
	return out
}
