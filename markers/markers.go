// Package markers defines motion-capture marker trajectories and the sources that supply them.
package markers

import (
	"math"
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// A Trajectory is the position of one marker at each sample, in sample order.
type Trajectory []r3.Vector

// A Set maps marker names to trajectories that share one time base.
type Set map[string]Trajectory

// Names returns the marker names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NumSamples returns the sample count shared by every trajectory in the set.
func (s Set) NumSamples() (int, error) {
	n := -1
	for _, name := range s.Names() {
		l := len(s[name])
		if n == -1 {
			n = l
			continue
		}
		if l != n {
			return 0, NewShapeMismatchError("marker "+name, n, l)
		}
	}
	if n == -1 {
		return 0, nil
	}
	return n, nil
}

// Validate checks that all trajectories have the same length and that every sample is finite.
func (s Set) Validate() error {
	if _, err := s.NumSamples(); err != nil {
		return err
	}
	for _, name := range s.Names() {
		for i, p := range s[name] {
			if !isFinite(p) {
				return errors.Wrapf(ErrNonFiniteSample, "marker %q sample %d", name, i)
			}
		}
	}
	return nil
}

// Subset returns a new set holding only the named markers.
func (s Set) Subset(names ...string) (Set, error) {
	out := make(Set, len(names))
	for _, name := range names {
		traj, ok := s[name]
		if !ok {
			return nil, NewMarkerNotFoundError(name)
		}
		out[name] = traj
	}
	return out, nil
}

// Midpoint returns the per-sample average of two trajectories, e.g. a virtual sacrum marker from both PSIS markers.
func Midpoint(a, b Trajectory) (Trajectory, error) {
	if len(a) != len(b) {
		return nil, NewShapeMismatchError("midpoint", len(a), len(b))
	}
	out := make(Trajectory, len(a))
	for i := range a {
		out[i] = a[i].Add(b[i]).Mul(0.5)
	}
	return out, nil
}

// Subtract returns the per-sample difference a - b.
func Subtract(a, b Trajectory) (Trajectory, error) {
	if len(a) != len(b) {
		return nil, NewShapeMismatchError("subtract", len(a), len(b))
	}
	out := make(Trajectory, len(a))
	for i := range a {
		out[i] = a[i].Sub(b[i])
	}
	return out, nil
}

func isFinite(p r3.Vector) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsNaN(p.Z) &&
		!math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0) && !math.IsInf(p.Z, 0)
}
