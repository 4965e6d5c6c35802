package referenceframe

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/hjc/markers"
)

// A LocalFrame is a segment-fixed coordinate system at one sample: an origin and the
// orthonormal axes E1, E2, E3 expressed in the global frame.
type LocalFrame struct {
	Origin r3.Vector
	E1     r3.Vector
	E2     r3.Vector
	E3     r3.Vector
}

// NewLocalFrames zips per-sample origins and axes into frames.
func NewLocalFrames(origins, e1, e2, e3 []r3.Vector) ([]LocalFrame, error) {
	n := len(origins)
	for _, axis := range [][]r3.Vector{e1, e2, e3} {
		if len(axis) != n {
			return nil, markers.NewShapeMismatchError("local frame axes", n, len(axis))
		}
	}
	frames := make([]LocalFrame, n)
	for i := range frames {
		frames[i] = LocalFrame{Origin: origins[i], E1: e1[i], E2: e2[i], E3: e3[i]}
	}
	return frames, nil
}

// RotationMatrix returns the matrix whose rows are E1, E2 and E3. It maps global directions to local ones.
func (f LocalFrame) RotationMatrix() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		f.E1.X, f.E1.Y, f.E1.Z,
		f.E2.X, f.E2.Y, f.E2.Z,
		f.E3.X, f.E3.Y, f.E3.Z,
	})
}

// ToLocal expresses a global point in this frame.
func (f LocalFrame) ToLocal(p r3.Vector) r3.Vector {
	d := p.Sub(f.Origin)
	return r3.Vector{X: f.E1.Dot(d), Y: f.E2.Dot(d), Z: f.E3.Dot(d)}
}

// ToGlobal expresses a point given in this frame in the global frame.
func (f LocalFrame) ToGlobal(l r3.Vector) r3.Vector {
	return f.Origin.Add(f.E1.Mul(l.X)).Add(f.E2.Mul(l.Y)).Add(f.E3.Mul(l.Z))
}

// Project re-expresses every trajectory in set in the per-sample frames.
func Project(set markers.Set, frames []LocalFrame) (markers.Set, error) {
	return transform(set, frames, LocalFrame.ToLocal)
}

// Unproject maps trajectories given in the per-sample frames back to the global frame.
func Unproject(set markers.Set, frames []LocalFrame) (markers.Set, error) {
	return transform(set, frames, LocalFrame.ToGlobal)
}

func transform(set markers.Set, frames []LocalFrame, fn func(LocalFrame, r3.Vector) r3.Vector) (markers.Set, error) {
	out := make(markers.Set, len(set))
	for _, name := range set.Names() {
		traj := set[name]
		if len(traj) != len(frames) {
			return nil, markers.NewShapeMismatchError("marker "+name+" against frames", len(frames), len(traj))
		}
		moved := make(markers.Trajectory, len(traj))
		for i, p := range traj {
			moved[i] = fn(frames[i], p)
		}
		out[name] = moved
	}
	return out, nil
}
