package hjc

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"go.viam.com/hjc/markers"
	"go.viam.com/hjc/spatialmath"
)

// sphereSystem holds the linear system A·c = B of Gamage & Lasenby (2002), equation 5, for a
// set of marker trajectories. Every sample is shifted by the grand centroid so that the cubic
// terms in B stay well scaled; the fit is translation invariant and offset is added back to
// every centre reported outside this type.
type sphereSystem struct {
	offset r3.Vector
	names  []string
	trajs  [][]r3.Vector
	means  []r3.Vector
	a      *mat.Dense
	b      r3.Vector

	// scratch space for the squared distances of one marker
	sq []float64
}

func newSphereSystem(set markers.Set) *sphereSystem {
	names := set.Names()
	sys := &sphereSystem{
		names: names,
		trajs: make([][]r3.Vector, len(names)),
		means: make([]r3.Vector, len(names)),
	}

	var total int
	for _, name := range names {
		for _, x := range set[name] {
			sys.offset = sys.offset.Add(x)
		}
		total += len(set[name])
	}
	sys.offset = sys.offset.Mul(1 / float64(total))

	var d, e [9]float64
	var b r3.Vector
	for j, name := range names {
		traj := make([]r3.Vector, len(set[name]))
		nc := float64(len(traj))

		var dj [9]float64
		var vj float64
		var bj r3.Vector
		for i, raw := range set[name] {
			x := raw.Sub(sys.offset)
			traj[i] = x
			op := spatialmath.OuterProduct(x, x)
			for k := range dj {
				dj[k] += op[k]
			}
			sq := x.Norm2()
			vj += sq
			bj = bj.Add(x.Mul(sq))
		}
		mean := spatialmath.Mean(traj)
		vj /= nc
		bj = bj.Mul(1 / nc)

		ej := spatialmath.OuterProduct(mean, mean)
		for k := range d {
			d[k] += dj[k] / nc
			e[k] += ej[k]
		}
		b = b.Add(bj.Sub(mean.Mul(vj)))

		sys.trajs[j] = traj
		sys.means[j] = mean
		if len(traj) > len(sys.sq) {
			sys.sq = make([]float64, len(traj))
		}
	}

	p := float64(len(names))
	sys.a = mat.NewDense(3, 3, nil)
	for k := range d {
		sys.a.Set(k/3, k%3, 2*(d[k]-e[k])/p)
	}
	sys.b = b.Mul(1 / p)
	return sys
}

// radiusNoise returns Halvorsen's first order estimate of the noise variance of marker j about
// centre c: Var(|x - c|²) / (4·mean |x - c|²).
func (sys *sphereSystem) radiusNoise(j int, c r3.Vector) float64 {
	traj := sys.trajs[j]
	sq := sys.sq[:len(traj)]
	for i, x := range traj {
		sq[i] = x.Sub(c).Norm2()
	}
	mean, variance := stat.PopMeanVariance(sq, nil)
	if mean <= 0 {
		return 0
	}
	return variance / (4 * mean)
}

// correctedRHS returns B with the bias of noisy markers about centre c removed:
// B - (2/p)·Σ σ²_j·(mean_j - c).
func (sys *sphereSystem) correctedRHS(c r3.Vector) r3.Vector {
	var delta r3.Vector
	for j := range sys.trajs {
		delta = delta.Add(sys.means[j].Sub(c).Mul(sys.radiusNoise(j, c)))
	}
	return sys.b.Sub(delta.Mul(2 / float64(len(sys.trajs))))
}

// radii returns the mean distance of each marker to c and the RMS deviation of all samples
// from their marker's mean distance.
func (sys *sphereSystem) radii(c r3.Vector) (map[string]float64, float64) {
	out := make(map[string]float64, len(sys.names))
	var sumSq float64
	var count int
	for j, name := range sys.names {
		traj := sys.trajs[j]
		dist := sys.sq[:len(traj)]
		for i, x := range traj {
			dist[i] = x.Sub(c).Norm()
		}
		r := stat.Mean(dist, nil)
		out[name] = r
		for _, v := range dist {
			sumSq += (v - r) * (v - r)
		}
		count += len(dist)
	}
	return out, math.Sqrt(sumSq / float64(count))
}

func vecToR3(v mat.Vector) r3.Vector {
	return r3.Vector{X: v.AtVec(0), Y: v.AtVec(1), Z: v.AtVec(2)}
}

func r3ToVec(v r3.Vector) *mat.VecDense {
	return mat.NewVecDense(3, []float64{v.X, v.Y, v.Z})
}
