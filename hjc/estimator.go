// Package hjc estimates the hip joint centre as the common centre of rotation of a set of
// thigh markers expressed in the pelvis frame, using the least-squares sphere fit of Gamage &
// Lasenby (2002) with the bias compensation of Halvorsen (2003).
package hjc

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/hjc/logging"
	"go.viam.com/hjc/markers"
	"go.viam.com/hjc/spatialmath"
)

// JointCentre is the result of one estimation.
type JointCentre struct {
	// Centre is the bias compensated centre of rotation.
	Centre r3.Vector
	// Initial is the uncompensated least-squares centre the iteration started from.
	Initial      r3.Vector
	Iterations   int
	Displacement float64
	// MarkerRadii is the mean distance from Centre to each marker.
	MarkerRadii map[string]float64
	// RMSResidual is the RMS deviation of marker distances from their mean radii.
	RMSResidual float64
	// Condition is the condition number of the fitted linear system.
	Condition float64
}

// An Estimator fits joint centres. It holds no per-call state and is safe for concurrent use.
type Estimator struct {
	cfg    Config
	logger logging.Logger
	clock  clock.Clock
}

// NewEstimator returns an Estimator using cfg, with zero fields replaced by defaults.
func NewEstimator(cfg Config, logger logging.Logger) (*Estimator, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate("estimator"); err != nil {
		return nil, err
	}
	return &Estimator{cfg: cfg, logger: logger, clock: clock.New()}, nil
}

// Config returns the configuration in effect.
func (est *Estimator) Config() Config {
	return est.cfg
}

// Estimate fits the centre of rotation common to every trajectory in set. The trajectories must
// be gap free, share one time base and already be expressed in the proximal segment's frame.
// On a *ConvergenceFailureError the returned JointCentre is nil; the last estimate is carried
// by the error.
func (est *Estimator) Estimate(ctx context.Context, set markers.Set) (*JointCentre, error) {
	ctx, cancel := est.withTimeout(ctx)
	defer cancel()

	if len(set) < MinMarkers {
		return nil, NewInsufficientMarkersError(len(set))
	}
	n, err := set.NumSamples()
	if err != nil {
		return nil, err
	}
	if n < est.cfg.MinSamples {
		return nil, NewInsufficientSamplesError(n, est.cfg.MinSamples)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}

	sys := newSphereSystem(set)
	solver, err := spatialmath.NewLeastSquaresSolver(sys.a, est.cfg.SingularValueRcond)
	if err != nil {
		return nil, errors.Wrap(err, "marker motion does not constrain a centre of rotation")
	}

	fit := &biasCorrection{sys: sys, solver: solver, cfg: est.cfg, logger: est.logger}
	initial, err := fit.solve(sys.b)
	if err != nil {
		return nil, err
	}
	fit.centre = initial
	est.logger.Debugw("initial sphere fit",
		"centre", initial.Add(sys.offset), "markers", len(set), "samples", n, "condition", solver.Cond())

	for fit.state == stateSolving {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "joint centre estimation interrupted after %d iterations", fit.iterations)
		}
		if err := fit.step(); err != nil {
			return nil, err
		}
	}

	if fit.state == stateFailed {
		convErr := &ConvergenceFailureError{
			Estimate:     fit.centre.Add(sys.offset),
			Displacement: fit.displacement,
			Iterations:   fit.iterations,
		}
		est.logger.Warnw("joint centre did not converge",
			"iterations", fit.iterations, "displacement", fit.displacement, "estimate", convErr.Estimate)
		return nil, convErr
	}

	radii, rms := sys.radii(fit.centre)
	jc := &JointCentre{
		Centre:       fit.centre.Add(sys.offset),
		Initial:      initial.Add(sys.offset),
		Iterations:   fit.iterations,
		Displacement: fit.displacement,
		MarkerRadii:  radii,
		RMSResidual:  rms,
		Condition:    solver.Cond(),
	}
	est.logger.Infow("joint centre converged",
		"centre", jc.Centre, "iterations", jc.Iterations, "displacement", jc.Displacement, "rms_residual", jc.RMSResidual)
	return jc, nil
}

// withTimeout bounds ctx by the configured timeout, measured on the estimator's clock.
func (est *Estimator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if timeout := est.cfg.Timeout(); timeout > 0 {
		return est.clock.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

type fitState int

const (
	stateSolving fitState = iota
	stateConverged
	stateFailed
)

// biasCorrection iterates the Halvorsen correction of B. A never changes, so solver holds its
// one factorization. Each step moves from stateSolving to stateConverged once the estimate
// moves less than the tolerance, or to stateFailed at the iteration cap.
type biasCorrection struct {
	sys    *sphereSystem
	solver *spatialmath.LeastSquaresSolver
	cfg    Config
	logger logging.Logger

	state        fitState
	centre       r3.Vector
	iterations   int
	displacement float64
}

func (fit *biasCorrection) solve(b r3.Vector) (r3.Vector, error) {
	x, err := fit.solver.Solve(r3ToVec(b))
	if err != nil {
		return r3.Vector{}, err
	}
	return vecToR3(x), nil
}

func (fit *biasCorrection) step() error {
	next, err := fit.solve(fit.sys.correctedRHS(fit.centre))
	if err != nil {
		return err
	}
	fit.iterations++
	fit.displacement = next.Sub(fit.centre).Norm()
	fit.centre = next
	fit.logger.Debugw("bias correction step", "iteration", fit.iterations, "displacement", fit.displacement)

	switch {
	case fit.displacement < fit.cfg.ConvergenceTolerance:
		fit.state = stateConverged
	case fit.iterations >= fit.cfg.MaxIterations:
		fit.state = stateFailed
	}
	return nil
}
