// Package trial runs the hip joint centre pipeline for motion-capture trials: pelvis frames
// from the pelvis markers, thigh markers re-expressed in those frames, and a sphere fit.
package trial

import (
	"context"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/hjc/hjc"
	"go.viam.com/hjc/logging"
	"go.viam.com/hjc/markers"
	"go.viam.com/hjc/referenceframe"
	"go.viam.com/hjc/utils"
)

// A Spec describes one trial.
type Spec struct {
	Name    string
	Subject string
	Source  markers.Source
	Pelvis  PelvisMarkers
	Thigh   []string
}

// A Result is the outcome of one trial.
type Result struct {
	Name    string
	Subject string
	// JointCentre is expressed in the pelvis frame.
	JointCentre *hjc.JointCentre
	// GlobalTrajectory is the joint centre in the global frame at every sample kept after
	// gap removal. SampleIndices maps those samples back to the source's sample numbers.
	GlobalTrajectory markers.Trajectory
	SampleIndices    []int
}

// Run executes the pipeline for one trial.
func Run(ctx context.Context, spec Spec, est *hjc.Estimator, logger logging.Logger) (*Result, error) {
	if spec.Source == nil {
		return nil, errors.Errorf("trial %q has no marker source", spec.Name)
	}
	pelvisNames := spec.Pelvis.WithDefaults()
	names := append(pelvisNames.Names(), spec.Thigh...)

	raw, err := spec.Source.MarkerSet(ctx, names...)
	if err != nil {
		return nil, errors.Wrapf(err, "trial %q", spec.Name)
	}
	total, err := raw.NumSamples()
	if err != nil {
		return nil, errors.Wrapf(err, "trial %q", spec.Name)
	}
	clean, kept, err := markers.DropGaps(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "trial %q", spec.Name)
	}
	if dropped := total - len(kept); dropped > 0 {
		logger.Infow("dropped samples with missing markers", "trial", spec.Name, "dropped", dropped, "kept", len(kept))
	}

	frames, err := PelvisFrames(clean, pelvisNames)
	if err != nil {
		return nil, errors.Wrapf(err, "trial %q", spec.Name)
	}
	thigh, err := clean.Subset(spec.Thigh...)
	if err != nil {
		return nil, errors.Wrapf(err, "trial %q", spec.Name)
	}
	local, err := referenceframe.Project(thigh, frames)
	if err != nil {
		return nil, errors.Wrapf(err, "trial %q", spec.Name)
	}

	jc, err := est.Estimate(ctx, local)
	if err != nil {
		return nil, errors.Wrapf(err, "trial %q", spec.Name)
	}

	global, err := referenceframe.Unproject(markers.Set{"HJC": constant(jc.Centre, len(frames))}, frames)
	if err != nil {
		return nil, err
	}
	return &Result{
		Name:             spec.Name,
		Subject:          spec.Subject,
		JointCentre:      jc,
		GlobalTrajectory: global["HJC"],
		SampleIndices:    kept,
	}, nil
}

// RunAll runs every trial concurrently. Results are in the order of specs. Trials share
// nothing but the estimator, which is read only; the first failure cancels the rest.
func RunAll(ctx context.Context, specs []Spec, est *hjc.Estimator, logger logging.Logger) ([]*Result, error) {
	results := make([]*Result, len(specs))
	var mu sync.Mutex
	fs := make([]utils.SimpleFunc, 0, len(specs))
	for i, spec := range specs {
		i, spec := i, spec
		fs = append(fs, func(ctx context.Context) error {
			res, err := Run(ctx, spec, est, logger.Sublogger(spec.Name))
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	elapsed, err := utils.RunInParallel(ctx, fs)
	if err != nil {
		return nil, err
	}
	logger.Debugw("trials finished", "count", len(specs), "elapsed", elapsed)
	return results, nil
}

func constant(p r3.Vector, n int) markers.Trajectory {
	traj := make(markers.Trajectory, n)
	for i := range traj {
		traj[i] = p
	}
	return traj
}
