package markers

import (
	"context"
	"encoding/json"
	"math"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// A Source supplies marker trajectories for a trial. Implementations decide where the data
// lives; callers only ask for the markers they need.
type Source interface {
	// MarkerSet returns the named markers. All returned trajectories share one time base.
	MarkerSet(ctx context.Context, names ...string) (Set, error)
}

type staticSource struct {
	set Set
}

// NewStaticSource returns a Source backed by an in-memory set.
func NewStaticSource(set Set) Source {
	return &staticSource{set: set}
}

func (s *staticSource) MarkerSet(ctx context.Context, names ...string) (Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.set.Subset(names...)
}

// File is the JSON document read by a file source. Dropped samples are written as null.
type File struct {
	FrameRate float64                   `json:"frame_rate,omitempty"`
	Units     string                    `json:"units,omitempty"`
	Markers   map[string][]*[3]*float64 `json:"markers"`
}

// Set converts the file contents into a marker set, turning null samples and coordinates into NaN.
func (f *File) Set() Set {
	out := make(Set, len(f.Markers))
	for name, samples := range f.Markers {
		traj := make(Trajectory, len(samples))
		for i, sample := range samples {
			traj[i] = sampleToVector(sample)
		}
		out[name] = traj
	}
	return out
}

func sampleToVector(sample *[3]*float64) r3.Vector {
	coord := func(c *float64) float64 {
		if c == nil {
			return math.NaN()
		}
		return *c
	}
	if sample == nil {
		return r3.Vector{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}
	}
	return r3.Vector{X: coord(sample[0]), Y: coord(sample[1]), Z: coord(sample[2])}
}

type fileSource struct {
	path string
}

// NewJSONFileSource returns a Source that reads a File from path on every request.
func NewJSONFileSource(path string) Source {
	return &fileSource{path: path}
}

func (s *fileSource) MarkerSet(ctx context.Context, names ...string) (Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	//nolint:gosec
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read marker file")
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "cannot parse marker file %q", s.path)
	}
	set, err := f.Set().Subset(names...)
	if err != nil {
		return nil, errors.Wrapf(err, "in %q", s.path)
	}
	return set, nil
}
