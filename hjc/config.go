package hjc

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/hjc/spatialmath"
	"go.viam.com/hjc/utils"
)

// Defaults used when a Config field is left zero.
const (
	DefaultConvergenceTolerance = 1e-7
	DefaultMaxIterations        = 100
	DefaultMinSamples           = 2
)

// Config tunes the estimator. Lengths share the units of the marker data.
type Config struct {
	// ConvergenceTolerance is the displacement between successive estimates below which the fit has converged.
	ConvergenceTolerance float64 `json:"convergence_tolerance,omitempty"`
	MaxIterations        int     `json:"max_iterations,omitempty"`
	// SingularValueRcond is the relative singular value cutoff; smaller singular values make the system ill-conditioned.
	SingularValueRcond float64 `json:"singular_value_rcond,omitempty"`
	MinSamples         int     `json:"min_samples,omitempty"`
	// TimeoutMs bounds a single Estimate call. Zero means no timeout.
	TimeoutMs int `json:"timeout_ms,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ConvergenceTolerance: DefaultConvergenceTolerance,
		MaxIterations:        DefaultMaxIterations,
		SingularValueRcond:   spatialmath.DefaultRcond,
		MinSamples:           DefaultMinSamples,
	}
}

// WithDefaults returns a copy of cfg with zero fields replaced by their defaults.
func (cfg Config) WithDefaults() Config {
	def := DefaultConfig()
	if cfg.ConvergenceTolerance == 0 {
		cfg.ConvergenceTolerance = def.ConvergenceTolerance
	}
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.SingularValueRcond == 0 {
		cfg.SingularValueRcond = def.SingularValueRcond
	}
	if cfg.MinSamples == 0 {
		cfg.MinSamples = def.MinSamples
	}
	return cfg
}

// Timeout returns the per-call timeout, zero if there is none.
func (cfg Config) Timeout() time.Duration {
	return time.Duration(cfg.TimeoutMs) * time.Millisecond
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	var errs error
	if cfg.ConvergenceTolerance <= 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("convergence_tolerance must be positive, got %g", cfg.ConvergenceTolerance)))
	}
	if cfg.MaxIterations < 1 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("max_iterations must be at least 1, got %d", cfg.MaxIterations)))
	}
	if cfg.SingularValueRcond < 0 || cfg.SingularValueRcond >= 1 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("singular_value_rcond must be in [0, 1), got %g", cfg.SingularValueRcond)))
	}
	if cfg.MinSamples < DefaultMinSamples {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("min_samples must be at least %d, got %d", DefaultMinSamples, cfg.MinSamples)))
	}
	if cfg.TimeoutMs < 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("timeout_ms must not be negative, got %d", cfg.TimeoutMs)))
	}
	return errs
}
