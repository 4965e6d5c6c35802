// Package config defines the structures to configure a batch of hip joint centre estimates.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/hjc/hjc"
	"go.viam.com/hjc/markers"
	"go.viam.com/hjc/trial"
	"go.viam.com/hjc/utils"
)

// A Config describes the estimator settings, where to store results, and the trials to process.
type Config struct {
	// ConfigFilePath is the file the config was read from, if any.
	ConfigFilePath string `json:"-"`

	Estimator hjc.Config    `json:"estimator"`
	Results   ResultsConfig `json:"results"`
	Trials    []TrialConfig `json:"trials"`
}

// ResultsConfig describes where estimates are persisted. An empty Path disables storage.
type ResultsConfig struct {
	Path string `json:"path,omitempty"`
}

// TrialConfig describes a single trial.
type TrialConfig struct {
	Name    string `json:"name"`
	Subject string `json:"subject,omitempty"`
	// MarkersFile is a JSON marker file. Relative paths are resolved against the config file's directory.
	MarkersFile string              `json:"markers_file"`
	Pelvis      trial.PelvisMarkers `json:"pelvis"`
	Thigh       []string            `json:"thigh"`
}

// Validate ensures all parts of the config are valid.
func (c *Config) Validate() error {
	var errs error
	if err := c.Estimator.Validate("estimator"); err != nil {
		errs = multierr.Append(errs, err)
	}
	if len(c.Trials) == 0 {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRequiredError("", "trials"))
	}
	seen := make(map[string]struct{}, len(c.Trials))
	for idx := range c.Trials {
		path := fmt.Sprintf("trials.%d", idx)
		if err := c.Trials[idx].Validate(path); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if _, ok := seen[c.Trials[idx].Name]; ok {
			errs = multierr.Append(errs, utils.NewConfigValidationError(path,
				errors.Errorf("duplicate trial name %q", c.Trials[idx].Name)))
		}
		seen[c.Trials[idx].Name] = struct{}{}
	}
	return errs
}

// Validate ensures all parts of the trial config are valid.
func (tc *TrialConfig) Validate(path string) error {
	var errs error
	if tc.Name == "" {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRequiredError(path, "name"))
	}
	if tc.MarkersFile == "" {
		errs = multierr.Append(errs, utils.NewConfigValidationFieldRequiredError(path, "markers_file"))
	}
	if len(tc.Thigh) < hjc.MinMarkers {
		errs = multierr.Append(errs, utils.NewConfigValidationError(path,
			errors.Errorf("thigh needs at least %d markers, got %d", hjc.MinMarkers, len(tc.Thigh))))
	}
	names := make(map[string]struct{}, len(tc.Thigh))
	for _, name := range tc.Thigh {
		if _, ok := names[name]; ok {
			errs = multierr.Append(errs, utils.NewConfigValidationError(path,
				errors.Errorf("thigh marker %q listed twice", name)))
		}
		names[name] = struct{}{}
	}
	return errs
}

// Specs returns a trial spec for every configured trial, each reading its markers from file.
func (c *Config) Specs() []trial.Spec {
	specs := make([]trial.Spec, 0, len(c.Trials))
	for _, tc := range c.Trials {
		specs = append(specs, trial.Spec{
			Name:    tc.Name,
			Subject: tc.Subject,
			Source:  markers.NewJSONFileSource(tc.MarkersFile),
			Pelvis:  tc.Pelvis,
			Thigh:   tc.Thigh,
		})
	}
	return specs
}

// process fills in defaults and resolves relative paths against the config file's directory.
func (c *Config) process() {
	c.Estimator = c.Estimator.WithDefaults()
	dir := ""
	if c.ConfigFilePath != "" {
		dir = filepath.Dir(c.ConfigFilePath)
	}
	resolve := func(p string) string {
		if p == "" || dir == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for idx := range c.Trials {
		c.Trials[idx].Pelvis = c.Trials[idx].Pelvis.WithDefaults()
		c.Trials[idx].MarkersFile = resolve(c.Trials[idx].MarkersFile)
	}
	c.Results.Path = resolve(c.Results.Path)
}
