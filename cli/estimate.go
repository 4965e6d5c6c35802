package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"go.viam.com/hjc/config"
	"go.viam.com/hjc/hjc"
	"go.viam.com/hjc/results"
	"go.viam.com/hjc/trial"
)

// EstimateAction runs every trial in the config and prints its pelvis-frame joint centre.
func EstimateAction(c *cli.Context) (err error) {
	logger := newLogger(c)
	defer goutils.UncheckedErrorFunc(logger.Sync)

	cfg, err := config.Read(c.Context, c.String(configFlag), logger)
	if err != nil {
		return err
	}
	est, err := hjc.NewEstimator(cfg.Estimator, logger.Sublogger("estimator"))
	if err != nil {
		return err
	}
	res, err := trial.RunAll(c.Context, cfg.Specs(), est, logger)
	if err != nil {
		return err
	}
	printResults(c.App.Writer, res)

	path := cfg.Results.Path
	if c.IsSet(resultsFlag) {
		path = c.String(resultsFlag)
	}
	if c.Bool(noStoreFlag) || path == "" {
		return nil
	}
	store, err := results.NewStore(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, store.Close())
	}()
	for _, r := range res {
		if err := store.Record(c.Context, results.FromResult(r)); err != nil {
			return errors.Wrapf(err, "cannot store trial %q", r.Name)
		}
	}
	printf(c.App.Writer, "stored %d estimates in %s", len(res), path)
	return nil
}

func printResults(w io.Writer, res []*trial.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Trial", "Subject", "Centre", "Iterations", "RMS", "Samples"})
	for _, r := range res {
		jc := r.JointCentre
		t.AppendRow(table.Row{
			r.Name,
			r.Subject,
			fmt.Sprintf("X:%.3f, Y:%.3f, Z:%.3f", jc.Centre.X, jc.Centre.Y, jc.Centre.Z),
			jc.Iterations,
			fmt.Sprintf("%.4f", jc.RMSResidual),
			len(r.SampleIndices),
		})
	}
	t.Render()
}

// HistoryAction lists stored estimates, optionally for one subject.
func HistoryAction(c *cli.Context) (err error) {
	store, err := results.NewStore(c.String(resultsFlag))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, store.Close())
	}()

	recs, err := store.List(c.Context, c.String(subjectFlag))
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		warningf(c.App.ErrWriter, "no estimates found")
		return nil
	}
	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.AppendHeader(table.Row{"Recorded", "Run", "Trial", "Subject", "Centre", "RMS"})
	for _, rec := range recs {
		t.AppendRow(table.Row{
			rec.RecordedAt.Format(time.RFC3339),
			rec.RunID,
			rec.Trial,
			rec.Subject,
			fmt.Sprintf("X:%.3f, Y:%.3f, Z:%.3f", rec.Centre.X, rec.Centre.Y, rec.Centre.Z),
			fmt.Sprintf("%.4f", rec.RMSResidual),
		})
	}
	t.Render()
	return nil
}
