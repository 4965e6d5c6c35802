// Package results persists joint centre estimates in a SQLite database.
package results

import (
	"context"
	"database/sql"
	"time"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
	// registers the "sqlite" driver.
	_ "modernc.org/sqlite"

	"go.viam.com/hjc/trial"
)

// A Record is one stored estimate.
type Record struct {
	RunID        uuid.UUID
	Trial        string
	Subject      string
	Centre       r3.Vector
	Iterations   int
	Displacement float64
	RMSResidual  float64
	Samples      int
	RecordedAt   time.Time
}

// FromResult converts a trial result into a record with a fresh run ID.
func FromResult(res *trial.Result) Record {
	return Record{
		RunID:        uuid.New(),
		Trial:        res.Name,
		Subject:      res.Subject,
		Centre:       res.JointCentre.Centre,
		Iterations:   res.JointCentre.Iterations,
		Displacement: res.JointCentre.Displacement,
		RMSResidual:  res.JointCentre.RMSResidual,
		Samples:      len(res.SampleIndices),
		RecordedAt:   time.Now().UTC(),
	}
}

// Store is a SQLite-backed record store.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the database at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open results database %q", path)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS joint_centres (
			run_id            TEXT PRIMARY KEY,
			trial             TEXT NOT NULL,
			subject           TEXT NOT NULL,
			centre_x          DOUBLE NOT NULL,
			centre_y          DOUBLE NOT NULL,
			centre_z          DOUBLE NOT NULL,
			iterations        INTEGER NOT NULL,
			displacement      DOUBLE NOT NULL,
			rms_residual      DOUBLE NOT NULL,
			samples           INTEGER NOT NULL,
			recorded_at       BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS joint_centres_subject ON joint_centres (subject, recorded_at);
	`)
	if err != nil {
		return nil, multiClose(db, errors.Wrap(err, "cannot create results schema"))
	}

	return &Store{db: db}, nil
}

func multiClose(db *sql.DB, err error) error {
	if closeErr := db.Close(); closeErr != nil {
		return errors.Wrapf(err, "also failed to close: %v", closeErr)
	}
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores rec.
func (s *Store) Record(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO joint_centres (
			run_id, trial, subject, centre_x, centre_y, centre_z,
			iterations, displacement, rms_residual, samples, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID.String(), rec.Trial, rec.Subject, rec.Centre.X, rec.Centre.Y, rec.Centre.Z,
		rec.Iterations, rec.Displacement, rec.RMSResidual, rec.Samples, rec.RecordedAt.UnixMicro(),
	)
	return errors.Wrapf(err, "cannot record run %s", rec.RunID)
}

// List returns the stored records for subject, oldest first. An empty subject lists every record.
func (s *Store) List(ctx context.Context, subject string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, trial, subject, centre_x, centre_y, centre_z,
			iterations, displacement, rms_residual, samples, recorded_at
		FROM joint_centres
		WHERE ? = '' OR subject = ?
		ORDER BY recorded_at, rowid`, subject, subject)
	if err != nil {
		return nil, errors.Wrap(err, "cannot query results")
	}
	defer goutils.UncheckedErrorFunc(rows.Close)

	var out []Record
	for rows.Next() {
		var rec Record
		var runID string
		var recordedAt int64
		if err := rows.Scan(
			&runID, &rec.Trial, &rec.Subject, &rec.Centre.X, &rec.Centre.Y, &rec.Centre.Z,
			&rec.Iterations, &rec.Displacement, &rec.RMSResidual, &rec.Samples, &recordedAt,
		); err != nil {
			return nil, errors.Wrap(err, "cannot read result row")
		}
		if rec.RunID, err = uuid.Parse(runID); err != nil {
			return nil, errors.Wrapf(err, "bad run id %q", runID)
		}
		rec.RecordedAt = time.UnixMicro(recordedAt).UTC()
		out = append(out, rec)
	}
	return out, errors.Wrap(rows.Err(), "cannot read results")
}
