package tracklog

import (
	"database/sql"
	"embed"
	"image"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"roitrack/logging"
	"roitrack/types"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrRunNotFound is returned for run ids the store has never seen
var ErrRunNotFound = errors.New("run not found")

// Store persists the boxes produced by each run
type Store struct {
	db *sql.DB
}

// Box is one stored track position
type Box struct {
	Frame    int
	TargetID uuid.UUID
	Rect     image.Rectangle
	Lost     bool
	FrameOK  bool
}

// Run is one stored tracking session
type Run struct {
	ID         uuid.UUID
	Video      string
	Tracker    string
	Mode       string
	StartedAt  time.Time
	Frames     int
	StopReason string
}

// Open opens (or creates) the database at path and applies migrations
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	db.SetMaxOpenConns(1)

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "loading migrations")
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return errors.Wrap(err, "creating sqlite migration driver")
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return errors.Wrap(err, "creating migrate instance")
	}
	m.Log = migrateLogger{}
	// m is not closed: that would close db as well.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "migration up failed")
	}
	return nil
}

type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) {
	logging.Logf("[migrate] "+format, v...)
}

func (migrateLogger) Verbose() bool {
	return false
}

// StartRun registers a new session and returns its id
func (s *Store) StartRun(video, tracker string, mode types.Mode) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, video, tracker, mode, started_at) VALUES (?, ?, ?, ?, ?)`,
		id.String(), video, tracker, mode.String(), time.Now().UnixNano(),
	)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "inserting run")
	}
	return id, nil
}

// RecordFrame stores every track of one frame
func (s *Store) RecordFrame(run uuid.UUID, frame int, tracks []types.Track, ok bool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO boxes (run_id, frame, target_id, x, y, w, h, lost, frame_ok) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "prepare")
	}
	defer stmt.Close()

	for _, tr := range tracks {
		b := tr.Box
		if _, err := stmt.Exec(run.String(), frame, tr.ID.String(), b.Min.X, b.Min.Y, b.Dx(), b.Dy(), tr.Lost, ok); err != nil {
			return errors.Wrapf(err, "inserting box for frame %d", frame)
		}
	}
	return errors.Wrap(tx.Commit(), "commit")
}

// FinishRun stores the frame count and why the run ended
func (s *Store) FinishRun(run uuid.UUID, frames int, reason string) error {
	res, err := s.db.Exec(`UPDATE runs SET frames = ?, stop_reason = ? WHERE run_id = ?`, frames, reason, run.String())
	if err != nil {
		return errors.Wrap(err, "updating run")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.Wrapf(ErrRunNotFound, "%s", run)
	}
	return nil
}

const runColumns = `run_id, video, tracker, mode, started_at, frames, stop_reason`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	var id string
	var started int64
	if err := row.Scan(&id, &r.Video, &r.Tracker, &r.Mode, &started, &r.Frames, &r.StopReason); err != nil {
		return Run{}, err
	}
	var err error
	if r.ID, err = uuid.Parse(id); err != nil {
		return Run{}, errors.Wrap(err, "parsing run id")
	}
	r.StartedAt = time.Unix(0, started)
	return r, nil
}

// GetRun loads a session
func (s *Store) GetRun(run uuid.UUID) (Run, error) {
	r, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, run.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, errors.Wrapf(ErrRunNotFound, "%s", run)
	}
	if err != nil {
		return Run{}, errors.Wrapf(err, "loading run %s", run)
	}
	return r, nil
}

// Runs lists every stored session, oldest first
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`SELECT ` + runColumns + ` FROM runs ORDER BY started_at, rowid`)
	if err != nil {
		return nil, errors.Wrap(err, "querying runs")
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning run")
		}
		out = append(out, r)
	}
	return out, errors.Wrap(rows.Err(), "iterating runs")
}

// Boxes returns every stored box of a run ordered by frame
func (s *Store) Boxes(run uuid.UUID) ([]Box, error) {
	rows, err := s.db.Query(
		`SELECT frame, target_id, x, y, w, h, lost, frame_ok FROM boxes WHERE run_id = ? ORDER BY frame, rowid`, run.String(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying boxes")
	}
	defer rows.Close()

	var out []Box
	for rows.Next() {
		var b Box
		var target string
		var x, y, w, h int
		if err := rows.Scan(&b.Frame, &target, &x, &y, &w, &h, &b.Lost, &b.FrameOK); err != nil {
			return nil, errors.Wrap(err, "scanning box")
		}
		if b.TargetID, err = uuid.Parse(target); err != nil {
			return nil, errors.Wrap(err, "parsing target id")
		}
		b.Rect = image.Rect(x, y, x+w, y+h)
		out = append(out, b)
	}
	return out, errors.Wrap(rows.Err(), "iterating boxes")
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// RunLog binds a store to one run so it can be handed to the frame loop
type RunLog struct {
	store *Store
	run   uuid.UUID
}

// ForRun returns a RunLog for run
func (s *Store) ForRun(run uuid.UUID) *RunLog {
	return &RunLog{store: s, run: run}
}

// RecordFrame stores the tracks of frame under the bound run
func (l *RunLog) RecordFrame(frame int, tracks []types.Track, ok bool) error {
	return l.store.RecordFrame(l.run, frame, tracks, ok)
}
