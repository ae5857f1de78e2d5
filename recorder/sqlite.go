// Package recorder stores sampled offset values in a SQLite database.
package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/ehrlich-b/go-fsuipc/internal/constants"
	"github.com/ehrlich-b/go-fsuipc/internal/logging"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("recorder: closed")

// Sample is one observed value. Value may be any type the SQLite driver
// stores: integers, floats, strings, booleans or byte slices. Booleans are
// read back as int64.
type Sample struct {
	Name   string
	Offset uint32
	Value  any
	Time   time.Time
}

// SQLite buffers samples and writes them in batches. Every recorder gets a
// fresh run id so several runs can share one database file.
type SQLite struct {
	// BatchSize is the number of buffered samples that triggers a flush
	BatchSize int

	mu      sync.Mutex
	db      *sql.DB
	insert  *sql.Stmt
	runID   xid.ID
	path    string
	pending []Sample
	closed  bool
	logger  *logging.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS samples (
	run_id      TEXT    NOT NULL,
	name        TEXT    NOT NULL,
	fs_offset   INTEGER NOT NULL,
	value,
	recorded_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS samples_run_name ON samples (run_id, name);
`

// NewSQLite opens (or creates) the database at path. Pending samples are
// flushed when the program exits through atexit.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("recorder: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("recorder: create schema: %w", err)
	}
	insert, err := db.Prepare(`INSERT INTO samples (run_id, name, fs_offset, value, recorded_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("recorder: prepare insert: %w", err)
	}

	r := &SQLite{
		BatchSize: constants.DefaultRecorderBatchSize,
		db:        db,
		insert:    insert,
		runID:     xid.New(),
		path:      path,
		logger:    logging.Default(),
	}
	atexit.Register(func() {
		if err := r.Flush(); err != nil && !errors.Is(err, ErrClosed) {
			r.logger.WithError(err).Error("failed to flush samples at exit")
		}
	})

	r.logger.Info("recording samples", "path", path, "run", r.runID.String())
	return r, nil
}

// RunID identifies the samples written by this recorder.
func (r *SQLite) RunID() xid.ID {
	return r.runID
}

// Record buffers s, flushing when the batch is full. A zero Time is set to
// now.
func (r *SQLite) Record(s Sample) error {
	if s.Time.IsZero() {
		s.Time = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.pending = append(r.pending, s)
	if len(r.pending) >= r.BatchSize {
		return r.flushLocked()
	}
	return nil
}

// Flush writes all buffered samples in one transaction.
func (r *SQLite) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	return r.flushLocked()
}

func (r *SQLite) flushLocked() error {
	if len(r.pending) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("recorder: begin: %w", err)
	}
	stmt := tx.Stmt(r.insert)
	for _, s := range r.pending {
		if _, err := stmt.Exec(r.runID.String(), s.Name, int64(s.Offset), s.Value, s.Time.UnixNano()); err != nil {
			tx.Rollback()
			return fmt.Errorf("recorder: insert %s: %w", s.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("recorder: commit: %w", err)
	}

	r.logger.Debug("flushed samples", "count", len(r.pending))
	r.pending = nil
	return nil
}

// Samples returns the samples recorded under name in this run, oldest
// first. Buffered samples are flushed first.
func (r *SQLite) Samples(name string) ([]Sample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	if err := r.flushLocked(); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		`SELECT name, fs_offset, value, typeof(value), recorded_at FROM samples WHERE run_id = ? AND name = ? ORDER BY rowid`,
		r.runID.String(), name)
	if err != nil {
		return nil, fmt.Errorf("recorder: query %s: %w", name, err)
	}
	defer rows.Close()

	var out []Sample
	for rows.Next() {
		var (
			s      Sample
			offset int64
			kind   string
			nanos  int64
		)
		if err := rows.Scan(&s.Name, &offset, &s.Value, &kind, &nanos); err != nil {
			return nil, fmt.Errorf("recorder: scan: %w", err)
		}
		if b, ok := s.Value.([]byte); ok && kind == "text" {
			s.Value = string(b)
		}
		s.Offset = uint32(offset)
		s.Time = time.Unix(0, nanos)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Close flushes and closes the database.
func (r *SQLite) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	err := r.flushLocked()
	r.closed = true
	r.insert.Close()
	if cerr := r.db.Close(); err == nil {
		err = cerr
	}
	return err
}
