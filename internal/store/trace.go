package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// TraceMode represents how a trace was produced.
type TraceMode string

const (
	// TraceModeGesture is a continuous-stroke gesture trace.
	TraceModeGesture TraceMode = "gesture"
	// TraceModeTap is a discrete tap sequence.
	TraceModeTap TraceMode = "tap"
)

// Trace represents a recorded touch stream stored in the database.
type Trace struct {
	ID         string
	Layout     string
	Mode       TraceMode
	PointCount int
	CreatedAt  time.Time
}

// TracePoint is one raw sample of a trace.
type TracePoint struct {
	X         int `json:"x"`
	Y         int `json:"y"`
	Time      int `json:"t"`
	PointerID int `json:"pointer_id"`
}

// TraceRepository provides CRUD operations for traces and their points.
type TraceRepository struct {
	db *sql.DB
}

// Traces returns the trace repository for this store.
func (s *Store) Traces() *TraceRepository {
	return &TraceRepository{db: s.db}
}

// Create inserts a trace and its points in a single transaction.
func (r *TraceRepository) Create(t *Trace, points []TracePoint) error {
	t.CreatedAt = time.Now()
	t.PointCount = len(points)

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO traces (id, layout, mode, point_count, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Layout, string(t.Mode), t.PointCount, t.CreatedAt,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO trace_points (trace_id, seq, x, y, time_ms, pointer_id)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range points {
		if _, err := stmt.Exec(t.ID, i, p.X, p.Y, p.Time, p.PointerID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID retrieves a trace by its id.
func (r *TraceRepository) GetByID(id string) (*Trace, error) {
	var t Trace
	var mode string
	err := r.db.QueryRow(
		`SELECT id, layout, mode, point_count, created_at FROM traces WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.Layout, &mode, &t.PointCount, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	t.Mode = TraceMode(mode)
	return &t, nil
}

// Points retrieves the raw samples of a trace in stream order.
func (r *TraceRepository) Points(traceID string) ([]TracePoint, error) {
	rows, err := r.db.Query(
		`SELECT x, y, time_ms, pointer_id FROM trace_points
		 WHERE trace_id = ? ORDER BY seq`,
		traceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []TracePoint
	for rows.Next() {
		var p TracePoint
		if err := rows.Scan(&p.X, &p.Y, &p.Time, &p.PointerID); err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return points, nil
}

// List retrieves all traces, newest first.
func (r *TraceRepository) List() ([]Trace, error) {
	rows, err := r.db.Query(
		`SELECT id, layout, mode, point_count, created_at
		 FROM traces ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var traces []Trace
	for rows.Next() {
		var t Trace
		var mode string
		if err := rows.Scan(&t.ID, &t.Layout, &mode, &t.PointCount, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Mode = TraceMode(mode)
		traces = append(traces, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return traces, nil
}

// Delete removes a trace; points and decodes cascade.
func (r *TraceRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM traces WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
