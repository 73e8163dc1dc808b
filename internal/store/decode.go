package store

import (
	"database/sql"
	"time"
)

// Decode represents a best-guess string produced for a trace.
type Decode struct {
	ID        int64
	TraceID   string
	Result    string
	Score     float64
	CreatedAt time.Time
}

// DecodeRepository provides operations for stored decode results.
type DecodeRepository struct {
	db *sql.DB
}

// Decodes returns the decode repository for this store.
func (s *Store) Decodes() *DecodeRepository {
	return &DecodeRepository{db: s.db}
}

// Create inserts a decode result for a trace.
func (r *DecodeRepository) Create(d *Decode) error {
	d.CreatedAt = time.Now()
	result, err := r.db.Exec(
		`INSERT INTO decodes (trace_id, result, score, created_at)
		 VALUES (?, ?, ?, ?)`,
		d.TraceID, d.Result, d.Score, d.CreatedAt,
	)
	if err != nil {
		return err
	}
	d.ID, err = result.LastInsertId()
	return err
}

// GetByTraceID retrieves all decode results for a trace, oldest first.
func (r *DecodeRepository) GetByTraceID(traceID string) ([]Decode, error) {
	rows, err := r.db.Query(
		`SELECT id, trace_id, result, score, created_at
		 FROM decodes WHERE trace_id = ? ORDER BY id`,
		traceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decodes []Decode
	for rows.Next() {
		var d Decode
		if err := rows.Scan(&d.ID, &d.TraceID, &d.Result, &d.Score, &d.CreatedAt); err != nil {
			return nil, err
		}
		decodes = append(decodes, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return decodes, nil
}
