package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Traces table - one recorded touch stream per row
		`CREATE TABLE IF NOT EXISTS traces (
			id TEXT PRIMARY KEY,
			layout TEXT NOT NULL,
			mode TEXT NOT NULL CHECK(mode IN ('gesture', 'tap')),
			point_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Trace points table - the raw samples of a trace, in stream order
		`CREATE TABLE IF NOT EXISTS trace_points (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			trace_id TEXT NOT NULL REFERENCES traces(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			time_ms INTEGER NOT NULL,
			pointer_id INTEGER NOT NULL DEFAULT 0
		)`,

		// Decodes table - best-guess strings produced for a trace
		`CREATE TABLE IF NOT EXISTS decodes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			trace_id TEXT NOT NULL REFERENCES traces(id) ON DELETE CASCADE,
			result TEXT NOT NULL,
			score REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_trace_points_trace_id ON trace_points(trace_id)`,
		`CREATE INDEX IF NOT EXISTS idx_decodes_trace_id ON decodes(trace_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
