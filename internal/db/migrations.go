package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS machines (
			name       TEXT PRIMARY KEY,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS tasks (
			id             TEXT PRIMARY KEY,
			name           TEXT NOT NULL,
			duration_hours INTEGER NOT NULL CHECK(duration_hours > 0),
			color          TEXT DEFAULT '',
			created_at     DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS availability (
			machine TEXT NOT NULL REFERENCES machines(name),
			date    DATE NOT NULL,
			hours   TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (machine, date)
		);

		CREATE TABLE IF NOT EXISTS events (
			id         TEXT PRIMARY KEY,
			task_id    TEXT NOT NULL REFERENCES tasks(id),
			machine    TEXT NOT NULL REFERENCES machines(name),
			date       DATE NOT NULL,
			start_hour INTEGER NOT NULL CHECK(start_hour >= 0 AND start_hour < 24),
			end_hour   INTEGER NOT NULL CHECK(end_hour > 0 AND end_hour <= 24),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			CHECK(start_hour < end_hour)
		);

		CREATE INDEX IF NOT EXISTS idx_events_date ON events(date);
		CREATE INDEX IF NOT EXISTS idx_events_machine_date ON events(machine, date);
		CREATE INDEX IF NOT EXISTS idx_availability_machine ON availability(machine, date);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
