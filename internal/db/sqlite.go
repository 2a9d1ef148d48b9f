// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"machcal/internal/dateutil"
	"machcal/internal/schedule"
)

// SQLite implements schedule.Provider, schedule.RangeProvider and
// schedule.TaskProvider on a single SQLite database.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite store and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// --- machines ---

// AddMachine registers a machine. Re-adding an existing machine is a no-op.
func (s *SQLite) AddMachine(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return schedule.ErrEmptyMachine
	}

	query := `INSERT INTO machines (name) VALUES (?) ON CONFLICT(name) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("inserting machine: %w", err)
	}
	return nil
}

// ListMachines returns all registered machine names, sorted.
func (s *SQLite) ListMachines(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM machines ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying machines: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var machines []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning machine: %w", err)
		}
		machines = append(machines, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating machines: %w", err)
	}

	return machines, nil
}

// HasMachine reports whether a machine is registered.
func (s *SQLite) HasMachine(ctx context.Context, name string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM machines WHERE name = ?`, name).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying machine: %w", err)
	}
	return true, nil
}

// --- availability ---

// GetAvailability returns the unavailable hours for a machine on a date.
// A machine/date with no stored row is fully available.
func (s *SQLite) GetAvailability(ctx context.Context, machine string, date time.Time) (schedule.HourSet, error) {
	query := `SELECT hours FROM availability WHERE machine = ? AND date = ?`

	var hours string
	err := s.db.QueryRowContext(ctx, query, machine, dateutil.FormatDate(date)).Scan(&hours)
	if err == sql.ErrNoRows {
		return schedule.HourSet{}, nil
	}
	if err != nil {
		return schedule.HourSet{}, fmt.Errorf("querying availability: %w", err)
	}

	return decodeHours(hours)
}

// SetAvailability replaces the full unavailable-hour set for a machine on
// a date, upserting the row.
func (s *SQLite) SetAvailability(ctx context.Context, machine string, date time.Time, hours schedule.HourSet) error {
	if machine == "" {
		return schedule.ErrEmptyMachine
	}

	query := `
		INSERT INTO availability (machine, date, hours) VALUES (?, ?, ?)
		ON CONFLICT(machine, date) DO UPDATE SET hours = excluded.hours
	`
	if _, err := s.db.ExecContext(ctx, query, machine, dateutil.FormatDate(date), encodeHours(hours)); err != nil {
		return fmt.Errorf("upserting availability: %w", err)
	}
	return nil
}

// GetAvailabilityRange returns unavailable hours for each date in
// [start, end], keyed by date string. Dates with no stored row are omitted.
func (s *SQLite) GetAvailabilityRange(ctx context.Context, machine string, start, end time.Time) (map[string]schedule.HourSet, error) {
	query := `
		SELECT date, hours FROM availability
		WHERE machine = ? AND date >= ? AND date <= ?
	`

	rows, err := s.db.QueryContext(ctx, query, machine, dateutil.FormatDate(start), dateutil.FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("querying availability range: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]schedule.HourSet)
	for rows.Next() {
		var date, hours string
		if err := rows.Scan(&date, &hours); err != nil {
			return nil, fmt.Errorf("scanning availability: %w", err)
		}
		set, err := decodeHours(hours)
		if err != nil {
			return nil, err
		}
		result[normalizeDate(date)] = set
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating availability: %w", err)
	}

	return result, nil
}

// --- events ---

// AddEvent persists an event and returns its id. Events arriving without
// an id are assigned one.
func (s *SQLite) AddEvent(ctx context.Context, event *schedule.Event) (string, error) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO events (id, task_id, machine, date, start_hour, end_hour, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.TaskID,
		event.Machine,
		dateutil.FormatDate(event.Date),
		event.StartHour,
		event.EndHour,
		event.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("inserting event: %w", err)
	}

	return event.ID, nil
}

// RemoveEvent deletes an event by id.
func (s *SQLite) RemoveEvent(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", schedule.ErrEventNotFound, id)
	}

	return nil
}

// GetEventsByDate returns all events on a date, across machines, ordered
// by machine then start hour.
func (s *SQLite) GetEventsByDate(ctx context.Context, date time.Time) ([]*schedule.Event, error) {
	query := `
		SELECT id, task_id, machine, date, start_hour, end_hour, created_at
		FROM events
		WHERE date = ?
		ORDER BY machine, start_hour
	`

	rows, err := s.db.QueryContext(ctx, query, dateutil.FormatDate(date))
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanEvents(rows)
}

// GetEventsByRange returns all events with dates in [start, end]
// (inclusive), ordered by date, machine, start hour.
func (s *SQLite) GetEventsByRange(ctx context.Context, start, end time.Time) ([]*schedule.Event, error) {
	query := `
		SELECT id, task_id, machine, date, start_hour, end_hour, created_at
		FROM events
		WHERE date >= ? AND date <= ?
		ORDER BY date, machine, start_hour
	`

	rows, err := s.db.QueryContext(ctx, query, dateutil.FormatDate(start), dateutil.FormatDate(end))
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]*schedule.Event, error) {
	var events []*schedule.Event
	for rows.Next() {
		var (
			e         schedule.Event
			date      string
			createdAt string
		)

		err := rows.Scan(&e.ID, &e.TaskID, &e.Machine, &date, &e.StartHour, &e.EndHour, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}

		e.Date, err = parseDate(date)
		if err != nil {
			return nil, fmt.Errorf("parsing event date: %w", err)
		}

		e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created at: %w", err)
		}

		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return events, nil
}

// --- tasks ---

// CreateTask registers a production task and returns its id.
func (s *SQLite) CreateTask(ctx context.Context, name string, durationHours int, color string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("task name must not be empty")
	}
	if durationHours < 1 || durationHours > schedule.HoursPerDay {
		return "", fmt.Errorf("%w: duration %d hours", schedule.ErrInvalidRange, durationHours)
	}

	id := uuid.NewString()
	query := `INSERT INTO tasks (id, name, duration_hours, color) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, id, name, durationHours, color); err != nil {
		return "", fmt.Errorf("inserting task: %w", err)
	}

	return id, nil
}

// GetTaskByID returns task metadata.
func (s *SQLite) GetTaskByID(ctx context.Context, id string) (*schedule.TaskInfo, error) {
	query := `SELECT id, name, duration_hours, color FROM tasks WHERE id = ?`

	var t schedule.TaskInfo
	err := s.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.DurationHours, &t.Color)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", schedule.ErrTaskNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying task: %w", err)
	}

	return &t, nil
}

// ListTasks returns all tasks ordered by name.
func (s *SQLite) ListTasks(ctx context.Context) ([]*schedule.TaskInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, duration_hours, color FROM tasks ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*schedule.TaskInfo
	for rows.Next() {
		var t schedule.TaskInfo
		if err := rows.Scan(&t.ID, &t.Name, &t.DurationHours, &t.Color); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}

	return tasks, nil
}

// --- encoding ---

// encodeHours serializes an hour set as a comma-separated list, e.g. "9,10,14".
func encodeHours(hours schedule.HourSet) string {
	list := hours.Hours()
	parts := make([]string, len(list))
	for i, h := range list {
		parts[i] = strconv.Itoa(h)
	}
	return strings.Join(parts, ",")
}

// decodeHours parses the comma-separated hour list stored in the
// availability table.
func decodeHours(s string) (schedule.HourSet, error) {
	var set schedule.HourSet
	if s == "" {
		return set, nil
	}
	for _, part := range strings.Split(s, ",") {
		h, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return schedule.HourSet{}, fmt.Errorf("parsing stored hours %q: %w", s, err)
		}
		set.Add(h)
	}
	return set, nil
}

// normalizeDate reduces whatever date representation SQLite returns to
// the YYYY-MM-DD key used by callers.
func normalizeDate(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

// parseDate parses a date string in various formats SQLite might return.
// Date-only values (midnight) are parsed in local timezone to match time.Now() behavior.
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateutil.DateFormat, s, time.Local); err == nil {
		return t, nil
	}

	// SQLite returns DATE columns as "2006-01-02T00:00:00Z"; this is a
	// date-only value and should be treated as local midnight.
	if len(s) >= 10 {
		if t, err := time.ParseInLocation(dateutil.DateFormat, s[:10], time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}
