package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/talent-radar/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS tracked_employees (
	person_id     TEXT PRIMARY KEY,
	full_name     TEXT NOT NULL,
	org           TEXT NOT NULL,
	profile       TEXT NOT NULL,
	tier          TEXT NOT NULL DEFAULT 'general',
	founder_score REAL NOT NULL DEFAULT 0,
	stealth_score REAL NOT NULL DEFAULT 0,
	last_checked  DATETIME NOT NULL,
	next_check    DATETIME NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS departures (
	id          TEXT PRIMARY KEY,
	person_id   TEXT NOT NULL,
	record      TEXT NOT NULL,
	alert_level INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS alerts (
	id         TEXT PRIMARY KEY,
	person_id  TEXT NOT NULL,
	level      TEXT NOT NULL,
	priority   REAL NOT NULL DEFAULT 0,
	alert      TEXT NOT NULL,
	notified   INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_employees_tier ON tracked_employees(tier);
CREATE INDEX IF NOT EXISTS idx_employees_org ON tracked_employees(org);
CREATE INDEX IF NOT EXISTS idx_employees_next_check ON tracked_employees(next_check);
CREATE INDEX IF NOT EXISTS idx_departures_person_id ON departures(person_id);
CREATE INDEX IF NOT EXISTS idx_departures_alert_level ON departures(alert_level);
CREATE INDEX IF NOT EXISTS idx_alerts_person_id ON alerts(person_id);
CREATE INDEX IF NOT EXISTS idx_alerts_level ON alerts(level);
CREATE INDEX IF NOT EXISTS idx_alerts_notified ON alerts(notified);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertEmployee(ctx context.Context, emp model.TrackedEmployee) (*model.TrackedEmployee, error) {
	now := time.Now().UTC()
	if emp.Tier == "" {
		emp.Tier = model.TierGeneral
	}
	if emp.CreatedAt.IsZero() {
		emp.CreatedAt = now
	}
	emp.UpdatedAt = now

	profileJSON, err := json.Marshal(emp.Profile)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal profile")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tracked_employees
		 (person_id, full_name, org, profile, tier, founder_score, stealth_score, last_checked, next_check, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(person_id) DO UPDATE SET
		   full_name = excluded.full_name, org = excluded.org, profile = excluded.profile,
		   tier = excluded.tier, founder_score = excluded.founder_score, stealth_score = excluded.stealth_score,
		   last_checked = excluded.last_checked, next_check = excluded.next_check, updated_at = excluded.updated_at`,
		emp.PersonID, emp.FullName, emp.Org, string(profileJSON), string(emp.Tier),
		emp.FounderScore, emp.StealthScore, emp.LastChecked, emp.NextCheck,
		emp.CreatedAt, emp.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: upsert employee %s", emp.PersonID)
	}
	return &emp, nil
}

func (s *SQLiteStore) GetEmployee(ctx context.Context, personID string) (*model.TrackedEmployee, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT person_id, full_name, org, profile, tier, founder_score, stealth_score,
		        last_checked, next_check, created_at, updated_at
		 FROM tracked_employees WHERE person_id = ?`,
		personID,
	)
	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return emp, err
}

func (s *SQLiteStore) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]model.TrackedEmployee, error) {
	query := `SELECT person_id, full_name, org, profile, tier, founder_score, stealth_score,
	                 last_checked, next_check, created_at, updated_at
	          FROM tracked_employees WHERE 1=1`
	var args []any

	if filter.Tier != "" {
		query += ` AND tier = ?`
		args = append(args, string(filter.Tier))
	}
	if filter.Org != "" {
		query += ` AND org = ?`
		args = append(args, filter.Org)
	}
	if !filter.DueBefore.IsZero() {
		query += ` AND next_check <= ?`
		args = append(args, filter.DueBefore)
	}
	query += ` ORDER BY next_check ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list employees")
	}
	defer rows.Close()

	var emps []model.TrackedEmployee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		emps = append(emps, *e)
	}
	return emps, eris.Wrap(rows.Err(), "sqlite: list employees iterate")
}

func (s *SQLiteStore) UpdateScores(ctx context.Context, personID string, founderScore, stealthScore float64, tier model.Tier) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tracked_employees SET founder_score = ?, stealth_score = ?, tier = ?, updated_at = ? WHERE person_id = ?`,
		founderScore, stealthScore, string(tier), time.Now().UTC(), personID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update scores %s", personID)
	}
	return checkRowsAffected(res, "employee", personID)
}

func (s *SQLiteStore) MarkChecked(ctx context.Context, personID string, checkedAt, nextCheck time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tracked_employees SET last_checked = ?, next_check = ?, updated_at = ? WHERE person_id = ?`,
		checkedAt, nextCheck, time.Now().UTC(), personID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: mark checked %s", personID)
	}
	return checkRowsAffected(res, "employee", personID)
}

func (s *SQLiteStore) CountEmployeesByTier(ctx context.Context) (map[model.Tier]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tier, COUNT(*) FROM tracked_employees GROUP BY tier`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: count by tier")
	}
	defer rows.Close()

	counts := make(map[model.Tier]int)
	for rows.Next() {
		var tier string
		var n int
		if err := rows.Scan(&tier, &n); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan tier count")
		}
		counts[model.Tier(tier)] = n
	}
	return counts, eris.Wrap(rows.Err(), "sqlite: count by tier iterate")
}

func (s *SQLiteStore) RecordDeparture(ctx context.Context, dep model.DepartureRecord) (*model.StoredDeparture, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	recordJSON, err := json.Marshal(dep)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal departure")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO departures (id, person_id, record, alert_level, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, dep.PersonID, string(recordJSON), dep.AlertLevel, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert departure for %s", dep.PersonID)
	}

	return &model.StoredDeparture{ID: id, Departure: dep, CreatedAt: now}, nil
}

func (s *SQLiteStore) ListDepartures(ctx context.Context, filter DepartureFilter) ([]model.StoredDeparture, error) {
	query := `SELECT id, record, created_at FROM departures WHERE 1=1`
	var args []any

	if filter.PersonID != "" {
		query += ` AND person_id = ?`
		args = append(args, filter.PersonID)
	}
	if filter.MinLevel > 0 {
		query += ` AND alert_level >= ?`
		args = append(args, filter.MinLevel)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list departures")
	}
	defer rows.Close()

	var deps []model.StoredDeparture
	for rows.Next() {
		var d model.StoredDeparture
		var recordJSON string
		if err := rows.Scan(&d.ID, &recordJSON, &d.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan departure")
		}
		if err := json.Unmarshal([]byte(recordJSON), &d.Departure); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal departure")
		}
		deps = append(deps, d)
	}
	return deps, eris.Wrap(rows.Err(), "sqlite: list departures iterate")
}

func (s *SQLiteStore) SaveAlert(ctx context.Context, a model.Alert) (*model.StoredAlert, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	alertJSON, err := json.Marshal(a)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal alert")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO alerts (id, person_id, level, priority, alert, notified, created_at) VALUES (?, ?, ?, ?, ?, 0, ?)`,
		id, a.PersonID, string(a.Level), a.PriorityScore, string(alertJSON), now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert alert for %s", a.PersonID)
	}

	return &model.StoredAlert{ID: id, Alert: a, CreatedAt: now}, nil
}

func (s *SQLiteStore) GetAlert(ctx context.Context, id string) (*model.StoredAlert, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, alert, notified, created_at FROM alerts WHERE id = ?`,
		id,
	)
	a, err := scanAlert(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return a, err
}

func (s *SQLiteStore) ListAlerts(ctx context.Context, filter AlertFilter) ([]model.StoredAlert, error) {
	query := `SELECT id, alert, notified, created_at FROM alerts WHERE 1=1`
	var args []any

	if filter.Level != "" {
		query += ` AND level = ?`
		args = append(args, string(filter.Level))
	}
	if !filter.Since.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, filter.Since)
	}
	if filter.UnnotifiedOnly {
		query += ` AND notified = 0`
	}
	query += ` ORDER BY priority DESC, created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list alerts")
	}
	defer rows.Close()

	var alerts []model.StoredAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *a)
	}
	return alerts, eris.Wrap(rows.Err(), "sqlite: list alerts iterate")
}

func (s *SQLiteStore) MarkAlertNotified(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET notified = 1 WHERE id = ?`,
		id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: mark alert notified %s", id)
	}
	return checkRowsAffected(res, "alert", id)
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanEmployee(row scannable) (*model.TrackedEmployee, error) {
	var e model.TrackedEmployee
	var profileJSON, tier string

	err := row.Scan(&e.PersonID, &e.FullName, &e.Org, &profileJSON, &tier,
		&e.FounderScore, &e.StealthScore, &e.LastChecked, &e.NextCheck,
		&e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan employee")
	}

	e.Tier = model.Tier(tier)
	if err := json.Unmarshal([]byte(profileJSON), &e.Profile); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal profile")
	}
	return &e, nil
}

func scanAlert(row scannable) (*model.StoredAlert, error) {
	var a model.StoredAlert
	var alertJSON string
	var notified int

	err := row.Scan(&a.ID, &alertJSON, &notified, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan alert")
	}

	a.Notified = notified != 0
	if err := json.Unmarshal([]byte(alertJSON), &a.Alert); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal alert")
	}
	return &a, nil
}
