package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/talent-radar/internal/db"
	"github.com/sells-group/talent-radar/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"get_employee":        `SELECT person_id, full_name, org, profile, tier, founder_score, stealth_score, last_checked, next_check, created_at, updated_at FROM tracked_employees WHERE person_id = $1`,
	"update_scores":       `UPDATE tracked_employees SET founder_score = $1, stealth_score = $2, tier = $3, updated_at = $4 WHERE person_id = $5`,
	"mark_checked":        `UPDATE tracked_employees SET last_checked = $1, next_check = $2, updated_at = $3 WHERE person_id = $4`,
	"insert_departure":    `INSERT INTO departures (id, person_id, record, alert_level, created_at) VALUES ($1, $2, $3, $4, $5)`,
	"insert_alert":        `INSERT INTO alerts (id, person_id, level, priority, alert, notified, created_at) VALUES ($1, $2, $3, $4, $5, false, $6)`,
	"get_alert":           `SELECT id, alert, notified, created_at FROM alerts WHERE id = $1`,
	"mark_alert_notified": `UPDATE alerts SET notified = true WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for use by subsystems
// that need direct query access (e.g., bulk roster imports).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS tracked_employees (
	person_id     TEXT PRIMARY KEY,
	full_name     TEXT NOT NULL,
	org           TEXT NOT NULL,
	profile       JSONB NOT NULL,
	tier          TEXT NOT NULL DEFAULT 'general',
	founder_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	stealth_score DOUBLE PRECISION NOT NULL DEFAULT 0,
	last_checked  TIMESTAMPTZ NOT NULL,
	next_check    TIMESTAMPTZ NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS departures (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	person_id   TEXT NOT NULL,
	record      JSONB NOT NULL,
	alert_level INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS alerts (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	person_id  TEXT NOT NULL,
	level      TEXT NOT NULL,
	priority   DOUBLE PRECISION NOT NULL DEFAULT 0,
	alert      JSONB NOT NULL,
	notified   BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_employees_tier ON tracked_employees(tier);
CREATE INDEX IF NOT EXISTS idx_employees_org ON tracked_employees(org);
CREATE INDEX IF NOT EXISTS idx_employees_next_check ON tracked_employees(next_check);
CREATE INDEX IF NOT EXISTS idx_departures_person_id ON departures(person_id);
CREATE INDEX IF NOT EXISTS idx_departures_alert_level ON departures(alert_level);
CREATE INDEX IF NOT EXISTS idx_alerts_person_id ON alerts(person_id);
CREATE INDEX IF NOT EXISTS idx_alerts_level ON alerts(level);
CREATE INDEX IF NOT EXISTS idx_alerts_notified ON alerts(notified);
CREATE INDEX IF NOT EXISTS idx_alerts_priority ON alerts(priority DESC);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.pool.Ping(ctx), "postgres: ping")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) UpsertEmployee(ctx context.Context, emp model.TrackedEmployee) (*model.TrackedEmployee, error) {
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
		return nil, eris.Wrap(err, "postgres: marshal profile")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO tracked_employees
		 (person_id, full_name, org, profile, tier, founder_score, stealth_score, last_checked, next_check, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (person_id) DO UPDATE SET
		   full_name = EXCLUDED.full_name, org = EXCLUDED.org, profile = EXCLUDED.profile,
		   tier = EXCLUDED.tier, founder_score = EXCLUDED.founder_score, stealth_score = EXCLUDED.stealth_score,
		   last_checked = EXCLUDED.last_checked, next_check = EXCLUDED.next_check, updated_at = EXCLUDED.updated_at`,
		emp.PersonID, emp.FullName, emp.Org, profileJSON, string(emp.Tier),
		emp.FounderScore, emp.StealthScore, emp.LastChecked, emp.NextCheck,
		emp.CreatedAt, emp.UpdatedAt,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: upsert employee %s", emp.PersonID)
	}
	return &emp, nil
}

func (s *PostgresStore) GetEmployee(ctx context.Context, personID string) (*model.TrackedEmployee, error) {
	var e model.TrackedEmployee
	var profileJSON []byte
	var tier string

	err := s.pool.QueryRow(ctx,
		`SELECT person_id, full_name, org, profile, tier, founder_score, stealth_score,
		        last_checked, next_check, created_at, updated_at
		 FROM tracked_employees WHERE person_id = $1`,
		personID,
	).Scan(&e.PersonID, &e.FullName, &e.Org, &profileJSON, &tier,
		&e.FounderScore, &e.StealthScore, &e.LastChecked, &e.NextCheck,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get employee %s", personID)
	}

	e.Tier = model.Tier(tier)
	if err := json.Unmarshal(profileJSON, &e.Profile); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal profile")
	}
	return &e, nil
}

func (s *PostgresStore) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]model.TrackedEmployee, error) {
	query := `SELECT person_id, full_name, org, profile, tier, founder_score, stealth_score,
	                 last_checked, next_check, created_at, updated_at
	          FROM tracked_employees WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Tier != "" {
		query += fmt.Sprintf(` AND tier = $%d`, argIdx)
		args = append(args, string(filter.Tier))
		argIdx++
	}
	if filter.Org != "" {
		query += fmt.Sprintf(` AND org = $%d`, argIdx)
		args = append(args, filter.Org)
		argIdx++
	}
	if !filter.DueBefore.IsZero() {
		query += fmt.Sprintf(` AND next_check <= $%d`, argIdx)
		args = append(args, filter.DueBefore)
		argIdx++
	}
	query += ` ORDER BY next_check ASC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
		argIdx++
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list employees")
	}
	defer rows.Close()

	var emps []model.TrackedEmployee
	for rows.Next() {
		var e model.TrackedEmployee
		var profileJSON []byte
		var tier string

		if err := rows.Scan(&e.PersonID, &e.FullName, &e.Org, &profileJSON, &tier,
			&e.FounderScore, &e.StealthScore, &e.LastChecked, &e.NextCheck,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan employee")
		}
		e.Tier = model.Tier(tier)
		if err := json.Unmarshal(profileJSON, &e.Profile); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal profile")
		}
		emps = append(emps, e)
	}
	return emps, eris.Wrap(rows.Err(), "postgres: list employees iterate")
}

func (s *PostgresStore) UpdateScores(ctx context.Context, personID string, founderScore, stealthScore float64, tier model.Tier) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tracked_employees SET founder_score = $1, stealth_score = $2, tier = $3, updated_at = $4 WHERE person_id = $5`,
		founderScore, stealthScore, string(tier), time.Now().UTC(), personID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update scores %s", personID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("employee not found: %s", personID)
	}
	return nil
}

func (s *PostgresStore) MarkChecked(ctx context.Context, personID string, checkedAt, nextCheck time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tracked_employees SET last_checked = $1, next_check = $2, updated_at = $3 WHERE person_id = $4`,
		checkedAt, nextCheck, time.Now().UTC(), personID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: mark checked %s", personID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("employee not found: %s", personID)
	}
	return nil
}

func (s *PostgresStore) CountEmployeesByTier(ctx context.Context) (map[model.Tier]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT tier, COUNT(*) FROM tracked_employees GROUP BY tier`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: count by tier")
	}
	defer rows.Close()

	counts := make(map[model.Tier]int)
	for rows.Next() {
		var tier string
		var n int
		if err := rows.Scan(&tier, &n); err != nil {
			return nil, eris.Wrap(err, "postgres: scan tier count")
		}
		counts[model.Tier(tier)] = n
	}
	return counts, eris.Wrap(rows.Err(), "postgres: count by tier iterate")
}

func (s *PostgresStore) RecordDeparture(ctx context.Context, dep model.DepartureRecord) (*model.StoredDeparture, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	recordJSON, err := json.Marshal(dep)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal departure")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO departures (id, person_id, record, alert_level, created_at) VALUES ($1, $2, $3, $4, $5)`,
		id, dep.PersonID, recordJSON, dep.AlertLevel, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert departure for %s", dep.PersonID)
	}

	return &model.StoredDeparture{ID: id, Departure: dep, CreatedAt: now}, nil
}

func (s *PostgresStore) ListDepartures(ctx context.Context, filter DepartureFilter) ([]model.StoredDeparture, error) {
	query := `SELECT id, record, created_at FROM departures WHERE true`
	args := []any{}
	argIdx := 1

	if filter.PersonID != "" {
		query += fmt.Sprintf(` AND person_id = $%d`, argIdx)
		args = append(args, filter.PersonID)
		argIdx++
	}
	if filter.MinLevel > 0 {
		query += fmt.Sprintf(` AND alert_level >= $%d`, argIdx)
		args = append(args, filter.MinLevel)
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
		argIdx++
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list departures")
	}
	defer rows.Close()

	var deps []model.StoredDeparture
	for rows.Next() {
		var d model.StoredDeparture
		var recordJSON []byte
		if err := rows.Scan(&d.ID, &recordJSON, &d.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan departure")
		}
		if err := json.Unmarshal(recordJSON, &d.Departure); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal departure")
		}
		deps = append(deps, d)
	}
	return deps, eris.Wrap(rows.Err(), "postgres: list departures iterate")
}

func (s *PostgresStore) SaveAlert(ctx context.Context, a model.Alert) (*model.StoredAlert, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	alertJSON, err := json.Marshal(a)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal alert")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO alerts (id, person_id, level, priority, alert, notified, created_at) VALUES ($1, $2, $3, $4, $5, false, $6)`,
		id, a.PersonID, string(a.Level), a.PriorityScore, alertJSON, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert alert for %s", a.PersonID)
	}

	return &model.StoredAlert{ID: id, Alert: a, CreatedAt: now}, nil
}

func (s *PostgresStore) GetAlert(ctx context.Context, id string) (*model.StoredAlert, error) {
	var a model.StoredAlert
	var alertJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, alert, notified, created_at FROM alerts WHERE id = $1`,
		id,
	).Scan(&a.ID, &alertJSON, &a.Notified, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get alert %s", id)
	}

	if err := json.Unmarshal(alertJSON, &a.Alert); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal alert")
	}
	return &a, nil
}

func (s *PostgresStore) ListAlerts(ctx context.Context, filter AlertFilter) ([]model.StoredAlert, error) {
	query := `SELECT id, alert, notified, created_at FROM alerts WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Level != "" {
		query += fmt.Sprintf(` AND level = $%d`, argIdx)
		args = append(args, string(filter.Level))
		argIdx++
	}
	if !filter.Since.IsZero() {
		query += fmt.Sprintf(` AND created_at >= $%d`, argIdx)
		args = append(args, filter.Since)
		argIdx++
	}
	if filter.UnnotifiedOnly {
		query += ` AND notified = false`
	}
	query += ` ORDER BY priority DESC, created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
		argIdx++
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list alerts")
	}
	defer rows.Close()

	var alerts []model.StoredAlert
	for rows.Next() {
		var a model.StoredAlert
		var alertJSON []byte
		if err := rows.Scan(&a.ID, &alertJSON, &a.Notified, &a.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan alert")
		}
		if err := json.Unmarshal(alertJSON, &a.Alert); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal alert")
		}
		alerts = append(alerts, a)
	}
	return alerts, eris.Wrap(rows.Err(), "postgres: list alerts iterate")
}

func (s *PostgresStore) MarkAlertNotified(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE alerts SET notified = true WHERE id = $1`,
		id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: mark alert notified %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("alert not found: %s", id)
	}
	return nil
}
