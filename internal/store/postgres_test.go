package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/talent-radar/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_Ping(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	s := &PostgresStore{pool: mock}

	mock.ExpectPing()
	require.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetEmployee_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT person_id, full_name, org, profile, tier`).
		WithArgs("nonexistent").
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetEmployee(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertEmployee(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO tracked_employees`).
		WithArgs("p1", "Alex Chen", "Google", pgxmock.AnyArg(), "watch",
			6.5, 55.0, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	emp := model.TrackedEmployee{
		PersonID:     "p1",
		FullName:     "Alex Chen",
		Org:          "Google",
		Tier:         model.TierWatch,
		FounderScore: 6.5,
		StealthScore: 55,
	}
	got, err := s.UpsertEmployee(context.Background(), emp)
	require.NoError(t, err)
	assert.False(t, got.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateScores_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE tracked_employees SET founder_score`).
		WithArgs(8.0, 60.0, "vip", pgxmock.AnyArg(), "nonexistent").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateScores(context.Background(), "nonexistent", 8.0, 60.0, model.TierVIP)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "employee not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_MarkChecked(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	checked := time.Now().UTC()
	next := checked.Add(24 * time.Hour)

	mock.ExpectExec(`UPDATE tracked_employees SET last_checked`).
		WithArgs(checked, next, pgxmock.AnyArg(), "p1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.MarkChecked(context.Background(), "p1", checked, next)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CountEmployeesByTier(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT tier, COUNT`).
		WillReturnRows(pgxmock.NewRows([]string{"tier", "count"}).
			AddRow("vip", 2).
			AddRow("watch", 5))

	counts, err := s.CountEmployeesByTier(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, counts[model.TierVIP])
	assert.Equal(t, 5, counts[model.TierWatch])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_RecordDeparture(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO departures`).
		WithArgs(pgxmock.AnyArg(), "p1", pgxmock.AnyArg(), 3, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	stored, err := s.RecordDeparture(context.Background(), model.DepartureRecord{
		PersonID:   "p1",
		OldCompany: "Google",
		NewCompany: "Neural Forge",
		AlertLevel: 3,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveAlert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO alerts`).
		WithArgs(pgxmock.AnyArg(), "p1", "LEVEL_3", 108.5, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	stored, err := s.SaveAlert(context.Background(), model.Alert{
		PersonID:      "p1",
		Level:         model.Level3,
		PriorityScore: 108.5,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.Notified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetAlert_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, alert, notified, created_at FROM alerts`).
		WithArgs("nonexistent").
		WillReturnError(pgx.ErrNoRows)

	got, err := s.GetAlert(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListAlerts(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	created := time.Now().UTC()
	mock.ExpectQuery(`SELECT id, alert, notified, created_at FROM alerts`).
		WithArgs(100).
		WillReturnRows(pgxmock.NewRows([]string{"id", "alert", "notified", "created_at"}).
			AddRow("a1", []byte(`{"person_id":"p1","alert_level":"LEVEL_3"}`), false, created))

	alerts, err := s.ListAlerts(context.Background(), AlertFilter{})
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "p1", alerts[0].Alert.PersonID)
	assert.Equal(t, model.Level3, alerts[0].Alert.Level)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_MarkAlertNotified_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE alerts SET notified`).
		WithArgs("nonexistent").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.MarkAlertNotified(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alert not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
