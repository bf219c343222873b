package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/talent-radar/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func testEmployee(personID string) model.TrackedEmployee {
	now := time.Now().UTC()
	return model.TrackedEmployee{
		PersonID: personID,
		FullName: "Alex Chen",
		Org:      "Google",
		Profile: model.EmployeeProfile{
			ID:             personID,
			FullName:       "Alex Chen",
			JobCompanyName: "Neural Forge",
		},
		Tier:         model.TierWatch,
		FounderScore: 6.5,
		StealthScore: 55,
		LastChecked:  now,
		NextCheck:    now.Add(7 * 24 * time.Hour),
	}
}

func TestSQLiteUpsertAndGetEmployee(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	emp, err := s.UpsertEmployee(ctx, testEmployee("p1"))
	require.NoError(t, err)
	assert.False(t, emp.CreatedAt.IsZero())
	assert.False(t, emp.UpdatedAt.IsZero())

	got, err := s.GetEmployee(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alex Chen", got.FullName)
	assert.Equal(t, "Google", got.Org)
	assert.Equal(t, model.TierWatch, got.Tier)
	assert.InDelta(t, 6.5, got.FounderScore, 0.001)
	assert.Equal(t, "Neural Forge", got.Profile.JobCompanyName)
	assert.WithinDuration(t, emp.NextCheck, got.NextCheck, time.Second)
}

func TestSQLiteGetEmployeeNotFound(t *testing.T) {
	s := newTestSQLite(t)

	got, err := s.GetEmployee(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteUpsertEmployeeUpdates(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.UpsertEmployee(ctx, testEmployee("p1"))
	require.NoError(t, err)

	updated := testEmployee("p1")
	updated.FullName = "Alex J. Chen"
	updated.Tier = model.TierVIP
	_, err = s.UpsertEmployee(ctx, updated)
	require.NoError(t, err)

	got, err := s.GetEmployee(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Alex J. Chen", got.FullName)
	assert.Equal(t, model.TierVIP, got.Tier)

	// Still a single row.
	emps, err := s.ListEmployees(ctx, EmployeeFilter{})
	require.NoError(t, err)
	assert.Len(t, emps, 1)
}

func TestSQLiteUpsertEmployeeDefaultTier(t *testing.T) {
	s := newTestSQLite(t)

	emp := testEmployee("p1")
	emp.Tier = ""
	got, err := s.UpsertEmployee(context.Background(), emp)
	require.NoError(t, err)
	assert.Equal(t, model.TierGeneral, got.Tier)
}

func TestSQLiteListEmployeesFilters(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	now := time.Now().UTC()

	a := testEmployee("a")
	a.Tier = model.TierVIP
	a.NextCheck = now.Add(time.Hour)

	b := testEmployee("b")
	b.Org = "Meta"
	b.Tier = model.TierWatch
	b.NextCheck = now.Add(-time.Hour) // already due

	c := testEmployee("c")
	c.Tier = model.TierWatch
	c.NextCheck = now.Add(48 * time.Hour)

	for _, e := range []model.TrackedEmployee{a, b, c} {
		_, err := s.UpsertEmployee(ctx, e)
		require.NoError(t, err)
	}

	t.Run("by tier", func(t *testing.T) {
		emps, err := s.ListEmployees(ctx, EmployeeFilter{Tier: model.TierWatch})
		require.NoError(t, err)
		assert.Len(t, emps, 2)
	})

	t.Run("by org", func(t *testing.T) {
		emps, err := s.ListEmployees(ctx, EmployeeFilter{Org: "Meta"})
		require.NoError(t, err)
		require.Len(t, emps, 1)
		assert.Equal(t, "b", emps[0].PersonID)
	})

	t.Run("due before now", func(t *testing.T) {
		emps, err := s.ListEmployees(ctx, EmployeeFilter{DueBefore: now})
		require.NoError(t, err)
		require.Len(t, emps, 1)
		assert.Equal(t, "b", emps[0].PersonID)
	})

	t.Run("ordered by next check", func(t *testing.T) {
		emps, err := s.ListEmployees(ctx, EmployeeFilter{})
		require.NoError(t, err)
		require.Len(t, emps, 3)
		assert.Equal(t, "b", emps[0].PersonID)
		assert.Equal(t, "a", emps[1].PersonID)
		assert.Equal(t, "c", emps[2].PersonID)
	})

	t.Run("limit and offset", func(t *testing.T) {
		emps, err := s.ListEmployees(ctx, EmployeeFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, emps, 1)
		assert.Equal(t, "a", emps[0].PersonID)
	})
}

func TestSQLiteUpdateScores(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.UpsertEmployee(ctx, testEmployee("p1"))
	require.NoError(t, err)

	require.NoError(t, s.UpdateScores(ctx, "p1", 8.2, 77, model.TierVIP))

	got, err := s.GetEmployee(ctx, "p1")
	require.NoError(t, err)
	assert.InDelta(t, 8.2, got.FounderScore, 0.001)
	assert.InDelta(t, 77.0, got.StealthScore, 0.001)
	assert.Equal(t, model.TierVIP, got.Tier)
}

func TestSQLiteUpdateScoresNotFound(t *testing.T) {
	s := newTestSQLite(t)

	err := s.UpdateScores(context.Background(), "nope", 1, 1, model.TierGeneral)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "employee not found")
}

func TestSQLiteMarkChecked(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.UpsertEmployee(ctx, testEmployee("p1"))
	require.NoError(t, err)

	checked := time.Now().UTC()
	next := checked.Add(24 * time.Hour)
	require.NoError(t, s.MarkChecked(ctx, "p1", checked, next))

	got, err := s.GetEmployee(ctx, "p1")
	require.NoError(t, err)
	assert.WithinDuration(t, checked, got.LastChecked, time.Second)
	assert.WithinDuration(t, next, got.NextCheck, time.Second)
}

func TestSQLiteCountEmployeesByTier(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for i, tier := range []model.Tier{model.TierVIP, model.TierWatch, model.TierWatch, model.TierGeneral} {
		e := testEmployee(string(rune('a' + i)))
		e.Tier = tier
		_, err := s.UpsertEmployee(ctx, e)
		require.NoError(t, err)
	}

	counts, err := s.CountEmployeesByTier(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[model.TierVIP])
	assert.Equal(t, 2, counts[model.TierWatch])
	assert.Equal(t, 1, counts[model.TierGeneral])
}

func TestSQLiteDepartures(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	dep := model.DepartureRecord{
		PersonID:     "p1",
		Name:         "Alex Chen",
		OldCompany:   "Google",
		NewCompany:   "Neural Forge",
		AlertLevel:   3,
		AlertSignals: []string{"Joined qualified startup: Neural Forge"},
	}
	stored, err := s.RecordDeparture(ctx, dep)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)

	_, err = s.RecordDeparture(ctx, model.DepartureRecord{PersonID: "p2", OldCompany: "Meta", AlertLevel: 1})
	require.NoError(t, err)

	t.Run("all", func(t *testing.T) {
		deps, err := s.ListDepartures(ctx, DepartureFilter{})
		require.NoError(t, err)
		assert.Len(t, deps, 2)
	})

	t.Run("by person", func(t *testing.T) {
		deps, err := s.ListDepartures(ctx, DepartureFilter{PersonID: "p1"})
		require.NoError(t, err)
		require.Len(t, deps, 1)
		assert.Equal(t, "Neural Forge", deps[0].Departure.NewCompany)
		assert.Equal(t, []string{"Joined qualified startup: Neural Forge"}, deps[0].Departure.AlertSignals)
	})

	t.Run("by min level", func(t *testing.T) {
		deps, err := s.ListDepartures(ctx, DepartureFilter{MinLevel: 2})
		require.NoError(t, err)
		require.Len(t, deps, 1)
		assert.Equal(t, "p1", deps[0].Departure.PersonID)
	})
}

func TestSQLiteAlerts(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	high := model.Alert{
		PersonID:      "p1",
		FullName:      "Alex Chen",
		Level:         model.Level3,
		PriorityScore: 108.5,
		Reasons:       []string{"Joined qualified startup: Neural Forge"},
	}
	low := model.Alert{
		PersonID:      "p2",
		FullName:      "Sam Park",
		Level:         model.Level1,
		PriorityScore: 12,
	}

	saved, err := s.SaveAlert(ctx, high)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.Notified)

	_, err = s.SaveAlert(ctx, low)
	require.NoError(t, err)

	t.Run("get", func(t *testing.T) {
		got, err := s.GetAlert(ctx, saved.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, model.Level3, got.Alert.Level)
		assert.Equal(t, high.Reasons, got.Alert.Reasons)
	})

	t.Run("get missing", func(t *testing.T) {
		got, err := s.GetAlert(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list ordered by priority", func(t *testing.T) {
		alerts, err := s.ListAlerts(ctx, AlertFilter{})
		require.NoError(t, err)
		require.Len(t, alerts, 2)
		assert.Equal(t, "p1", alerts[0].Alert.PersonID)
		assert.Equal(t, "p2", alerts[1].Alert.PersonID)
	})

	t.Run("list by level", func(t *testing.T) {
		alerts, err := s.ListAlerts(ctx, AlertFilter{Level: model.Level1})
		require.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.Equal(t, "p2", alerts[0].Alert.PersonID)
	})

	t.Run("mark notified", func(t *testing.T) {
		require.NoError(t, s.MarkAlertNotified(ctx, saved.ID))

		got, err := s.GetAlert(ctx, saved.ID)
		require.NoError(t, err)
		assert.True(t, got.Notified)

		alerts, err := s.ListAlerts(ctx, AlertFilter{UnnotifiedOnly: true})
		require.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.Equal(t, "p2", alerts[0].Alert.PersonID)
	})

	t.Run("mark notified missing", func(t *testing.T) {
		err := s.MarkAlertNotified(ctx, "nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "alert not found")
	})
}
