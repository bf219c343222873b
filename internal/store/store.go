package store

import (
	"context"
	"time"

	"github.com/sells-group/talent-radar/internal/model"
)

// EmployeeFilter specifies criteria for listing tracked employees.
type EmployeeFilter struct {
	Tier      model.Tier `json:"tier,omitempty"`
	Org       string     `json:"org,omitempty"`
	DueBefore time.Time  `json:"due_before,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	Offset    int        `json:"offset,omitempty"`
}

// DepartureFilter specifies criteria for listing recorded departures.
type DepartureFilter struct {
	PersonID string `json:"person_id,omitempty"`
	MinLevel int    `json:"min_level,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// AlertFilter specifies criteria for listing stored alerts.
type AlertFilter struct {
	Level          model.AlertLevel `json:"level,omitempty"`
	Since          time.Time        `json:"since,omitempty"`
	UnnotifiedOnly bool             `json:"unnotified_only,omitempty"`
	Limit          int              `json:"limit,omitempty"`
	Offset         int              `json:"offset,omitempty"`
}

// Store defines the persistence interface for the monitoring pipeline.
type Store interface {
	// Tracked employees
	UpsertEmployee(ctx context.Context, emp model.TrackedEmployee) (*model.TrackedEmployee, error)
	GetEmployee(ctx context.Context, personID string) (*model.TrackedEmployee, error)
	ListEmployees(ctx context.Context, filter EmployeeFilter) ([]model.TrackedEmployee, error)
	UpdateScores(ctx context.Context, personID string, founderScore, stealthScore float64, tier model.Tier) error
	MarkChecked(ctx context.Context, personID string, checkedAt, nextCheck time.Time) error
	CountEmployeesByTier(ctx context.Context) (map[model.Tier]int, error)

	// Departures
	RecordDeparture(ctx context.Context, dep model.DepartureRecord) (*model.StoredDeparture, error)
	ListDepartures(ctx context.Context, filter DepartureFilter) ([]model.StoredDeparture, error)

	// Alerts
	SaveAlert(ctx context.Context, a model.Alert) (*model.StoredAlert, error)
	GetAlert(ctx context.Context, id string) (*model.StoredAlert, error)
	ListAlerts(ctx context.Context, filter AlertFilter) ([]model.StoredAlert, error)
	MarkAlertNotified(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
