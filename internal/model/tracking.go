package model

import "time"

// TrackedEmployee is the monitoring state kept for one person: the last
// fetched profile snapshot plus the cadence bookkeeping that decides when
// they are re-checked.
type TrackedEmployee struct {
	PersonID string `json:"person_id"`
	FullName string `json:"full_name"`

	// Org is the big-tech company this person is tracked under.
	Org string `json:"org"`

	Profile EmployeeProfile `json:"profile"`

	Tier         Tier    `json:"tier"`
	FounderScore float64 `json:"founder_score"`
	StealthScore float64 `json:"stealth_score"`

	LastChecked time.Time `json:"last_checked"`
	NextCheck   time.Time `json:"next_check"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoredAlert is a persisted orchestrator alert with delivery state.
type StoredAlert struct {
	ID       string `json:"id"`
	Alert    Alert  `json:"alert"`
	Notified bool   `json:"notified"`

	CreatedAt time.Time `json:"created_at"`
}

// StoredDeparture is a persisted classified departure.
type StoredDeparture struct {
	ID        string          `json:"id"`
	Departure DepartureRecord `json:"departure"`

	CreatedAt time.Time `json:"created_at"`
}
