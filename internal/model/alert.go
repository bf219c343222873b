package model

import "time"

// Tier is the recommended re-check cadence bucket for a monitored person.
type Tier string

const (
	TierVIP     Tier = "vip"
	TierWatch   Tier = "watch"
	TierGeneral Tier = "general"
)

// AlertLevel identifies one of the three orchestrator alert levels.
type AlertLevel string

const (
	Level3 AlertLevel = "LEVEL_3" // joined qualified startup
	Level2 AlertLevel = "LEVEL_2" // building signals detected
	Level1 AlertLevel = "LEVEL_1" // recently left big tech
)

// Priority returns the numeric rank of a level; higher wins.
func (l AlertLevel) Priority() int {
	switch l {
	case Level3:
		return 3
	case Level2:
		return 2
	case Level1:
		return 1
	default:
		return 0
	}
}

// DepartureInfo describes the departure that made a candidate eligible.
type DepartureInfo struct {
	Company string `json:"company"`
	Date    string `json:"date"`
	DaysAgo int    `json:"days_ago"`
	Role    string `json:"role,omitempty"`
}

// StartupInfo carries the matched qualified-startup details for a
// LEVEL_3 alert.
type StartupInfo struct {
	Name      string  `json:"startup_name"`
	ID        string  `json:"startup_id,omitempty"`
	TechScore float64 `json:"tech_score,omitempty"`
	Founded   int     `json:"founded,omitempty"`
	Size      string  `json:"size,omitempty"`
	Industry  string  `json:"industry,omitempty"`
}

// Alert is the orchestrator's per-candidate result.
type Alert struct {
	PersonID        string         `json:"person_id"`
	FullName        string         `json:"full_name"`
	Level           AlertLevel     `json:"alert_level"`
	Reasons         []string       `json:"alert_reasons"`
	PriorityScore   float64        `json:"priority_score"`
	Departure       *DepartureInfo `json:"departure_info,omitempty"`
	Startup         *StartupInfo   `json:"startup_info,omitempty"`
	BuildingPhrases []string       `json:"building_phrases,omitempty"`
	FounderScore    float64        `json:"founder_score"`
	StealthScore    float64        `json:"stealth_score"`
	StealthSignals  []string       `json:"stealth_signals,omitempty"`
	Timestamp       time.Time      `json:"timestamp"`
}
