// Package model defines the in-memory records exchanged between the
// tracking, classification and scoring components. Fields mirror the
// person schema returned by the people-data API; absent values are
// normalized to empty strings at ingestion so downstream matchers never
// deal with missing-field cases.
package model

import (
	"strconv"
	"strings"
	"time"
)

// Location is a coarse place reference (region = state-level, locality = city).
type Location struct {
	Region   string `json:"region,omitempty"`
	Locality string `json:"locality,omitempty"`
}

// CompanyRef describes a company as it appears inside an experience entry.
type CompanyRef struct {
	Name     string   `json:"name,omitempty"`
	Size     string   `json:"size,omitempty"`
	Summary  string   `json:"summary,omitempty"`
	Location Location `json:"location,omitempty"`
}

// Experience is one employment entry in a person's history.
type Experience struct {
	Company     CompanyRef `json:"company,omitempty"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	EndDate     string     `json:"end_date,omitempty"`
	IsPrimary   bool       `json:"is_primary,omitempty"`
}

// Education is one education entry.
type Education struct {
	School string `json:"school,omitempty"`
}

// Role holds the vendor's normalized role taxonomy for a person's last
// known position.
type Role struct {
	Role    string   `json:"role,omitempty"`
	SubRole string   `json:"sub_role,omitempty"`
	Levels  []string `json:"levels,omitempty"`
}

// BigTechDeparture records the most recent departure from a tracked
// big-tech company, if one is known.
type BigTechDeparture struct {
	Company       string `json:"company,omitempty"`
	DepartureDate string `json:"departure_date,omitempty"`
	Role          string `json:"role,omitempty"`
}

// EmployeeProfile is the scoring input: one person as last fetched from
// the people-data API, plus the tracking state we maintain for them.
type EmployeeProfile struct {
	ID       string `json:"id,omitempty"`
	FullName string `json:"full_name,omitempty"`

	JobCompanyName     string   `json:"job_company_name,omitempty"`
	JobTitle           string   `json:"job_title,omitempty"`
	JobTitleRole       string   `json:"job_title_role,omitempty"`
	JobTitleSubRole    string   `json:"job_title_sub_role,omitempty"`
	JobCompanySize     string   `json:"job_company_size,omitempty"`
	JobCompanyType     string   `json:"job_company_type,omitempty"`
	JobCompanyIndustry string   `json:"job_company_industry,omitempty"`
	JobCompanyFounded  int      `json:"job_company_founded,omitempty"`
	JobCompanyLocation Location `json:"job_company_location,omitempty"`
	JobLastChanged     string   `json:"job_last_changed,omitempty"`
	JobLastUpdated     string   `json:"job_last_updated,omitempty"`

	Location Location `json:"location,omitempty"`

	Headline string   `json:"headline,omitempty"`
	Summary  string   `json:"summary,omitempty"`
	Bio      string   `json:"bio,omitempty"`
	Skills   []string `json:"skills,omitempty"`

	Education  []Education  `json:"education,omitempty"`
	Experience []Experience `json:"experience,omitempty"`

	LastKnownRole        Role              `json:"last_known_role,omitempty"`
	LastBigTechDeparture *BigTechDeparture `json:"last_big_tech_departure,omitempty"`

	// FounderScore is filled by the first scoring pass so that the second
	// pass can evaluate network effects against a stable baseline.
	FounderScore float64 `json:"founder_score,omitempty"`
}

// Normalize trims whitespace on the free-text fields. Zero values already
// satisfy the missing-field policy, so this is the only ingestion step.
func (p *EmployeeProfile) Normalize() {
	p.FullName = strings.TrimSpace(p.FullName)
	p.JobCompanyName = strings.TrimSpace(p.JobCompanyName)
	p.JobTitle = strings.TrimSpace(p.JobTitle)
	p.Headline = strings.TrimSpace(p.Headline)
	p.Summary = strings.TrimSpace(p.Summary)
	p.Bio = strings.TrimSpace(p.Bio)
}

// CompanyNames returns the lowercased set of company names across the
// person's experience history.
func (p *EmployeeProfile) CompanyNames() map[string]struct{} {
	names := make(map[string]struct{}, len(p.Experience))
	for _, exp := range p.Experience {
		if name := strings.ToLower(strings.TrimSpace(exp.Company.Name)); name != "" {
			names[name] = struct{}{}
		}
	}
	return names
}

// ParseDate parses the leading YYYY-MM-DD of a vendor date string.
// Vendor dates sometimes carry a time suffix; anything past the first ten
// characters is ignored.
func ParseDate(s string) (time.Time, bool) {
	if len(s) < 10 {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SizeLowerBound parses the lower bound of a company-size bucket such as
// "1-10", "10000+" or "5,000". Returns false when the string has no
// leading number.
func SizeLowerBound(size string) (int, bool) {
	s := strings.ReplaceAll(size, "+", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(strings.SplitN(s, "-", 2)[0])
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
