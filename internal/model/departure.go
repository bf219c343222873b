package model

import "strings"

// DepartureRecord is one detected job change, built by diffing the stored
// tracking state against a freshly fetched profile.
type DepartureRecord struct {
	PersonID string `json:"person_id,omitempty"`
	Name     string `json:"name,omitempty"`

	OldCompany string `json:"old_company,omitempty"`
	OldTitle   string `json:"old_title,omitempty"`
	NewCompany string `json:"new_company,omitempty"`
	NewTitle   string `json:"new_title,omitempty"`

	Headline   string `json:"headline,omitempty"`
	Summary    string `json:"summary,omitempty"`
	JobSummary string `json:"job_summary,omitempty"`

	CompanyType     string `json:"company_type,omitempty"`
	CompanySize     string `json:"company_size,omitempty"`
	CompanyFounded  int    `json:"company_founded,omitempty"`
	CompanyIndustry string `json:"company_industry,omitempty"`

	// Filled by the classifier.
	AlertLevel   int      `json:"alert_level,omitempty"`
	AlertSignals []string `json:"alert_signals,omitempty"`
}

// Normalize trims the free-text fields.
func (d *DepartureRecord) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.OldCompany = strings.TrimSpace(d.OldCompany)
	d.NewCompany = strings.TrimSpace(d.NewCompany)
	d.NewTitle = strings.TrimSpace(d.NewTitle)
}

// QualifiedStartup is one entry of the externally maintained startup
// allow-list, matched against current company names.
type QualifiedStartup struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name"`
	TechScore float64 `json:"tech_score,omitempty"`
	Founded   int     `json:"founded,omitempty"`
	Size      string  `json:"size,omitempty"`
	Industry  string  `json:"industry,omitempty"`
}
