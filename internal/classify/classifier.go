// Package classify assigns departure alert levels.
//
// Level 3: joined a startup or small company.
// Level 2: building signals detected in profile text.
// Level 1: standard departure from a tracked big-tech company.
// Level 0: old company not tracked; the record is discarded.
//
// This rule set is intentionally separate from the three-level
// orchestrator in internal/alert, which evolved as its own feature with a
// different phrase dictionary and thresholds.
package classify

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/model"
	"github.com/sells-group/talent-radar/internal/signals"
	"github.com/sells-group/talent-radar/internal/startup"
)

// noCompanyValues are current-company strings treated as "no company
// listed" for the stealth shortcut.
var noCompanyValues = map[string]struct{}{
	"":              {},
	"unknown":       {},
	"n/a":           {},
	"self-employed": {},
	"self employed": {},
	"independent":   {},
}

// consultingTerms route a record away from a direct level-3 startup
// classification; these profiles are level-2 candidates at most.
var consultingTerms = []string{
	"consultant", "consulting", "freelance", "advisor", "stealth mode", "independent",
}

var founderTitleTerms = []string{"ceo", "founder", "co-founder", "cofounder"}

var founderSignalTerms = []string{"founder", "co-founder", "cofounder", "entrepreneur", "ceo", "chief executive"}

var techIndustryTerms = []string{"technology", "software", "ai", "artificial intelligence", "machine learning"}

var startupTypeTerms = []string{"startup", "early stage", "seed", "series a", "pre-seed"}

// smallCompanyThreshold is the headcount below which a company counts as
// small for level-3 purposes.
const smallCompanyThreshold = 100

// recentFoundedYear marks companies founded after this year as
// startup-aged.
const recentFoundedYear = 2019

// Classifier maps departure records to alert levels with human-readable
// signals.
type Classifier struct {
	startups *startup.List
	bigTech  []string
	phrases  *signals.PhraseMatcher
}

// New creates a Classifier using the built-in dictionaries.
func New(startups *startup.List) *Classifier {
	return &Classifier{
		startups: startups,
		bigTech:  signals.BigTech,
		phrases:  signals.ClassifierMatcher(),
	}
}

// NewWithOverrides creates a Classifier with dictionary overrides applied.
func NewWithOverrides(startups *startup.List, ov *signals.Overrides) *Classifier {
	return &Classifier{
		startups: startups,
		bigTech:  ov.ExtendedBigTech(),
		phrases:  ov.ClassifierPhraseMatcher(),
	}
}

// Classify assigns an alert level and signal list to one departure.
// Level 0 means the old company is not tracked and the record carries no
// signals. Levels only ever go up during classification: once the startup
// check assigns level 3, building-phrase detection is skipped.
func (c *Classifier) Classify(rec model.DepartureRecord) (int, []string) {
	if !signals.ContainsAny(rec.OldCompany, c.bigTech) {
		return 0, nil
	}

	level := 1
	sigs := []string{fmt.Sprintf("Left %s", rec.OldCompany)}

	if c.isStartupOrSmall(rec) {
		level = 3
		sigs = append(sigs, c.startupSignals(rec)...)
	}

	if level < 3 {
		building := c.buildingSignals(rec)
		if len(building) > 0 {
			level = 2
			sigs = append(sigs, building...)
		}
	}

	return level, sigs
}

// isStartupOrSmall decides whether the new company looks like a startup or
// small company (the level-3 test).
func (c *Classifier) isStartupOrSmall(rec model.DepartureRecord) bool {
	newCompany := strings.ToLower(strings.TrimSpace(rec.NewCompany))

	// No company listed often means stealth or very early. Exact-match
	// placeholder values only; "independent consultant" and friends fall
	// through to the consulting exclusion below.
	if _, none := noCompanyValues[newCompany]; none {
		// A founder/CEO title with no declared company is the strongest
		// stealth signal there is.
		if signals.ContainsAny(rec.NewTitle, founderTitleTerms) {
			return true
		}
		// With building signals present, level 2 fits better.
		if len(c.buildingSignals(rec)) > 0 {
			return false
		}
		// No company and no signals at all is itself suspicious.
		return true
	}

	// Consulting/advisory destinations are level-2 candidates, never a
	// direct level 3.
	if signals.ContainsAny(newCompany, consultingTerms) {
		return false
	}

	if c.startups.Contains(newCompany) {
		return true
	}

	if n, ok := model.SizeLowerBound(rec.CompanySize); ok && n < smallCompanyThreshold {
		return true
	}

	if signals.ContainsAny(rec.CompanyType, startupTypeTerms) {
		return true
	}

	if rec.CompanyFounded > recentFoundedYear {
		return true
	}

	return false
}

// startupSignals explains why the startup check fired.
func (c *Classifier) startupSignals(rec model.DepartureRecord) []string {
	if _, none := noCompanyValues[strings.ToLower(strings.TrimSpace(rec.NewCompany))]; none {
		if signals.ContainsAny(rec.NewTitle, founderTitleTerms) {
			return []string{fmt.Sprintf("Founder/CEO title: %s", rec.NewTitle)}
		}
		return []string{"No company listed after departure"}
	}

	if c.startups.Contains(rec.NewCompany) {
		return []string{fmt.Sprintf("Joined qualified startup: %s", rec.NewCompany)}
	}

	var sigs []string
	if n, ok := model.SizeLowerBound(rec.CompanySize); ok && n < smallCompanyThreshold {
		sigs = append(sigs, fmt.Sprintf("Joined small company (%d employees)", n))
	}
	companyType := strings.ToLower(rec.CompanyType)
	if strings.Contains(companyType, "startup") || strings.Contains(companyType, "early stage") {
		sigs = append(sigs, fmt.Sprintf("Joined %s", companyType))
	}
	if industry := strings.ToLower(rec.CompanyIndustry); signals.ContainsAny(industry, techIndustryTerms) {
		sigs = append(sigs, fmt.Sprintf("Tech/AI company: %s", industry))
	}
	return sigs
}

// buildingSignals scans the free-text fields for building phrases,
// reporting at most one matched phrase per field, plus a founder-title
// signal when the new title itself reads like a founder's.
func (c *Classifier) buildingSignals(rec model.DepartureRecord) []string {
	fields := []struct {
		name string
		text string
	}{
		{"headline", rec.Headline},
		{"summary", rec.Summary},
		{"job_summary", rec.JobSummary},
		{"new_title", rec.NewTitle},
	}

	var sigs []string
	for _, f := range fields {
		if f.text == "" {
			continue
		}
		if phrase, ok := c.phrases.FindFirst(f.text); ok {
			sigs = append(sigs, fmt.Sprintf("%q in %s", phrase, f.name))
		}
	}

	if signals.ContainsAny(rec.NewTitle, founderSignalTerms) {
		sigs = append(sigs, fmt.Sprintf("Founder/CEO title: %s", rec.NewTitle))
	}

	return sigs
}

// ClassifyAll classifies a batch, annotates each record, and returns the
// records that alerted (level > 0) in input order. Callers needing
// priority order sort explicitly.
func (c *Classifier) ClassifyAll(departures []model.DepartureRecord) []model.DepartureRecord {
	log := zap.L().With(zap.String("phase", "classify"))

	levelCounts := map[int]int{}
	var classified []model.DepartureRecord

	for _, dep := range departures {
		level, sigs := c.Classify(dep)
		dep.AlertLevel = level
		dep.AlertSignals = sigs
		levelCounts[level]++

		if level == 0 {
			continue
		}
		classified = append(classified, dep)
		log.Info("departure classified",
			zap.String("name", dep.Name),
			zap.Int("level", level),
			zap.Strings("signals", sigs),
		)
	}

	log.Info("classification summary",
		zap.Int("total", len(departures)),
		zap.Int("level_3", levelCounts[3]),
		zap.Int("level_2", levelCounts[2]),
		zap.Int("level_1", levelCounts[1]),
		zap.Int("discarded", levelCounts[0]),
	)

	return classified
}
