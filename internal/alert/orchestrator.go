// Package alert combines departure recency, founder scoring and stealth
// detection into a single three-level classification per candidate.
//
// The rule set here is deliberately independent of internal/classify: the
// two grew as separate features with different phrase dictionaries and
// thresholds, and both are kept as distinct strategies.
package alert

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/founder"
	"github.com/sells-group/talent-radar/internal/model"
	"github.com/sells-group/talent-radar/internal/signals"
	"github.com/sells-group/talent-radar/internal/startup"
	"github.com/sells-group/talent-radar/internal/stealth"
)

// DefaultWindowDays is the eligibility window for recent departures.
const DefaultWindowDays = 180

// Scoring floors reused across the level tests.
const (
	founderThreshold    = founder.DefaultMinScore
	stealthThreshold    = 50.0
	stealthHintFloor    = 30.0
	maxBuildingPhrases  = 5
	maxStealthSignals   = 3
	level3BasePriority  = 100.0
	level2BasePriority  = 50.0
	level1RecencyCeil   = 30.0
	level1RecencyDivide = 6.0
)

// Orchestrator evaluates candidates against the three alert levels.
// WindowDays and Now are swappable; construct with New.
type Orchestrator struct {
	WindowDays int
	Now        func() time.Time

	startups *startup.List
	scorer   *founder.Scorer
	detector *stealth.Detector
	matcher  *signals.PhraseMatcher
	bigTech  []string
}

// New builds an Orchestrator over the given qualified-startup list with
// built-in dictionaries and default thresholds.
func New(startups *startup.List) *Orchestrator {
	o := &Orchestrator{
		WindowDays: DefaultWindowDays,
		Now:        time.Now,
		startups:   startups,
		scorer:     founder.NewScorer(),
		detector:   stealth.NewDetector(),
		matcher:    signals.OrchestratorMatcher(),
		bigTech:    signals.OrchestratorBigTech,
	}
	return o
}

// NewWithOverrides builds an Orchestrator with dictionary overrides
// applied to the company list and phrase dictionary.
func NewWithOverrides(startups *startup.List, ov *signals.Overrides) *Orchestrator {
	o := New(startups)
	o.matcher = ov.OrchestratorPhraseMatcher()
	o.bigTech = ov.ExtendedOrchestratorBigTech()
	return o
}

// SetClock pins the clock for the orchestrator and both scorers.
func (o *Orchestrator) SetClock(now func() time.Time) {
	o.Now = now
	o.scorer.Now = now
	o.detector.Now = now
}

// Evaluate classifies one candidate. The second return is false when the
// candidate is not eligible: no recent big-tech departure means no level
// and no scores at all.
func (o *Orchestrator) Evaluate(p model.EmployeeProfile) (*model.Alert, bool) {
	dep, eligible := o.recentDeparture(p)
	if !eligible {
		return nil, false
	}

	a := &model.Alert{
		PersonID:     p.ID,
		FullName:     p.FullName,
		Departure:    dep,
		FounderScore: o.scorer.Score(p, nil),
		Timestamp:    o.Now(),
	}

	stealthScore, stealthSignals, _ := o.detector.Detect(p)
	a.StealthScore = stealthScore
	if len(stealthSignals) > maxStealthSignals {
		stealthSignals = stealthSignals[:maxStealthSignals]
	}
	a.StealthSignals = stealthSignals

	// Highest level wins; each test returns as soon as it fires.
	if info, ok := o.matchQualifiedStartup(p); ok {
		a.Level = model.Level3
		a.Startup = info
		a.PriorityScore = level3BasePriority + a.FounderScore
		a.Reasons = append(a.Reasons,
			fmt.Sprintf("Joined qualified startup: %s", info.Name),
			fmt.Sprintf("Previously at %s (%d days ago)", dep.Company, dep.DaysAgo),
		)
		return a, true
	}

	phrases := o.buildingPhrases(p)
	highScores := a.FounderScore >= founderThreshold && a.StealthScore >= stealthThreshold
	if len(phrases) > 0 || highScores {
		a.Level = model.Level2
		a.PriorityScore = level2BasePriority + a.FounderScore*3 + a.StealthScore/2
		if len(phrases) > 0 {
			a.BuildingPhrases = phrases
			shown := phrases
			if len(shown) > 2 {
				shown = shown[:2]
			}
			a.Reasons = append(a.Reasons, fmt.Sprintf("Building signals: %s", strings.Join(shown, ", ")))
		}
		if highScores {
			a.Reasons = append(a.Reasons,
				fmt.Sprintf("High confidence scores (Founder: %.1f, Stealth: %.0f)", a.FounderScore, a.StealthScore))
		}
		a.Reasons = append(a.Reasons, fmt.Sprintf("Left %s %d days ago", dep.Company, dep.DaysAgo))
		return a, true
	}

	a.Level = model.Level1
	a.Reasons = append(a.Reasons, fmt.Sprintf("Recently left %s (%d days ago)", dep.Company, dep.DaysAgo))
	if a.FounderScore >= founderThreshold {
		a.Reasons = append(a.Reasons, fmt.Sprintf("Qualified founder (score: %.1f)", a.FounderScore))
	}
	if a.StealthScore >= stealthHintFloor {
		a.Reasons = append(a.Reasons, fmt.Sprintf("Some stealth signals (score: %.0f)", a.StealthScore))
	}
	recencyBonus := math.Max(0, level1RecencyCeil-float64(dep.DaysAgo)/level1RecencyDivide)
	a.PriorityScore = a.FounderScore + recencyBonus
	return a, true
}

// recentDeparture checks the eligibility gate: a recognized big-tech
// departure within the window. The explicit departure record is checked
// first; its date falls back to the general job-change date when
// unparseable or stale.
func (o *Orchestrator) recentDeparture(p model.EmployeeProfile) (*model.DepartureInfo, bool) {
	dep := p.LastBigTechDeparture
	if dep == nil {
		return nil, false
	}

	company := dep.Company
	if !signals.ContainsAny(company, o.bigTech) {
		company = ""
		for _, exp := range p.Experience {
			if signals.ContainsAny(exp.Company.Name, o.bigTech) {
				company = exp.Company.Name
				break
			}
		}
		if company == "" {
			return nil, false
		}
	}

	if when, ok := model.ParseDate(dep.DepartureDate); ok {
		days := int(o.Now().Sub(when).Hours() / 24)
		if days <= o.WindowDays {
			name := dep.Company
			if name == "" {
				name = company
			}
			return &model.DepartureInfo{
				Company: name,
				Date:    dep.DepartureDate,
				DaysAgo: days,
				Role:    dep.Role,
			}, true
		}
	}

	if when, ok := model.ParseDate(p.JobLastChanged); ok {
		days := int(o.Now().Sub(when).Hours() / 24)
		if days <= o.WindowDays {
			return &model.DepartureInfo{
				Company: company,
				Date:    p.JobLastChanged,
				DaysAgo: days,
				Role:    p.JobTitle,
			}, true
		}
	}

	return nil, false
}

// matchQualifiedStartup checks the current company against the
// qualified-startup list.
func (o *Orchestrator) matchQualifiedStartup(p model.EmployeeProfile) (*model.StartupInfo, bool) {
	s, ok := o.startups.Match(p.JobCompanyName)
	if !ok {
		return nil, false
	}
	return &model.StartupInfo{
		Name:      s.Name,
		ID:        s.ID,
		TechScore: s.TechScore,
		Founded:   s.Founded,
		Size:      s.Size,
		Industry:  s.Industry,
	}, true
}

// buildingPhrases scans every text field of the profile, including all
// experience titles, descriptions and company summaries, returning up to
// five distinct matched phrases in dictionary order.
func (o *Orchestrator) buildingPhrases(p model.EmployeeProfile) []string {
	fields := []string{p.JobTitle, p.JobCompanyName, p.Summary, p.Headline, p.Bio}
	for _, exp := range p.Experience {
		fields = append(fields, exp.Title, exp.Description, exp.Company.Summary)
	}

	var sb strings.Builder
	for _, f := range fields {
		if f == "" {
			continue
		}
		sb.WriteString(f)
		sb.WriteByte(' ')
	}

	phrases := o.matcher.FindAll(sb.String())
	if len(phrases) > maxBuildingPhrases {
		phrases = phrases[:maxBuildingPhrases]
	}
	return phrases
}

// BatchStats summarizes a batch analysis. Averages cover eligible
// candidates only.
type BatchStats struct {
	TotalAnalyzed   int     `json:"total_analyzed"`
	Eligible        int     `json:"eligible_for_alerts"`
	Level3Count     int     `json:"level_3_count"`
	Level2Count     int     `json:"level_2_count"`
	Level1Count     int     `json:"level_1_count"`
	AvgFounderScore float64 `json:"avg_founder_score"`
	AvgStealthScore float64 `json:"avg_stealth_score"`
}

// BatchResult buckets alerts by level, each sorted by descending priority.
type BatchResult struct {
	Level3    []model.Alert `json:"level_3"`
	Level2    []model.Alert `json:"level_2"`
	Level1    []model.Alert `json:"level_1"`
	Stats     BatchStats    `json:"stats"`
	Timestamp time.Time     `json:"timestamp"`
}

// All returns every alert across the three levels, highest level first,
// descending priority within a level.
func (r *BatchResult) All() []model.Alert {
	out := make([]model.Alert, 0, len(r.Level3)+len(r.Level2)+len(r.Level1))
	out = append(out, r.Level3...)
	out = append(out, r.Level2...)
	out = append(out, r.Level1...)
	return out
}

// AnalyzeEmployees evaluates a batch and buckets alerts by level. A
// candidate lands in exactly one bucket or none; ineligible candidates
// contribute to TotalAnalyzed only.
func (o *Orchestrator) AnalyzeEmployees(profiles []model.EmployeeProfile) BatchResult {
	log := zap.L().With(zap.String("phase", "alerts"))

	out := BatchResult{
		Stats:     BatchStats{TotalAnalyzed: len(profiles)},
		Timestamp: o.Now(),
	}

	var totalFounder, totalStealth float64
	for _, p := range profiles {
		a, ok := o.Evaluate(p)
		if !ok {
			continue
		}

		out.Stats.Eligible++
		totalFounder += a.FounderScore
		totalStealth += a.StealthScore

		switch a.Level {
		case model.Level3:
			out.Level3 = append(out.Level3, *a)
			out.Stats.Level3Count++
		case model.Level2:
			out.Level2 = append(out.Level2, *a)
			out.Stats.Level2Count++
		default:
			out.Level1 = append(out.Level1, *a)
			out.Stats.Level1Count++
		}
	}

	if out.Stats.Eligible > 0 {
		n := float64(out.Stats.Eligible)
		out.Stats.AvgFounderScore = math.Round(totalFounder/n*100) / 100
		out.Stats.AvgStealthScore = math.Round(totalStealth/n*100) / 100
	}

	for _, bucket := range [][]model.Alert{out.Level3, out.Level2, out.Level1} {
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].PriorityScore > bucket[j].PriorityScore
		})
	}

	log.Info("batch alert analysis complete",
		zap.Int("total", out.Stats.TotalAnalyzed),
		zap.Int("eligible", out.Stats.Eligible),
		zap.Int("level_3", out.Stats.Level3Count),
		zap.Int("level_2", out.Stats.Level2Count),
		zap.Int("level_1", out.Stats.Level1Count),
		zap.Float64("avg_founder_score", out.Stats.AvgFounderScore),
		zap.Float64("avg_stealth_score", out.Stats.AvgStealthScore),
	)

	return out
}
