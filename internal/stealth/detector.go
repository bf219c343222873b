// Package stealth scores employee profiles for stealth-founder signals on
// a 0-100 scale and assigns a monitoring tier.
package stealth

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/model"
	"github.com/sells-group/talent-radar/internal/signals"
)

// DefaultMinScore is the score at which a profile counts as stealth
// detected in bulk statistics.
const DefaultMinScore = 50

// Boost points for prior-company and current-role matches.
const (
	pureAIBoost      = 20
	aiFocusedBoost   = 15
	aiMLCoreBoost    = 15
	aiMLSubBoost     = 10
	seniorLevelBoost = 10
)

// seniorTierTitles gate the secondary vip criterion.
var seniorTierTitles = []string{"director", "vp", "chief", "head", "principal", "staff"}

// Detector runs the stealth-signal checks. Now is swappable for tests.
type Detector struct {
	MinScore float64
	Now      func() time.Time
}

// NewDetector returns a Detector with default thresholds and wall clock.
func NewDetector() *Detector {
	return &Detector{MinScore: DefaultMinScore, Now: time.Now}
}

// Detect scores one profile across the six signal checks and assigns a
// monitoring tier. The score is additive; each check contributes zero or
// more points and signal strings.
func (d *Detector) Detect(p model.EmployeeProfile) (float64, []string, model.Tier) {
	var score float64
	var sigs []string

	add := func(pts float64, s ...string) {
		score += pts
		sigs = append(sigs, s...)
	}

	pts, ss := d.checkCompanyName(p)
	add(pts, ss...)

	pts, ss = d.checkJobTitle(p)
	add(pts, ss...)

	pts, ss = d.checkDescriptions(p)
	add(pts, ss...)

	pts, ss = d.checkTiming(p)
	add(pts, ss...)

	pts, ss = d.checkConsistency(p)
	add(pts, ss...)

	if pts, sig := companyBoost(p); sig != "" {
		add(pts, sig)
	}
	if pts, sig := roleBoost(p); sig != "" {
		add(pts, sig)
	}

	score = math.Min(score, 100)
	return score, sigs, d.tier(score, p)
}

// checkCompanyName analyzes the current company name, max 40 points.
// Personal-venture and no-company cases return immediately; the remaining
// patterns are mutually exclusive, strongest first.
func (d *Detector) checkCompanyName(p model.EmployeeProfile) (float64, []string) {
	name := strings.ToLower(strings.TrimSpace(p.JobCompanyName))

	if name == "" {
		if len(p.Experience) > 0 {
			return 30, []string{"No current company (likely stealth)"}
		}
		return 0, nil
	}

	for _, part := range strings.Fields(strings.ToLower(p.FullName)) {
		if len(part) > 3 && strings.Contains(name, part) {
			return 35, []string{fmt.Sprintf("Company appears to be personal venture: '%s'", name)}
		}
	}

	for _, strong := range signals.StrongCompanySignals {
		if name == strong {
			return 40, []string{fmt.Sprintf("Exact stealth indicator: '%s'", name)}
		}
	}

	if signals.ContainsAny(name, signals.ModerateCompanySignals) {
		return 25, []string{fmt.Sprintf("Building/venture indicator: '%s'", name)}
	}

	smallSize := p.JobCompanySize == "1-10" || p.JobCompanySize == "11-50"
	if (strings.Contains(name, "ai") || strings.Contains(name, "labs")) && smallSize {
		return 20, []string{fmt.Sprintf("Small AI/Labs company: '%s' (%s)", name, p.JobCompanySize)}
	}

	if p.JobCompanySize == "1-10" && len(strings.Fields(name)) <= 2 {
		return 10, []string{fmt.Sprintf("Very small company: '%s'", name)}
	}

	return 0, nil
}

// checkJobTitle analyzes the current title, max 35 points. A second
// founder keyword in the same title ("CTO & Co-founder") bumps 30 to 35.
func (d *Detector) checkJobTitle(p model.EmployeeProfile) (float64, []string) {
	title := strings.ToLower(strings.TrimSpace(p.JobTitle))
	if title == "" {
		return 0, nil
	}

	if signals.CountMatches(title, signals.FounderTitles) >= 2 {
		return 35, []string{fmt.Sprintf("Multiple founder titles: '%s'", title)}
	}
	if signals.ContainsAny(title, signals.FounderTitles) {
		return 30, []string{fmt.Sprintf("Founder title: '%s'", title)}
	}
	if signals.ContainsAny(title, signals.BuildingTitles) {
		return 25, []string{fmt.Sprintf("Building/early stage: '%s'", title)}
	}
	if signals.ContainsAny(title, signals.VagueTitles) {
		return 15, []string{fmt.Sprintf("Vague title: '%s'", title)}
	}
	return 0, nil
}

// checkDescriptions scans the primary experience's company summary and the
// profile summary for stealth phrases, max 20 points plus a 5-point
// independence indicator.
func (d *Detector) checkDescriptions(p model.EmployeeProfile) (float64, []string) {
	var score float64
	var sigs []string

	for _, exp := range p.Experience {
		if !exp.IsPrimary {
			continue
		}
		if phrase, ok := signals.FirstMatch(exp.Company.Summary, signals.StealthPhrases); ok {
			score += 20
			sigs = append(sigs, fmt.Sprintf("Stealth phrase: '%s'", phrase))
		}
	}

	if phrase, ok := signals.FirstMatch(p.Summary, signals.StealthPhrases); ok {
		score += 10
		sigs = append(sigs, fmt.Sprintf("Profile contains: '%s'", phrase))
	}

	if _, ok := signals.FirstMatch(p.Summary, signals.ProfileChangePhrases); ok {
		score += 5
		sigs = append(sigs, "Profile shows independence indicators")
	}

	return score, sigs
}

// checkTiming grants a graduated bonus for recent job changes, max 15
// points, plus 5 when the candidate left a priority AI company within the
// window.
func (d *Detector) checkTiming(p model.EmployeeProfile) (float64, []string) {
	changed, ok := model.ParseDate(p.JobLastChanged)
	if !ok {
		return 0, nil
	}
	days := int(d.Now().Sub(changed).Hours() / 24)

	var score float64
	var sigs []string
	switch {
	case days <= 30:
		score = 15
		sigs = append(sigs, fmt.Sprintf("Very recent departure (%d days ago)", days))
	case days <= 60:
		score = 12
		sigs = append(sigs, fmt.Sprintf("Recent departure (%d days ago)", days))
	case days <= 90:
		score = 10
		sigs = append(sigs, fmt.Sprintf("Recent departure (%d days ago)", days))
	case days <= 180:
		score = 5
		sigs = append(sigs, "Departed within 6 months")
	}

	if days <= 180 {
		for _, exp := range p.Experience {
			if exp.IsPrimary {
				continue
			}
			if signals.ContainsAny(exp.Company.Name, signals.PriorityAICompanies) {
				score += 5
				sigs = append(sigs, fmt.Sprintf("Left priority AI company: %s", exp.Company.Name))
				break
			}
		}
	}

	return score, sigs
}

// checkConsistency looks for profile changes that corroborate stealth
// mode, max 15 points.
func (d *Detector) checkConsistency(p model.EmployeeProfile) (float64, []string) {
	var score float64
	var sigs []string

	if updated, ok := model.ParseDate(p.JobLastUpdated); ok {
		if int(d.Now().Sub(updated).Hours()/24) <= 30 {
			score += 5
			sigs = append(sigs, "LinkedIn profile recently updated")
		}
	}

	locality := strings.ToLower(p.JobCompanyLocation.Locality)
	if signals.ContainsAny(locality, signals.StartupHubs) {
		for _, exp := range p.Experience {
			if exp.IsPrimary {
				continue
			}
			old := strings.ToLower(exp.Company.Location.Locality)
			if old != "" && old != locality {
				score += 5
				sigs = append(sigs, fmt.Sprintf("Relocated to startup hub: %s", locality))
				break
			}
		}
	}

	title := strings.ToLower(p.JobTitle)
	company := strings.ToLower(p.JobCompanyName)
	if (strings.Contains(title, "founder") || strings.Contains(title, "ceo")) && company != "" {
		known := signals.ContainsAny(company, signals.AIFocusedBigTech) ||
			signals.ContainsAny(company, signals.PureAITech)
		if !known {
			score += 5
			sigs = append(sigs, "Founder title at unknown company")
		}
	}

	return score, sigs
}

// companyBoost rewards prior employment at AI companies. A pure-AI match
// wins outright; scanning continues past an AI-focused match in case a
// pure-AI employer appears later in the history.
func companyBoost(p model.EmployeeProfile) (float64, string) {
	var boost float64
	var signal string

	for _, exp := range p.Experience {
		name := strings.ToLower(exp.Company.Name)
		if name == "" {
			continue
		}
		if signals.ContainsAny(name, signals.PureAITech) {
			return pureAIBoost, fmt.Sprintf("Former %s employee", exp.Company.Name)
		}
		if signals.ContainsAny(name, signals.AIFocusedBigTech) {
			boost = math.Max(boost, aiFocusedBoost)
			if signal == "" {
				signal = fmt.Sprintf("Former %s employee", exp.Company.Name)
			}
		}
	}

	return boost, signal
}

// roleBoost rewards AI/ML role tags and senior titles.
func roleBoost(p model.EmployeeProfile) (float64, string) {
	var boost float64
	var signal string

	role := strings.ToLower(p.JobTitleRole)
	subRole := strings.ToLower(p.JobTitleSubRole)

	if inList(role, signals.AIMLRoles) {
		boost = aiMLCoreBoost
		signal = fmt.Sprintf("AI/ML core role: %s", role)
	} else if inList(subRole, signals.AIMLSubRoles) {
		boost = aiMLSubBoost
		signal = fmt.Sprintf("AI/ML specialization: %s", subRole)
	}

	if signals.ContainsAny(p.JobTitle, signals.SeniorTitleKeywords) {
		boost += seniorLevelBoost
		if signal != "" {
			signal += " (senior level)"
		} else {
			signal = "Senior level position"
		}
	}

	return boost, signal
}

func inList(s string, list []string) bool {
	for _, v := range list {
		if s == v {
			return true
		}
	}
	return false
}

// tier buckets a score. Strict cutoff at 75 for vip; a 60+ score still
// reaches vip when the title is senior and the departure is under 60 days
// old.
func (d *Detector) tier(score float64, p model.EmployeeProfile) model.Tier {
	if score >= 75 {
		return model.TierVIP
	}

	if score >= 60 && signals.ContainsAny(p.JobTitle, seniorTierTitles) {
		if changed, ok := model.ParseDate(p.JobLastChanged); ok {
			if d.Now().Sub(changed).Hours()/24 < 60 {
				return model.TierVIP
			}
		}
	}

	if score >= 40 {
		return model.TierWatch
	}
	return model.TierGeneral
}

// Result is one analyzed profile in a bulk run.
type Result struct {
	PersonID     string     `json:"person_id"`
	FullName     string     `json:"full_name"`
	CompanyName  string     `json:"job_company_name"`
	JobTitle     string     `json:"job_title"`
	StealthScore float64    `json:"stealth_score"`
	Signals      []string   `json:"signals"`
	Tier         model.Tier `json:"tier"`
	LastChecked  time.Time  `json:"last_checked"`
}

// BulkStats summarizes a bulk analysis.
type BulkStats struct {
	TotalAnalyzed   int     `json:"total_analyzed"`
	StealthDetected int     `json:"stealth_detected"`
	VIPCount        int     `json:"vip_count"`
	WatchCount      int     `json:"watch_count"`
	GeneralCount    int     `json:"general_count"`
	AverageScore    float64 `json:"average_score"`
}

// BulkResult buckets analyzed profiles by tier.
type BulkResult struct {
	VIP     []Result  `json:"vip"`
	Watch   []Result  `json:"watch"`
	General []Result  `json:"general"`
	Stats   BulkStats `json:"stats"`
}

// AnalyzeBulk runs the detector over a batch and buckets results by tier.
// StealthDetected counts profiles at or above MinScore; AverageScore is
// the batch mean rounded to one decimal.
func (d *Detector) AnalyzeBulk(profiles []model.EmployeeProfile) BulkResult {
	log := zap.L().With(zap.String("phase", "stealth"))

	out := BulkResult{Stats: BulkStats{TotalAnalyzed: len(profiles)}}
	var total float64

	for _, p := range profiles {
		score, sigs, tier := d.Detect(p)
		total += score

		r := Result{
			PersonID:     p.ID,
			FullName:     p.FullName,
			CompanyName:  p.JobCompanyName,
			JobTitle:     p.JobTitle,
			StealthScore: score,
			Signals:      sigs,
			Tier:         tier,
			LastChecked:  d.Now(),
		}

		switch tier {
		case model.TierVIP:
			out.VIP = append(out.VIP, r)
			out.Stats.VIPCount++
		case model.TierWatch:
			out.Watch = append(out.Watch, r)
			out.Stats.WatchCount++
		default:
			out.General = append(out.General, r)
			out.Stats.GeneralCount++
		}

		if score >= d.MinScore {
			out.Stats.StealthDetected++
		}
	}

	if len(profiles) > 0 {
		out.Stats.AverageScore = math.Round(total/float64(len(profiles))*10) / 10
	}

	log.Info("bulk stealth analysis complete",
		zap.Int("total", out.Stats.TotalAnalyzed),
		zap.Int("stealth_detected", out.Stats.StealthDetected),
		zap.Int("vip", out.Stats.VIPCount),
		zap.Int("watch", out.Stats.WatchCount),
		zap.Int("general", out.Stats.GeneralCount),
		zap.Float64("average_score", out.Stats.AverageScore),
	)

	return out
}
