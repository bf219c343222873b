// Package founder scores employee profiles for founder potential on a
// 0-10 scale and qualifies candidates against a configurable threshold.
package founder

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/model"
	"github.com/sells-group/talent-radar/internal/signals"
)

// DefaultMinScore is the qualification threshold.
const DefaultMinScore = 4.5

// highScorerThreshold marks a peer as high-potential for the network
// check.
const highScorerThreshold = 6.0

var (
	coreRoles          = map[string]struct{}{"engineering": {}, "research": {}, "product": {}}
	coreSubRoles       = map[string]struct{}{"data_science": {}, "data_engineering": {}, "scientific": {}}
	midRoles           = map[string]struct{}{"analyst": {}, "sales": {}, "marketing": {}, "operations": {}}
	midSubRoles        = map[string]struct{}{"product_management": {}, "business_development": {}, "software": {}}
	salesSubRoles      = map[string]struct{}{"account_executive": {}, "solutions_engineer": {}, "customer_success": {}}
	execLevels         = map[string]struct{}{"director": {}, "vp": {}, "cxo": {}, "head": {}, "chief": {}}
	seniorLevels       = map[string]struct{}{"senior": {}, "lead": {}, "principal": {}, "staff": {}}
	startupSizes       = map[string]struct{}{"1-10": {}, "11-50": {}, "51-200": {}}
	seniorReasonLevels = []string{"director", "vp", "chief", "principal", "staff"}
	llmReasonTerms     = []string{"llm", "gpt", "generative", "transformer"}
	stealthyDestTerms  = []string{"stealth", "building", "new venture"}
)

// Scorer computes founder-potential scores. Now is swappable so tests can
// pin the clock; the zero value is not usable, construct with NewScorer.
type Scorer struct {
	MinScore float64
	Now      func() time.Time
}

// NewScorer returns a Scorer with the default threshold and wall clock.
func NewScorer() *Scorer {
	return &Scorer{MinScore: DefaultMinScore, Now: time.Now}
}

// Score computes the founder-potential score for one profile, in [0, 10]
// rounded to one decimal. peers may be nil; when supplied, the network
// component counts high-scoring peers who share a past employer. The
// function is pure: calling it twice with the same inputs yields the same
// result.
func (s *Scorer) Score(p model.EmployeeProfile, peers []model.EmployeeProfile) float64 {
	score := s.recencyScore(p)
	score += roleScore(p)
	score += seniorityScore(p)
	score += skillsScore(p)
	score += locationScore(p)
	score += educationScore(p)
	score += readinessScore(p)
	if peers != nil {
		score += networkScore(p, peers)
	}
	return math.Round(math.Min(score, 10)*10) / 10
}

// recencyScore weights how recently the candidate left big tech, max 4.0.
// An unparseable date degrades to string-prefix comparison against quarter
// boundaries.
func (s *Scorer) recencyScore(p model.EmployeeProfile) float64 {
	if p.LastBigTechDeparture == nil || p.LastBigTechDeparture.DepartureDate == "" {
		return 0
	}
	date := p.LastBigTechDeparture.DepartureDate

	if dep, ok := model.ParseDate(date); ok {
		months := s.Now().Sub(dep).Hours() / 24 / 30
		switch {
		case months <= 3:
			return 4
		case months <= 6:
			return 3.5
		case months <= 9:
			return 3
		case months <= 12:
			return 2.5
		case months <= 24:
			return 2
		default:
			return 1
		}
	}

	switch {
	case date >= "2024-07":
		return 4
	case date >= "2024-01":
		return 3
	case date >= "2023-01":
		return 2
	case date >= "2022-01":
		return 1.5
	default:
		return 0
	}
}

func roleScore(p model.EmployeeProfile) float64 {
	role := strings.ToLower(p.LastKnownRole.Role)
	subRole := strings.ToLower(p.LastKnownRole.SubRole)

	if _, ok := coreRoles[role]; ok {
		return 2
	}
	if _, ok := coreSubRoles[subRole]; ok {
		return 2
	}
	if _, ok := midRoles[role]; ok {
		return 1.5
	}
	if _, ok := midSubRoles[subRole]; ok {
		return 1.5
	}
	if _, ok := salesSubRoles[subRole]; ok {
		return 1
	}
	return 0
}

func seniorityScore(p model.EmployeeProfile) float64 {
	var hasSenior, hasManager bool
	for _, level := range p.LastKnownRole.Levels {
		l := strings.ToLower(level)
		if _, ok := execLevels[l]; ok {
			return 2
		}
		if _, ok := seniorLevels[l]; ok {
			hasSenior = true
		}
		if l == "manager" {
			hasManager = true
		}
	}
	if hasSenior {
		return 1.5
	}
	if hasManager {
		return 1
	}
	return 0
}

// skillsScore weights the skill list, max 2.0, with LLM/GenAI expertise
// valued above traditional AI/ML and infrastructure skills.
func skillsScore(p model.EmployeeProfile) float64 {
	lowered := make([]string, 0, len(p.Skills))
	for _, skill := range p.Skills {
		lowered = append(lowered, strings.ToLower(skill))
	}

	llm := countSkillMatches(lowered, signals.LLMGenAISkills)
	ai := countSkillMatches(lowered, signals.AIMLSkills)
	infra := countSkillMatches(lowered, signals.InfraSkills)

	switch {
	case llm >= 2:
		return 2
	case llm >= 1 && (ai >= 1 || infra >= 1):
		return 1.75
	case ai >= 2:
		return 1.5
	case ai >= 1 || infra >= 2:
		return 1
	case infra >= 1:
		return 0.5
	default:
		return 0
	}
}

// countSkillMatches counts dictionary terms present as a substring of any
// listed skill.
func countSkillMatches(loweredSkills, terms []string) int {
	n := 0
	for _, term := range terms {
		for _, skill := range loweredSkills {
			if strings.Contains(skill, term) {
				n++
				break
			}
		}
	}
	return n
}

func locationScore(p model.EmployeeProfile) float64 {
	region := strings.ToLower(p.Location.Region)
	locality := strings.ToLower(p.Location.Locality)

	if inList(region, signals.Tier1Regions) || signals.ContainsAny(locality, signals.Tier1Cities) {
		return 1
	}
	if inList(region, signals.Tier2Regions) || signals.ContainsAny(locality, signals.Tier2Cities) {
		return 0.5
	}
	return 0
}

func inList(s string, list []string) bool {
	for _, v := range list {
		if s == v {
			return true
		}
	}
	return false
}

// educationScore gives one point for the first top-school match.
func educationScore(p model.EmployeeProfile) float64 {
	for _, edu := range p.Education {
		if signals.ContainsAny(edu.School, signals.TopSchools) {
			return 1
		}
	}
	return 0
}

// readinessScore weights prior startup and founder experience, max 1.5.
func readinessScore(p model.EmployeeProfile) float64 {
	var startupExp, prevFounder, rapidGrowth bool
	for _, exp := range p.Experience {
		if _, ok := startupSizes[exp.Company.Size]; ok {
			startupExp = true
		}
		title := strings.ToLower(exp.Title)
		if strings.Contains(title, "founder") {
			prevFounder = true
		}
		if signals.ContainsAny(exp.Company.Name, signals.HighGrowthCompanies) {
			rapidGrowth = true
		}
	}

	switch {
	case prevFounder:
		return 1.5
	case startupExp && rapidGrowth:
		return 1
	case startupExp || rapidGrowth:
		return 0.5
	default:
		return 0
	}
}

// networkScore counts high-scoring peers who share a past employer with
// this profile, max 1.0. Peers must already carry a first-pass
// FounderScore.
func networkScore(p model.EmployeeProfile, peers []model.EmployeeProfile) float64 {
	companies := p.CompanyNames()
	if len(companies) == 0 {
		return 0
	}

	connections := 0
	for _, other := range peers {
		if other.ID == p.ID || other.FounderScore < highScorerThreshold {
			continue
		}
		for _, exp := range other.Experience {
			name := strings.ToLower(strings.TrimSpace(exp.Company.Name))
			if _, shared := companies[name]; shared {
				connections++
				break
			}
		}
	}

	switch {
	case connections >= 3:
		return 1
	case connections >= 2:
		return 0.75
	case connections >= 1:
		return 0.5
	default:
		return 0
	}
}

// Reasons produces up to five human-readable qualification reasons in
// priority order: departure recency, current stealth signal, LLM/GenAI
// skills, seniority, prior founder experience.
func (s *Scorer) Reasons(p model.EmployeeProfile) []string {
	var reasons []string

	if dep := p.LastBigTechDeparture; dep != nil && dep.Company != "" && dep.DepartureDate != "" {
		if depDate, ok := model.ParseDate(dep.DepartureDate); ok {
			months := s.Now().Sub(depDate).Hours() / 24 / 30
			if months <= 3 {
				reasons = append(reasons, fmt.Sprintf("Very recently left %s (%d months ago)", dep.Company, int(months)))
			} else {
				reasons = append(reasons, fmt.Sprintf("Left %s in %s", dep.Company, dep.DepartureDate[:7]))
			}
		} else {
			reasons = append(reasons, fmt.Sprintf("Left %s", dep.Company))
		}
	}

	company := strings.ToLower(p.JobCompanyName)
	title := strings.ToLower(p.JobTitle)
	if strings.Contains(company, "stealth") || strings.Contains(company, "building") {
		reasons = append(reasons, fmt.Sprintf("Currently at: %s", p.JobCompanyName))
	} else if strings.Contains(title, "founder") {
		reasons = append(reasons, fmt.Sprintf("Current role: %s", p.JobTitle))
	}

	var llmSkills []string
	for _, skill := range p.Skills {
		if signals.ContainsAny(skill, llmReasonTerms) {
			llmSkills = append(llmSkills, skill)
		}
	}
	if len(llmSkills) > 0 {
		if len(llmSkills) > 2 {
			llmSkills = llmSkills[:2]
		}
		reasons = append(reasons, fmt.Sprintf("LLM/GenAI expertise: %s", strings.Join(llmSkills, ", ")))
	}

	if levels := p.LastKnownRole.Levels; len(levels) > 0 {
		joined := strings.ToLower(strings.Join(levels, " "))
		if signals.ContainsAny(joined, seniorReasonLevels) {
			shown := levels
			if len(shown) > 2 {
				shown = shown[:2]
			}
			reasons = append(reasons, fmt.Sprintf("Senior level: %s", strings.Join(shown, ", ")))
		}
	}

	for _, exp := range p.Experience {
		if strings.Contains(strings.ToLower(exp.Title), "founder") {
			name := exp.Company.Name
			if name == "" {
				name = "previous company"
			}
			reasons = append(reasons, fmt.Sprintf("Previous founder at %s", name))
			break
		}
	}

	if len(reasons) > 5 {
		reasons = reasons[:5]
	}
	return reasons
}

// Qualified is one candidate who cleared the threshold, with the reasons
// that explain the score.
type Qualified struct {
	Profile model.EmployeeProfile
	Reasons []string
}

// CofounderGroup is a set of qualified founders who left the same company
// in the same month and landed at stealth-looking destinations.
type CofounderGroup struct {
	Pattern          string    `json:"pattern"`
	Founders         []string  `json:"founders"`
	Scores           []float64 `json:"scores"`
	CurrentCompanies []string  `json:"current_companies"`
}

// QualifyBatch runs the two-pass scoring protocol over a batch, returning
// candidates at or above MinScore sorted by descending score, plus any
// detected co-founder groups. Pass one scores every profile without
// network effects; pass two rescores with the full peer list so the
// network check sees a stable baseline rather than in-progress scores.
// Profiles are mutated in place: FounderScore carries the final score.
func (s *Scorer) QualifyBatch(profiles []model.EmployeeProfile) ([]Qualified, []CofounderGroup) {
	log := zap.L().With(zap.String("phase", "qualify"))
	log.Info("scoring batch for founder potential",
		zap.Int("count", len(profiles)),
		zap.Float64("min_score", s.MinScore),
	)

	for i := range profiles {
		profiles[i].FounderScore = s.Score(profiles[i], nil)
	}
	for i := range profiles {
		profiles[i].FounderScore = s.Score(profiles[i], profiles)
	}

	dist := map[string]int{}
	var qualified []Qualified
	for i := range profiles {
		score := profiles[i].FounderScore
		dist[bucket(score)]++
		if score >= s.MinScore {
			qualified = append(qualified, Qualified{
				Profile: profiles[i],
				Reasons: s.Reasons(profiles[i]),
			})
		}
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].Profile.FounderScore > qualified[j].Profile.FounderScore
	})

	founders := make([]model.EmployeeProfile, len(qualified))
	for i, q := range qualified {
		founders[i] = q.Profile
	}
	groups := DetectCofounderPatterns(founders)

	log.Info("qualification complete",
		zap.Int("qualified", len(qualified)),
		zap.Int("cofounder_groups", len(groups)),
		zap.Any("score_distribution", dist),
	)

	return qualified, groups
}

func bucket(score float64) string {
	switch {
	case score < 2:
		return "0-2"
	case score < 4:
		return "2-4"
	case score < 4.5:
		return "4-4.5"
	case score < 6:
		return "4.5-6"
	case score < 8:
		return "6-8"
	default:
		return "8-10"
	}
}

// DetectCofounderPatterns groups qualified founders by previous company
// and departure month. A group of two or more whose current companies
// include a stealth-looking destination is reported as a candidate
// co-founder cluster.
func DetectCofounderPatterns(founders []model.EmployeeProfile) []CofounderGroup {
	byDeparture := map[string][]model.EmployeeProfile{}
	var order []string

	for _, f := range founders {
		dep := f.LastBigTechDeparture
		if dep == nil {
			continue
		}
		date := dep.DepartureDate
		if len(date) > 7 {
			date = date[:7]
		}
		key := dep.Company + "_" + date
		if _, seen := byDeparture[key]; !seen {
			order = append(order, key)
		}
		byDeparture[key] = append(byDeparture[key], f)
	}

	var groups []CofounderGroup
	for _, key := range order {
		group := byDeparture[key]
		if len(group) < 2 {
			continue
		}

		companies := make([]string, len(group))
		stealthy := false
		for i, f := range group {
			companies[i] = strings.ToLower(f.JobCompanyName)
			if signals.ContainsAny(companies[i], stealthyDestTerms) {
				stealthy = true
			}
		}
		if !stealthy {
			continue
		}

		g := CofounderGroup{Pattern: key, CurrentCompanies: companies}
		for _, f := range group {
			g.Founders = append(g.Founders, f.FullName)
			g.Scores = append(g.Scores, f.FounderScore)
		}
		groups = append(groups, g)
	}

	return groups
}
