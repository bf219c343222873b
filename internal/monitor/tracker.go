// Package monitor drives the re-check loop: it fetches fresh profiles for
// tracked employees, diffs them against the stored snapshot, and routes any
// detected departure through classification and alerting.
package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rotisserie/eris"

	"github.com/sells-group/talent-radar/internal/alert"
	"github.com/sells-group/talent-radar/internal/classify"
	"github.com/sells-group/talent-radar/internal/founder"
	"github.com/sells-group/talent-radar/internal/model"
	"github.com/sells-group/talent-radar/internal/resilience"
	"github.com/sells-group/talent-radar/internal/startup"
	"github.com/sells-group/talent-radar/internal/stealth"
	"github.com/sells-group/talent-radar/internal/store"
	"github.com/sells-group/talent-radar/pkg/pdl"
)

// Config tunes the re-check loop.
type Config struct {
	WindowDays          int
	VIPIntervalDays     int
	WatchIntervalDays   int
	GeneralIntervalDays int
	MaxChecksPerRun     int
	MonthlyCredits      int
	MaxRetries          int
	Concurrency         int
}

func (c Config) withDefaults() Config {
	if c.VIPIntervalDays <= 0 {
		c.VIPIntervalDays = 1
	}
	if c.WatchIntervalDays <= 0 {
		c.WatchIntervalDays = 7
	}
	if c.GeneralIntervalDays <= 0 {
		c.GeneralIntervalDays = 30
	}
	if c.MaxChecksPerRun <= 0 {
		c.MaxChecksPerRun = 200
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 5
	}
	return c
}

// RunStats summarizes one re-check run.
type RunStats struct {
	Checked    int `json:"checked"`
	Departures int `json:"departures"`
	Alerts     int `json:"alerts"`
	Skipped    int `json:"skipped"`
	Errors     int `json:"errors"`
}

// Tracker re-checks tracked employees against the people-data API.
type Tracker struct {
	store      store.Store
	client     pdl.Client
	classifier *classify.Classifier
	scorer     *founder.Scorer
	detector   *stealth.Detector
	orch       *alert.Orchestrator
	breaker    *resilience.Breaker
	cfg        Config

	// Now is injectable for tests.
	Now func() time.Time
}

// NewTracker wires the tracker against a store, a people-data client and
// the qualified-startup list shared with the alert orchestrator.
func NewTracker(st store.Store, client pdl.Client, startups *startup.List, cfg Config) *Tracker {
	cfg = cfg.withDefaults()
	orch := alert.New(startups)
	if cfg.WindowDays > 0 {
		orch.WindowDays = cfg.WindowDays
	}
	return &Tracker{
		store:      st,
		client:     client,
		classifier: classify.New(startups),
		scorer:     founder.NewScorer(),
		detector:   stealth.NewDetector(),
		orch:       orch,
		breaker:    resilience.NewBreaker("pdl", 5, time.Minute),
		cfg:        cfg,
		Now:        time.Now,
	}
}

// SetClock pins the tracker and all scoring clocks, for tests.
func (t *Tracker) SetClock(now func() time.Time) {
	t.Now = now
	t.scorer.Now = now
	t.detector.Now = now
	t.orch.SetClock(now)
}

// CheckDue re-checks every employee whose next_check has passed, up to the
// per-run cap. Individual failures are counted, not fatal.
func (t *Tracker) CheckDue(ctx context.Context) (*RunStats, error) {
	log := zap.L().With(zap.String("phase", "check"))
	now := t.Now().UTC()

	due, err := t.store.ListEmployees(ctx, store.EmployeeFilter{
		DueBefore: now,
		Limit:     t.cfg.MaxChecksPerRun,
	})
	if err != nil {
		return nil, eris.Wrap(err, "monitor: list due employees")
	}

	stats := &RunStats{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.cfg.Concurrency)

	for _, emp := range due {
		g.Go(func() error {
			if t.cfg.MonthlyCredits > 0 && t.client.CreditsSpent() >= int64(t.cfg.MonthlyCredits) {
				mu.Lock()
				stats.Skipped++
				mu.Unlock()
				return nil
			}

			departed, alerted, err := t.checkOne(gctx, emp)

			mu.Lock()
			defer mu.Unlock()
			if errors.Is(err, resilience.ErrOpen) {
				stats.Skipped++
				return nil
			}
			if err != nil {
				stats.Errors++
				log.Warn("check failed",
					zap.String("person_id", emp.PersonID),
					zap.Error(err))
				return nil
			}
			stats.Checked++
			if departed {
				stats.Departures++
			}
			if alerted {
				stats.Alerts++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, eris.Wrap(err, "monitor: check run")
	}

	log.Info("check run complete",
		zap.Int("due", len(due)),
		zap.Int("checked", stats.Checked),
		zap.Int("departures", stats.Departures),
		zap.Int("alerts", stats.Alerts),
		zap.Int("skipped", stats.Skipped),
		zap.Int("errors", stats.Errors))

	return stats, nil
}

func (t *Tracker) checkOne(ctx context.Context, emp model.TrackedEmployee) (departed, alerted bool, err error) {
	now := t.Now().UTC()

	if !t.breaker.Allow() {
		return false, false, resilience.ErrOpen
	}

	retryCfg := resilience.DefaultRetryConfig()
	retryCfg.MaxAttempts = t.cfg.MaxRetries
	retryCfg.OnRetry = resilience.RetryLogger("pdl", "retrieve")

	resp, err := resilience.DoVal(ctx, retryCfg, func(ctx context.Context) (*pdl.PersonResponse, error) {
		return t.client.Retrieve(ctx, emp.PersonID)
	})
	if errors.Is(err, pdl.ErrNotFound) {
		// A missing profile is an answer, not a vendor failure. Push the
		// next check out a full cycle.
		t.breaker.Record(nil)
		return false, false, t.store.MarkChecked(ctx, emp.PersonID, now, now.Add(t.interval(model.TierGeneral)))
	}
	t.breaker.Record(err)
	if err != nil {
		return false, false, eris.Wrapf(err, "monitor: retrieve %s", emp.PersonID)
	}

	var fresh model.EmployeeProfile
	if err := json.Unmarshal(resp.Data, &fresh); err != nil {
		return false, false, eris.Wrapf(err, "monitor: unmarshal profile %s", emp.PersonID)
	}
	fresh.Normalize()
	if fresh.ID == "" {
		fresh.ID = emp.PersonID
	}

	rec := diffProfiles(emp.Profile, fresh)
	if rec != nil {
		departed = true
		if fresh.LastBigTechDeparture == nil {
			fresh.LastBigTechDeparture = &model.BigTechDeparture{
				Company:       rec.OldCompany,
				DepartureDate: now.Format("2006-01-02"),
				Role:          rec.OldTitle,
			}
		}

		level, sigs := t.classifier.Classify(*rec)
		rec.AlertLevel = level
		rec.AlertSignals = sigs
		if level > 0 {
			if _, err := t.store.RecordDeparture(ctx, *rec); err != nil {
				return departed, false, err
			}
		}
	}

	var alertLevel model.AlertLevel
	if a, ok := t.orch.Evaluate(fresh); ok {
		if _, err := t.store.SaveAlert(ctx, *a); err != nil {
			return departed, false, err
		}
		alerted = true
		alertLevel = a.Level
	}

	founderScore := t.scorer.Score(fresh, nil)
	stealthScore, _, tier := t.detector.Detect(fresh)

	// An active alert overrides the detector's cadence recommendation.
	switch alertLevel {
	case model.Level3:
		tier = model.TierVIP
	case model.Level2:
		if tier == model.TierGeneral {
			tier = model.TierWatch
		}
	}

	emp.Profile = fresh
	if fresh.FullName != "" {
		emp.FullName = fresh.FullName
	}
	emp.FounderScore = founderScore
	emp.StealthScore = stealthScore
	emp.Tier = tier
	emp.LastChecked = now
	emp.NextCheck = now.Add(t.interval(tier))

	if _, err := t.store.UpsertEmployee(ctx, emp); err != nil {
		return departed, alerted, err
	}
	return departed, alerted, nil
}

// interval maps a cadence tier to its re-check period.
func (t *Tracker) interval(tier model.Tier) time.Duration {
	days := t.cfg.GeneralIntervalDays
	switch tier {
	case model.TierVIP:
		days = t.cfg.VIPIntervalDays
	case model.TierWatch:
		days = t.cfg.WatchIntervalDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// Seed searches the people-data API for current employees of an org and
// registers them for tracking. Newly seeded people are due immediately.
func (t *Tracker) Seed(ctx context.Context, org string, limit int) (int, error) {
	log := zap.L().With(zap.String("phase", "seed"))
	now := t.Now().UTC()

	resp, err := t.client.Search(ctx, pdl.SearchRequest{
		SQL:  fmt.Sprintf("SELECT * FROM person WHERE job_company_name = '%s'", escapeSQL(strings.ToLower(org))),
		Size: limit,
	})
	if err != nil {
		return 0, eris.Wrapf(err, "monitor: seed search %s", org)
	}

	seeded := 0
	for _, raw := range resp.Data {
		var p model.EmployeeProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			log.Warn("skipping unparseable person", zap.String("org", org), zap.Error(err))
			continue
		}
		p.Normalize()
		if p.ID == "" {
			continue
		}

		_, err := t.store.UpsertEmployee(ctx, model.TrackedEmployee{
			PersonID:    p.ID,
			FullName:    p.FullName,
			Org:         org,
			Profile:     p,
			Tier:        model.TierGeneral,
			LastChecked: now,
			NextCheck:   now,
		})
		if err != nil {
			return seeded, err
		}
		seeded++
	}

	log.Info("org seeded",
		zap.String("org", org),
		zap.Int("found", len(resp.Data)),
		zap.Int("seeded", seeded))

	return seeded, nil
}

// diffProfiles returns a departure record when the fresh profile shows a
// different current company than the stored snapshot, nil otherwise.
func diffProfiles(old, fresh model.EmployeeProfile) *model.DepartureRecord {
	oldCo := strings.ToLower(strings.TrimSpace(old.JobCompanyName))
	newCo := strings.ToLower(strings.TrimSpace(fresh.JobCompanyName))
	if oldCo == "" || oldCo == newCo {
		return nil
	}

	rec := &model.DepartureRecord{
		PersonID:        fresh.ID,
		Name:            fresh.FullName,
		OldCompany:      old.JobCompanyName,
		OldTitle:        old.JobTitle,
		NewCompany:      fresh.JobCompanyName,
		NewTitle:        fresh.JobTitle,
		Headline:        fresh.Headline,
		Summary:         fresh.Summary,
		CompanyType:     fresh.JobCompanyType,
		CompanySize:     fresh.JobCompanySize,
		CompanyFounded:  fresh.JobCompanyFounded,
		CompanyIndustry: fresh.JobCompanyIndustry,
	}
	for _, exp := range fresh.Experience {
		if exp.IsPrimary {
			rec.JobSummary = exp.Description
			break
		}
	}
	rec.Normalize()
	return rec
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
