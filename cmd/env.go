package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/alert"
	"github.com/sells-group/talent-radar/internal/classify"
	"github.com/sells-group/talent-radar/internal/fetcher"
	"github.com/sells-group/talent-radar/internal/model"
	"github.com/sells-group/talent-radar/internal/monitor"
	"github.com/sells-group/talent-radar/internal/signals"
	"github.com/sells-group/talent-radar/internal/startup"
	"github.com/sells-group/talent-radar/internal/store"
	"github.com/sells-group/talent-radar/pkg/pdl"
	sfpkg "github.com/sells-group/talent-radar/pkg/salesforce"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "talent-radar.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// loadStartups reads the qualified-startup list, refreshing the local
// copy first when a source URL is configured. A missing file degrades to
// an empty list so signal-only commands still work.
func loadStartups(ctx context.Context) (*startup.List, error) {
	if cfg.Signals.StartupsURL != "" {
		r := startup.NewRefresher(cfg.Signals.StartupsURL, cfg.Signals.StartupsPath)
		if _, err := r.Refresh(ctx); err != nil {
			zap.L().Warn("startup list refresh failed, using local copy", zap.Error(err))
		}
	}
	return startup.Load(cfg.Signals.StartupsPath)
}

// loadOverrides reads optional signal-phrase extensions.
func loadOverrides() (*signals.Overrides, error) {
	if cfg.Signals.OverridesPath == "" {
		return nil, nil
	}
	return signals.LoadOverrides(cfg.Signals.OverridesPath)
}

func initClassifier(ctx context.Context) (*classify.Classifier, error) {
	startups, err := loadStartups(ctx)
	if err != nil {
		return nil, err
	}
	ov, err := loadOverrides()
	if err != nil {
		return nil, err
	}
	if ov != nil {
		return classify.NewWithOverrides(startups, ov), nil
	}
	return classify.New(startups), nil
}

func initOrchestrator(ctx context.Context) (*alert.Orchestrator, error) {
	startups, err := loadStartups(ctx)
	if err != nil {
		return nil, err
	}
	ov, err := loadOverrides()
	if err != nil {
		return nil, err
	}
	if ov != nil {
		return alert.NewWithOverrides(startups, ov), nil
	}
	return alert.New(startups), nil
}

func initPDL() (pdl.Client, error) {
	if cfg.PDL.Key == "" {
		return nil, eris.New("people-data API key is required (RADAR_PDL_KEY)")
	}
	opts := []pdl.Option{pdl.WithRateLimit(cfg.PDL.RatePerSecond)}
	if cfg.PDL.BaseURL != "" {
		opts = append(opts, pdl.WithBaseURL(cfg.PDL.BaseURL))
	}
	return pdl.NewClient(cfg.PDL.Key, opts...), nil
}

func initTracker(ctx context.Context, st store.Store, client pdl.Client) (*monitor.Tracker, error) {
	startups, err := loadStartups(ctx)
	if err != nil {
		return nil, err
	}
	return monitor.NewTracker(st, client, startups, monitor.Config{
		WindowDays:          cfg.Monitor.WindowDays,
		VIPIntervalDays:     cfg.Monitor.VIPIntervalDays,
		WatchIntervalDays:   cfg.Monitor.WatchInterval,
		GeneralIntervalDays: cfg.Monitor.GeneralInterval,
		MaxChecksPerRun:     cfg.Monitor.MaxChecksPerRun,
		MonthlyCredits:      cfg.PDL.MonthlyCredits,
		MaxRetries:          cfg.PDL.MaxRetries,
	}), nil
}

func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		return nil, eris.New("salesforce client ID is required (RADAR_SALESFORCE_CLIENT_ID)")
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf), nil
}

// readProfiles loads a JSON array of profiles from a file, normalizing
// each entry on the way in.
func readProfiles(ctx context.Context, path string) ([]model.EmployeeProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	ch, errCh := fetcher.DecodeJSONArray[model.EmployeeProfile](ctx, f)
	var profiles []model.EmployeeProfile
	for p := range ch {
		p.Normalize()
		profiles = append(profiles, p)
	}
	if err := <-errCh; err != nil {
		return nil, eris.Wrapf(err, "decode %s", path)
	}
	return profiles, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func webhookTimeout() time.Duration {
	return time.Duration(cfg.Webhook.TimeoutSecs) * time.Second
}
