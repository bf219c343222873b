package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	PDL        PDLConfig        `yaml:"pdl" mapstructure:"pdl"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Email      EmailConfig      `yaml:"email" mapstructure:"email"`
	Webhook    WebhookConfig    `yaml:"webhook" mapstructure:"webhook"`
	Monitor    MonitorConfig    `yaml:"monitor" mapstructure:"monitor"`
	Signals    SignalsConfig    `yaml:"signals" mapstructure:"signals"`
	Alerts     AlertsConfig     `yaml:"alerts" mapstructure:"alerts"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// PDLConfig holds people-data API settings.
type PDLConfig struct {
	Key            string  `yaml:"key" mapstructure:"key"`
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	RatePerSecond  float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	MaxRetries     int     `yaml:"max_retries" mapstructure:"max_retries"`
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MonthlyCredits int     `yaml:"monthly_credits" mapstructure:"monthly_credits"`
}

// AnthropicConfig holds Anthropic API settings for alert digests.
type AnthropicConfig struct {
	Key        string `yaml:"key" mapstructure:"key"`
	Model      string `yaml:"model" mapstructure:"model"`
	MaxTokens  int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	DigestSize int    `yaml:"digest_size" mapstructure:"digest_size"`
}

// NotionConfig holds Notion API credentials and database IDs.
type NotionConfig struct {
	Token     string `yaml:"token" mapstructure:"token"`
	FounderDB string `yaml:"founder_db" mapstructure:"founder_db"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
}

// EmailConfig configures SMTP alert delivery.
type EmailConfig struct {
	Host       string   `yaml:"host" mapstructure:"host"`
	Port       int      `yaml:"port" mapstructure:"port"`
	Username   string   `yaml:"username" mapstructure:"username"`
	Password   string   `yaml:"password" mapstructure:"password"`
	From       string   `yaml:"from" mapstructure:"from"`
	Recipients []string `yaml:"recipients" mapstructure:"recipients"`
}

// WebhookConfig configures the outbound alert webhook.
type WebhookConfig struct {
	URL         string `yaml:"url" mapstructure:"url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// MonitorConfig configures the tracking loop: how far back a departure may
// lie, how many re-checks each cadence tier gets, and the cron schedule.
type MonitorConfig struct {
	WindowDays      int    `yaml:"window_days" mapstructure:"window_days"`
	VIPIntervalDays int    `yaml:"vip_interval_days" mapstructure:"vip_interval_days"`
	WatchInterval   int    `yaml:"watch_interval_days" mapstructure:"watch_interval_days"`
	GeneralInterval int    `yaml:"general_interval_days" mapstructure:"general_interval_days"`
	CheckSchedule   string `yaml:"check_schedule" mapstructure:"check_schedule"`
	DigestSchedule  string `yaml:"digest_schedule" mapstructure:"digest_schedule"`
	MaxChecksPerRun int    `yaml:"max_checks_per_run" mapstructure:"max_checks_per_run"`
	DefaultPerOrg   int    `yaml:"default_per_org" mapstructure:"default_per_org"`
}

// SignalsConfig points at the external reference data. StartupsURL is
// optional; when set, the local startups file is refreshed from it
// before each run.
type SignalsConfig struct {
	OverridesPath string `yaml:"overrides_path" mapstructure:"overrides_path"`
	StartupsPath  string `yaml:"startups_path" mapstructure:"startups_path"`
	StartupsURL   string `yaml:"startups_url" mapstructure:"startups_url"`
}

// AlertsConfig tunes the scoring thresholds.
type AlertsConfig struct {
	MinFounderScore float64 `yaml:"min_founder_score" mapstructure:"min_founder_score"`
	MinStealthScore float64 `yaml:"min_stealth_score" mapstructure:"min_stealth_score"`
}

// ServerConfig configures the REST API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("RADAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "talent-radar.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("pdl.base_url", "https://api.peopledatalabs.com/v5")
	v.SetDefault("pdl.rate_per_second", 5)
	v.SetDefault("pdl.max_retries", 3)
	v.SetDefault("pdl.timeout_secs", 30)
	v.SetDefault("pdl.monthly_credits", 1000)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("anthropic.digest_size", 20)
	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
	v.SetDefault("email.port", 587)
	v.SetDefault("webhook.timeout_secs", 10)
	v.SetDefault("monitor.window_days", 180)
	v.SetDefault("monitor.vip_interval_days", 1)
	v.SetDefault("monitor.watch_interval_days", 7)
	v.SetDefault("monitor.general_interval_days", 30)
	v.SetDefault("monitor.check_schedule", "0 7 * * *")
	v.SetDefault("monitor.digest_schedule", "0 8 * * 1")
	v.SetDefault("monitor.max_checks_per_run", 200)
	v.SetDefault("monitor.default_per_org", 25)
	v.SetDefault("signals.startups_path", "data/qualified_startups.json")
	v.SetDefault("alerts.min_founder_score", 4.5)
	v.SetDefault("alerts.min_stealth_score", 50)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the fields a given mode depends on. Modes map to
// command entry points: "monitor" needs the data API and store, "notify"
// needs a delivery channel, "serve" needs a usable port.
func (c *Config) Validate(mode string) error {
	var problems []string

	checkStore := func() {
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required")
		}
		if c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
			problems = append(problems, "store.driver must be sqlite or postgres")
		}
	}

	switch mode {
	case "monitor":
		checkStore()
		if c.PDL.Key == "" {
			problems = append(problems, "pdl.key is required")
		}
		if c.Monitor.WindowDays <= 0 {
			problems = append(problems, "monitor.window_days must be > 0")
		}
	case "notify":
		if c.Email.Host == "" && c.Webhook.URL == "" {
			problems = append(problems, "email.host or webhook.url is required")
		}
		if c.Email.Host != "" && len(c.Email.Recipients) == 0 {
			problems = append(problems, "email.recipients is required when email.host is set")
		}
	case "serve":
		checkStore()
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	case "export":
		if c.Notion.Token == "" {
			problems = append(problems, "notion.token is required")
		}
		if c.Notion.FounderDB == "" {
			problems = append(problems, "notion.founder_db is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Alerts.MinFounderScore < 0 || c.Alerts.MinFounderScore > 10 {
		problems = append(problems, "alerts.min_founder_score must be between 0 and 10")
	}
	if c.Alerts.MinStealthScore < 0 || c.Alerts.MinStealthScore > 100 {
		problems = append(problems, "alerts.min_stealth_score must be between 0 and 100")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
