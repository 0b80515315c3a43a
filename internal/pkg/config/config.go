package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when the loaded configuration cannot be used to start a run.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Postgres  PostgresConfig  `yaml:"postgres"`
	Redis     RedisConfig     `yaml:"redis"`
	Cache     CacheConfig     `yaml:"cache"`
	Provider  ProviderConfig  `yaml:"provider"`
	Sync      SyncConfig      `yaml:"sync"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Logging   LoggingConfig   `yaml:"logging"`
	Health    HealthConfig    `yaml:"health"`
	Telegram  TelegramConfig  `yaml:"telegram"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"` // "memory" selects the in-process store (local smoke runs only)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type CacheConfig struct {
	Backend    string        `yaml:"backend"` // "memory" or "redis"
	MaxEntries int           `yaml:"max_entries"`
	TTL        time.Duration `yaml:"ttl"`
	KeyPrefix  string        `yaml:"key_prefix"`
}

type ProviderConfig struct {
	GraphQLURL      string            `yaml:"graphql_url"`     // dual matches
	MeshURL         string            `yaml:"mesh_url"`        // seasons, rosters, schools, player match-ups
	TournamentsURL  string            `yaml:"tournaments_url"` // registrations
	EventDataURL    string            `yaml:"event_data_url"`  // draws; defaults to tournaments_url
	SearchURL       string            `yaml:"search_url"`      // unified tournament search
	SchoolPagesURL  string            `yaml:"school_pages_url"`
	UserAgent       string            `yaml:"user_agent"`
	Headers         map[string]string `yaml:"headers"`
	Timeout         time.Duration     `yaml:"timeout"`
	MaxAttempts     int               `yaml:"max_attempts"`
	RetryDelay      time.Duration     `yaml:"retry_delay"`
	MaxRetryDelay   time.Duration     `yaml:"max_retry_delay"`
	PageSize        int               `yaml:"page_size"`
	PageDelay       time.Duration     `yaml:"page_delay"`
	MaxPageFailures int               `yaml:"max_page_failures"`
	Breaker         BreakerConfig     `yaml:"breaker"`
}

type BreakerConfig struct {
	Enabled          bool          `yaml:"enabled"`
	FailureThreshold uint32        `yaml:"failure_threshold"`
	Timeout          time.Duration `yaml:"timeout"` // how long the breaker stays open
}

type SyncConfig struct {
	EnabledJobs      []string      `yaml:"enabled_jobs"`
	WindowBack       time.Duration `yaml:"window_back"`
	WindowAhead      time.Duration `yaml:"window_ahead"`
	Divisions        []string      `yaml:"divisions"`
	SeasonStarting   string        `yaml:"season_starting"`
	RankingDivisions []string      `yaml:"ranking_divisions"`
	RankingGenders   []string      `yaml:"ranking_genders"`
	MaxRankingLists  int           `yaml:"max_ranking_lists"` // newest lists per kind, 0 = all
}

type ReconcileConfig struct {
	BatchSize int  `yaml:"batch_size"`
	DryRun    bool `yaml:"dry_run"`
}

type ScheduleConfig struct {
	TimeZone   string            `yaml:"time_zone"`
	Jobs       map[string]string `yaml:"jobs"` // job name -> cron spec
	RunOnStart bool              `yaml:"run_on_start"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"` // empty = stdout only
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

type HealthConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	TriggerTimeout    time.Duration `yaml:"trigger_timeout"`
}

type TelegramConfig struct {
	BotToken      string `yaml:"bot_token"` // empty disables notifications
	ChatID        int64  `yaml:"chat_id"`
	NotifySuccess bool   `yaml:"notify_success"`
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML, fills defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) ApplyDefaults() {
	p := &c.Provider
	if p.EventDataURL == "" {
		p.EventDataURL = p.TournamentsURL
	}
	if p.Timeout <= 0 {
		p.Timeout = 30 * time.Second
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.RetryDelay <= 0 {
		p.RetryDelay = 2 * time.Second
	}
	if p.MaxRetryDelay <= 0 {
		p.MaxRetryDelay = 30 * time.Second
	}
	if p.PageSize <= 0 {
		p.PageSize = 100
	}
	if p.PageDelay <= 0 {
		p.PageDelay = time.Second
	}
	if p.MaxPageFailures <= 0 {
		p.MaxPageFailures = 3
	}
	if p.Breaker.FailureThreshold == 0 {
		p.Breaker.FailureThreshold = 5
	}
	if p.Breaker.Timeout <= 0 {
		p.Breaker.Timeout = time.Minute
	}

	if c.Sync.WindowBack <= 0 {
		c.Sync.WindowBack = 7 * 24 * time.Hour
	}
	if c.Sync.WindowAhead <= 0 {
		c.Sync.WindowAhead = 7 * 24 * time.Hour
	}
	if len(c.Sync.Divisions) == 0 {
		c.Sync.Divisions = []string{"DIVISION_1"}
	}
	if len(c.Sync.RankingDivisions) == 0 {
		c.Sync.RankingDivisions = []string{"DIV1"}
	}
	if len(c.Sync.RankingGenders) == 0 {
		c.Sync.RankingGenders = []string{"M", "F"}
	}

	if c.Reconcile.BatchSize <= 0 {
		c.Reconcile.BatchSize = 100
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = 2000
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "collegetennis:"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 100
	}

	if c.Health.ReadHeaderTimeout <= 0 {
		c.Health.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Health.TriggerTimeout <= 0 {
		c.Health.TriggerTimeout = 10 * time.Minute
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Postgres.DSN) == "" {
		return fmt.Errorf("%w: postgres.dsn is required", ErrInvalid)
	}
	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required for cache.backend=redis", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown cache.backend %q", ErrInvalid, c.Cache.Backend)
	}
	if c.Provider.GraphQLURL == "" && c.Provider.MeshURL == "" {
		return fmt.Errorf("%w: provider.graphql_url or provider.mesh_url is required", ErrInvalid)
	}
	return nil
}

// Window returns the [from, to] range used by date-bounded jobs.
func (c *Config) Window(now time.Time) (time.Time, time.Time) {
	return now.Add(-c.Sync.WindowBack), now.Add(c.Sync.WindowAhead)
}
