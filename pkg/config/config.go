// Package config loads application configuration from YAML with
// environment-variable overrides, following pkg/config/config.go in the
// teacher repo field-for-field in spirit (struct tags, overrideFromEnv,
// GetDefaultConfigPath) but re-scoped to this system's components.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root application configuration.
type Config struct {
	App struct {
		Name string `yaml:"name"`
		Env  string `yaml:"env"`
	} `yaml:"app"`

	API struct {
		Port           string        `yaml:"port"`
		ReadTimeout    time.Duration `yaml:"read_timeout"`
		WriteTimeout   time.Duration `yaml:"write_timeout"`
		HandlerTimeout time.Duration `yaml:"handler_timeout"`
		AllowedOrigins []string      `yaml:"allowed_origins"`
	} `yaml:"api"`

	Detection struct {
		DefaultThresholdPct  float64       `yaml:"default_threshold_pct"`
		DebounceDuration     time.Duration `yaml:"debounce_duration"`
		DeltaPctForRealert   float64       `yaml:"delta_pct_for_realert"`
		ScanInterval         time.Duration `yaml:"scan_interval"`
		DefaultWindowMinutes int           `yaml:"default_window_minutes"`
		DebounceEvictAge     time.Duration `yaml:"debounce_evict_age"`
		MaxTickLookback      time.Duration `yaml:"max_tick_lookback"`
	} `yaml:"detection"`

	ReasonEngine struct {
		LookbackDuration    time.Duration `yaml:"lookback_duration"`
		TrailingDuration    time.Duration `yaml:"trailing_duration"`
		ProximityHorizon    time.Duration `yaml:"proximity_horizon"`
		PublishedAtTolerance time.Duration `yaml:"published_at_tolerance"`
		AdapterTimeout      time.Duration `yaml:"adapter_timeout"`
		AdapterRetryBudget  int           `yaml:"adapter_retry_budget"`
		WorkerPoolSize      int           `yaml:"worker_pool_size"`
		WorkQueueCapacity   int           `yaml:"work_queue_capacity"`
		WeightSourceReliability float64   `yaml:"weight_source_reliability"`
		WeightEventMatch        float64   `yaml:"weight_event_match"`
		WeightTimeProximity     float64   `yaml:"weight_time_proximity"`
	} `yaml:"reason_engine"`

	Notifier struct {
		CooldownTTLInApp time.Duration `yaml:"cooldown_ttl_in_app"`
		CooldownTTLEmail time.Duration `yaml:"cooldown_ttl_email"`
	} `yaml:"notifier"`

	Brief struct {
		LookbackWindow       time.Duration `yaml:"lookback_window"`
		TopN                 int           `yaml:"top_n"`
		InsufficientFloor    int           `yaml:"insufficient_floor"`
		PostCloseTTL         time.Duration `yaml:"post_close_ttl"`
		PreMarketTTLFallback time.Duration `yaml:"pre_market_ttl_fallback"`
	} `yaml:"brief"`

	Compare struct {
		MinCompareItems       int     `yaml:"min_compare_items"`
		SentimentThreshold    float64 `yaml:"sentiment_threshold"`
	} `yaml:"compare"`

	NATS struct {
		URL string `yaml:"url"`
	} `yaml:"nats"`

	Auth struct {
		JWTSecret     string        `yaml:"jwt_secret"`
		TokenExpiry   time.Duration `yaml:"token_expiry"`
	} `yaml:"auth"`

	Scheduler struct {
		PreMarketSpec string `yaml:"pre_market_spec"`
		PostCloseSpec string `yaml:"post_close_spec"`
		PromotionSpec string `yaml:"promotion_spec"`
	} `yaml:"scheduler"`

	B2B struct {
		APIKeys []B2BAPIKey `yaml:"api_keys"`
	} `yaml:"b2b"`
}

// B2BAPIKey is one tenant credential for the /v1/b2b/* surface.
type B2BAPIKey struct {
	Key                string     `yaml:"key" json:"key"`
	TenantID           string     `yaml:"tenant_id" json:"tenant_id"`
	RateLimitPerMinute int        `yaml:"rate_limit_per_minute" json:"rate_limit_per_minute"`
	AllowedSymbols     []string   `yaml:"allowed_symbols" json:"allowed_symbols"`
	ExpiresAtUTC       *time.Time `yaml:"expires_at_utc" json:"expires_at_utc"`
}

// Default returns the shipped configuration defaults, matching SPEC_FULL.md
// §13's Open-Question decisions.
func Default() *Config {
	var c Config
	c.App.Name = "reasoncore"
	c.App.Env = "dev"
	c.API.Port = "8080"
	c.API.ReadTimeout = 10 * time.Second
	c.API.WriteTimeout = 10 * time.Second
	c.API.HandlerTimeout = 10 * time.Second
	c.Detection.DefaultThresholdPct = 3.0
	c.Detection.DebounceDuration = 10 * time.Minute
	c.Detection.DeltaPctForRealert = 2.0
	c.Detection.ScanInterval = 30 * time.Second
	c.Detection.DefaultWindowMinutes = 5
	c.Detection.DebounceEvictAge = 2 * time.Hour
	c.Detection.MaxTickLookback = 2 * time.Hour
	c.ReasonEngine.LookbackDuration = 48 * time.Hour
	c.ReasonEngine.TrailingDuration = 6 * time.Hour
	c.ReasonEngine.ProximityHorizon = 24 * time.Hour
	c.ReasonEngine.PublishedAtTolerance = 10 * time.Minute
	c.ReasonEngine.AdapterTimeout = 5 * time.Second
	c.ReasonEngine.AdapterRetryBudget = 3
	c.ReasonEngine.WorkerPoolSize = 4
	c.ReasonEngine.WorkQueueCapacity = 256
	c.ReasonEngine.WeightSourceReliability = 0.4
	c.ReasonEngine.WeightEventMatch = 0.3
	c.ReasonEngine.WeightTimeProximity = 0.3
	c.Notifier.CooldownTTLInApp = 30 * time.Minute
	c.Notifier.CooldownTTLEmail = 30 * time.Minute
	c.Brief.LookbackWindow = 24 * time.Hour
	c.Brief.TopN = 5
	c.Brief.InsufficientFloor = 1
	c.Brief.PostCloseTTL = 24 * time.Hour
	c.Brief.PreMarketTTLFallback = 12 * time.Hour
	c.Compare.MinCompareItems = 2
	c.Compare.SentimentThreshold = 0.15
	c.NATS.URL = "nats://127.0.0.1:4222"
	c.Auth.JWTSecret = "dev-secret-change-me"
	c.Auth.TokenExpiry = 24 * time.Hour
	c.Scheduler.PreMarketSpec = "0 30 8 * * 1-5"
	c.Scheduler.PostCloseSpec = "0 5 16 * * 1-5"
	c.Scheduler.PromotionSpec = "@every 5m"
	c.B2B.APIKeys = []B2BAPIKey{
		{Key: "b2b-demo-key", TenantID: "demo-tenant", RateLimitPerMinute: 60},
	}
	return &c
}

// Load reads path, merging over Default() and applying env overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	overrideFromEnv(cfg)
	return cfg, nil
}

func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.App.Env = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.API.Port = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("B2B_API_KEYS_JSON"); v != "" {
		var keys []B2BAPIKey
		if err := json.Unmarshal([]byte(v), &keys); err == nil && len(keys) > 0 {
			cfg.B2B.APIKeys = keys
		}
	}
}

// GetDefaultConfigPath mirrors the teacher's configs/<env>/app.yaml
// convention.
func GetDefaultConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	return fmt.Sprintf("configs/%s/app.yaml", env)
}
