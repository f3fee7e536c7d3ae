// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/pushctl.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// League registry — the competitions polled each cycle
// --------------------------------------------------------------------------

// League identifies one competition on the upstream scoreboard feed.
type League struct {
	Key  string // feed path segment, e.g. "eng.1"
	Name string // display name carried onto snapshots
}

// DefaultLeagues is the competition set polled when LEAGUES is not set.
var DefaultLeagues = []League{
	{Key: "eng.1", Name: "Premier League"},
	{Key: "esp.1", Name: "LaLiga"},
	{Key: "ita.1", Name: "Serie A"},
	{Key: "ger.1", Name: "Bundesliga"},
	{Key: "fra.1", Name: "Ligue 1"},
	{Key: "uefa.champions", Name: "Champions League"},
	{Key: "uefa.europa", Name: "Europa League"},
}

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Scoreboard feed
	FeedBaseURL     string
	FeedRateLimit   int // requests per minute
	Leagues         []League
	PollInterval    time.Duration // 0 disables the background cycle worker
	CopyPrefix      string        // leading token on copy-to-clipboard lines
	StateKey        string        // storage key for the previous snapshot set

	// Previous-state store (Redis when addr set, Postgres otherwise)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Web Push (VAPID)
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string

	// Cache
	CacheEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", "")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	leagues, err := parseLeagues(os.Getenv("LEAGUES"))
	if err != nil {
		return nil, err
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8888",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		FeedBaseURL:   envOr("FEED_BASE_URL", "https://site.api.espn.com"),
		FeedRateLimit: envInt("FEED_RATE_LIMIT", 60),
		Leagues:       leagues,
		PollInterval:  time.Duration(envInt("POLL_INTERVAL_SECONDS", 0)) * time.Second,
		CopyPrefix:    envOr("COPY_PREFIX", "$"),
		StateKey:      envOr("STATE_KEY", "prev"),

		RedisAddr:     envOr("REDIS_ADDR", ""),
		RedisPassword: envOr("REDIS_PASSWORD", ""),
		RedisDB:       envInt("REDIS_DB", 0),

		VAPIDPublicKey:  envOr("VAPID_PUBLIC_KEY", ""),
		VAPIDPrivateKey: envOr("VAPID_PRIVATE_KEY", ""),
		VAPIDSubject:    envOr("VAPID_SUBJECT", "mailto:admin@example.com"),

		CacheEnabled: envBool("CACHE_ENABLED", true),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// PushConfigured returns true when both VAPID keys are present.
func (c *Config) PushConfigured() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

// parseLeagues parses "key:Name,key:Name" pairs. Empty input yields the
// default registry.
func parseLeagues(raw string) ([]League, error) {
	if strings.TrimSpace(raw) == "" {
		return DefaultLeagues, nil
	}

	var leagues []League
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, name, found := strings.Cut(part, ":")
		if !found || strings.TrimSpace(key) == "" || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid LEAGUES entry %q (want key:Name)", part)
		}
		leagues = append(leagues, League{Key: strings.TrimSpace(key), Name: strings.TrimSpace(name)})
	}
	if len(leagues) == 0 {
		return DefaultLeagues, nil
	}
	return leagues, nil
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
