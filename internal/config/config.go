// Package config loads process configuration from the environment and an
// optional dotenv file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Session stores.
const (
	SessionStoreSQL   = "sql"
	SessionStoreRedis = "redis"
)

// Config is the full process configuration.
type Config struct {
	Addr   string
	WebDir string
	Env    string

	Storage      string
	DatabaseURL  string
	SessionStore string
	RedisURL     string

	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxIdleTime time.Duration

	SessionTTL           time.Duration
	CookieSecure         bool
	CORSOrigins          []string
	LoginRatePerMin      int
	SessionSweepSchedule string

	FoodAPIBaseURL string
	FoodAPIKey     string
	FoodAPITimeout time.Duration

	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string
}

// Load reads ENV_FILE (default .env) if present and then the environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	e := envReader{get: getenv}
	c := &Config{
		Addr:   e.str("ADDR", ":8080"),
		WebDir: e.str("WEB_DIR", "web"),
		Env:    e.str("ENV", "development"),

		Storage:      strings.ToLower(e.str("STORAGE", StoragePostgres)),
		DatabaseURL:  e.str("DATABASE_URL", ""),
		SessionStore: strings.ToLower(e.str("SESSION_STORE", SessionStoreSQL)),
		RedisURL:     e.str("REDIS_URL", ""),

		DBMaxOpenConns:    e.int("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:    e.int("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxIdleTime: e.duration("DB_CONN_MAX_IDLE_TIME", 100*time.Second),

		SessionTTL:           e.duration("SESSION_TTL", 24*time.Hour),
		CookieSecure:         e.bool("COOKIE_SECURE", false),
		CORSOrigins:          e.list("CORS_ORIGINS"),
		LoginRatePerMin:      e.int("LOGIN_RATE_PER_MIN", 10),
		SessionSweepSchedule: e.str("SESSION_SWEEP_SCHEDULE", "@every 15m"),

		FoodAPIBaseURL: e.str("FOOD_API_BASE_URL", "https://nutrimonapi.azurewebsites.net/api"),
		FoodAPIKey:     e.str("FOOD_API_KEY", ""),
		FoodAPITimeout: e.duration("FOOD_API_TIMEOUT", 10*time.Second),

		OIDCIssuer:       e.str("OIDC_ISSUER", ""),
		OIDCClientID:     e.str("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: e.str("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  e.str("OIDC_REDIRECT_URL", ""),
	}
	if len(e.errs) > 0 {
		return nil, errors.Join(e.errs...)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	switch c.Storage {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORAGE=postgres")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage)
	}
	switch c.SessionStore {
	case SessionStoreSQL:
	case SessionStoreRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionStoreSQL, SessionStoreRedis, c.SessionStore)
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	return nil
}

// OIDCEnabled reports whether single sign-on is configured.
func (c *Config) OIDCEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}

// Production reports whether ENV is "production".
func (c *Config) Production() bool {
	return c.Env == "production"
}

type envReader struct {
	get  func(string) string
	errs []error
}

func (e *envReader) str(key, fallback string) string {
	if v := strings.TrimSpace(e.get(key)); v != "" {
		return v
	}
	return fallback
}

func (e *envReader) int(key string, fallback int) int {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func (e *envReader) bool(key string, fallback bool) bool {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}

func (e *envReader) duration(key string, fallback time.Duration) time.Duration {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func (e *envReader) list(key string) []string {
	var out []string
	for _, p := range strings.Split(e.get(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
