// Package config reads service settings from the environment, after loading
// a .env file when one is present.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
	StorageRedis    = "redis"
)

var ErrMissingSecret = errors.New("JWT_SECRET is required")

type Config struct {
	HTTPAddr        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	DatabaseURL string
	AutoMigrate bool

	// Storage picks the user store. SessionStore picks the session store
	// and defaults to Storage.
	Storage      string
	SessionStore string

	RedisAddr     string
	RedisPassword string

	JWTSecret  string
	JWTIssuer  string
	TokenTTL   time.Duration
	BcryptCost int

	GoogleClientID string

	LogLevel string
}

// Load reads .env (if any) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	var errs []error
	env := func(key, fallback string) string {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}
	duration := func(key string, fallback time.Duration) time.Duration {
		raw := env(key, "")
		if raw == "" {
			return fallback
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("invalid %s %q", key, raw))
			return fallback
		}
		return d
	}

	cfg := &Config{
		HTTPAddr:        env("HTTP_ADDR", "0.0.0.0:8080"),
		RequestTimeout:  duration("REQUEST_TIMEOUT", 15*time.Second),
		ShutdownTimeout: duration("SHUTDOWN_TIMEOUT", 30*time.Second),
		DatabaseURL:     DatabaseURLFromEnv(),
		Storage:         strings.ToLower(env("STORAGE", StoragePostgres)),
		SessionStore:    strings.ToLower(env("SESSION_STORE", "")),
		RedisAddr:       env("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTIssuer:       env("JWT_ISSUER", "userauth"),
		TokenTTL:        duration("TOKEN_TTL", time.Hour),
		BcryptCost:      8,
		GoogleClientID:  env("GOOGLE_CLIENT_ID", ""),
		LogLevel:        env("LOG_LEVEL", "info"),
	}

	if raw := env("AUTO_MIGRATE", ""); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid AUTO_MIGRATE %q", raw))
		}
		cfg.AutoMigrate = v
	}

	if raw := env("BCRYPT_COST", ""); raw != "" {
		cost, err := strconv.Atoi(raw)
		if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			errs = append(errs, fmt.Errorf("invalid BCRYPT_COST %q: must be between %d and %d", raw, bcrypt.MinCost, bcrypt.MaxCost))
		} else {
			cfg.BcryptCost = cost
		}
	}

	if cfg.SessionStore == "" {
		cfg.SessionStore = cfg.Storage
	}

	errs = append(errs, cfg.validate()...)
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() []error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, ErrMissingSecret)
	}
	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("invalid STORAGE %q", c.Storage))
	}
	switch c.SessionStore {
	case StoragePostgres, StorageMemory, StorageRedis:
	default:
		errs = append(errs, fmt.Errorf("invalid SESSION_STORE %q", c.SessionStore))
	}
	if c.SessionStore == StoragePostgres && c.Storage != StoragePostgres {
		errs = append(errs, errors.New("SESSION_STORE=postgres requires STORAGE=postgres"))
	}
	return errs
}

// NeedsDatabase reports whether any configured store lives in PostgreSQL.
func (c *Config) NeedsDatabase() bool {
	return c.Storage == StoragePostgres || c.SessionStore == StoragePostgres
}

// DatabaseURLFromEnv returns DATABASE_URL, or a URL assembled from the
// POSTGRES_* variables when it is unset. Tools that only touch the database
// use it instead of Load.
func DatabaseURLFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		return v
	}
	return dbConnString()
}

func dbConnString() string {
	dbName, user, password, host, port := dbConfig()
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     host + ":" + port,
		Path:     "/" + dbName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func dbConfig() (dbName string, user string, password string, host string, port string) {
	dbName = os.Getenv("POSTGRES_DB")
	user = os.Getenv("POSTGRES_USER")
	password = os.Getenv("POSTGRES_PASSWORD")
	host = os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	port = os.Getenv("POSTGRES_PORT")
	if port == "" {
		port = "5432"
	}
	return
}
