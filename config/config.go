package config

import (
	game_constants "Squares/constants/game"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	LockLocal     = "local"
	LockRedis     = "redis"

	devSecret = "squares-dev-secret"
)

// PostgresConfig holds the connection settings read from POSTGRES_*
type PostgresConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Database string
	Verbose  bool
	Migrate  bool
}

// DSN in the URL form lib/pq understands
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s", p.User, p.Password, p.Host, p.Port, p.Database)
}

type Config struct {
	Port        string
	Prod        bool
	UseHTTPS    bool
	TLSCertFile string
	TLSKeyFile  string

	SessionKey string
	JWTSecret  string
	TokenTTL   time.Duration

	Postgres PostgresConfig
	RedisURL string

	StoreBackend    string
	LockBackend     string
	StartingBalance decimal.Decimal

	LogLevel  string
	LogFormat string
}

// Load reads the environment, after loading .env if there is one
func Load() (*Config, error) {
	// A missing .env is fine, the variables may come from the environment
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the config from the current environment only
func FromEnv() (*Config, error) {
	cfg := &Config{
		Prod:        getBool("PROD"),
		UseHTTPS:    getBool("USE_HTTPS"),
		TLSCertFile: os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:  os.Getenv("TLS_KEY_FILE"),
		SessionKey:  getEnv("KEY", devSecret),
		JWTSecret:   getEnv("JWT_SECRET", devSecret),
		Postgres: PostgresConfig{
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			Database: os.Getenv("POSTGRES_DATABASE"),
			Verbose:  getBool("VERBOSE_POSTGRES"),
			Migrate:  getBool("MIGRATE_POSTGRES"),
		},
		RedisURL:     os.Getenv("REDIS_URL"),
		StoreBackend: strings.ToLower(getEnv("STORE_BACKEND", StorePostgres)),
		LockBackend:  strings.ToLower(getEnv("LOCK_BACKEND", LockLocal)),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
	}

	cfg.Port = os.Getenv("PORT")
	if cfg.Port == "" {
		if cfg.UseHTTPS {
			cfg.Port = "443"
		} else {
			cfg.Port = "8080"
		}
	}

	ttl, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q", os.Getenv("TOKEN_TTL"))
	}
	cfg.TokenTTL = ttl

	balance, err := decimal.NewFromString(getEnv("STARTING_BALANCE", game_constants.DEFAULT_STARTING_BALANCE))
	if err != nil || balance.IsNegative() {
		return nil, fmt.Errorf("invalid STARTING_BALANCE %q", os.Getenv("STARTING_BALANCE"))
	}
	cfg.StartingBalance = balance

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.StoreBackend != StorePostgres && c.StoreBackend != StoreMemory {
		return fmt.Errorf("invalid STORE_BACKEND %q: must be %s or %s", c.StoreBackend, StorePostgres, StoreMemory)
	}
	if c.LockBackend != LockLocal && c.LockBackend != LockRedis {
		return fmt.Errorf("invalid LOCK_BACKEND %q: must be %s or %s", c.LockBackend, LockLocal, LockRedis)
	}
	if c.LockBackend == LockRedis && c.RedisURL == "" {
		return fmt.Errorf("LOCK_BACKEND=redis needs REDIS_URL")
	}
	if c.Prod && (c.JWTSecret == devSecret || c.SessionKey == devSecret) {
		return fmt.Errorf("KEY and JWT_SECRET must be set in production")
	}
	if c.UseHTTPS && (c.TLSCertFile == "" || c.TLSKeyFile == "") {
		return fmt.Errorf("USE_HTTPS needs TLS_CERT_FILE and TLS_KEY_FILE")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && b
}
