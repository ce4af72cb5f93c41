package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverREST     = "rest"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const defaultSQLiteDSN = "trial.db"

var ErrMissing = errors.New("missing required setting")

type Config struct {
	Environment string
	Addr        string

	StoreDriver string
	SupabaseURL string
	SupabaseKey string
	DBDSN       string

	CSRFKey    []byte
	SessionTTL time.Duration

	// EnvFile names the dotenv file Load read, empty when there was none.
	EnvFile string
}

// Load reads an optional .env file and then the process environment.
// Anything required that is missing is an error; callers treat it as fatal.
func Load() (*Config, error) {
	loaded := godotenv.Load(".env") == nil
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	if loaded {
		cfg.EnvFile = ".env"
	}
	return cfg, nil
}

// FromEnv builds a Config from the environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("ENV", "development"),
		Addr:        getEnv("ADDR", ":8080"),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverREST)),
		SupabaseURL: strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
		SupabaseKey: os.Getenv("SUPABASE_ANON_KEY"),
		DBDSN:       os.Getenv("DB_DSN"),
	}

	switch cfg.StoreDriver {
	case DriverREST:
		if cfg.SupabaseURL == "" {
			return nil, fmt.Errorf("%w: SUPABASE_URL", ErrMissing)
		}
		if cfg.SupabaseKey == "" {
			return nil, fmt.Errorf("%w: SUPABASE_ANON_KEY", ErrMissing)
		}
	case DriverSQLite:
		if cfg.DBDSN == "" {
			cfg.DBDSN = defaultSQLiteDSN
		}
	case DriverPostgres:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("%w: DB_DSN", ErrMissing)
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "2h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid SESSION_TTL %q", os.Getenv("SESSION_TTL"))
	}
	cfg.SessionTTL = ttl

	key, err := csrfKey(os.Getenv("CSRF_KEY"), cfg.IsProduction())
	if err != nil {
		return nil, err
	}
	cfg.CSRFKey = key

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CSRF_KEY is 64 hex characters. Outside production a random key is used,
// which invalidates open forms on every restart.
func csrfKey(raw string, production bool) ([]byte, error) {
	if raw != "" {
		key, err := hex.DecodeString(raw)
		if err != nil || len(key) != 32 {
			return nil, errors.New("CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key, nil
	}
	if production {
		return nil, fmt.Errorf("%w: CSRF_KEY", ErrMissing)
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	return key, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
