package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	pstrings "fred/pkg/platform/strings"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	DatabaseURL string
	LogLevel    string
	LogFormat   string

	// StrictStateFlags turns flag names the vocabularies do not declare into
	// errors instead of logged warnings.
	StrictStateFlags bool
	// DomainCheckers names the domain-name checkers applied to domain handle
	// lookups; empty disables the checks.
	DomainCheckers []string

	QueryTimeout   time.Duration
	DBMaxOpenConns int
}

const (
	defaultAddr         = ":8080"
	defaultLogLevel     = "info"
	defaultLogFormat    = "json"
	defaultQueryTimeout = 5 * time.Second
	defaultMaxOpenConns = 10
)

// EnvFile is loaded, when present, before the environment is read.
// Variables already set in the environment win.
const EnvFile = ".env"

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Server{}, fmt.Errorf("load %s: %w", EnvFile, err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Server config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (Server, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Server{
		Addr:        get("FRED_ADDR", defaultAddr),
		DatabaseURL: get("FRED_DATABASE_URL", ""),
		LogLevel:    strings.ToLower(get("FRED_LOG_LEVEL", defaultLogLevel)),
		LogFormat:   strings.ToLower(get("FRED_LOG_FORMAT", defaultLogFormat)),
	}
	if cfg.DatabaseURL == "" {
		return Server{}, errors.New("FRED_DATABASE_URL is required")
	}

	var err error
	if cfg.StrictStateFlags, err = strconv.ParseBool(get("FRED_STRICT_STATE_FLAGS", "false")); err != nil {
		return Server{}, fmt.Errorf("FRED_STRICT_STATE_FLAGS: %w", err)
	}
	if cfg.QueryTimeout, err = time.ParseDuration(get("FRED_QUERY_TIMEOUT", defaultQueryTimeout.String())); err != nil {
		return Server{}, fmt.Errorf("FRED_QUERY_TIMEOUT: %w", err)
	}
	if cfg.QueryTimeout <= 0 {
		return Server{}, fmt.Errorf("FRED_QUERY_TIMEOUT must be positive, got %s", cfg.QueryTimeout)
	}
	if cfg.DBMaxOpenConns, err = strconv.Atoi(get("FRED_DB_MAX_OPEN_CONNS", strconv.Itoa(defaultMaxOpenConns))); err != nil {
		return Server{}, fmt.Errorf("FRED_DB_MAX_OPEN_CONNS: %w", err)
	}
	cfg.DomainCheckers = pstrings.SplitList(get("FRED_DOMAIN_CHECKERS", ""), ",")
	return cfg, nil
}
