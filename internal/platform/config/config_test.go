package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"FRED_DATABASE_URL": "postgres://fred@localhost/fred",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.StrictStateFlags)
	assert.Empty(t, cfg.DomainCheckers)
	assert.Equal(t, 5*time.Second, cfg.QueryTimeout)
	assert.Equal(t, 10, cfg.DBMaxOpenConns)
}

func TestFromLookupOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"FRED_ADDR":               "127.0.0.1:9000",
		"FRED_DATABASE_URL":       "postgres://fred@db/fred",
		"FRED_LOG_LEVEL":          "DEBUG",
		"FRED_LOG_FORMAT":         "text",
		"FRED_STRICT_STATE_FLAGS": "true",
		"FRED_DOMAIN_CHECKERS":    " dncheck_not_empty_domain_name, DNCHECK_MAX_LENGTH,,dncheck_not_empty_domain_name",
		"FRED_QUERY_TIMEOUT":      "750ms",
		"FRED_DB_MAX_OPEN_CONNS":  "4",
	}))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.StrictStateFlags)
	assert.Equal(t, []string{"dncheck_not_empty_domain_name", "dncheck_max_length"}, cfg.DomainCheckers)
	assert.Equal(t, 750*time.Millisecond, cfg.QueryTimeout)
	assert.Equal(t, 4, cfg.DBMaxOpenConns)
}

func TestFromLookupErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database url", map[string]string{}},
		{"bad strict flag", map[string]string{"FRED_DATABASE_URL": "x", "FRED_STRICT_STATE_FLAGS": "maybe"}},
		{"bad timeout", map[string]string{"FRED_DATABASE_URL": "x", "FRED_QUERY_TIMEOUT": "soon"}},
		{"non positive timeout", map[string]string{"FRED_DATABASE_URL": "x", "FRED_QUERY_TIMEOUT": "0s"}},
		{"bad conns", map[string]string{"FRED_DATABASE_URL": "x", "FRED_DB_MAX_OPEN_CONNS": "many"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(tt.env))
			assert.Error(t, err)
		})
	}
}
