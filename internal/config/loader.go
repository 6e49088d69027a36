package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	EnvPrefix = "UKESTATE_"
	EnvConfig = "UKESTATE_CONFIG"
	// EnvAPIURL is the bare variable the dashboard deployment sets.
	EnvAPIURL = "API_URL"
)

var tablePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if UKESTATE_CONFIG is set
//  3. API_URL
//  4. env (prefix UKESTATE_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvConfig); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// API_URL -> api_url. Exact match only; API_URL_FOO is ignored.
	apiURL := env.Provider(EnvAPIURL, ".", func(s string) string {
		if s != EnvAPIURL {
			return ""
		}
		return "api_url"
	})
	if err := k.Load(apiURL, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// UKESTATE_QUERY_TIMEOUT_MS -> query_timeout_ms (flat keys).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, strings.ToLower(EnvPrefix))
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields Load cannot type-check.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.Backend != BackendClickHouse && c.Backend != BackendSQLite:
		return fmt.Errorf("%w: backend must be %q or %q, got %q", ErrInvalidConfig, BackendClickHouse, BackendSQLite, c.Backend)
	case c.Backend == BackendClickHouse && c.ClickHouseAddr == "":
		return fmt.Errorf("%w: clickhouse_addr must not be empty", ErrInvalidConfig)
	case c.ClickHouseProtocol != "http" && c.ClickHouseProtocol != "native":
		return fmt.Errorf("%w: clickhouse_protocol must be http or native, got %q", ErrInvalidConfig, c.ClickHouseProtocol)
	case c.Backend == BackendSQLite && c.SQLitePath == "":
		return fmt.Errorf("%w: sqlite_path must not be empty", ErrInvalidConfig)
	case !tablePattern.MatchString(c.Table):
		return fmt.Errorf("%w: table %q is not an identifier", ErrInvalidConfig, c.Table)
	case c.DialTimeoutMS < 0, c.QueryTimeoutMS < 0, c.HTTPTimeoutMS < 0:
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalidConfig)
	}
	if _, err := url.ParseRequestURI(c.APIURL); err != nil {
		return fmt.Errorf("%w: api_url: %w", ErrInvalidConfig, err)
	}
	return nil
}
