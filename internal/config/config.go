// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Flat koanf keys; the env var is the key upper-cased with the UKESTATE_ prefix.
// - New() returns defaults; Load(ctx) layers a YAML file and the environment on top.
// - Durations are expressed in milliseconds to keep env overrides plain integers.
package config

import "time"

// Backends understood by the API process.
const (
	BackendClickHouse = "clickhouse"
	BackendSQLite     = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output to JSON lines.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the API listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// Backend selects the Query Service: clickhouse or sqlite.
	Backend string `koanf:"backend"`

	// ClickHouseAddr is host:port of the ClickHouse server.
	ClickHouseAddr string `koanf:"clickhouse_addr"`

	// ClickHouseProtocol is http or native.
	ClickHouseProtocol string `koanf:"clickhouse_protocol"`

	ClickHouseDatabase string `koanf:"clickhouse_database"`
	ClickHouseUsername string `koanf:"clickhouse_username"`
	ClickHousePassword string `koanf:"clickhouse_password"`

	// Table is the transaction table, optionally database-qualified.
	Table string `koanf:"table"`

	// SQLitePath is the database file for the sqlite backend (":memory:" allowed).
	SQLitePath string `koanf:"sqlite_path"`

	// DialTimeoutMS bounds connection establishment at startup.
	DialTimeoutMS int `koanf:"dial_timeout_ms"`

	// QueryTimeoutMS bounds each query; 0 disables the bound.
	QueryTimeoutMS int `koanf:"query_timeout_ms"`

	// APIURL is the base URL the dashboard uses to reach the API.
	APIURL string `koanf:"api_url"`

	// DashboardAddr configures the dashboard listen address.
	DashboardAddr string `koanf:"dashboard_addr"`

	// HTTPTimeoutMS bounds each dashboard fetch.
	HTTPTimeoutMS int `koanf:"http_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8000",
		Backend:            BackendClickHouse,
		ClickHouseAddr:     "clickhouse:8123",
		ClickHouseProtocol: "http",
		ClickHouseDatabase: "uk",
		ClickHouseUsername: "default",
		Table:              "uk_price_paid",
		SQLitePath:         "ukestate.db",
		DialTimeoutMS:      5_000,
		QueryTimeoutMS:     30_000,
		APIURL:             "http://localhost:8000",
		DashboardAddr:      ":8501",
		HTTPTimeoutMS:      30_000,
	}
}

// DialTimeout returns DialTimeoutMS as a duration.
func (c *Config) DialTimeout() time.Duration { return ms(c.DialTimeoutMS) }

// QueryTimeout returns QueryTimeoutMS as a duration.
func (c *Config) QueryTimeout() time.Duration { return ms(c.QueryTimeoutMS) }

// HTTPTimeout returns HTTPTimeoutMS as a duration.
func (c *Config) HTTPTimeout() time.Duration { return ms(c.HTTPTimeoutMS) }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
