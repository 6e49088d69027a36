package repository

import "time"

// Defaults shared by the adapters.
const (
	DefaultTable       = "uk_price_paid"
	defaultDialTimeout = 5 * time.Second
)

// Protocol selects the ClickHouse wire protocol.
type Protocol string

// Supported ClickHouse protocols.
const (
	ProtocolHTTP   Protocol = "http"
	ProtocolNative Protocol = "native"
)

type settings struct {
	addr        string
	protocol    Protocol
	database    string
	username    string
	password    string
	table       string
	dialTimeout time.Duration
	readTimeout time.Duration
}

func defaultSettings() settings {
	return settings{
		addr:        "clickhouse:8123",
		protocol:    ProtocolHTTP,
		database:    "uk",
		username:    "default",
		table:       DefaultTable,
		dialTimeout: defaultDialTimeout,
	}
}

// Option applies a configuration option to an adapter.
type Option func(*settings)

// WithAddr sets the host:port of the ClickHouse server.
func WithAddr(addr string) Option {
	return func(s *settings) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithProtocol selects HTTP (port 8123) or native (port 9000).
func WithProtocol(p Protocol) Option {
	return func(s *settings) {
		if p != "" {
			s.protocol = p
		}
	}
}

// WithDatabase sets the default database.
func WithDatabase(db string) Option {
	return func(s *settings) {
		if db != "" {
			s.database = db
		}
	}
}

// WithCredentials sets the user and password.
func WithCredentials(username, password string) Option {
	return func(s *settings) {
		if username != "" {
			s.username = username
		}
		s.password = password
	}
}

// WithTable sets the transaction table queried by the templates.
func WithTable(table string) Option {
	return func(s *settings) {
		if table != "" {
			s.table = table
		}
	}
}

// WithDialTimeout bounds connection establishment and the startup ping.
func WithDialTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.dialTimeout = d
		}
	}
}

// WithReadTimeout bounds a single read from the server. Zero keeps the driver default.
func WithReadTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.readTimeout = d
		}
	}
}
