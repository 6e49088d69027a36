package repository

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/okian/ukestate/internal/domain/table"
)

// ClickHouse is the production Query Service. The driver connection is a
// pool and safe for concurrent use.
type ClickHouse struct {
	settings settings
	queries  Queries

	mu   sync.RWMutex
	conn driver.Conn
}

var _ QueryService = (*ClickHouse)(nil)

// NewClickHouse builds an unopened ClickHouse adapter.
func NewClickHouse(opts ...Option) (*ClickHouse, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if s.addr == "" {
		return nil, ErrEmptyAddr
	}
	if !ValidTable(s.table) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, s.table)
	}
	return &ClickHouse{settings: s, queries: ClickHouseQueries(s.table)}, nil
}

// Name implements QueryService.
func (c *ClickHouse) Name() string { return "clickhouse" }

// Queries implements QueryService.
func (c *ClickHouse) Queries() Queries { return c.queries }

// Open implements QueryService.
func (c *ClickHouse) Open(ctx context.Context) error {
	const op = "clickhouse.open"
	protocol := clickhouse.HTTP
	if c.settings.protocol == ProtocolNative {
		protocol = clickhouse.Native
	}
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr:     []string{c.settings.addr},
		Protocol: protocol,
		Auth: clickhouse.Auth{
			Database: c.settings.database,
			Username: c.settings.username,
			Password: c.settings.password,
		},
		DialTimeout: c.settings.dialTimeout,
		ReadTimeout: c.settings.readTimeout,
	})
	if err != nil {
		return classify(op, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, c.settings.dialTimeout)
	defer cancel()
	if err := conn.Ping(pingCtx); err != nil {
		_ = conn.Close()
		return classify(op, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	return nil
}

func (c *ClickHouse) handle() (driver.Conn, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.conn == nil {
		return nil, ErrNotOpen
	}
	return c.conn, nil
}

// Query implements QueryService.
func (c *ClickHouse) Query(ctx context.Context, sql string, args ...any) (table.Result, error) {
	const op = "clickhouse.query"
	conn, err := c.handle()
	if err != nil {
		return table.Result{}, classify(op, err)
	}
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return table.Result{}, classify(op, err)
	}
	defer func() { _ = rows.Close() }()

	colTypes := rows.ColumnTypes()
	res := table.Result{Columns: rows.Columns()}
	for rows.Next() {
		dest := make([]any, len(colTypes))
		for i, ct := range colTypes {
			dest[i] = reflect.New(ct.ScanType()).Interface()
		}
		if err := rows.Scan(dest...); err != nil {
			return table.Result{}, classify(op, err)
		}
		row := make([]any, len(dest))
		for i, d := range dest {
			row[i] = deref(reflect.ValueOf(d).Elem())
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return table.Result{}, classify(op, err)
	}
	return res, nil
}

// Ping implements QueryService.
func (c *ClickHouse) Ping(ctx context.Context) error {
	res, err := c.Query(ctx, c.queries.Ping)
	if err != nil {
		return err
	}
	if res.Len() == 0 {
		return classify("clickhouse.ping", ErrPing)
	}
	return nil
}

// Close implements QueryService.
func (c *ClickHouse) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// deref unwraps Nullable columns, which scan into pointer types.
func deref(v reflect.Value) any {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}
