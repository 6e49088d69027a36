package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okian/ukestate/internal/domain/table"
	"github.com/okian/ukestate/internal/domain/types"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLite is an embedded Query Service used for local runs and tests.
type SQLite struct {
	path     string
	settings settings
	queries  Queries

	mu sync.RWMutex
	db *sql.DB
}

var _ QueryService = (*SQLite)(nil)

// NewSQLite builds an unopened SQLite adapter for the database at path.
func NewSQLite(path string, opts ...Option) (*SQLite, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyAddr
	}
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if !ValidTable(s.table) || strings.Contains(s.table, ".") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTable, s.table)
	}
	return &SQLite{path: path, settings: s, queries: SQLiteQueries(s.table)}, nil
}

// Name implements QueryService.
func (s *SQLite) Name() string { return "sqlite" }

// Queries implements QueryService.
func (s *SQLite) Queries() Queries { return s.queries }

// Open implements QueryService. The transaction table is created if absent.
func (s *SQLite) Open(ctx context.Context) error {
	const op = "sqlite.open"
	dsn := s.path
	if s.path != MemoryPath {
		dsn = s.path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return classify(op, fmt.Errorf("open sqlite db: %w", err))
	}
	if s.path == MemoryPath {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, s.settings.dialTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return classify(op, fmt.Errorf("ping sqlite db: %w", err))
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	date     TEXT    NOT NULL,
	price    INTEGER NOT NULL,
	town     TEXT    NOT NULL,
	district TEXT    NOT NULL,
	county   TEXT    NOT NULL DEFAULT ''
)`, s.settings.table)); err != nil {
		_ = db.Close()
		return classify(op, fmt.Errorf("create table: %w", err))
	}

	s.mu.Lock()
	s.db = db
	s.mu.Unlock()
	return nil
}

func (s *SQLite) handle() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrNotOpen
	}
	return s.db, nil
}

// Query implements QueryService.
func (s *SQLite) Query(ctx context.Context, query string, args ...any) (table.Result, error) {
	const op = "sqlite.query"
	db, err := s.handle()
	if err != nil {
		return table.Result{}, classify(op, err)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return table.Result{}, classify(op, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return table.Result{}, classify(op, err)
	}
	res := table.Result{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return table.Result{}, classify(op, err)
		}
		res.Rows = append(res.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return table.Result{}, classify(op, err)
	}
	return res, nil
}

// Ping implements QueryService.
func (s *SQLite) Ping(ctx context.Context) error {
	res, err := s.Query(ctx, s.queries.Ping)
	if err != nil {
		return err
	}
	if res.Len() == 0 {
		return classify("sqlite.ping", ErrPing)
	}
	return nil
}

// Load inserts transaction fixtures in a single transaction.
func (s *SQLite) Load(ctx context.Context, records []types.Transaction) error {
	const op = "sqlite.load"
	db, err := s.handle()
	if err != nil {
		return classify(op, err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return classify(op, err)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (date, price, town, district, county) VALUES (?, ?, ?, ?, ?)`, s.settings.table))
	if err != nil {
		_ = tx.Rollback()
		return classify(op, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Date.UTC().Format(time.DateOnly), r.Price, r.Town, r.District, r.County); err != nil {
			_ = tx.Rollback()
			return classify(op, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return classify(op, err)
	}
	return nil
}

// Close implements QueryService.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
