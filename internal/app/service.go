// Package service runs the fixed analytical queries against the Query
// Service and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/ukestate/internal/adapters/repository"
	"github.com/okian/ukestate/internal/domain/failure"
	"github.com/okian/ukestate/internal/domain/table"
	"github.com/okian/ukestate/internal/domain/types"
	"github.com/okian/ukestate/pkg/logger"
	"github.com/okian/ukestate/pkg/metrics"
)

// Query names used in logs and metric labels.
const (
	QuerySalesPerMonth    = "sales_per_month"
	QueryTopNeighborhoods = "top_expensive_neighborhoods"
	QueryHealth           = "health"
)

const (
	opStart            = "service.start"
	opSalesPerMonth    = "service.sales_per_month"
	opTopNeighborhoods = "service.top_expensive_neighborhoods"
	opHealth           = "service.health"

	defaultQueryTimeout = 30 * time.Second
	nanosecondsPerMilli = float64(time.Millisecond)
)

// Sentinel errors for the service lifecycle.
var (
	ErrNoQueryService = errors.New("no query service configured")
	ErrNotStarted     = errors.New("service not started")
)

// Service owns the process-wide Query Service handle.
type Service struct {
	mu sync.RWMutex

	repo         repository.QueryService
	queryTimeout time.Duration

	started   bool
	startedAt time.Time

	queries  atomic.Int64
	failures atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueryService injects the Query Service adapter.
func WithQueryService(q repository.QueryService) Option {
	return func(s *Service) {
		if q != nil {
			s.repo = q
		}
	}
}

// WithQueryTimeout bounds each query. Zero disables the bound.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.queryTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service. Start must be called before serving.
func New(opts ...Option) *Service {
	s := &Service{
		queryTimeout: defaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the Query Service connection. A failure here is fatal for
// the process; there is no reconnect on demand.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.repo == nil {
		return failure.Connection(opStart, ErrNoQueryService)
	}

	s.logger.Info(ctx, "connecting to query service", logger.String("backend", s.repo.Name()))
	if err := s.repo.Open(ctx); err != nil {
		s.logger.Error(ctx, "connection error to query service",
			logger.String("backend", s.repo.Name()),
			logger.Error(err),
		)
		metrics.UpdateQueryServiceUp(false)
		return err
	}
	metrics.UpdateQueryServiceUp(true)

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "query service connected",
		logger.String("backend", s.repo.Name()),
		logger.Duration("queryTimeout", s.queryTimeout),
	)
	return nil
}

// Stop closes the Query Service handle.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	if err := s.repo.Close(); err != nil {
		s.logger.Warn(ctx, "closing query service failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "query service closed")
}

// SalesPerMonth counts transactions per (year, month) over the dataset years.
func (s *Service) SalesPerMonth(ctx context.Context) ([]types.MonthlySalesPoint, error) {
	res, err := s.run(ctx, QuerySalesPerMonth, opSalesPerMonth,
		func(q repository.Queries) string { return q.MonthlySales },
		types.FirstYear, types.LastYear)
	if err != nil {
		return nil, err
	}
	points, err := table.MonthlySales(res)
	if err != nil {
		return nil, s.fail(ctx, QuerySalesPerMonth, failure.Query(opSalesPerMonth, err))
	}
	return points, nil
}

// TopExpensiveNeighborhoods ranks (town, district) groups of year by average price.
func (s *Service) TopExpensiveNeighborhoods(ctx context.Context, year types.Year) ([]types.NeighborhoodPriceSummary, error) {
	from, to := year.Range()
	res, err := s.run(ctx, QueryTopNeighborhoods, opTopNeighborhoods,
		func(q repository.Queries) string { return q.TopNeighborhoods },
		from, to, types.MinNeighborhoodSales, types.TopNeighborhoodsLimit)
	if err != nil {
		return nil, err
	}
	out, err := table.Neighborhoods(res)
	if err != nil {
		return nil, s.fail(ctx, QueryTopNeighborhoods, failure.Query(opTopNeighborhoods, err))
	}
	return out, nil
}

// Health runs the liveness probe.
func (s *Service) Health(ctx context.Context) error {
	repo, err := s.handle(opHealth)
	if err != nil {
		metrics.UpdateQueryServiceUp(false)
		return s.fail(ctx, QueryHealth, err)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	err = repo.Ping(ctx)
	s.queries.Add(1)
	metrics.RecordQuery(QueryHealth, float64(time.Since(start))/nanosecondsPerMilli)
	if err != nil {
		metrics.UpdateQueryServiceUp(false)
		return s.fail(ctx, QueryHealth, err)
	}
	metrics.UpdateQueryServiceUp(true)
	return nil
}

// GetStats returns a snapshot of service counters.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"queries":       s.queries.Load(),
		"queryFailures": s.failures.Load(),
		"queryTimeout":  s.queryTimeout.String(),
		"uptimeSeconds": 0.0,
		"backend":       "",
	}
	if s.repo != nil {
		stats["backend"] = s.repo.Name()
	}
	if s.started {
		stats["uptimeSeconds"] = time.Since(s.startedAt).Seconds()
	}
	return stats
}

func (s *Service) handle(op string) (repository.QueryService, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, failure.Connection(op, ErrNotStarted)
	}
	return s.repo, nil
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// run executes one templated query with the service timeout and metrics.
func (s *Service) run(ctx context.Context, name, op string, pick func(repository.Queries) string, args ...any) (table.Result, error) {
	repo, err := s.handle(op)
	if err != nil {
		return table.Result{}, s.fail(ctx, name, err)
	}
	qctx, cancel := s.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	res, err := repo.Query(qctx, pick(repo.Queries()), args...)
	elapsed := time.Since(start)
	s.queries.Add(1)
	metrics.RecordQuery(name, float64(elapsed)/nanosecondsPerMilli)
	if err != nil {
		if failure.KindOf(err) == failure.KindUnknown {
			err = failure.Query(op, err)
		}
		return table.Result{}, s.fail(ctx, name, err)
	}

	metrics.UpdateQueryRows(name, res.Len())
	s.log().Debug(ctx, "query executed",
		logger.String("query", name),
		logger.Int("rows", res.Len()),
		logger.Duration("elapsed", elapsed),
	)
	return res, nil
}

func (s *Service) fail(ctx context.Context, name string, err error) error {
	kind := failure.KindOf(err)
	s.failures.Add(1)
	metrics.RecordQueryError(name, kind.String())
	s.log().Error(ctx, "error executing query",
		logger.String("query", name),
		logger.String("kind", kind.String()),
		logger.String("op", failure.OpOf(err)),
		logger.Error(err),
	)
	return err
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Get()
	}
	return l
}
