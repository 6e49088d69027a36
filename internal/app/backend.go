package service

import (
	"fmt"

	"github.com/okian/ukestate/internal/adapters/repository"
	"github.com/okian/ukestate/internal/config"
)

// NewQueryService builds the unopened Query Service adapter selected by cfg.
func NewQueryService(cfg *config.Config) (repository.QueryService, error) {
	opts := []repository.Option{
		repository.WithTable(cfg.Table),
		repository.WithDialTimeout(cfg.DialTimeout()),
	}
	switch cfg.Backend {
	case config.BackendClickHouse:
		opts = append(opts,
			repository.WithAddr(cfg.ClickHouseAddr),
			repository.WithProtocol(repository.Protocol(cfg.ClickHouseProtocol)),
			repository.WithDatabase(cfg.ClickHouseDatabase),
			repository.WithCredentials(cfg.ClickHouseUsername, cfg.ClickHousePassword),
			repository.WithReadTimeout(cfg.QueryTimeout()),
		)
		return repository.NewClickHouse(opts...)
	case config.BackendSQLite:
		return repository.NewSQLite(cfg.SQLitePath, opts...)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", config.ErrInvalidConfig, cfg.Backend)
	}
}
