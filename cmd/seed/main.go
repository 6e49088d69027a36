package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/ukestate/internal/adapters/repository"
	"github.com/okian/ukestate/internal/config"
	"github.com/okian/ukestate/internal/domain/types"
	"github.com/okian/ukestate/internal/fixtures"
	"github.com/okian/ukestate/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		path   = flag.String("db", "", "SQLite database file (overrides UKESTATE_SQLITE_PATH)")
		seed   = flag.Uint64("seed", fixtures.DefaultSeed, "Random seed")
		from   = flag.Int("from", types.FirstYear, "First year to generate")
		to     = flag.Int("to", types.LastYear, "Last year to generate")
		volume = flag.Int("volume", fixtures.DefaultSalesPerShare, "Monthly sales per neighborhood share")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	log := logger.Named("seed")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}
	if *path != "" {
		cfg.SQLitePath = *path
	}

	db, err := repository.NewSQLite(cfg.SQLitePath, repository.WithTable(cfg.Table))
	if err != nil {
		log.Error(ctx, "invalid sqlite settings", logger.Error(err))
		return 1
	}
	if err := db.Open(ctx); err != nil {
		log.Error(ctx, "open sqlite", logger.String("path", cfg.SQLitePath), logger.Error(err))
		return 1
	}
	defer func() { _ = db.Close() }()

	records, err := fixtures.Generate(ctx,
		fixtures.WithSeed(*seed),
		fixtures.WithYears(types.Year(*from), types.Year(*to)),
		fixtures.WithSalesPerShare(*volume),
	)
	if err != nil {
		log.Error(ctx, "generate fixtures", logger.Error(err))
		return 1
	}
	if err := db.Load(ctx, records); err != nil {
		log.Error(ctx, "load fixtures", logger.Error(err))
		return 1
	}
	log.Info(ctx, "seeded database", logger.String("path", cfg.SQLitePath), logger.Int("records", len(records)))
	return 0
}
