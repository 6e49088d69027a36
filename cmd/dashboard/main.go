package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/ukestate/internal/config"
	"github.com/okian/ukestate/internal/dashboard"
	"github.com/okian/ukestate/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		apiURL = flag.String("api-url", "", "Base URL of the API (overrides API_URL / UKESTATE_API_URL)")
		addr   = flag.String("addr", "", "Listen address (overrides UKESTATE_DASHBOARD_ADDR)")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return 1
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return 1
	}
	if *apiURL != "" {
		cfg.APIURL = *apiURL
	}
	if *addr != "" {
		cfg.DashboardAddr = *addr
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		_ = logger.SetLevelString("info")
	}
	log := logger.Named("dashboard")

	client, err := dashboard.NewClient(cfg.APIURL, dashboard.WithTimeout(cfg.HTTPTimeout()))
	if err != nil {
		log.Error(ctx, "invalid api url", logger.String("api_url", cfg.APIURL), logger.Error(err))
		return 1
	}
	handler, err := dashboard.NewHandler(client)
	if err != nil {
		log.Error(ctx, "failed to build dashboard", logger.Error(err))
		return 1
	}
	mux := http.NewServeMux()
	handler.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.DashboardAddr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting dashboard", logger.String("addr", cfg.DashboardAddr), logger.String("api_url", cfg.APIURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	code := 0
	select {
	case <-ctx.Done():
		log.Info(ctx, "shutting down dashboard...")
	case err := <-serveErr:
		if err != nil {
			log.Error(ctx, "dashboard server failed", logger.Error(err))
			code = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "dashboard shutdown failed", logger.Error(err))
	}
	return code
}
