// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/ukestate/internal/domain/failure"
	"github.com/okian/ukestate/internal/domain/types"
	"github.com/okian/ukestate/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SalesDependencies
	NeighborhoodsDependencies
	HealthDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	salesHandler         *SalesHandler
	neighborhoodsHandler *NeighborhoodsHandler
	healthHandler        *HealthHandler
	statsHandler         *StatsHandler
	metricsHandler       http.Handler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		salesHandler:         NewSalesHandler(deps),
		neighborhoodsHandler: NewNeighborhoodsHandler(deps),
		healthHandler:        NewHealthHandler(deps),
		statsHandler:         NewStatsHandler(statsProvider),
		metricsHandler:       NewMetricsHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/sales-per-month", route(s.salesHandler.HandleSalesPerMonth, "sales_per_month"))
	mux.HandleFunc("/top-expensive-neighborhoods", route(s.neighborhoodsHandler.HandleTopNeighborhoods, "top_expensive_neighborhoods"))
	mux.HandleFunc("/health", route(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("/stats", route(s.statsHandler.HandleStats, "stats"))
	mux.Handle("/metrics", s.metricsHandler)
}

func route(h http.HandlerFunc, endpoint string) http.HandlerFunc {
	return RequestIDMiddleware(MetricsMiddleware(getOnly(h), endpoint))
}

// getOnly rejects every method but GET (and HEAD) with a JSON 405.
func getOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			writeError(w, http.StatusMethodNotAllowed, ErrMethodNotAllowed.Error())
			return
		}
		next(w, r)
	}
}

type errorResponse struct {
	Detail string `json:"detail"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeFailure maps an upstream error to its response by kind. Validation
// problems carry their own message; everything else is reported under the
// endpoint's detail prefix.
func writeFailure(w http.ResponseWriter, r *http.Request, prefix string, err error) {
	kind := failure.KindOf(err)
	logger.Get().Error(r.Context(), "request failed",
		logger.String("path", r.URL.Path),
		logger.String("kind", kind.String()),
		logger.String("request_id", RequestIDFromContext(r.Context())),
		logger.Error(err),
	)
	status := statusFor(kind)
	if status == http.StatusBadRequest {
		writeError(w, status, err.Error())
		return
	}
	writeError(w, status, fmt.Sprintf("%s: %v", prefix, err))
}

func statusFor(kind failure.Kind) int {
	switch kind {
	case failure.KindValidation:
		return http.StatusBadRequest
	case failure.KindConnection, failure.KindQuery, failure.KindUnknown:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// SalesDependencies exposes the monthly sales aggregate.
type SalesDependencies interface {
	SalesPerMonth(ctx context.Context) ([]types.MonthlySalesPoint, error)
}

// NeighborhoodsDependencies exposes the per-year neighborhood ranking.
type NeighborhoodsDependencies interface {
	TopExpensiveNeighborhoods(ctx context.Context, year types.Year) ([]types.NeighborhoodPriceSummary, error)
}

// HealthDependencies exposes the Query Service liveness probe.
type HealthDependencies interface {
	Health(ctx context.Context) error
}
