package api

import (
	"net/http"

	"github.com/okian/ukestate/internal/domain/types"
)

// SalesHandler handles monthly sales requests.
type SalesHandler struct {
	deps SalesDependencies
}

// NewSalesHandler creates a new monthly sales handler.
func NewSalesHandler(deps SalesDependencies) *SalesHandler {
	return &SalesHandler{deps: deps}
}

// HandleSalesPerMonth handles GET /sales-per-month requests.
func (h *SalesHandler) HandleSalesPerMonth(w http.ResponseWriter, r *http.Request) {
	points, err := h.deps.SalesPerMonth(r.Context())
	if err != nil {
		writeFailure(w, r, detailSalesPerMonth, err)
		return
	}
	if points == nil {
		points = []types.MonthlySalesPoint{}
	}
	writeJSON(w, http.StatusOK, points)
}
