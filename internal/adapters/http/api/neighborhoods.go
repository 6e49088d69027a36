package api

import (
	"net/http"

	"github.com/okian/ukestate/internal/domain/failure"
	"github.com/okian/ukestate/internal/domain/types"
)

// yearParam names the query parameter holding the four-digit year.
const yearParam = "date"

// NeighborhoodsHandler handles neighborhood ranking requests.
type NeighborhoodsHandler struct {
	deps NeighborhoodsDependencies
}

// NewNeighborhoodsHandler creates a new neighborhood ranking handler.
func NewNeighborhoodsHandler(deps NeighborhoodsDependencies) *NeighborhoodsHandler {
	return &NeighborhoodsHandler{deps: deps}
}

// HandleTopNeighborhoods handles GET /top-expensive-neighborhoods?date=YYYY.
func (h *NeighborhoodsHandler) HandleTopNeighborhoods(w http.ResponseWriter, r *http.Request) {
	const op = "api.top_expensive_neighborhoods"
	year, err := types.ParseYear(r.URL.Query().Get(yearParam))
	if err != nil {
		writeFailure(w, r, detailTopNeighborhoods, failure.Validation(op, err))
		return
	}
	out, err := h.deps.TopExpensiveNeighborhoods(r.Context(), year)
	if err != nil {
		writeFailure(w, r, detailTopNeighborhoods, err)
		return
	}
	if out == nil {
		out = []types.NeighborhoodPriceSummary{}
	}
	writeJSON(w, http.StatusOK, out)
}
