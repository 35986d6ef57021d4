// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/kselvik/anemos/internal/domain/types"
)

// GridDependencies defines the interface for dataset metadata reads.
type GridDependencies interface {
	Bounds(ctx context.Context) (types.GridBounds, error)
	CurveNames() []string
}

// GridHandler serves the loaded dataset's extent and the available curves.
type GridHandler struct {
	deps GridDependencies
}

// NewGridHandler creates a new grid handler.
func NewGridHandler(deps GridDependencies) *GridHandler {
	return &GridHandler{deps: deps}
}

type gridResponse struct {
	types.GridBounds
	Curves []string `json:"curves"`
}

// HandleGetGrid handles GET /v1/grid requests.
func (h *GridHandler) HandleGetGrid(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_grid"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	bounds, err := h.deps.Bounds(r.Context())
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, gridResponse{
		GridBounds: bounds,
		Curves:     h.deps.CurveNames(),
	})
}
