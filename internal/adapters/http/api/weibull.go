// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/kselvik/anemos/internal/domain/types"
	"github.com/kselvik/anemos/internal/domain/weibull"
)

// WeibullDependencies defines the interface for distribution fitting.
type WeibullDependencies interface {
	FitWeibull(ctx context.Context, req types.SampleRequest) (weibull.Params, int, error)
}

// WeibullHandler serves Weibull fits of point wind speed series.
type WeibullHandler struct {
	deps WeibullDependencies
}

// NewWeibullHandler creates a new weibull handler.
func NewWeibullHandler(deps WeibullDependencies) *WeibullHandler {
	return &WeibullHandler{deps: deps}
}

// weibullResponse carries the fit. A and K are omitted for degenerate
// fits: NaN does not survive JSON and a point mass is not a distribution.
type weibullResponse struct {
	A          *float64 `json:"a,omitempty"`
	K          *float64 `json:"k,omitempty"`
	MeanSpeed  *float64 `json:"mean_speed,omitempty"`
	Degenerate bool     `json:"degenerate"`
	Samples    int      `json:"samples"`
}

// HandleGetWeibull handles GET /v1/weibull requests.
// Query: lat, lon, height, from_year, to_year.
func (h *WeibullHandler) HandleGetWeibull(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_weibull"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	req, err := sampleRequestFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	fit, n, err := h.deps.FitWeibull(r.Context(), req)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}

	resp := weibullResponse{Degenerate: fit.Degenerate(), Samples: n}
	if !resp.Degenerate {
		a, k, mean := fit.A, fit.K, fit.Mean()
		resp.A, resp.K, resp.MeanSpeed = &a, &k, &mean
	}
	writeJSON(w, http.StatusOK, resp)
}
