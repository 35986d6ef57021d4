// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/kselvik/anemos/internal/domain/types"
)

// TimeseriesDependencies defines the interface for point sampling.
type TimeseriesDependencies interface {
	Sample(ctx context.Context, req types.SampleRequest) (types.Series, error)
}

// TimeseriesHandler serves speed/direction series at a grid point.
type TimeseriesHandler struct {
	deps TimeseriesDependencies
}

// NewTimeseriesHandler creates a new timeseries handler.
func NewTimeseriesHandler(deps TimeseriesDependencies) *TimeseriesHandler {
	return &TimeseriesHandler{deps: deps}
}

// HandleGetTimeseries handles GET /v1/timeseries requests.
// Query: lat, lon, height, from_year, to_year.
func (h *TimeseriesHandler) HandleGetTimeseries(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_timeseries"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	req, err := sampleRequestFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	series, err := h.deps.Sample(r.Context(), req)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}
