// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/kselvik/anemos/internal/domain/energy"
	"github.com/kselvik/anemos/internal/domain/model"
)

// AEPDependencies defines the interface for synchronous AEP estimates.
type AEPDependencies interface {
	EvaluateJob(ctx context.Context, job model.Job) (model.SiteAEP, error)
}

// AEPHandler serves one-off AEP estimates without touching the ranking.
type AEPHandler struct {
	deps AEPDependencies
}

// NewAEPHandler creates a new AEP handler.
func NewAEPHandler(deps AEPDependencies) *AEPHandler {
	return &AEPHandler{deps: deps}
}

type aepResponse struct {
	AEPMWh       float64 `json:"aep_mwh"`
	Curve        string  `json:"curve"`
	HubHeight    float64 `json:"hub_height_m"`
	RefHeight    float64 `json:"ref_height_m"`
	Extrapolated bool    `json:"extrapolated"`
	Year         int     `json:"year"`
}

// HandleGetAEP handles GET /v1/aep requests.
// Query: lat, lon, hub_height, curve, year.
func (h *AEPHandler) HandleGetAEP(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_aep"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	lat, err := parseFloatParam(q, "lat")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	lon, err := parseFloatParam(q, "lon")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	hubHeight, err := parseFloatParam(q, "hub_height")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	year, err := parseIntParam(q, "year")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	job := model.Job{
		JobID:     "adhoc-" + uuid.NewString(),
		SiteID:    "adhoc",
		Lat:       lat,
		Lon:       lon,
		HubHeight: hubHeight,
		CurveName: q.Get("curve"),
		Year:      year,
	}
	if err := job.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	result, err := h.deps.EvaluateJob(r.Context(), job)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}

	ref := energy.RefHeight(hubHeight)
	writeJSON(w, http.StatusOK, aepResponse{
		AEPMWh:       result.AEPMWh,
		Curve:        result.CurveName,
		HubHeight:    result.HubHeight,
		RefHeight:    ref.Meters(),
		Extrapolated: hubHeight != ref.Meters(),
		Year:         result.Year,
	})
}
