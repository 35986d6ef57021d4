// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kselvik/anemos/internal/domain/dedupe"
	"github.com/kselvik/anemos/internal/domain/model"
)

// ScreeningDependencies defines the interface for screening submission.
type ScreeningDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, job model.Job) bool
}

// ScreeningsHandler accepts screening jobs for asynchronous evaluation.
type ScreeningsHandler struct {
	deps ScreeningDependencies
}

// NewScreeningsHandler creates a new screenings handler.
func NewScreeningsHandler(deps ScreeningDependencies) *ScreeningsHandler {
	return &ScreeningsHandler{deps: deps}
}

// screeningRequest mirrors the OpenAPI schema for POST /v1/screenings.
type screeningRequest struct {
	JobID     string  `json:"job_id"`
	SiteID    string  `json:"site_id"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	HubHeight float64 `json:"hub_height_m"`
	Curve     string  `json:"curve"`
	Year      int     `json:"year"`
}

func (s screeningRequest) job() model.Job {
	return model.Job{
		JobID:     s.JobID,
		SiteID:    s.SiteID,
		Lat:       s.Lat,
		Lon:       s.Lon,
		HubHeight: s.HubHeight,
		CurveName: s.Curve,
		Year:      s.Year,
	}
}

// HandlePostScreening handles POST /v1/screenings requests.
func (h *ScreeningsHandler) HandlePostScreening(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_screening"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req screeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	job := req.job()
	if err := job.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), job.JobID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	// Try to enqueue for async processing
	if ok := h.deps.Enqueue(r.Context(), job); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), job.JobID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
