// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// SiteDependencies defines the interface for ranking reads.
type SiteDependencies interface {
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, siteID string) (Entry, error)
}

// SitesHandler serves ranked site queries.
type SitesHandler struct {
	deps     SiteDependencies
	maxLimit int
}

// NewSitesHandler creates a new sites handler.
func NewSitesHandler(deps SiteDependencies, maxLimit int) *SitesHandler {
	return &SitesHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetTop handles GET /v1/sites/top?limit=N requests.
func (h *SitesHandler) HandleGetTop(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_top_sites"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	entries, err := h.deps.TopN(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetSite handles GET /v1/sites/{site_id} requests.
func (h *SitesHandler) HandleGetSite(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_site_rank"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /v1/sites/
	siteID := strings.TrimPrefix(r.URL.Path, "/v1/sites/")
	if siteID == "" || strings.Contains(siteID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.Rank(r.Context(), siteID)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
