// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/kselvik/anemos/internal/adapters/render"
	"github.com/kselvik/anemos/internal/domain/types"
	"github.com/kselvik/anemos/internal/domain/weibull"
)

// PlotDependencies defines the interface for plot data reads.
type PlotDependencies interface {
	Sample(ctx context.Context, req types.SampleRequest) (types.Series, error)
}

// PlotsHandler renders wind statistics charts as PNG images.
type PlotsHandler struct {
	deps    PlotDependencies
	bins    int
	sectors int
}

// NewPlotsHandler creates a new plots handler.
func NewPlotsHandler(deps PlotDependencies, bins, sectors int) *PlotsHandler {
	return &PlotsHandler{
		deps:    deps,
		bins:    bins,
		sectors: sectors,
	}
}

// HandleHistogram handles GET /v1/plots/histogram.png requests.
// Query: lat, lon, height, from_year, to_year, bins (optional).
func (h *PlotsHandler) HandleHistogram(w http.ResponseWriter, r *http.Request) {
	const op = "api.plot_histogram"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	req, err := sampleRequestFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	bins := h.bins
	if raw := r.URL.Query().Get("bins"); raw != "" {
		if bins, err = parseIntParam(r.URL.Query(), "bins"); err != nil || bins < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}

	series, err := h.deps.Sample(r.Context(), req)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}
	fit := weibull.Fit(series.Speed)

	title := fmt.Sprintf("Wind speed at %.3f, %.3f (%s)", req.Lat, req.Lon, req.Height)
	h.servePNG(w, r, op, func(path string) error {
		return render.SpeedHistogram(path, series.Speed, fit, render.HistogramOptions{
			Bins:  bins,
			Title: title,
		})
	})
}

// HandleWindRose handles GET /v1/plots/windrose.png requests.
// Query: lat, lon, height, from_year, to_year, sectors (optional).
func (h *PlotsHandler) HandleWindRose(w http.ResponseWriter, r *http.Request) {
	const op = "api.plot_windrose"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	req, err := sampleRequestFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	sectors := h.sectors
	if raw := r.URL.Query().Get("sectors"); raw != "" {
		if sectors, err = parseIntParam(r.URL.Query(), "sectors"); err != nil || sectors < 4 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
	}

	series, err := h.deps.Sample(r.Context(), req)
	if err != nil {
		writeDomainError(w, op, err)
		return
	}

	title := fmt.Sprintf("Wind rose at %.3f, %.3f (%s)", req.Lat, req.Lon, req.Height)
	h.servePNG(w, r, op, func(path string) error {
		return render.WindRose(path, series.Dir, render.RoseOptions{
			Sectors: sectors,
			Title:   title,
		})
	})
}

// servePNG renders into a temp file and streams it back. Rendering goes
// through the filesystem because the plot backend only writes files.
func (h *PlotsHandler) servePNG(w http.ResponseWriter, r *http.Request, op string, renderTo func(path string) error) {
	path := filepath.Join(os.TempDir(), "anemos-plot-"+uuid.NewString()+".png")
	defer func() { _ = os.Remove(path) }()

	if err := renderTo(path); err != nil {
		writeError(w, http.StatusInternalServerError, "render_error", Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, path)
}
