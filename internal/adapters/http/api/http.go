// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/kselvik/anemos/internal/adapters/gridstore"
	"github.com/kselvik/anemos/internal/adapters/ranking"
	"github.com/kselvik/anemos/internal/adapters/turbine"
	"github.com/kselvik/anemos/internal/domain/dedupe"
	"github.com/kselvik/anemos/internal/domain/energy"
	"github.com/kselvik/anemos/internal/domain/model"
	"github.com/kselvik/anemos/internal/domain/types"
	"github.com/kselvik/anemos/internal/domain/weibull"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a screening job for async processing. Returns false
	// on backpressure.
	Enqueue(ctx context.Context, job model.Job) bool

	// Dataset and assessment reads.
	Bounds(ctx context.Context) (types.GridBounds, error)
	CurveNames() []string
	Sample(ctx context.Context, req types.SampleRequest) (types.Series, error)
	FitWeibull(ctx context.Context, req types.SampleRequest) (weibull.Params, int, error)
	EvaluateJob(ctx context.Context, job model.Job) (model.SiteAEP, error)

	// Ranking reads.
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, siteID string) (Entry, error)
}

// Entry mirrors the read shape returned by ranking queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	gridHandler       *GridHandler
	timeseriesHandler *TimeseriesHandler
	weibullHandler    *WeibullHandler
	aepHandler        *AEPHandler
	screeningsHandler *ScreeningsHandler
	sitesHandler      *SitesHandler
	plotsHandler      *PlotsHandler
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	maxTopLimit   int
	histogramBins int
	roseSectors   int
}

// WithMaxTopLimit caps GET /v1/sites/top?limit.
func WithMaxTopLimit(n int) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxTopLimit = n
		}
	}
}

// WithHistogramBins sets the default histogram bin count for plots.
func WithHistogramBins(n int) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.histogramBins = n
		}
	}
}

// WithRoseSectors sets the default wind rose sector count for plots.
func WithRoseSectors(n int) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.roseSectors = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	cfg := &serverConfig{
		maxTopLimit:   100,
		histogramBins: 30,
		roseSectors:   16,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		gridHandler:       NewGridHandler(deps),
		timeseriesHandler: NewTimeseriesHandler(deps),
		weibullHandler:    NewWeibullHandler(deps),
		aepHandler:        NewAEPHandler(deps),
		screeningsHandler: NewScreeningsHandler(deps),
		sitesHandler:      NewSitesHandler(deps, cfg.maxTopLimit),
		plotsHandler:      NewPlotsHandler(deps, cfg.histogramBins, cfg.roseSectors),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/grid", MetricsMiddleware(s.gridHandler.HandleGetGrid, "grid"))
	mux.HandleFunc("/v1/timeseries", MetricsMiddleware(s.timeseriesHandler.HandleGetTimeseries, "timeseries"))
	mux.HandleFunc("/v1/weibull", MetricsMiddleware(s.weibullHandler.HandleGetWeibull, "weibull"))
	mux.HandleFunc("/v1/aep", MetricsMiddleware(s.aepHandler.HandleGetAEP, "aep"))
	mux.HandleFunc("/v1/screenings", MetricsMiddleware(s.screeningsHandler.HandlePostScreening, "screenings"))
	mux.HandleFunc("/v1/sites/top", MetricsMiddleware(s.sitesHandler.HandleGetTop, "sites_top"))
	mux.HandleFunc("/v1/sites/", MetricsMiddleware(s.sitesHandler.HandleGetSite, "sites_rank"))
	mux.HandleFunc("/v1/plots/histogram.png", MetricsMiddleware(s.plotsHandler.HandleHistogram, "plot_histogram"))
	mux.HandleFunc("/v1/plots/windrose.png", MetricsMiddleware(s.plotsHandler.HandleWindRose, "plot_windrose"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps assessment errors to HTTP statuses: missing data
// and step mismatches are the client's problem (422), unknown curves 400,
// unknown sites 404, anything else 500.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, gridstore.ErrDataUnavailable):
		writeError(w, http.StatusUnprocessableEntity, "data_unavailable", Wrap(op, err))
	case errors.Is(err, energy.ErrStepMismatch):
		writeError(w, http.StatusUnprocessableEntity, "step_mismatch", Wrap(op, err))
	case errors.Is(err, turbine.ErrUnknownCurve):
		writeError(w, http.StatusBadRequest, "unknown_curve", Wrap(op, err))
	case errors.Is(err, ranking.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// sampleRequestFromQuery parses lat, lon, height, from_year and to_year.
func sampleRequestFromQuery(q url.Values) (types.SampleRequest, error) {
	lat, err := parseFloatParam(q, "lat")
	if err != nil {
		return types.SampleRequest{}, err
	}
	lon, err := parseFloatParam(q, "lon")
	if err != nil {
		return types.SampleRequest{}, err
	}
	height, err := parseFloatParam(q, "height")
	if err != nil {
		return types.SampleRequest{}, err
	}
	fromYear, err := parseIntParam(q, "from_year")
	if err != nil {
		return types.SampleRequest{}, err
	}
	toYear, err := parseIntParam(q, "to_year")
	if err != nil {
		return types.SampleRequest{}, err
	}
	if toYear < fromYear {
		return types.SampleRequest{}, fmt.Errorf("to_year %d before from_year %d", toYear, fromYear)
	}
	return types.SampleRequest{
		Lat:      lat,
		Lon:      lon,
		Height:   types.Height(height),
		FromYear: fromYear,
		ToYear:   toYear,
	}, nil
}

func parseFloatParam(q url.Values, name string) (float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, nil
}

func parseIntParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, nil
}
