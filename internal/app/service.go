// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kselvik/anemos/internal/adapters/gridstore"
	jobqueue "github.com/kselvik/anemos/internal/adapters/mq/queue"
	workerpool "github.com/kselvik/anemos/internal/adapters/mq/worker"
	"github.com/kselvik/anemos/internal/adapters/ranking"
	"github.com/kselvik/anemos/internal/adapters/turbine"
	"github.com/kselvik/anemos/internal/domain/dedupe"
	"github.com/kselvik/anemos/internal/domain/energy"
	"github.com/kselvik/anemos/internal/domain/model"
	"github.com/kselvik/anemos/internal/domain/types"
	"github.com/kselvik/anemos/internal/domain/weibull"
	"github.com/kselvik/anemos/internal/domain/wind"
	"github.com/kselvik/anemos/pkg/logger"
	"github.com/kselvik/anemos/pkg/metrics"
)

// Exporter mirrors the warehouse exporter so the warehouse stays optional.
type Exporter interface {
	Export(ctx context.Context, results []model.SiteAEP) error
	Close() error
}

// Service owns the wind dataset, the turbine curves and the screening
// pipeline, and implements the dependencies of the HTTP API.
type Service struct {
	mu sync.RWMutex

	// Core components
	grid       *gridstore.Store
	curves     *turbine.Registry
	rankings   ranking.Store
	deduper    dedupe.Deduper
	jobQueue   jobqueue.Queue
	workerPool *workerpool.Pool
	exporter   Exporter

	// Configuration
	gridGlob    string
	curvesDir   string
	shearAlpha  float64
	stepHours   float64
	workerCount int
	queueSize   int
	dedupeSize  int

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGridGlob sets the glob matching the NetCDF grid files to load.
func WithGridGlob(glob string) Option {
	return func(s *Service) {
		if glob != "" {
			s.gridGlob = glob
		}
	}
}

// WithCurvesDir sets the directory holding power curve CSV files.
func WithCurvesDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.curvesDir = dir
		}
	}
}

// WithShearAlpha sets the power-law exponent for vertical extrapolation.
func WithShearAlpha(alpha float64) Option {
	return func(s *Service) {
		if alpha > 0 {
			s.shearAlpha = alpha
		}
	}
}

// WithStepHours sets the expected sampling interval of the grid data.
func WithStepHours(h float64) Option {
	return func(s *Service) {
		if h > 0 {
			s.stepHours = h
		}
	}
}

// WithWorkerCount sets the number of screening workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the screening job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithExporter attaches a warehouse exporter for completed screenings.
func WithExporter(e Exporter) Option {
	return func(s *Service) {
		s.exporter = e
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		gridGlob:    "data/*.nc",
		curvesDir:   "data/curves",
		shearAlpha:  wind.DefaultAlpha,
		stepHours:   1.0,
		workerCount: 0, // worker pool picks its CPU-scaled default
		queueSize:   100000,
		dedupeSize:  50000,
		stopCh:      make(chan struct{}),
		logger:      nil, // replaced when the service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads the dataset and curve registry and starts the screening
// pipeline. Loading is eager: a service that starts can answer queries.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting wind screening service...")

	s.grid = gridstore.New(gridstore.WithGlob(s.gridGlob))
	if err := s.grid.Load(ctx); err != nil {
		return fmt.Errorf("load grid data: %w", err)
	}

	s.curves = turbine.NewRegistry(s.curvesDir)
	if err := s.curves.Load(ctx); err != nil {
		return fmt.Errorf("load power curves: %w", err)
	}

	s.rankings = ranking.NewTreapStore(ctx)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
		jobqueue.WithBufferSize(s.queueSize),
	)

	var updater workerpool.Updater = s.rankings
	if s.exporter != nil {
		updater = &exportingUpdater{next: s.rankings, exporter: s.exporter, logger: s.logger}
	}
	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, s, updater)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "wind screening service started",
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("curves", s.curves.Count()),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping wind screening service...")

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	if q, ok := s.jobQueue.(*jobqueue.InMemoryQueue); ok && !q.IsClosed() {
		_ = q.Close()
	}

	if closer, ok := s.rankings.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	if s.exporter != nil {
		if err := s.exporter.Close(); err != nil {
			s.logger.Warn(ctx, "closing exporter", logger.Error(err))
		}
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(ctx, "wind screening service stopped")
}

// Bounds returns the loaded dataset's spatial and temporal extent.
func (s *Service) Bounds(ctx context.Context) (types.GridBounds, error) {
	return s.grid.Bounds()
}

// CurveNames returns the registered power curve names, sorted.
func (s *Service) CurveNames() []string {
	return s.curves.Names()
}

// Sample returns the speed/direction time series at a point.
func (s *Service) Sample(ctx context.Context, req types.SampleRequest) (types.Series, error) {
	return s.grid.Sample(ctx, req)
}

// FitWeibull samples a point and fits a Weibull distribution to its wind
// speeds. The returned count is the number of samples fitted.
func (s *Service) FitWeibull(ctx context.Context, req types.SampleRequest) (weibull.Params, int, error) {
	series, err := s.grid.Sample(ctx, req)
	if err != nil {
		return weibull.Params{}, 0, err
	}
	fit := weibull.Fit(series.Speed)
	metrics.RecordWeibullFit()
	if fit.Degenerate() {
		metrics.RecordDegenerateFit()
	}
	return fit, series.Len(), nil
}

// EvaluateJob estimates the annual energy production for one screening
// job: sample the reference level, extrapolate to hub height, map speeds
// through the turbine's power curve and integrate.
func (s *Service) EvaluateJob(ctx context.Context, job workerpool.Job) (model.SiteAEP, error) {
	start := time.Now()

	curve, err := s.curves.Curve(job.CurveName)
	if err != nil {
		return model.SiteAEP{}, err
	}

	ref := energy.RefHeight(job.HubHeight)
	series, err := s.grid.Sample(ctx, types.SampleRequest{
		Lat:      job.Lat,
		Lon:      job.Lon,
		Height:   ref,
		FromYear: job.Year,
		ToYear:   job.Year,
	})
	if err != nil {
		return model.SiteAEP{}, err
	}

	if err := energy.ValidateStep(series.Times, s.stepHours); err != nil {
		return model.SiteAEP{}, err
	}

	hubSpeeds := wind.PowerLawSeries(series.Speed, ref.Meters(), job.HubHeight, s.shearAlpha)
	powers := curve.PowerSeries(hubSpeeds)
	aep := energy.AEP(powers, s.stepHours)

	metrics.RecordAEPComputation()
	metrics.RecordAEPLatency(float64(time.Since(start).Milliseconds()))

	return model.SiteAEP{
		SiteID:     job.SiteID,
		AEPMWh:     aep,
		CurveName:  curve.Name(),
		HubHeight:  job.HubHeight,
		Year:       job.Year,
		ComputedAt: time.Now().UTC(),
	}, nil
}

// SeenAndRecord atomically checks if a job id was seen and records it if
// not. Returns true if the job was already seen, false if newly recorded.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordJobDuplicate()
	}
	return seen
}

// Unrecord removes a job ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits a screening job for asynchronous processing. It returns
// false when the queue is full or stopped; the caller owns the dedupe
// rollback in that case.
func (s *Service) Enqueue(ctx context.Context, job model.Job) bool {
	ok := s.jobQueue.Enqueue(ctx, job)
	if ok {
		metrics.UpdateQueueSize(s.jobQueue.Len(ctx))
	}
	return ok
}

// TopN returns the top N ranked sites by best AEP.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	return s.rankings.TopN(ctx, n)
}

// Rank returns the rank entry for a given site id.
func (s *Service) Rank(ctx context.Context, siteID string) (types.Entry, error) {
	return s.rankings.Rank(ctx, siteID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":    s.started,
		"queueSize":  s.queueSize,
		"dedupeSize": s.dedupeSize,
		"stepHours":  s.stepHours,
		"shearAlpha": s.shearAlpha,
	}

	if s.started {
		queueLen := s.jobQueue.Len(ctx)
		rankedSites := s.rankings.Count(ctx)

		stats["workerCount"] = s.workerPool.Size()
		stats["queueLength"] = queueLen
		stats["rankedSites"] = rankedSites
		stats["curves"] = s.curves.Names()

		if bounds, err := s.grid.Bounds(); err == nil {
			stats["gridSteps"] = bounds.Steps
		}

		// Update metrics
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateRankedSites(rankedSites)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// exportingUpdater records results in the ranking store and mirrors them
// to the warehouse. Export failures are logged, never fatal: the ranking
// is the source of truth for the API.
type exportingUpdater struct {
	next     ranking.Store
	exporter Exporter
	logger   logger.Logger
}

func (u *exportingUpdater) UpdateBest(ctx context.Context, result model.SiteAEP) (bool, error) {
	improved, err := u.next.UpdateBest(ctx, result)
	if err != nil {
		return improved, err
	}
	if err := u.exporter.Export(ctx, []model.SiteAEP{result}); err != nil {
		u.logger.Warn(ctx, "warehouse export failed",
			logger.String("siteID", result.SiteID),
			logger.Error(err),
		)
	}
	return improved, nil
}
