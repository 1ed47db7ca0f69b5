// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stagescape/radial/internal/adapters/catalog"
	exportqueue "github.com/stagescape/radial/internal/adapters/mq/queue"
	workerpool "github.com/stagescape/radial/internal/adapters/mq/worker"
	"github.com/stagescape/radial/internal/adapters/render/svg"
	"github.com/stagescape/radial/internal/domain/interp"
	"github.com/stagescape/radial/internal/domain/layout"
	"github.com/stagescape/radial/internal/domain/playback"
	"github.com/stagescape/radial/pkg/logger"
	"github.com/stagescape/radial/pkg/metrics"
)

// renderAdapter adapts the service's chart rendering to worker.Renderer.
type renderAdapter struct {
	service *Service
}

func (a *renderAdapter) Render(ctx context.Context, job workerpool.Job) (string, error) {
	switch job.Kind {
	case "areas":
		return a.service.AreaChart(ctx, job.Subject)
	default:
		return a.service.RadarChart(ctx, job.Subject, "")
	}
}

// Service implements the API dependencies for the chart system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       catalog.Store
	renderer    *svg.Renderer
	exportQueue exportqueue.Queue
	exportSink  *workerpool.FileSink
	workerPool  *workerpool.Pool
	clocks      map[string]*playback.Clock

	// Configuration
	datasetPath     string
	canvasSize      float64
	chartRadius     float64
	tension         float64
	boundarySlices  int
	ghostTrail      int
	stepDuration    time.Duration
	exportDir       string
	exportQueueSize int
	exportWorkers   int

	// State
	started  bool
	stopping bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDatasetPath overrides the embedded catalog with a dataset file.
func WithDatasetPath(path string) Option {
	return func(s *Service) {
		s.datasetPath = path
	}
}

// WithCanvasSize sets the rendered document's square edge in pixels.
func WithCanvasSize(size float64) Option {
	return func(s *Service) {
		if size > 0 {
			s.canvasSize = size
		}
	}
}

// WithChartRadius sets the outer chart radius in pixels.
func WithChartRadius(radius float64) Option {
	return func(s *Service) {
		if radius > 0 {
			s.chartRadius = radius
		}
	}
}

// WithTension sets the spline tension for curve fitting.
func WithTension(t float64) Option {
	return func(s *Service) {
		if t > 0 {
			s.tension = t
		}
	}
}

// WithBoundarySlices sets the slice count for group boundary gradients.
func WithBoundarySlices(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.boundarySlices = n
		}
	}
}

// WithGhostTrail sets how many preceding snapshots fade behind a frame.
func WithGhostTrail(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.ghostTrail = n
		}
	}
}

// WithStepDuration sets how long playback dwells between two snapshots.
func WithStepDuration(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.stepDuration = d
		}
	}
}

// WithExportDir sets the directory export jobs render into.
func WithExportDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.exportDir = dir
		}
	}
}

// WithExportQueueSize sets the maximum size of the export queue.
func WithExportQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.exportQueueSize = size
		}
	}
}

// WithExportWorkers sets the number of export worker goroutines.
func WithExportWorkers(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.exportWorkers = count
		}
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
		canvasSize:      420,
		chartRadius:     160,
		tension:         0.35,
		boundarySlices:  6,
		ghostTrail:      3,
		stepDuration:    2 * time.Second,
		exportDir:       "export",
		exportQueueSize: 1024,
		exportWorkers:   4,
		clocks:          make(map[string]*playback.Clock),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting chart service...")

	var storeOpts []catalog.Option
	if s.datasetPath != "" {
		storeOpts = append(storeOpts, catalog.WithDatasetPath(s.datasetPath))
	}
	store, err := catalog.NewMemStore(storeOpts...)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	s.store = store

	s.renderer = svg.NewRenderer(s.store,
		svg.WithCanvasSize(s.canvasSize),
		svg.WithRadius(s.chartRadius),
		svg.WithTension(s.tension),
		svg.WithBoundarySlices(s.boundarySlices),
		svg.WithGhostTrail(s.ghostTrail),
	)

	sink, err := workerpool.NewFileSink(s.exportDir)
	if err != nil {
		return fmt.Errorf("open export dir: %w", err)
	}
	s.exportSink = sink
	s.exportQueue = exportqueue.NewInMemoryQueue(
		exportqueue.WithCapacity(s.exportQueueSize),
	)
	s.workerPool = workerpool.NewPool(s.exportWorkers, s.exportQueue, &renderAdapter{service: s}, s.exportSink)
	s.workerPool.Start(ctx)

	s.started = true
	metrics.UpdateCatalogSubjects(s.store.Count(ctx))
	metrics.UpdateExportWorkers(s.exportWorkers)
	s.logger.Info(ctx, "chart service started",
		logger.Int("subjects", s.store.Count(ctx)),
		logger.Int("exportWorkers", s.exportWorkers),
		logger.Int("exportQueueSize", s.exportQueueSize),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started || s.stopping {
		s.mu.Unlock()
		return
	}
	s.stopping = true
	pool := s.workerPool
	s.mu.Unlock()

	ctx := context.Background()
	s.logger.Info(ctx, "stopping chart service...")

	// Drain export jobs before taking the write lock; a render in
	// flight reads service state under the read lock.
	if pool != nil {
		_ = pool.Shutdown(ctx)
	}

	s.mu.Lock()
	for _, clk := range s.clocks {
		clk.Dispose()
	}
	s.clocks = make(map[string]*playback.Clock)
	s.started = false
	s.stopping = false
	s.mu.Unlock()

	metrics.UpdateActiveClocks(0)
	s.logger.Info(ctx, "chart service stopped")
}

// Subjects lists every subject known to the catalog.
func (s *Service) Subjects(ctx context.Context) ([]string, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.Subjects(ctx), nil
}

// RadarChart renders the radar document for one snapshot of a subject.
// An empty year selects the most recent snapshot.
func (s *Service) RadarChart(ctx context.Context, subject, year string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	series, err := s.store.Series(ctx, subject)
	if err != nil {
		return "", err
	}
	if len(series.Snapshots) == 0 {
		return "", fmt.Errorf("radar for %q: %w", subject, svg.ErrEmptySeries)
	}
	snap := series.Snapshots[len(series.Snapshots)-1]
	if year != "" {
		found := false
		for _, candidate := range series.Snapshots {
			if candidate.TimeLabel == year {
				snap = candidate
				found = true
				break
			}
		}
		if !found {
			return "", fmt.Errorf("%w: %q", ErrUnknownYear, year)
		}
	}
	title := fmt.Sprintf("%s (%s)", series.Subject, snap.TimeLabel)
	doc, err := s.renderer.Radar(title, snap.Scores)
	if err != nil {
		return "", fmt.Errorf("render radar for %q: %w", subject, err)
	}
	return doc, nil
}

// TimelapseChart renders the chart as it appears elapsed into the
// subject's playback loop.
func (s *Service) TimelapseChart(ctx context.Context, subject string, elapsed time.Duration) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	series, err := s.store.Series(ctx, subject)
	if err != nil {
		return "", err
	}
	clk, err := s.clockFor(subject, len(series.Snapshots))
	if err != nil {
		return "", err
	}
	doc, err := s.renderer.TimelapseFrame(series, clk.FrameAt(elapsed))
	if err != nil {
		return "", fmt.Errorf("render timelapse for %q: %w", subject, err)
	}
	return doc, nil
}

// AreaChart renders the per-group area triptych for a subject.
func (s *Service) AreaChart(ctx context.Context, subject string) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	series, err := s.store.Series(ctx, subject)
	if err != nil {
		return "", err
	}
	doc, err := s.renderer.AreaTriptych(series)
	if err != nil {
		return "", fmt.Errorf("render areas for %q: %w", subject, err)
	}
	return doc, nil
}

// Frame computes raw frame geometry for a subject at a playback offset.
func (s *Service) Frame(ctx context.Context, subject string, elapsed time.Duration) (layout.FrameGeometry, error) {
	if err := s.ready(); err != nil {
		return layout.FrameGeometry{}, err
	}
	series, err := s.store.Series(ctx, subject)
	if err != nil {
		return layout.FrameGeometry{}, err
	}
	clk, err := s.clockFor(subject, len(series.Snapshots))
	if err != nil {
		return layout.FrameGeometry{}, err
	}
	f := clk.FrameAt(elapsed)

	count := len(series.Snapshots)
	cur := series.Snapshots[f.Index]
	next := series.Snapshots[(f.Index+1)%count]
	vec, err := interp.Interpolate(cur.Scores, next.Scores, f.Fraction)
	if err != nil {
		return layout.FrameGeometry{}, fmt.Errorf("interpolate %q: %w", subject, err)
	}

	axes := s.store.Axes()
	half := s.canvasSize / 2
	center := layout.Point{X: half, Y: half}
	pts, err := layout.ProjectVector(center, s.chartRadius, axes, vec, s.store.Range(), true)
	if err != nil {
		return layout.FrameGeometry{}, fmt.Errorf("project %q: %w", subject, err)
	}

	scores := make(map[string]*float64, len(axes))
	for _, ax := range axes {
		if sc := vec[ax.Key]; sc.Valid {
			v := sc.Value
			scores[ax.Key] = &v
		} else {
			scores[ax.Key] = nil
		}
	}

	geom := layout.FrameGeometry{
		Subject:   series.Subject,
		TimeLabel: cur.TimeLabel,
		Index:     f.Index,
		Fraction:  f.Fraction,
		Scores:    scores,
		Points:    pts,
	}
	if next.TimeLabel != cur.TimeLabel {
		geom.NextLabel = next.TimeLabel
	}
	return geom, nil
}

// EnqueueExport submits a render job for asynchronous processing.
// Returns false when the export queue is full or closed.
func (s *Service) EnqueueExport(ctx context.Context, subject, kind string) bool {
	if s.ready() != nil {
		return false
	}
	ok := s.exportQueue.Enqueue(ctx, exportqueue.Job{Subject: subject, Kind: kind})
	if ok {
		metrics.UpdateExportQueueSize(s.exportQueue.Len(ctx))
	}
	return ok
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"exportWorkers":   s.exportWorkers,
		"exportQueueSize": s.exportQueueSize,
		"stepDurationMs":  s.stepDuration.Milliseconds(),
	}

	if s.started {
		queueLen := s.exportQueue.Len(ctx)
		subjects := s.store.Count(ctx)

		stats["exportQueueLength"] = queueLen
		stats["subjects"] = subjects
		stats["activeClocks"] = len(s.clocks)

		metrics.UpdateExportQueueSize(queueLen)
		metrics.UpdateCatalogSubjects(subjects)
		metrics.UpdateActiveClocks(len(s.clocks))
	}

	return stats
}

// ready reports whether Start has completed.
func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// clockFor returns the playback clock for a subject, creating it on
// first use. Clocks only resolve elapsed time here; nothing starts
// their emit loop.
func (s *Service) clockFor(subject string, snapshotCount int) (*playback.Clock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if clk, ok := s.clocks[subject]; ok {
		return clk, nil
	}
	clk, err := playback.NewClock(snapshotCount,
		playback.WithStepDuration(s.stepDuration),
	)
	if err != nil {
		return nil, fmt.Errorf("clock for %q: %w", subject, err)
	}
	s.clocks[subject] = clk
	metrics.UpdateActiveClocks(len(s.clocks))
	return clk, nil
}
