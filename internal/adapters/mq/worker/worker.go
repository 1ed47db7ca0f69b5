// Package worker defines worker contracts for the asynchronous export
// render pipeline.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/stagescape/radial/internal/adapters/mq/queue"
	"github.com/stagescape/radial/pkg/logger"
	"github.com/stagescape/radial/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount    = 4
	workerShutdownTimeout = 5 * time.Second
)

// Job aliases the queue's job type for consumers of this package.
type Job = queue.Job

// Renderer produces one chart document for a job.
type Renderer interface {
	Render(ctx context.Context, job Job) (string, error)
}

// Sink persists a rendered document.
type Sink interface {
	Write(ctx context.Context, job Job, doc string) error
}

// JobQueue defines how workers receive jobs.
type JobQueue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker drains the queue, rendering and persisting each job.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing export jobs.
type InMemoryWorker struct {
	queue    JobQueue
	renderer Renderer
	sink     Sink
	name     string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q JobQueue, renderer Renderer, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		renderer: renderer,
		sink:     sink,
		name:     "worker", // default name
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	jobChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobChan:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing export job", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob renders and persists a single job.
func (w *InMemoryWorker) processJob(ctx context.Context, job Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordExportDuration(float64(time.Since(start).Milliseconds()))
	}()

	doc, err := w.renderer.Render(ctx, job)
	if err != nil {
		metrics.RecordExportError()
		metrics.RecordErrorByType("render_error", "high")
		w.logger.Error(ctx, "render failed for export job",
			logger.String("subject", job.Subject),
			logger.String("kind", job.Kind),
			logger.Error(err),
		)
		return fmt.Errorf("render %s/%s: %w", job.Subject, job.Kind, err)
	}

	if err := w.sink.Write(ctx, job, doc); err != nil {
		metrics.RecordExportError()
		metrics.RecordErrorByType("sink_error", "high")
		w.logger.Error(ctx, "persist failed for export job",
			logger.String("subject", job.Subject),
			logger.String("kind", job.Kind),
			logger.Error(err),
		)
		return fmt.Errorf("persist %s/%s: %w", job.Subject, job.Kind, err)
	}

	metrics.RecordExportCompleted()
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers  []*InMemoryWorker
	queue    JobQueue
	renderer Renderer
	sink     Sink

	// Shutdown control
	shutdown chan struct{}

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, q JobQueue, renderer Renderer, sink Sink) *Pool {
	if workerCount < 1 {
		workerCount = min(runtime.NumCPU(), defaultWorkerCount)
	}

	pool := &Pool{
		workers:  make([]*InMemoryWorker, workerCount),
		queue:    q,
		renderer: renderer,
		sink:     sink,
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			q,
			renderer,
			sink,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateExportWorkers(workerCount)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new jobs
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	close(p.shutdown)

	// Wait for all workers to finish or context to timeout
	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		case <-ctx.Done():
			return fmt.Errorf("pool shutdown: %w", ctx.Err())
		}
	}

	metrics.UpdateExportWorkers(0)
	return nil
}
