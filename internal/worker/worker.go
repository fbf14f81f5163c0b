package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tiendalabs/tienda/internal/telemetry"
)

// Job is a unit of background work. The context carries the pool's
// per-job timeout.
type Job func(ctx context.Context) error

// Config holds worker pool configuration
type Config struct {
	// WorkerID uniquely identifies this pool instance in logs
	WorkerID string

	// MaxConcurrency is the maximum number of jobs to process concurrently
	MaxConcurrency int

	// QueueSize is the submit buffer. Submit drops jobs once it is full.
	QueueSize int

	// JobTimeout bounds a single job's execution
	JobTimeout time.Duration
}

type queuedJob struct {
	name string
	run  Job
}

// Pool processes background jobs submitted by the services, such as
// order confirmation emails and session cleanup.
type Pool struct {
	config  Config
	jobs    chan queuedJob
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// NewPool creates a background job pool
func NewPool(config Config, metrics *telemetry.BusinessMetrics, logger *slog.Logger) *Pool {
	// Set defaults
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 5
	}
	if config.QueueSize == 0 {
		config.QueueSize = 100
	}
	if config.JobTimeout == 0 {
		config.JobTimeout = 30 * time.Second
	}

	return &Pool{
		config:  config,
		jobs:    make(chan queuedJob, config.QueueSize),
		metrics: metrics,
		logger:  logger,
	}
}

// Start runs the pool until the context is cancelled, then waits for
// in-flight jobs to finish.
func (p *Pool) Start(ctx context.Context) error {
	p.logger.Info("worker pool starting",
		"worker_id", p.config.WorkerID,
		"max_concurrency", p.config.MaxConcurrency,
		"queue_size", p.config.QueueSize,
	)

	for i := 0; i < p.config.MaxConcurrency; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx)
	}

	<-ctx.Done()
	p.logger.Info("worker pool shutting down", "worker_id", p.config.WorkerID)
	p.wg.Wait()
	return ctx.Err()
}

func (p *Pool) runWorker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.jobs:
			p.process(job)
		}
	}
}

// Submit enqueues a job for background execution. It never blocks; when
// the queue is full the job is dropped and logged.
func (p *Pool) Submit(name string, job Job) bool {
	select {
	case p.jobs <- queuedJob{name: name, run: job}:
		if p.metrics != nil {
			p.metrics.JobsEnqueued.Inc()
		}
		return true
	default:
		p.logger.Warn("job queue full, dropping job", "job", name)
		return false
	}
}

func (p *Pool) process(job queuedJob) {
	ctx, cancel := context.WithTimeout(context.Background(), p.config.JobTimeout)
	defer cancel()

	start := time.Now()
	err := job.run(ctx)
	elapsed := time.Since(start)

	if p.metrics != nil {
		p.metrics.JobDuration.Observe(elapsed.Seconds())
	}

	if err != nil {
		if p.metrics != nil {
			p.metrics.JobsFailed.Inc()
		}
		p.logger.Error("job failed",
			"job", job.name,
			"duration", elapsed,
			"error", err,
		)
		return
	}

	if p.metrics != nil {
		p.metrics.JobsProcessed.Inc()
	}
	p.logger.Debug("job completed", "job", job.name, "duration", elapsed)
}

// RunPeriodic submits job every interval until the context is cancelled.
func (p *Pool) RunPeriodic(ctx context.Context, name string, interval time.Duration, job Job) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Submit(name, job)
		}
	}
}
