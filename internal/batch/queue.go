package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/exam-report-intake/constants"
	"github.com/joseph-ayodele/exam-report-intake/internal/common"
	"github.com/joseph-ayodele/exam-report-intake/internal/intake"
)

// Job is one report file to run through the pipeline.
type Job struct {
	Path        string
	Format      constants.ExamFormat
	SubmittedAt time.Time
	TraceID     string
}

// JobResult is reported once per processed job.
type JobResult struct {
	Job    Job
	Result *intake.Result
	Err    error
}

// Sink receives job results. It may be called concurrently from several workers.
type Sink func(JobResult)

// Queue runs independent intakes on a fixed pool of workers.
type Queue struct {
	proc     intake.Processor
	sink     Sink
	logger   *slog.Logger
	workers  int
	timeout  time.Duration
	maxBytes int64

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*Queue)

func WithWorkers(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.timeout = d
		}
	}
}
func WithMaxBytes(n int64) Option {
	return func(q *Queue) {
		if n > 0 {
			q.maxBytes = n
		}
	}
}

func NewQueue(proc intake.Processor, sink Sink, logger *slog.Logger, opts ...Option) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &Queue{
		proc:    proc,
		sink:    sink,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 64),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *Queue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)

				for job := range q.ch {
					res, err := q.process(job)
					if err != nil {
						q.logger.Error("processing failed", "worker_id", workerID, "path", job.Path, "trace_id", job.TraceID, "kind", common.KindOf(err), "error", err)
					} else {
						q.logger.Info("processed file successfully", "worker_id", workerID, "path", job.Path, "trace_id", job.TraceID)
					}
					if q.sink != nil {
						q.sink(JobResult{Job: job, Result: res, Err: err})
					}
				}

				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *Queue) process(job Job) (*intake.Result, error) {
	art, err := intake.ReadArtifact(job.Path, q.maxBytes)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()
	ctx = common.WithIntakeID(ctx, job.TraceID)
	ctx = common.WithLogger(ctx, q.logger.With("path", job.Path))
	return q.proc.Process(ctx, art, job.Format, nil)
}

// Enqueue adds a job, blocking while the buffer is full. A closed queue rejects jobs with ErrQueueClosed.
func (q *Queue) Enqueue(ctx context.Context, job Job) error {
	if job.TraceID == "" {
		job.TraceID = uuid.NewString()
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now().UTC()
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return ErrQueueClosed
	}
	select {
	case q.ch <- job:
		q.logger.Debug("queued file for processing", "path", job.Path, "trace_id", job.TraceID)
		return nil
	default:
	}
	q.logger.Warn("queue full, applying backpressure", "path", job.Path)
	select {
	case q.ch <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs and waits for the workers to drain the buffer.
func (q *Queue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
