// Package worker runs quote jobs on a fixed pool of goroutines fed by a
// bounded queue. It backs batch quoting: each job is one independent
// engine call, and results come back in submission order.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/banquet/internal/adapters/mq/queue"
	"github.com/okian/banquet/internal/domain/model"
	"github.com/okian/banquet/internal/domain/rules"
	"github.com/okian/banquet/pkg/logger"
	"github.com/okian/banquet/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Processor computes one quote.
type Processor interface {
	Process(ctx context.Context, in model.EventInput, rs rules.RuleSet) (model.EventFinancials, error)
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, in model.EventInput, rs rules.RuleSet) (model.EventFinancials, error)

// Process implements Processor.
func (f ProcessorFunc) Process(ctx context.Context, in model.EventInput, rs rules.RuleSet) (model.EventFinancials, error) {
	return f(ctx, in, rs)
}

// Job is one unit of work. Index is the job's position in its batch.
type Job struct {
	Index int
	Input model.EventInput
	Rules rules.RuleSet

	ctx   context.Context
	reply chan<- Result
}

// Result is the outcome of one job.
type Result struct {
	Index      int
	Financials model.EventFinancials
	Err        error
	Duration   time.Duration
}

// Worker consumes jobs from the queue until it is closed or ctx ends.
type Worker struct {
	queue queue.Queue[Job]
	proc  Processor
	name  string

	done   chan struct{}
	logger logger.Logger
}

// NewWorker creates a worker reading from q.
func NewWorker(q queue.Queue[Job], proc Processor, opts ...Option) *Worker {
	w := &Worker{
		queue:  q,
		proc:   proc,
		name:   "worker",
		done:   make(chan struct{}),
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run processes jobs until the queue is closed and drained or ctx ends.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			res := w.process(job)
			if job.reply != nil {
				job.reply <- res
			}
		}
	}
}

// Done is closed when Run returns.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

func (w *Worker) process(job Job) Result {
	metrics.AddWorkerActive(1)
	defer metrics.AddWorkerActive(-1)

	start := time.Now()
	res := Result{Index: job.Index}
	if job.ctx == nil {
		job.ctx = context.Background()
	}

	// The submitter may have given up; its context travels with the job.
	if err := job.ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	fin, err := w.safeProcess(job)
	res.Duration = time.Since(start)
	metrics.RecordWorkerLatency(float64(res.Duration.Microseconds()) / 1000)

	if err != nil {
		metrics.RecordErrorByComponent("worker", "process_error")
		w.logger.Debug(job.ctx, "job failed", logger.Int("index", job.Index), logger.Error(err))
		res.Err = err
		return res
	}
	res.Financials = fin
	return res
}

// safeProcess converts a panicking processor into an error so one bad job
// cannot take the pool down.
func (w *Worker) safeProcess(job Job) (fin model.EventFinancials, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
			w.logger.Error(job.ctx, "job panicked", logger.Int("index", job.Index), logger.Any("panic", r))
		}
	}()
	return w.proc.Process(job.ctx, job.Input, job.Rules)
}

// Pool manages a fixed set of workers and their queue.
type Pool struct {
	workers []*Worker
	queue   *queue.InMemoryQueue[Job]

	startOnce sync.Once
	logger    logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one uses
// runtime.NumCPU().
func NewPool(workerCount int, proc Processor, opts ...PoolOption) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	cfg := poolConfig{queueCapacity: workerCount * 64, logger: logger.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Pool{
		workers: make([]*Worker, workerCount),
		queue:   queue.NewInMemoryQueue[Job](queue.WithCapacity(cfg.queueCapacity)),
		logger:  cfg.logger.Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewWorker(p.queue, proc, WithName("worker-"+strconv.Itoa(i)), WithLogger(cfg.logger))
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// QueueCap returns the largest batch the pool can accept at once.
func (p *Pool) QueueCap() int {
	return p.queue.Cap()
}

// QueueLen returns the number of jobs waiting for a worker.
func (p *Pool) QueueLen(ctx context.Context) int {
	return p.queue.Len(ctx)
}

// Start launches the workers. Calling it more than once has no effect.
func (p *Pool) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		for _, w := range p.workers {
			go w.Run(ctx)
		}
		p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)), logger.Int("queue_capacity", p.queue.Cap()))
	})
}

// Submit queues the whole batch or none of it, then returns results in job
// order. A batch that does not fit in the free queue capacity fails with
// ErrBackpressure, and one submitted after Shutdown with ErrStopped. Once
// queued, per-job failures are reported in the results; Submit fails only
// when ctx ends before every result is in.
func (p *Pool) Submit(ctx context.Context, jobs []Job) ([]Result, error) {
	if len(jobs) == 0 {
		return []Result{}, nil
	}

	reply := make(chan Result, len(jobs))
	batch := make([]Job, len(jobs))
	for i, job := range jobs {
		job.Index = i
		job.ctx = ctx
		job.reply = reply
		batch[i] = job
	}
	if err := p.queue.EnqueueAll(ctx, batch); err != nil {
		return nil, enqueueError(err)
	}

	results := make([]Result, len(jobs))
	for pending := len(jobs); pending > 0; {
		select {
		case res := <-reply:
			results[res.Index] = res
			pending--
		case <-ctx.Done():
			return nil, fmt.Errorf("submit: %w", ctx.Err())
		}
	}
	return results, nil
}

func enqueueError(err error) error {
	switch {
	case errors.Is(err, queue.ErrFull):
		return ErrBackpressure
	case errors.Is(err, queue.ErrClosed):
		return ErrStopped
	default:
		return err
	}
}

// Shutdown closes the queue and waits for the workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if err := p.queue.Close(); err != nil {
		p.logger.Error(ctx, "error closing queue", logger.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.Done():
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("shutdown: %w", shutdownCtx.Err())
		}
	}
	p.logger.Info(ctx, "worker pool stopped")
	return nil
}
