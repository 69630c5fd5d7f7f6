package loadtest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	service "github.com/okian/banquet/internal/app"
	"github.com/okian/banquet/internal/domain/model"
	"github.com/okian/banquet/pkg/logger"
)

var (
	// ErrNoSuccess is returned when not a single booking was quoted.
	ErrNoSuccess = errors.New("no booking was quoted")
	// ErrViolations is returned when at least one quote broke an invariant.
	ErrViolations = errors.New("quotes violated accounting invariants")
)

// Runner executes a load run against a quoting service.
type Runner struct {
	cfg    Config
	client *client
	log    logger.Logger

	submitted  atomic.Int64
	successful atomic.Int64
	rejected   atomic.Int64
	failed     atomic.Int64
	violations atomic.Int64
}

// NewRunner builds a runner. A nil log discards output.
func NewRunner(cfg Config, log logger.Logger) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Runner{cfg: cfg, client: newClient(cfg), log: log}
}

// Run checks service health, generates bookings, submits them with
// cfg.Workers concurrent submitters and verifies every quote returned.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	stats := Stats{StartTime: time.Now()}

	if err := r.client.checkHealth(ctx); err != nil {
		return stats, err
	}

	bookings := GenerateBookings(r.cfg.NumBookings, r.cfg.Seed)
	stats.Generated = len(bookings)
	r.log.Info(ctx, "generated bookings",
		logger.Int("count", len(bookings)),
		logger.Int("workers", r.cfg.Workers),
		logger.Int("batch_size", r.cfg.BatchSize))

	if r.cfg.OutputFile != "" {
		if err := saveBookings(r.cfg.OutputFile, bookings); err != nil {
			return stats, err
		}
	}

	jobs := make(chan []model.EventInput, r.cfg.Workers)
	var wg sync.WaitGroup
	for range r.cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunk := range jobs {
				r.submit(ctx, chunk)
			}
		}()
	}

	step := r.cfg.BatchSize
	if step <= 0 {
		step = 1
	}
feed:
	for start := 0; start < len(bookings); start += step {
		chunk := bookings[start:min(start+step, len(bookings))]
		select {
		case jobs <- chunk:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	stats.Submitted = int(r.submitted.Load())
	stats.Successful = int(r.successful.Load())
	stats.Rejected = int(r.rejected.Load())
	stats.Failed = int(r.failed.Load())
	stats.Violations = int(r.violations.Load())

	r.logStats(ctx, stats)

	switch {
	case stats.Violations > 0:
		return stats, fmt.Errorf("%w: %d", ErrViolations, stats.Violations)
	case stats.Generated > 0 && stats.Successful == 0:
		return stats, ErrNoSuccess
	}
	return stats, ctx.Err()
}

func (r *Runner) submit(ctx context.Context, chunk []model.EventInput) {
	r.submitted.Add(int64(len(chunk)))

	if r.cfg.BatchSize <= 0 {
		q, err := r.client.quote(ctx, chunk[0])
		if err != nil {
			r.recordFailure(ctx, err, len(chunk))
			return
		}
		r.check(ctx, 0, q)
		return
	}

	resp, err := r.client.batch(ctx, chunk)
	if err != nil {
		r.recordFailure(ctx, err, len(chunk))
		return
	}
	for _, item := range resp.Results {
		if item.Error != nil {
			r.failed.Add(1)
			r.log.Warn(ctx, "batch item failed",
				logger.Int("index", item.Index),
				logger.String("code", item.Error.Code),
				logger.String("message", item.Error.Message))
			continue
		}
		r.check(ctx, item.Index, item.Quote)
	}
}

func (r *Runner) check(ctx context.Context, index int, q *service.Quote) {
	if q == nil {
		r.failed.Add(1)
		return
	}
	r.successful.Add(1)
	problems := Verify(q.Financials)
	if len(problems) == 0 {
		return
	}
	r.violations.Add(1)
	if r.cfg.Verbose {
		r.log.Error(ctx, "quote violates invariants",
			logger.String("calculation_id", q.CalculationID),
			logger.Int("index", index),
			logger.Any("problems", problems))
	}
}

// recordFailure counts backpressure rejections apart from other failures.
func (r *Runner) recordFailure(ctx context.Context, err error, n int) {
	var se *statusError
	if errors.As(err, &se) && se.Status == http.StatusTooManyRequests {
		r.rejected.Add(int64(n))
		return
	}
	r.failed.Add(int64(n))
	if r.cfg.Verbose {
		r.log.Warn(ctx, "submit failed", logger.Error(err), logger.Int("bookings", n))
	}
}

func (r *Runner) logStats(ctx context.Context, s Stats) {
	rate := 0.0
	if s.Duration > 0 {
		rate = float64(s.Successful) / s.Duration.Seconds()
	}
	r.log.Info(ctx, "load run complete",
		logger.Int("generated", s.Generated),
		logger.Int("submitted", s.Submitted),
		logger.Int("successful", s.Successful),
		logger.Int("rejected", s.Rejected),
		logger.Int("failed", s.Failed),
		logger.Int("violations", s.Violations),
		logger.Duration("duration", s.Duration),
		logger.Float64("quotes_per_second", rate))
}

func saveBookings(path string, bookings []model.EventInput) error {
	data, err := json.MarshalIndent(bookings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bookings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write bookings: %w", err)
	}
	return nil
}
