// Package service wires the rule-set store, the financial engine and the
// batch worker pool together behind the operations the HTTP API and CLI use.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	workerpool "github.com/okian/banquet/internal/adapters/mq/worker"
	"github.com/okian/banquet/internal/adapters/repository"
	"github.com/okian/banquet/internal/domain/financials"
	"github.com/okian/banquet/internal/domain/model"
	"github.com/okian/banquet/internal/domain/rules"
	"github.com/okian/banquet/internal/domain/safety"
	"github.com/okian/banquet/pkg/logger"
	"github.com/okian/banquet/pkg/metrics"
)

// DefaultRulesID names the rule set used when a caller does not pick one.
const DefaultRulesID = "default"

// queueSlotsPerWorker sizes the batch queue relative to the pool.
const queueSlotsPerWorker = 64

// Quote is one priced booking together with the rule set that priced it.
type Quote struct {
	CalculationID string                `json:"calculationId"`
	RulesID       string                `json:"rulesId"`
	RulesRevision int64                 `json:"rulesRevision"`
	ComputedAt    time.Time             `json:"computedAt"`
	DurationMs    float64               `json:"durationMs"`
	Financials    model.EventFinancials `json:"financials"`
}

// BatchResult is the outcome for one booking of a batch. Exactly one of
// Quote and Err is set.
type BatchResult struct {
	Index int
	Quote *Quote
	Err   error
}

// Service implements the API dependencies for the quoting system.
type Service struct {
	mu sync.RWMutex

	store      repository.Store
	pool       *workerpool.Pool
	cancelPool context.CancelFunc

	defaultRulesID string
	rulesFile      string
	batchWorkers   int
	maxBatchSize   int

	started bool
	now     func() time.Time
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRulesStore replaces the in-memory rule-set store.
func WithRulesStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDefaultRulesID sets the rule set used when callers pass no id.
func WithDefaultRulesID(id string) Option {
	return func(s *Service) {
		if id != "" {
			s.defaultRulesID = id
		}
	}
}

// WithRulesFile seeds the default rule set from a YAML or JSON file on Start.
func WithRulesFile(path string) Option {
	return func(s *Service) {
		s.rulesFile = path
	}
}

// WithBatchWorkers sets the number of batch worker goroutines.
func WithBatchWorkers(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.batchWorkers = count
		}
	}
}

// WithMaxBatchSize caps the number of bookings per batch.
func WithMaxBatchSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.maxBatchSize = size
		}
	}
}

// WithClock overrides the time source used for quote timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		defaultRulesID: DefaultRulesID,
		batchWorkers:   runtime.NumCPU(),
		maxBatchSize:   500,
		now:            time.Now,
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithLogger(s.logger))
	}
	return s
}

// Start seeds the default rule set (when a rules file is configured) and
// starts the batch worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting quoting service...")

	if s.rulesFile != "" {
		doc, err := repository.LoadRulesFile(s.rulesFile)
		if err != nil {
			return fmt.Errorf("seed rules: %w", err)
		}
		rec, err := s.store.Put(ctx, s.defaultRulesID, doc)
		if err != nil {
			return fmt.Errorf("seed rules: %w", err)
		}
		s.logger.Info(ctx, "default rule set loaded",
			logger.String("file", s.rulesFile),
			logger.String("id", rec.ID),
			logger.Any("revision", rec.Revision),
		)
		for _, w := range safety.CheckEquity(rec.Rules) {
			s.logger.Warn(ctx, "default rule set", logger.String("warning", w))
		}
	}

	// The queue must hold the largest batch on its own, or such a batch
	// could never be accepted.
	s.pool = workerpool.NewPool(s.batchWorkers, workerpool.ProcessorFunc(compute),
		workerpool.WithPoolLogger(s.logger),
		workerpool.WithQueueCapacity(max(s.batchWorkers*queueSlotsPerWorker, s.maxBatchSize)),
	)
	// Workers outlive the caller's context; Stop drains the queue before
	// cancelling them.
	poolCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancelPool = cancel
	s.pool.Start(poolCtx)

	s.started = true
	s.logger.Info(ctx, "quoting service started",
		logger.Int("batchWorkers", s.batchWorkers),
		logger.Int("maxBatchSize", s.maxBatchSize),
		logger.String("defaultRulesId", s.defaultRulesID),
	)
	return nil
}

// Stop drains the worker pool. Batches already queued are answered;
// later ones fail with workerpool.ErrStopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping quoting service...")
	if s.pool != nil {
		if err := s.pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
		}
	}
	if s.cancelPool != nil {
		s.cancelPool()
		s.cancelPool = nil
	}
	s.started = false
	s.logger.Info(ctx, "quoting service stopped")
}

func compute(_ context.Context, in model.EventInput, rs rules.RuleSet) (model.EventFinancials, error) {
	return financials.Compute(in, rs), nil
}

// Quote prices one booking against the rule set named rulesID (the
// default rule set when empty).
func (s *Service) Quote(ctx context.Context, rulesID string, in model.EventInput) (Quote, error) {
	if err := in.Validate(); err != nil {
		return Quote{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	rec, err := s.GetRules(ctx, rulesID)
	if err != nil {
		return Quote{}, err
	}

	start := time.Now()
	fin := financials.Compute(in, rec.Rules)
	q := s.newQuote(rec, fin, time.Since(start))

	s.logger.Debug(ctx, "quote computed",
		logger.String("calculationId", q.CalculationID),
		logger.String("rulesId", rec.ID),
		logger.Int("guests", fin.Guests.Total),
		logger.Float64("grossProfit", fin.GrossProfit),
	)
	return q, nil
}

// QuoteBatch prices every booking against one rule set on the worker pool.
// Per-booking failures are reported in the results; the returned error is
// reserved for failures of the batch as a whole, including
// workerpool.ErrBackpressure when the queue cannot take the batch.
func (s *Service) QuoteBatch(ctx context.Context, rulesID string, inputs []model.EventInput) ([]BatchResult, error) {
	if len(inputs) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(inputs), s.maxBatchSize)
	}

	s.mu.RLock()
	pool, started := s.pool, s.started
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}

	rec, err := s.GetRules(ctx, rulesID)
	if err != nil {
		return nil, err
	}
	metrics.RecordBatchSize(len(inputs))

	out := make([]BatchResult, len(inputs))
	jobs := make([]workerpool.Job, 0, len(inputs))
	slots := make([]int, 0, len(inputs))
	for i, in := range inputs {
		out[i].Index = i
		if err := in.Validate(); err != nil {
			out[i].Err = fmt.Errorf("%w: %w", ErrInvalidInput, err)
			continue
		}
		jobs = append(jobs, workerpool.Job{Input: in, Rules: rec.Rules})
		slots = append(slots, i)
	}

	results, err := pool.Submit(ctx, jobs)
	if err != nil {
		if errors.Is(err, workerpool.ErrBackpressure) {
			s.logger.Warn(ctx, "batch refused", logger.Int("size", len(jobs)), logger.Error(err))
		}
		return nil, err
	}
	for j, res := range results {
		i := slots[j]
		if res.Err != nil {
			out[i].Err = res.Err
			continue
		}
		q := s.newQuote(rec, res.Financials, res.Duration)
		out[i].Quote = &q
	}

	s.logger.Debug(ctx, "batch quoted", logger.Int("size", len(inputs)), logger.String("rulesId", rec.ID))
	return out, nil
}

func (s *Service) newQuote(rec repository.Record, fin model.EventFinancials, took time.Duration) Quote {
	ms := float64(took.Microseconds()) / 1000
	recordQuote(fin, rec.Rules, ms)
	return Quote{
		CalculationID: uuid.NewString(),
		RulesID:       rec.ID,
		RulesRevision: rec.Revision,
		ComputedAt:    s.now().UTC(),
		DurationMs:    ms,
		Financials:    fin,
	}
}

func recordQuote(fin model.EventFinancials, rs rules.RuleSet, ms float64) {
	metrics.RecordQuote(string(fin.PricingSlot), ms)
	for _, w := range safety.Evaluate(fin.LaborPercentOfRevenue, fin.FoodCostPercent, rs) {
		metrics.RecordWarning(string(w.Kind))
	}
	capped := 0
	for _, c := range fin.LaborCompensation {
		if c.WasCapped {
			capped++
		}
	}
	metrics.RecordCappedPositions(capped, fin.TotalExcessToProfit)
	if fin.Staffing.MatchedProfileID != "" {
		metrics.RecordStaffingPlan("profile")
	} else {
		metrics.RecordStaffingPlan("fallback")
	}
}

// GetRules returns the rule set stored under id (the default id when
// empty). The default id always resolves: until something is stored under
// it, the built-in defaults are returned at revision zero.
func (s *Service) GetRules(ctx context.Context, id string) (repository.Record, error) {
	if id == "" {
		id = s.defaultRulesID
	}
	rec, err := s.store.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) && id == s.defaultRulesID {
		return repository.Record{ID: id, Rules: rules.Defaults()}, nil
	}
	return rec, err
}

// PutRules normalizes a stored rule-set document and saves it under id.
func (s *Service) PutRules(ctx context.Context, id string, doc map[string]any) (repository.Record, error) {
	rec, err := s.store.Put(ctx, id, doc)
	if err != nil {
		return repository.Record{}, err
	}
	s.logger.Info(ctx, "rule set updated", logger.String("id", rec.ID), logger.Any("revision", rec.Revision))
	for _, w := range safety.CheckEquity(rec.Rules) {
		s.logger.Warn(ctx, "rule set updated with warning", logger.String("id", rec.ID), logger.String("warning", w))
	}
	return rec, nil
}

// ListRules returns every stored rule set ordered by id.
func (s *Service) ListRules(ctx context.Context) []repository.Record {
	return s.store.List(ctx)
}

// DeleteRules removes a stored rule set.
func (s *Service) DeleteRules(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "rule set deleted", logger.String("id", id))
	return nil
}

// DefaultRules returns the built-in rule set.
func (s *Service) DefaultRules() rules.RuleSet {
	return rules.Defaults()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":        s.started,
		"batchWorkers":   s.batchWorkers,
		"maxBatchSize":   s.maxBatchSize,
		"defaultRulesId": s.defaultRulesID,
		"ruleSets":       s.store.Count(ctx),
	}
	if s.started && s.pool != nil {
		stats["queueLength"] = s.pool.QueueLen(ctx)
		stats["queueCapacity"] = s.pool.QueueCap()
	}
	return stats
}
