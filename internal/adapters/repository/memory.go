package repository

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/okian/banquet/internal/domain/rules"
	"github.com/okian/banquet/pkg/logger"
	"github.com/okian/banquet/pkg/metrics"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// ValidID reports whether id can name a rule set.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// MemoryStore is an in-memory Store. Records are deep-copied on the way in
// and out, so callers never share rule-set slices or pointers with it.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record

	now func() time.Time
	log logger.Logger
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		records: make(map[string]Record),
		now:     time.Now,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return copyRecord(rec), nil
}

// Put implements Store.
func (s *MemoryStore) Put(ctx context.Context, id string, stored map[string]any) (Record, error) {
	if !ValidID(id) {
		return Record{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return s.Save(ctx, id, rules.Normalize(stored))
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, id string, rs rules.RuleSet) (Record, error) {
	if !ValidID(id) {
		return Record{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	s.mu.Lock()
	rec := Record{
		ID:        id,
		Revision:  s.records[id].Revision + 1,
		UpdatedAt: s.now().UTC(),
		Rules:     rs.Clone(),
	}
	s.records[id] = rec
	count := len(s.records)
	s.mu.Unlock()

	metrics.RecordRulesWrite("put")
	metrics.UpdateRulesCount(count)
	s.log.Debug(ctx, "rule set stored", logger.String("id", id), logger.Any("revision", rec.Revision))
	return copyRecord(rec), nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context) []Record {
	s.mu.RLock()
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, copyRecord(rec))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	_, ok := s.records[id]
	delete(s.records, id)
	count := len(s.records)
	s.mu.Unlock()

	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	metrics.RecordRulesWrite("delete")
	metrics.UpdateRulesCount(count)
	s.log.Debug(ctx, "rule set deleted", logger.String("id", id))
	return nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func copyRecord(r Record) Record {
	r.Rules = r.Rules.Clone()
	return r
}
