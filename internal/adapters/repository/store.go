// Package repository keeps rule sets by id and loads rule-set documents
// from disk. Every document is normalized on the way in, so readers always
// get a complete, current-version RuleSet.
package repository

import (
	"context"
	"time"

	"github.com/okian/banquet/internal/domain/rules"
)

// Record is one stored rule set.
type Record struct {
	ID        string
	Revision  int64
	UpdatedAt time.Time
	Rules     rules.RuleSet
}

// Store provides read/write access to rule sets. Writes are last-writer-wins.
type Store interface {
	// Get returns the rule set stored under id, or ErrNotFound.
	Get(ctx context.Context, id string) (Record, error)

	// Put normalizes a stored (possibly partial or legacy) document and
	// replaces whatever was stored under id.
	Put(ctx context.Context, id string, stored map[string]any) (Record, error)

	// Save stores an already typed rule set under id.
	Save(ctx context.Context, id string, rs rules.RuleSet) (Record, error)

	// List returns every record ordered by id.
	List(ctx context.Context) []Record

	// Delete removes id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored rule sets.
	Count(ctx context.Context) int
}
