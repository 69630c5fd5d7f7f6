package repository

import (
	"time"

	"github.com/okian/banquet/pkg/logger"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithClock replaces time.Now for UpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *MemoryStore) {
		if l != nil {
			s.log = l
		}
	}
}
