package service

import "errors"

var (
	// ErrInvalidInput wraps a booking that fails boundary validation.
	ErrInvalidInput = errors.New("invalid event input")
	// ErrBatchTooLarge is returned when a batch exceeds the configured maximum.
	ErrBatchTooLarge = errors.New("batch too large")
	// ErrNotStarted is returned by batch quoting before Start.
	ErrNotStarted = errors.New("service not started")
)
