package worker

import "errors"

// Sentinel kinds for worker errors.
var (
	ErrBackpressure = errors.New("worker queue full")
	ErrStopped      = errors.New("worker pool stopped")
	ErrPanic        = errors.New("job panicked")
)
