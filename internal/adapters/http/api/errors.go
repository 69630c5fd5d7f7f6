package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrTooLarge     = errors.New("request too large")
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("service unavailable")
	ErrBackpressure = errors.New("backpressure")
)

// kindError tags an underlying error with an operation and a sentinel kind,
// so the edge can map it to a status with errors.Is.
type kindError struct {
	op   string
	kind error
	err  error
}

// WrapKind returns an error that matches both kind and err.
func WrapKind(op string, kind, err error) error {
	return &kindError{op: op, kind: kind, err: err}
}

// NewKind returns an error that matches kind.
func NewKind(op string, kind error) error {
	return &kindError{op: op, kind: kind}
}

func (e *kindError) Error() string {
	if e.err == nil {
		return e.op + ": " + e.kind.Error()
	}
	return e.op + ": " + e.kind.Error() + ": " + e.err.Error()
}

func (e *kindError) Unwrap() []error {
	if e.err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.err}
}

var errInternal = errors.New("internal error")
