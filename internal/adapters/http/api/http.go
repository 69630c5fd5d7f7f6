// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	workerpool "github.com/okian/banquet/internal/adapters/mq/worker"
	"github.com/okian/banquet/internal/adapters/repository"
	service "github.com/okian/banquet/internal/app"
)

// DefaultMaxBodyBytes bounds request bodies when the server is built
// without an explicit limit.
const DefaultMaxBodyBytes int64 = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	QuoteDependencies
	RulesDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	quotesHandler *QuotesHandler
	rulesHandler  *RulesHandler
}

// NewServer creates a new API server with all handlers. A non-positive
// maxBodyBytes uses DefaultMaxBodyBytes.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxBodyBytes int64) *Server {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		quotesHandler: NewQuotesHandler(deps, maxBodyBytes),
		rulesHandler:  NewRulesHandler(deps, maxBodyBytes),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/quotes", MetricsMiddleware(s.quotesHandler.HandlePostQuote, "quotes"))
	mux.HandleFunc("/quotes/batch", MetricsMiddleware(s.quotesHandler.HandlePostBatch, "quotes_batch"))
	mux.HandleFunc("/rules", MetricsMiddleware(s.rulesHandler.HandleList, "rules"))
	mux.HandleFunc("/rules/defaults", MetricsMiddleware(s.rulesHandler.HandleDefaults, "rules_defaults"))
	mux.HandleFunc("/rules/", MetricsMiddleware(s.rulesHandler.HandleRule, "rule"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err onto a status and error code.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrTooLarge), errors.Is(err, service.ErrBatchTooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, repository.ErrInvalidID):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, workerpool.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, ErrUnavailable),
		errors.Is(err, service.ErrNotStarted),
		errors.Is(err, workerpool.ErrStopped):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
}

// decodeBody reads one JSON value from a size-limited request body.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, op string, v any) error {
	body := http.MaxBytesReader(w, r.Body, limit)
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return WrapKind(op, ErrTooLarge, err)
		}
		return WrapKind(op, ErrBadRequest, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return WrapKind(op, ErrBadRequest, errors.New("empty body"))
	}
	if err := json.Unmarshal(data, v); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}
