package api

import (
	"context"
	"net/http"

	service "github.com/okian/banquet/internal/app"
	"github.com/okian/banquet/internal/domain/model"
)

// QuoteDependencies defines the interface for quoting.
type QuoteDependencies interface {
	Quote(ctx context.Context, rulesID string, in model.EventInput) (service.Quote, error)
	QuoteBatch(ctx context.Context, rulesID string, inputs []model.EventInput) ([]service.BatchResult, error)
}

// QuotesHandler handles quote requests.
type QuotesHandler struct {
	deps         QuoteDependencies
	maxBodyBytes int64
}

// NewQuotesHandler creates a new quotes handler.
func NewQuotesHandler(deps QuoteDependencies, maxBodyBytes int64) *QuotesHandler {
	return &QuotesHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

type batchRequest struct {
	Events []model.EventInput `json:"events"`
}

type batchItem struct {
	Index int            `json:"index"`
	Quote *service.Quote `json:"quote,omitempty"`
	Error *errorResponse `json:"error,omitempty"`
}

type batchResponse struct {
	RulesID string      `json:"rulesId"`
	Results []batchItem `json:"results"`
	Failed  int         `json:"failed"`
}

// HandlePostQuote handles POST /quotes?rules={id} requests.
func (h *QuotesHandler) HandlePostQuote(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_quote"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var in model.EventInput
	if err := decodeBody(w, r, h.maxBodyBytes, op, &in); err != nil {
		writeFailure(w, err)
		return
	}
	q, err := h.deps.Quote(r.Context(), r.URL.Query().Get("rules"), in)
	if err != nil {
		writeFailure(w, WrapKind(op, kindOf(err), err))
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

// HandlePostBatch handles POST /quotes/batch?rules={id} requests.
func (h *QuotesHandler) HandlePostBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_batch"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req batchRequest
	if err := decodeBody(w, r, h.maxBodyBytes, op, &req); err != nil {
		writeFailure(w, err)
		return
	}
	rulesID := r.URL.Query().Get("rules")
	results, err := h.deps.QuoteBatch(r.Context(), rulesID, req.Events)
	if err != nil {
		writeFailure(w, WrapKind(op, kindOf(err), err))
		return
	}

	resp := batchResponse{RulesID: rulesID, Results: make([]batchItem, len(results))}
	for i, res := range results {
		item := batchItem{Index: res.Index, Quote: res.Quote}
		if res.Err != nil {
			_, code := classify(res.Err)
			item.Error = &errorResponse{Code: code, Message: res.Err.Error()}
			resp.Failed++
		} else if resp.RulesID == "" {
			resp.RulesID = res.Quote.RulesID
		}
		resp.Results[i] = item
	}
	writeJSON(w, http.StatusOK, resp)
}

// kindOf picks the API kind for an upstream error.
func kindOf(err error) error {
	status, _ := classify(err)
	switch status {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusRequestEntityTooLarge:
		return ErrTooLarge
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrBackpressure
	case http.StatusServiceUnavailable:
		return ErrUnavailable
	default:
		return errInternal
	}
}
