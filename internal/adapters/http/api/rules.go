package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/okian/banquet/internal/adapters/repository"
	"github.com/okian/banquet/internal/domain/rules"
	"github.com/okian/banquet/internal/domain/safety"
)

// RulesDependencies defines the interface for rule-set administration.
type RulesDependencies interface {
	GetRules(ctx context.Context, id string) (repository.Record, error)
	PutRules(ctx context.Context, id string, doc map[string]any) (repository.Record, error)
	ListRules(ctx context.Context) []repository.Record
	DeleteRules(ctx context.Context, id string) error
	DefaultRules() rules.RuleSet
}

// RulesHandler handles rule-set requests.
type RulesHandler struct {
	deps         RulesDependencies
	maxBodyBytes int64
}

// NewRulesHandler creates a new rules handler.
func NewRulesHandler(deps RulesDependencies, maxBodyBytes int64) *RulesHandler {
	return &RulesHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

type ruleSetResponse struct {
	ID        string        `json:"id"`
	Revision  int64         `json:"revision"`
	UpdatedAt *time.Time    `json:"updatedAt,omitempty"`
	Rules     rules.RuleSet `json:"rules"`
	Warnings  []string      `json:"warnings"`
}

type ruleSetSummary struct {
	ID        string    `json:"id"`
	Revision  int64     `json:"revision"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(rec repository.Record) ruleSetResponse {
	resp := ruleSetResponse{
		ID:       rec.ID,
		Revision: rec.Revision,
		Rules:    rec.Rules,
		Warnings: safety.CheckEquity(rec.Rules),
	}
	if !rec.UpdatedAt.IsZero() {
		t := rec.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}

// HandleList handles GET /rules requests.
func (h *RulesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	records := h.deps.ListRules(r.Context())
	out := make([]ruleSetSummary, len(records))
	for i, rec := range records {
		out[i] = ruleSetSummary{ID: rec.ID, Revision: rec.Revision, UpdatedAt: rec.UpdatedAt}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ruleSets": out})
}

// HandleDefaults handles GET /rules/defaults requests.
func (h *RulesHandler) HandleDefaults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.DefaultRules())
}

// HandleRule handles GET, PUT and DELETE on /rules/{id}.
func (h *RulesHandler) HandleRule(w http.ResponseWriter, r *http.Request) {
	const op = "api.rule"
	id := strings.TrimPrefix(r.URL.Path, "/rules/")
	if id == "" || strings.Contains(id, "/") {
		writeFailure(w, WrapKind(op, ErrBadRequest, repository.ErrInvalidID))
		return
	}

	switch r.Method {
	case http.MethodGet:
		rec, err := h.deps.GetRules(r.Context(), id)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(rec))

	case http.MethodPut:
		var doc map[string]any
		if err := decodeBody(w, r, h.maxBodyBytes, op, &doc); err != nil {
			writeFailure(w, err)
			return
		}
		if doc == nil {
			doc = map[string]any{}
		}
		rec, err := h.deps.PutRules(r.Context(), id, doc)
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(rec))

	case http.MethodDelete:
		if err := h.deps.DeleteRules(r.Context(), id); err != nil {
			writeFailure(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		methodNotAllowed(w, strings.Join([]string{http.MethodGet, http.MethodPut, http.MethodDelete}, ", "))
	}
}
