package loadtest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"

	service "github.com/okian/banquet/internal/app"
	"github.com/okian/banquet/internal/domain/model"
)

// client wraps the quoting HTTP API.
type client struct {
	baseURL string
	rulesID string
	http    *http.Client
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type batchItem struct {
	Index int            `json:"index"`
	Quote *service.Quote `json:"quote,omitempty"`
	Error *apiError      `json:"error,omitempty"`
}

type batchResponse struct {
	RulesID string      `json:"rulesId"`
	Results []batchItem `json:"results"`
	Failed  int         `json:"failed"`
}

// statusError is returned for any non-success response.
type statusError struct {
	Status int
	Code   string
	Msg    string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s: %s", e.Status, e.Code, e.Msg)
}

func newClient(cfg Config) *client {
	return &client{
		baseURL: cfg.BaseURL,
		rulesID: cfg.RulesID,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *client) endpoint(path string) string {
	u := c.baseURL + path
	if c.rulesID != "" {
		u += "?rules=" + url.QueryEscape(c.rulesID)
	}
	return u
}

// checkHealth verifies the service answers on /healthz.
func (c *client) checkHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("create health check request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service unhealthy, status: %d", resp.StatusCode)
	}
	return nil
}

// quote posts one booking to /quotes.
func (c *client) quote(ctx context.Context, in model.EventInput) (*service.Quote, error) {
	var q service.Quote
	if err := c.post(ctx, "/quotes", in, http.StatusCreated, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// batch posts bookings to /quotes/batch.
func (c *client) batch(ctx context.Context, events []model.EventInput) (*batchResponse, error) {
	var resp batchResponse
	body := struct {
		Events []model.EventInput `json:"events"`
	}{Events: events}
	if err := c.post(ctx, "/quotes/batch", body, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *client) post(ctx context.Context, path string, body any, want int, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != want {
		var apiErr apiError
		_ = json.Unmarshal(data, &apiErr)
		return &statusError{Status: resp.StatusCode, Code: apiErr.Code, Msg: apiErr.Message}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
