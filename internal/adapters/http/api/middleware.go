package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/banquet/pkg/metrics"
)

// MetricsMiddleware counts and times every request to endpoint. Responses of
// 400 and above are also counted under the "http" component, labelled with
// the same code the JSON error body carries.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsedMs := float64(time.Since(start).Microseconds()) / 1000
		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, elapsedMs)

		if label, failed := errorLabel(rec.status); failed {
			metrics.RecordErrorByComponent("http", label)
		}
	}
}

// errorLabel maps a response status onto the error codes used by classify
// and methodNotAllowed. The bool is false for non-error statuses.
func errorLabel(status int) (string, bool) {
	switch {
	case status < http.StatusBadRequest:
		return "", false
	case status == http.StatusBadRequest:
		return "bad_request", true
	case status == http.StatusNotFound:
		return "not_found", true
	case status == http.StatusMethodNotAllowed:
		return "method_not_allowed", true
	case status == http.StatusRequestEntityTooLarge:
		return "too_large", true
	case status == http.StatusTooManyRequests:
		return "backpressure", true
	case status == http.StatusServiceUnavailable:
		return "unavailable", true
	case status >= http.StatusInternalServerError:
		return "internal_error", true
	default:
		return "client_error", true
	}
}

// statusRecorder remembers the first status written to the response.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}
	return n, nil
}
