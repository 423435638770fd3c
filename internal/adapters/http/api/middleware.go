package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/geodraw/pkg/metrics"
)

// MetricsMiddleware records request counts and latency for route, and an
// outcome label for every refused request.
func MetricsMiddleware(next http.HandlerFunc, route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		ms := float64(time.Since(start).Microseconds()) / 1000
		code := strconv.Itoa(sw.status)
		metrics.RecordHTTPRequest(route, r.Method, code)
		metrics.RecordHTTPRequestDuration(route, r.Method, code, ms)

		if sw.status >= http.StatusBadRequest {
			outcome := refusalOutcome(route, sw.status)
			metrics.RecordErrorByEndpoint(route, r.Method, outcome)
			metrics.RecordErrorByComponent("http", outcome)
		}
	}
}

// refusalOutcome names why route refused a request.
func refusalOutcome(route string, status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status == http.StatusTooManyRequests:
		return "queue_full"
	case status == http.StatusRequestEntityTooLarge:
		return "stroke_too_large"
	case status == http.StatusNotFound && (route == routeSession || route == routeStrokes):
		return "unknown_session"
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusBadRequest && (route == routeRecognize || route == routeStrokes):
		return "invalid_stroke"
	case status == http.StatusBadRequest && route == routeLeaderboard:
		return "invalid_limit"
	default:
		return "client_error"
	}
}

// statusWriter remembers the status code a handler wrote.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	n, err := sw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("write response: %w", err)
	}
	return n, nil
}
