package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

type contextKey string

const traceIDKey contextKey = "trace_id"

// unmatchedRoute labels requests no pattern matched, keeping the route label
// bounded.
const unmatchedRoute = "unmatched"

var (
	// HTTPRequestsTotal counts requests by matched route pattern and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "partnermap_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "partnermap_http_request_duration_seconds",
			Help:    "Time spent serving fixture API requests",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
		[]string{"route"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration)
}

func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				fmt.Printf(`{"level":"error","msg":"panic_recovered","trace_id":"%s","error":"%v","path":"%s"}`+"\n", getTraceID(r.Context()), err, r.URL.Path)
				http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withLogging tags the request with a trace id (the caller's X-Trace-ID or a
// new one), then logs and counts it under its matched route pattern.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}
		r = r.WithContext(context.WithValue(r.Context(), traceIDKey, traceID))
		w.Header().Set("X-Trace-ID", traceID)

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		route := r.Pattern
		if route == "" {
			route = unmatchedRoute
		}
		elapsed := time.Since(start)
		HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(sw.status)).Inc()
		HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())

		fmt.Printf(`{"level":"info","msg":"http_request","trace_id":"%s","method":"%s","path":"%s","route":"%s","status":%d,"duration_ms":%d}`+"\n",
			traceID, r.Method, r.URL.Path, route, sw.status, elapsed.Milliseconds())
	})
}

// withSecureHeaders sets headers for a JSON and file-download API: nothing
// served here is meant to be rendered or framed by a browser.
func withSecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

func getTraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
