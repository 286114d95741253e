package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"nss-bloodbank/backend/internal/telemetry"
	"nss-bloodbank/backend/internal/telemetry/domain"
)

// httpRequestMetadata is the JSON shape stored in Event.Metadata for http_request events.
type httpRequestMetadata struct {
	Method     string `json:"method"`
	Route      string `json:"route"`
	StatusCode int    `json:"status_code"`
	DurationMs int64  `json:"duration_ms"`
	ClientIP   string `json:"client_ip"`
}

// Telemetry records request count and latency on the global MeterProvider and emits an
// http_request event per request. emitter may be nil. Routes in skip (mux path templates)
// are not emitted.
func Telemetry(emitter telemetry.EventEmitter, skip map[string]bool) func(http.Handler) http.Handler {
	meter := otel.Meter("nss-bloodbank/http")
	requests, _ := meter.Int64Counter("http.server.requests",
		metric.WithDescription("HTTP requests served"))
	latency, _ := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request latency"), metric.WithUnit("ms"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			route := routeTemplate(r)
			elapsed := time.Since(start)
			attrs := metric.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.status_code", strconv.Itoa(rec.status)),
			)
			if requests != nil {
				requests.Add(r.Context(), 1, attrs)
			}
			if latency != nil {
				latency.Record(r.Context(), float64(elapsed.Microseconds())/1000, attrs)
			}
			if emitter == nil || skip[route] {
				return
			}
			event := telemetry.NewEvent(domain.EventHTTPRequest, "http_middleware", UserID(r.Context()), httpRequestMetadata{
				Method:     r.Method,
				Route:      route,
				StatusCode: rec.status,
				DurationMs: elapsed.Milliseconds(),
				ClientIP:   ClientIPFrom(r.Context()),
			})
			telemetry.EmitAsync(emitter, r.Context(), event)
		})
	}
}

// routeTemplate returns the matched mux path template, or the raw path when no route matched.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}
