package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"clubconnect/internal/adapters/http/perf"
)

// DefaultSlowRequestMs is the default threshold for slow request warnings.
const DefaultSlowRequestMs = 200

type requestIDKey struct{}

// RequestIDHeader carries the per-request ID back to the client.
const RequestIDHeader = "X-Request-ID"

// statusWriter captures the status code written by the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

var statusWriterPool = sync.Pool{
	New: func() any { return &statusWriter{} },
}

// Timing logs each request's duration and records it in collector when non-nil.
// Requests at or above slowMs log at WARN as slow_request, the rest at DEBUG.
// Every response carries an X-Request-ID header.
// PRE: slowMs <= 0 selects DefaultSlowRequestMs
func Timing(collector *perf.Collector, slowMs int) func(http.Handler) http.Handler {
	if slowMs <= 0 {
		slowMs = DefaultSlowRequestMs
	}
	threshold := float64(slowMs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := uuid.NewString()
			w.Header().Set(RequestIDHeader, reqID)
			// ServeMux sets Pattern on the request it is handed, so keep that pointer.
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, reqID))

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = http.StatusOK
			defer func() {
				durationMs := float64(time.Since(start).Microseconds()) / 1000.0
				attrs := []any{
					"request_id", reqID,
					"method", r.Method,
					"path", r.URL.Path,
					"status", sw.status,
					"duration_ms", durationMs,
				}
				if durationMs >= threshold {
					slog.Warn("slow_request", attrs...)
				} else {
					slog.Debug("request", attrs...)
				}

				if collector != nil {
					label := r.Pattern
					if label == "" {
						label = r.Method + " " + r.URL.Path
					}
					collector.Record(perf.Entry{
						Kind:       perf.KindRequest,
						Label:      label,
						Status:     sw.status,
						Failed:     sw.status >= http.StatusInternalServerError,
						DurationMs: durationMs,
						At:         start,
					})
				}

				sw.ResponseWriter = nil
				statusWriterPool.Put(sw)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}

// RequestID returns the ID Timing assigned to the request, or "".
func RequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}
