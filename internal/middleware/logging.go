package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// RequestRecorder receives per-request observations, typically backed by
// Prometheus counters.
type RequestRecorder interface {
	RecordRequest(method, path, status string, duration time.Duration)
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	size        int
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

// Logging returns a middleware that logs HTTP requests and feeds the
// recorder, when one is set.
func Logging(logger *slog.Logger, recorder RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Get correlation ID from context
			correlationID := GetCorrelationID(r.Context())

			wrapped := wrapResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start)

			if recorder != nil {
				recorder.RecordRequest(r.Method, r.URL.Path, strconv.Itoa(wrapped.status), duration)
			}

			// Log level based on status code
			logFn := logger.Info
			if wrapped.status >= 500 {
				logFn = logger.Error
			} else if wrapped.status >= 400 {
				logFn = logger.Warn
			}

			logFn("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.status,
				"size", wrapped.size,
				"duration_ms", duration.Milliseconds(),
				"correlation_id", correlationID,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		})
	}
}
