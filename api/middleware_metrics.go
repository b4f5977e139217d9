package api

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SlowRequestThreshold is the duration above which a request is logged as slow
var SlowRequestThreshold = time.Second

// MetricsMiddleware tracks request timing and the propagation steps a request performs
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/health" || strings.HasPrefix(path, "/api/v1/metrics") || strings.HasPrefix(path, "/ws/") {
			next.ServeHTTP(w, r)
			return
		}

		startTime := time.Now()
		requestID := uuid.New().String()

		trace := &RequestTrace{
			RequestID: requestID,
			Method:    r.Method,
			Path:      path,
			StartTime: startTime,
			Steps:     make([]StepTrace, 0),
			Metadata:  make(map[string]string),
		}
		r = r.WithContext(WithRequestTrace(r.Context(), trace))

		wrappedWriter := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}
		wrappedWriter.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(wrappedWriter, r)

		trace.EndTime = time.Now()
		trace.TotalDuration = trace.EndTime.Sub(startTime)
		trace.Status = wrappedWriter.statusCode
		if wrappedWriter.statusCode >= 400 {
			trace.Error = http.StatusText(wrappedWriter.statusCode)
		}

		GetMetrics().RecordTrace(*trace)

		if trace.TotalDuration > SlowRequestThreshold {
			zap.S().Warnw("slow request detected",
				"requestId", requestID,
				"method", r.Method,
				"path", path,
				"duration", trace.TotalDuration,
				"status", trace.Status,
				"steps", len(trace.Steps),
				"stepTime", trace.StepTotalTime,
			)
		}
	})
}

// responseWriter wraps http.ResponseWriter to capture status code.
// It implements http.Hijacker to support WebSocket upgrades.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker to support WebSocket upgrades
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, fmt.Errorf("underlying ResponseWriter does not implement http.Hijacker")
}
