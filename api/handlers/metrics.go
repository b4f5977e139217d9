package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/linesmerrill/telehealth-api/api"
)

// formatRouteMetrics converts duration fields to milliseconds for JSON serialization
func formatRouteMetrics(routes []*api.RouteMetrics) []map[string]interface{} {
	result := make([]map[string]interface{}, len(routes))
	for i, route := range routes {
		result[i] = map[string]interface{}{
			"method":       route.Method,
			"path":         route.Path,
			"count":        route.Count,
			"errorCount":   route.ErrorCount,
			"partialCount": route.PartialCount,
			"avgTime":      route.AvgTime.Milliseconds(),
			"minTime":      route.MinTime.Milliseconds(),
			"maxTime":      route.MaxTime.Milliseconds(),
			"p50Time":      route.P50Time.Milliseconds(),
			"p95Time":      route.P95Time.Milliseconds(),
			"stepAvgTime":  route.StepAvgTime.Milliseconds(),
			"lastRequest":  route.LastRequest,
		}
	}
	return result
}

// formatTraces converts trace durations to milliseconds
func formatTraces(traces []api.RequestTrace) []map[string]interface{} {
	result := make([]map[string]interface{}, len(traces))
	for i, trace := range traces {
		steps := make([]map[string]interface{}, len(trace.Steps))
		for j, s := range trace.Steps {
			steps[j] = map[string]interface{}{
				"operation": s.Operation,
				"step":      s.Step,
				"target":    s.Target,
				"duration":  s.Duration.Milliseconds(),
				"error":     s.Error,
				"timestamp": s.Timestamp,
			}
		}
		result[i] = map[string]interface{}{
			"requestId":     trace.RequestID,
			"method":        trace.Method,
			"path":          trace.Path,
			"status":        trace.Status,
			"startTime":     trace.StartTime,
			"totalDuration": trace.TotalDuration.Milliseconds(),
			"steps":         steps,
			"stepTotalTime": trace.StepTotalTime.Milliseconds(),
			"failedStep":    trace.FailedStep,
			"error":         trace.Error,
		}
	}
	return result
}

// MetricsHandler exposes the request and propagation step metrics
type MetricsHandler struct {
	Collector *api.MetricsCollector
}

func (m MetricsHandler) collector() *api.MetricsCollector {
	if m.Collector != nil {
		return m.Collector
	}
	return api.GetMetrics()
}

// SummaryHandler returns the overall counters and the most recent traces
func (m MetricsHandler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	since := time.Now().Add(-time.Hour)
	if sinceStr := r.URL.Query().Get("since"); sinceStr != "" {
		if parsed, err := time.ParseDuration(sinceStr); err == nil {
			since = time.Now().Add(-parsed)
		}
	}

	c := m.collector()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"summary":      c.GetSummary(),
		"recentTraces": formatTraces(c.GetTraces(limit, since)),
	})
}

// RoutesHandler returns the slowest and the most frequent routes, paginated
func (m MetricsHandler) RoutesHandler(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	c := m.collector()
	total := len(c.GetRouteMetrics())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"slowest":      formatRouteMetrics(c.GetSlowestRoutes(limit, offset)),
		"mostFrequent": formatRouteMetrics(c.GetMostFrequentRoutes(limit, offset)),
		"pagination": map[string]interface{}{
			"limit":   limit,
			"offset":  offset,
			"total":   total,
			"hasMore": offset+limit < total,
		},
	})
}

func queryInt(r *http.Request, key string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
