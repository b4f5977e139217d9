package api

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
)

// RequestTrace tracks timing for a single request
type RequestTrace struct {
	RequestID     string            `json:"requestId"`
	Method        string            `json:"method"`
	Path          string            `json:"path"`
	Status        int               `json:"status"`
	StartTime     time.Time         `json:"startTime"`
	EndTime       time.Time         `json:"endTime"`
	TotalDuration time.Duration     `json:"totalDuration"`
	Steps         []StepTrace       `json:"steps"`
	StepTotalTime time.Duration     `json:"stepTotalTime"`
	FailedStep    string            `json:"failedStep,omitempty"`
	Error         string            `json:"error,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// StepTrace tracks a single store call made while propagating a mutation
type StepTrace struct {
	Operation string        `json:"operation"`
	Step      string        `json:"step"`
	Target    string        `json:"target"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// RouteMetrics aggregates metrics for a specific route
type RouteMetrics struct {
	Method        string        `json:"method"`
	Path          string        `json:"path"`
	Count         int64         `json:"count"`
	ErrorCount    int64         `json:"errorCount"`
	PartialCount  int64         `json:"partialCount"`
	TotalTime     time.Duration `json:"totalTime"`
	AvgTime       time.Duration `json:"avgTime"`
	MinTime       time.Duration `json:"minTime"`
	MaxTime       time.Duration `json:"maxTime"`
	P50Time       time.Duration `json:"p50Time"`
	P95Time       time.Duration `json:"p95Time"`
	StepTotalTime time.Duration `json:"stepTotalTime"`
	StepAvgTime   time.Duration `json:"stepAvgTime"`
	LastRequest   time.Time     `json:"lastRequest"`
}

// MetricsCollector collects and aggregates request metrics
type MetricsCollector struct {
	mu             sync.RWMutex
	traces         []RequestTrace
	maxTraces      int
	routeMetrics   map[string]*RouteMetrics
	failedSteps    map[string]int64
	windowStart    time.Time
	windowDuration time.Duration
	totalRequests  int64
	totalErrors    int64
	totalSteps     int64
	totalStepTime  time.Duration
	traceChan      chan RequestTrace
}

var (
	globalMetrics *MetricsCollector
	metricsOnce   sync.Once
)

// NewMetricsCollector creates a collector. Call Run to start consuming traces.
func NewMetricsCollector(maxTraces int, windowDuration time.Duration) *MetricsCollector {
	return &MetricsCollector{
		traces:         make([]RequestTrace, 0, maxTraces),
		maxTraces:      maxTraces,
		routeMetrics:   make(map[string]*RouteMetrics),
		failedSteps:    make(map[string]int64),
		windowStart:    time.Now(),
		windowDuration: windowDuration,
		traceChan:      make(chan RequestTrace, 1000),
	}
}

// InitMetrics installs the global collector and starts its background loop
func InitMetrics(ctx context.Context, maxTraces int, windowDuration time.Duration) *MetricsCollector {
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsCollector(maxTraces, windowDuration)
		go globalMetrics.Run(ctx)
	})
	return globalMetrics
}

// GetMetrics returns the global metrics collector
func GetMetrics() *MetricsCollector {
	return InitMetrics(context.Background(), 10000, time.Hour)
}

// RecordTrace queues a trace without blocking. Traces are dropped when the
// queue is full.
func (mc *MetricsCollector) RecordTrace(trace RequestTrace) {
	select {
	case mc.traceChan <- trace:
	default:
	}
}

// Run consumes queued traces and prunes the window until ctx is done
func (mc *MetricsCollector) Run(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case trace := <-mc.traceChan:
			mc.process(trace)
		case now := <-ticker.C:
			mc.prune(now)
		case <-ctx.Done():
			return
		}
	}
}

func (mc *MetricsCollector) process(trace RequestTrace) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if len(mc.traces) >= mc.maxTraces {
		mc.traces = mc.traces[1:]
	}
	mc.traces = append(mc.traces, trace)

	routeKey := trace.Method + " " + normalizeRoutePath(trace.Path)
	metrics, exists := mc.routeMetrics[routeKey]
	if !exists {
		metrics = &RouteMetrics{
			Method:  trace.Method,
			Path:    normalizeRoutePath(trace.Path),
			MinTime: trace.TotalDuration,
		}
		mc.routeMetrics[routeKey] = metrics
	}

	metrics.Count++
	metrics.TotalTime += trace.TotalDuration
	metrics.AvgTime = metrics.TotalTime / time.Duration(metrics.Count)
	metrics.LastRequest = trace.StartTime
	if trace.TotalDuration < metrics.MinTime {
		metrics.MinTime = trace.TotalDuration
	}
	if trace.TotalDuration > metrics.MaxTime {
		metrics.MaxTime = trace.TotalDuration
	}
	if trace.Status >= 400 {
		metrics.ErrorCount++
		mc.totalErrors++
	}
	if trace.FailedStep != "" {
		mc.failedSteps[trace.FailedStep]++
		if len(trace.Steps) > 1 {
			metrics.PartialCount++
		}
	}
	metrics.StepTotalTime += trace.StepTotalTime
	metrics.StepAvgTime = metrics.StepTotalTime / time.Duration(metrics.Count)

	mc.totalRequests++
	mc.totalSteps += int64(len(trace.Steps))
	mc.totalStepTime += trace.StepTotalTime

	if metrics.Count%100 == 0 {
		mc.calculatePercentiles(routeKey)
	}
}

func (mc *MetricsCollector) prune(now time.Time) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	cutoff := now.Add(-mc.windowDuration)
	kept := mc.traces[:0]
	for _, trace := range mc.traces {
		if trace.StartTime.After(cutoff) {
			kept = append(kept, trace)
		}
	}
	mc.traces = kept
	if now.Sub(mc.windowStart) > mc.windowDuration {
		mc.windowStart = now
	}
}

// GetTraces returns up to limit traces started after since, oldest first
func (mc *MetricsCollector) GetTraces(limit int, since time.Time) []RequestTrace {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	var filtered []RequestTrace
	for i := len(mc.traces) - 1; i >= 0 && len(filtered) < limit; i-- {
		if mc.traces[i].StartTime.After(since) {
			filtered = append(filtered, mc.traces[i])
		}
	}
	for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
		filtered[i], filtered[j] = filtered[j], filtered[i]
	}
	return filtered
}

// GetRouteMetrics returns copies of the aggregated metrics of every route
func (mc *MetricsCollector) GetRouteMetrics() map[string]*RouteMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	result := make(map[string]*RouteMetrics, len(mc.routeMetrics))
	for k, v := range mc.routeMetrics {
		metrics := *v
		result[k] = &metrics
	}
	return result
}

// GetSummary returns overall summary metrics
func (mc *MetricsCollector) GetSummary() map[string]interface{} {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	elapsed := time.Since(mc.windowStart)
	if elapsed > mc.windowDuration {
		elapsed = mc.windowDuration
	}
	var tps float64
	if elapsed.Seconds() > 0 {
		tps = float64(mc.totalRequests) / elapsed.Seconds()
	}
	var errorRate float64
	if mc.totalRequests > 0 {
		errorRate = float64(mc.totalErrors) / float64(mc.totalRequests)
	}
	var avgStepTime time.Duration
	if mc.totalSteps > 0 {
		avgStepTime = mc.totalStepTime / time.Duration(mc.totalSteps)
	}
	failed := make(map[string]int64, len(mc.failedSteps))
	for k, v := range mc.failedSteps {
		failed[k] = v
	}

	return map[string]interface{}{
		"totalRequests": mc.totalRequests,
		"totalErrors":   mc.totalErrors,
		"errorRate":     errorRate,
		"tps":           tps,
		"totalSteps":    mc.totalSteps,
		"totalStepTime": mc.totalStepTime.String(),
		"avgStepTime":   avgStepTime.String(),
		"failedSteps":   failed,
		"windowStart":   mc.windowStart,
		"windowEnd":     mc.windowStart.Add(mc.windowDuration),
		"routeCount":    len(mc.routeMetrics),
		"traceCount":    len(mc.traces),
	}
}

// GetSlowestRoutes returns routes ordered by average time, paginated
func (mc *MetricsCollector) GetSlowestRoutes(limit, offset int) []*RouteMetrics {
	return mc.sortedRoutes(limit, offset, func(a, b *RouteMetrics) bool { return a.AvgTime > b.AvgTime })
}

// GetMostFrequentRoutes returns routes ordered by request count, paginated
func (mc *MetricsCollector) GetMostFrequentRoutes(limit, offset int) []*RouteMetrics {
	return mc.sortedRoutes(limit, offset, func(a, b *RouteMetrics) bool { return a.Count > b.Count })
}

func (mc *MetricsCollector) sortedRoutes(limit, offset int, less func(a, b *RouteMetrics) bool) []*RouteMetrics {
	mc.mu.RLock()
	routes := make([]*RouteMetrics, 0, len(mc.routeMetrics))
	for _, m := range mc.routeMetrics {
		c := *m
		routes = append(routes, &c)
	}
	mc.mu.RUnlock()

	sort.Slice(routes, func(i, j int) bool { return less(routes[i], routes[j]) })
	if offset >= len(routes) {
		return []*RouteMetrics{}
	}
	end := offset + limit
	if end > len(routes) {
		end = len(routes)
	}
	return routes[offset:end]
}

func (mc *MetricsCollector) calculatePercentiles(routeKey string) {
	metrics := mc.routeMetrics[routeKey]
	if metrics == nil {
		return
	}
	var durations []time.Duration
	for _, trace := range mc.traces {
		if trace.Method+" "+normalizeRoutePath(trace.Path) == routeKey {
			durations = append(durations, trace.TotalDuration)
		}
	}
	if len(durations) == 0 {
		return
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	metrics.P50Time = durations[len(durations)*50/100]
	metrics.P95Time = durations[len(durations)*95/100]
}

var (
	uuidSegment     = regexp.MustCompile(`/[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}(/|$)`)
	objectIDSegment = regexp.MustCompile(`/[0-9a-fA-F]{24}(/|$)`)
)

// normalizeRoutePath replaces id segments so that
// /api/v1/appointments/0b9d…/cancel groups as /api/v1/appointments/{id}/cancel
func normalizeRoutePath(path string) string {
	path = uuidSegment.ReplaceAllString(path, "/{id}$1")
	path = objectIDSegment.ReplaceAllString(path, "/{id}$1")
	if strings.HasPrefix(path, "/api/v1/files/") {
		path = "/api/v1/files/{path}"
	}
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}

type requestTraceContextKey struct{}

type requestTraceContext struct {
	trace *RequestTrace
	mu    sync.Mutex
}

func getRequestTraceFromContext(ctx context.Context) *requestTraceContext {
	if val := ctx.Value(requestTraceContextKey{}); val != nil {
		return val.(*requestTraceContext)
	}
	return nil
}

// WithRequestTrace adds request trace to context
func WithRequestTrace(ctx context.Context, trace *RequestTrace) context.Context {
	return context.WithValue(ctx, requestTraceContextKey{}, &requestTraceContext{trace: trace})
}

// RecordStepFromContext appends a step to the request trace in ctx, if any
func RecordStepFromContext(ctx context.Context, op, step, target string, d time.Duration, err error) {
	reqTrace := getRequestTraceFromContext(ctx)
	if reqTrace == nil || reqTrace.trace == nil {
		return
	}

	st := StepTrace{
		Operation: op,
		Step:      step,
		Target:    target,
		Duration:  d,
		Timestamp: time.Now(),
	}
	reqTrace.mu.Lock()
	defer reqTrace.mu.Unlock()
	if err != nil {
		st.Error = err.Error()
		reqTrace.trace.FailedStep = step
	}
	reqTrace.trace.Steps = append(reqTrace.trace.Steps, st)
	reqTrace.trace.StepTotalTime += d
}

// StepRecorder feeds propagation steps into the request trace
type StepRecorder struct{}

// RecordStep implements propagation.StepRecorder
func (StepRecorder) RecordStep(ctx context.Context, op, step, target string, d time.Duration, err error) {
	RecordStepFromContext(ctx, op, step, target, d, err)
}
