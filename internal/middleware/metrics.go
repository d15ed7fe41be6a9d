package middleware

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics stores application metrics
type Metrics struct {
	RequestsTotal      uint64
	RequestsInProgress uint64
	RequestsSuccess    uint64
	RequestsFailed     uint64
	QueriesTotal       uint64
	QueriesFailed      uint64
	DatasetsLoaded     uint64
	StartTime          time.Time
}

var globalMetrics = &Metrics{
	StartTime: time.Now(),
}

// IncrementQueries increments total ask-pipeline counter
func IncrementQueries() {
	atomic.AddUint64(&globalMetrics.QueriesTotal, 1)
}

// IncrementQueriesFailed increments failed ask-pipeline counter
func IncrementQueriesFailed() {
	atomic.AddUint64(&globalMetrics.QueriesFailed, 1)
}

// IncrementDatasets increments the loaded-dataset counter
func IncrementDatasets() {
	atomic.AddUint64(&globalMetrics.DatasetsLoaded, 1)
}

// AddDatasets bumps the loaded-dataset counter by n, for batch intakes
func AddDatasets(n int) {
	if n > 0 {
		atomic.AddUint64(&globalMetrics.DatasetsLoaded, uint64(n))
	}
}

// GetMetrics returns current metrics
func GetMetrics() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"requests_total":       atomic.LoadUint64(&globalMetrics.RequestsTotal),
		"requests_in_progress": atomic.LoadUint64(&globalMetrics.RequestsInProgress),
		"requests_success":     atomic.LoadUint64(&globalMetrics.RequestsSuccess),
		"requests_failed":      atomic.LoadUint64(&globalMetrics.RequestsFailed),
		"queries_total":        atomic.LoadUint64(&globalMetrics.QueriesTotal),
		"queries_failed":       atomic.LoadUint64(&globalMetrics.QueriesFailed),
		"datasets_loaded":      atomic.LoadUint64(&globalMetrics.DatasetsLoaded),
		"uptime_seconds":       time.Since(globalMetrics.StartTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes": m.Alloc,
			"sys_bytes":   m.Sys,
			"num_gc":      m.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// MetricsMiddleware tracks request metrics
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddUint64(&globalMetrics.RequestsTotal, 1)
		atomic.AddUint64(&globalMetrics.RequestsInProgress, 1)
		defer atomic.AddUint64(&globalMetrics.RequestsInProgress, ^uint64(0))

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		if wrapped.statusCode >= 200 && wrapped.statusCode < 400 {
			atomic.AddUint64(&globalMetrics.RequestsSuccess, 1)
		} else {
			atomic.AddUint64(&globalMetrics.RequestsFailed, 1)
		}
	})
}

// MetricsHandler returns metrics as JSON
func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(GetMetrics())
}
