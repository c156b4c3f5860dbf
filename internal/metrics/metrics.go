package metrics

import (
	"sync"
	"time"
)

type storeStats struct {
	calls       int
	errors      int
	lastLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about store operations and
// forwards everything to OpenTelemetry instruments when those are configured.
type Recorder struct {
	mu    sync.Mutex
	stats map[string]*storeStats
	otel  *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*storeStats),
		otel:  otel,
	}
}

// RecordStoreOperation counts a store call (create, query, update, delete) against a table.
func (r *Recorder) RecordStoreOperation(op, table string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	stats := r.ensureStats(statsKey(op, table))
	r.mu.Lock()
	stats.calls++
	stats.lastLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordStoreOperation(op, table, duration, err)
	}
}

// StoreCalls returns the total operations recorded for op on table.
func (r *Recorder) StoreCalls(op, table string) int {
	return r.Snapshot(op, table).Calls
}

// StoreErrors returns the failed operations recorded for op on table.
func (r *Recorder) StoreErrors(op, table string) int {
	return r.Snapshot(op, table).Errors
}

// Snapshot returns a copy of the current stats for an operation.
type Snapshot struct {
	Calls       int
	Errors      int
	LastLatency time.Duration
}

func (r *Recorder) Snapshot(op, table string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	stats := r.snapshot(statsKey(op, table))
	return Snapshot{
		Calls:       stats.calls,
		Errors:      stats.errors,
		LastLatency: stats.lastLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

func statsKey(op, table string) string {
	return op + ":" + table
}

func (r *Recorder) ensureStats(key string) *storeStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[key]
	if !ok {
		stats = &storeStats{}
		r.stats[key] = stats
	}
	return stats
}

func (r *Recorder) snapshot(key string) storeStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.stats[key]; ok && stats != nil {
		return *stats
	}
	return storeStats{}
}
