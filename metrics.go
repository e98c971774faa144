package main

import (
	"sync"
	"time"
)

// metricsCollector tracks wall-clock event throughput for the
// benchmark report.
type metricsCollector struct {
	mu     sync.Mutex
	start  time.Time
	events uint64
}

func newMetricsCollector() *metricsCollector {
	return &metricsCollector{start: time.Now()}
}

// RecordDispatched adds a partition's dispatched event count.
func (m *metricsCollector) RecordDispatched(n uint64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.events += n
	m.mu.Unlock()
}

// Snapshot returns the dispatched total, the elapsed wall-clock time,
// and the resulting event rate.
func (m *metricsCollector) Snapshot() (uint64, time.Duration, float64) {
	if m == nil {
		return 0, 0, 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	elapsed := time.Since(m.start)
	rate := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(m.events) / secs
	}
	return m.events, elapsed, rate
}
