package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides in-memory counters for gateway calls.
type Metrics struct {
	mu         sync.Mutex
	callCount  map[string]int64
	errorCount map[string]int64
	totalTime  time.Duration
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		callCount:  make(map[string]int64),
		errorCount: make(map[string]int64),
	}
}

// RecordCall counts a completed call by method and status.
func (m *Metrics) RecordCall(method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount[callKey(method, status)]++
	m.totalTime += duration
}

// RecordFailure counts a failed call by method and failure kind.
func (m *Metrics) RecordFailure(method, kind string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[method+"|"+kind]++
}

// Calls returns the number of calls recorded for method and status.
func (m *Metrics) Calls(method string, status int) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount[callKey(method, status)]
}

// Failures returns the number of failures recorded for method and kind.
func (m *Metrics) Failures(method, kind string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errorCount[method+"|"+kind]
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() map[string]int64 {
	if m == nil {
		return map[string]int64{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.callCount)+len(m.errorCount))
	for k, v := range m.callCount {
		out["call|"+k] = v
	}
	for k, v := range m.errorCount {
		out["error|"+k] = v
	}
	return out
}

func callKey(method string, status int) string {
	return method + "|" + strconv.Itoa(status)
}
