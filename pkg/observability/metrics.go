package observability

import (
	"strings"
	"sync"
	"time"
)

// Metric names recorded by taskpilot.
const (
	MetricOperationTotal    = "taskpilot.operation.total"
	MetricOperationDuration = "taskpilot.operation.duration"
	MetricOperationErrors   = "taskpilot.operation.errors"

	MetricTasksCreated   = "taskpilot.tasks.created"
	MetricTasksCompleted = "taskpilot.tasks.completed"
	MetricTasksDeleted   = "taskpilot.tasks.deleted"

	MetricHTTPRequests = "taskpilot.http.requests"
	MetricHTTPDuration = "taskpilot.http.duration"

	MetricCacheHits   = "taskpilot.cache.hits"
	MetricCacheMisses = "taskpilot.cache.misses"

	// Outbox delivery, tagged with the event routing key.
	MetricEventsPublished    = "taskpilot.events.published"
	MetricEventsFailed       = "taskpilot.events.failed"
	MetricEventsDeadLettered = "taskpilot.events.dead_lettered"
	MetricOutboxLagSeconds   = "taskpilot.outbox.lag_seconds"
)

// Metrics records counters, gauges and timings.
type Metrics interface {
	Counter(name string, value int64, tags ...Tag)
	Gauge(name string, value float64, tags ...Tag)
	Timing(name string, duration time.Duration, tags ...Tag)
}

// Tag labels a metric.
type Tag struct {
	Key   string
	Value string
}

// T creates a new Tag.
func T(key, value string) Tag {
	return Tag{Key: key, Value: value}
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) Counter(string, int64, ...Tag)        {}
func (NoopMetrics) Gauge(string, float64, ...Tag)        {}
func (NoopMetrics) Timing(string, time.Duration, ...Tag) {}

// InMemoryMetrics keeps metrics in process. Tests assert on it and the worker
// serves its Snapshot.
type InMemoryMetrics struct {
	mu       sync.RWMutex
	counters map[string]int64
	gauges   map[string]float64
	timings  map[string][]time.Duration
}

// NewInMemoryMetrics creates an empty collector.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		counters: make(map[string]int64),
		gauges:   make(map[string]float64),
		timings:  make(map[string][]time.Duration),
	}
}

func (m *InMemoryMetrics) Counter(name string, value int64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[formatKey(name, tags)] += value
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gauges[formatKey(name, tags)] = value
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := formatKey(name, tags)
	m.timings[key] = append(m.timings[key], duration)
}

// GetCounter returns the counter for name and tags. Tags must be passed in
// the order they were recorded with.
func (m *InMemoryMetrics) GetCounter(name string, tags ...Tag) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.counters[formatKey(name, tags)]
}

// GetGauge returns the last value set for name and tags.
func (m *InMemoryMetrics) GetGauge(name string, tags ...Tag) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gauges[formatKey(name, tags)]
}

// GetTimings returns every duration recorded for name and tags.
func (m *InMemoryMetrics) GetTimings(name string, tags ...Tag) []time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.timings[formatKey(name, tags)]
}

// TimingSummary aggregates the durations recorded under one key.
type TimingSummary struct {
	Count   int     `json:"count"`
	TotalMS float64 `json:"total_ms"`
	MaxMS   float64 `json:"max_ms"`
}

// MetricsSnapshot is a point-in-time copy keyed by "name:tag=value".
type MetricsSnapshot struct {
	Counters map[string]int64         `json:"counters"`
	Gauges   map[string]float64       `json:"gauges"`
	Timings  map[string]TimingSummary `json:"timings"`
}

// Snapshot copies the current values.
func (m *InMemoryMetrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		Counters: make(map[string]int64, len(m.counters)),
		Gauges:   make(map[string]float64, len(m.gauges)),
		Timings:  make(map[string]TimingSummary, len(m.timings)),
	}
	for k, v := range m.counters {
		snap.Counters[k] = v
	}
	for k, v := range m.gauges {
		snap.Gauges[k] = v
	}
	for k, durations := range m.timings {
		var sum TimingSummary
		for _, d := range durations {
			ms := float64(d) / float64(time.Millisecond)
			sum.Count++
			sum.TotalMS += ms
			if ms > sum.MaxMS {
				sum.MaxMS = ms
			}
		}
		snap.Timings[k] = sum
	}
	return snap
}

func formatKey(name string, tags []Tag) string {
	if len(tags) == 0 {
		return name
	}
	var b strings.Builder
	b.WriteString(name)
	for _, t := range tags {
		b.WriteByte(':')
		b.WriteString(t.Key)
		b.WriteByte('=')
		b.WriteString(t.Value)
	}
	return b.String()
}
