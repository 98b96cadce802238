package limiter

import (
	"testing"
	"time"
)

// MockRecorder captures metrics in memory for assertion. It is not safe for
// concurrent use; tests drive the limiter from one goroutine.
type MockRecorder struct {
	Counters map[string]float64
	Timings  map[string][]float64
	TagSets  map[string][]map[string]string
}

func NewMockRecorder() *MockRecorder {
	return &MockRecorder{
		Counters: make(map[string]float64),
		Timings:  make(map[string][]float64),
		TagSets:  make(map[string][]map[string]string),
	}
}

func (m *MockRecorder) Add(name string, value float64, tags map[string]string) {
	m.Counters[name] += value
	m.TagSets[name] = append(m.TagSets[name], tags)
}

func (m *MockRecorder) Observe(name string, value float64, tags map[string]string) {
	m.Timings[name] = append(m.Timings[name], value)
}

func TestFixedWindow_DecisionMetrics(t *testing.T) {
	mock := NewMockRecorder()
	lim := newTestLimiter(t, Limit{Rate: 1, Window: time.Minute}, WithRecorder(mock))
	id := Identity{Namespace: "ip", Key: "10.0.0.1"}

	lim.Allow(id, ts(100, 0)) // allowed
	lim.Allow(id, ts(101, 0)) // denied

	if got := mock.Counters[metricDecision]; got != 2 {
		t.Errorf("Expected 'ratelimit.decision' counter to be 2, got %v", got)
	}

	tags := mock.TagSets[metricDecision]
	if len(tags) != 2 {
		t.Fatalf("Expected 2 tag sets, got %d", len(tags))
	}
	if tags[0]["allowed"] != "true" || tags[1]["allowed"] != "false" {
		t.Errorf("Expected outcomes [true false], got [%s %s]", tags[0]["allowed"], tags[1]["allowed"])
	}
	if tags[0]["namespace"] != "ip" {
		t.Errorf("Expected namespace tag 'ip', got %q", tags[0]["namespace"])
	}
}

func TestFixedWindow_SweepMetrics(t *testing.T) {
	mock := NewMockRecorder()
	lim := newTestLimiter(t, Limit{Rate: 1, Window: 30 * time.Second}, WithRecorder(mock))

	lim.Allow(Identity{Namespace: "ip", Key: "10.0.0.2"}, ts(10, 0))
	lim.Sweep(ts(100, 0))

	if got := mock.Counters[metricSweepEvicted]; got != 1 {
		t.Errorf("Expected 'ratelimit.sweep.evicted' counter to be 1, got %v", got)
	}
	if n := len(mock.Timings[metricSweepDuration]); n != 1 {
		t.Errorf("Expected 1 sweep duration observation, got %d", n)
	}

	// A sweep with nothing to do still observes its duration but adds no
	// eviction count.
	lim.Sweep(ts(100, 0))
	if got := mock.Counters[metricSweepEvicted]; got != 1 {
		t.Errorf("Empty sweep must not count evictions; counter moved to %v", got)
	}
	if n := len(mock.Timings[metricSweepDuration]); n != 2 {
		t.Errorf("Expected 2 sweep duration observations, got %d", n)
	}
}
