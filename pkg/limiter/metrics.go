package limiter

// Metric names emitted by FixedWindow.
const (
	metricDecision      = "ratelimit.decision"
	metricSweepEvicted  = "ratelimit.sweep.evicted"
	metricSweepDuration = "ratelimit.sweep.duration"
)

// MetricsRecorder receives counters and observations from the limiter.
// Implementations must be safe for concurrent use.
type MetricsRecorder interface {
	// Add increments a counter by value.
	Add(name string, value float64, tags map[string]string)
	// Observe records a single sampled value, such as a duration.
	Observe(name string, value float64, tags map[string]string)
}

// NoOpMetricsRecorder is a placeholder that does nothing.
// It ensures we never have to check 'if r.recorder != nil' in our hot path.
type NoOpMetricsRecorder struct{}

func (n *NoOpMetricsRecorder) Add(name string, value float64, tags map[string]string)     {}
func (n *NoOpMetricsRecorder) Observe(name string, value float64, tags map[string]string) {}
