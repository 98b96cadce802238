package limiter

import "fmt"

// settings collects construction-time configuration for FixedWindow.
type settings struct {
	shardCount int
	recorder   MetricsRecorder
}

// Option configures a FixedWindow at construction.
type Option func(*settings) error

const maxShardCount = 1 << 16

// WithShardCount sets how many lock stripes the counter table is split
// across. Values that are not a power of two are rounded up to the next
// one. The default is 32.
func WithShardCount(n int) Option {
	return func(s *settings) error {
		if n <= 0 || n > maxShardCount {
			return fmt.Errorf("%w: shard count must be between 1 and %d, got %d", ErrInvalidConfig, maxShardCount, n)
		}
		s.shardCount = nextPowerOfTwo(n)
		return nil
	}
}

// WithRecorder injects a metrics backend. Passing nil restores the default
// recorder, which discards everything.
func WithRecorder(r MetricsRecorder) Option {
	return func(s *settings) error {
		if r == nil {
			r = &NoOpMetricsRecorder{}
		}
		s.recorder = r
		return nil
	}
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
