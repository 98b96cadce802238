package limiter

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

const defaultShardCount = 32

// windowState is one identity's counter, billed to the window beginning at
// windowStart (unix seconds).
type windowState struct {
	windowStart int64
	count       int64
}

// shard is one stripe of the counter table. Entries are created lazily
// under mu, so lookup-or-insert is a single critical section.
type shard struct {
	mu      sync.Mutex
	entries map[string]*windowState
}

// FixedWindow is an in-memory RateLimiter using fixed-window counting.
// The counter table is striped across shards keyed by an xxhash of the
// identity, so distinct identities rarely contend on the same lock.
//
// The zero value is not usable; construct with NewFixedWindow.
type FixedWindow struct {
	limit    Limit
	seconds  int64 // limit.Window in whole seconds
	recorder MetricsRecorder
	shards   []*shard
	mask     uint64
}

var _ RateLimiter = (*FixedWindow)(nil)

// NewFixedWindow returns a limiter enforcing limit. The limit is fixed for
// the lifetime of the limiter; run one limiter per policy.
func NewFixedWindow(limit Limit, opts ...Option) (*FixedWindow, error) {
	if limit.Rate <= 0 {
		return nil, fmt.Errorf("%w: rate must be positive, got %d", ErrInvalidConfig, limit.Rate)
	}
	if limit.Window <= 0 {
		return nil, fmt.Errorf("%w: window must be positive, got %v", ErrInvalidConfig, limit.Window)
	}
	if limit.Window%time.Second != 0 {
		return nil, fmt.Errorf("%w: window must be a whole number of seconds, got %v", ErrInvalidConfig, limit.Window)
	}

	cfg := settings{
		shardCount: defaultShardCount,
		recorder:   &NoOpMetricsRecorder{},
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	shards := make([]*shard, cfg.shardCount)
	for i := range shards {
		shards[i] = &shard{entries: make(map[string]*windowState)}
	}

	return &FixedWindow{
		limit:    limit,
		seconds:  int64(limit.Window / time.Second),
		recorder: cfg.recorder,
		shards:   shards,
		mask:     uint64(cfg.shardCount - 1),
	}, nil
}

// Limit returns the policy this limiter enforces.
func (l *FixedWindow) Limit() Limit {
	return l.limit
}

func (l *FixedWindow) shardFor(key string) *shard {
	return l.shards[xxhash.Sum64String(key)&l.mask]
}

// Allow implements RateLimiter. The request is billed to the fixed window
// containing at, except that an identity's window never moves backward: a
// timestamp in an earlier window than the stored one is counted against
// the stored window, and only a strictly later window resets the counter.
//
// Argument errors leave all state untouched.
func (l *FixedWindow) Allow(id Identity, at time.Time) (Decision, error) {
	if id.Key == "" {
		return Decision{}, ErrEmptyIdentity
	}
	t := at.Unix()
	if t < 0 {
		return Decision{}, ErrTimeBeforeEpoch
	}
	windowStart := t - t%l.seconds

	key := id.tableKey()
	sh := l.shardFor(key)

	sh.mu.Lock()
	st, ok := sh.entries[key]
	allowed := true
	switch {
	case !ok:
		st = &windowState{windowStart: windowStart, count: 1}
		sh.entries[key] = st
	case windowStart > st.windowStart:
		st.windowStart = windowStart
		st.count = 1
	case st.count >= l.limit.Rate:
		allowed = false
	default:
		st.count++
	}
	remaining := l.limit.Rate - st.count
	reset := time.Unix(st.windowStart+l.seconds, 0)
	sh.mu.Unlock()

	dec := Decision{
		Allow:     allowed,
		Remaining: remaining,
		ResetTime: reset,
	}
	if !allowed {
		dec.RetryAfter = reset.Sub(at)
	}

	l.recorder.Add(metricDecision, 1, map[string]string{
		"namespace": string(id.Namespace),
		"allowed":   strconv.FormatBool(allowed),
	})
	return dec, nil
}
