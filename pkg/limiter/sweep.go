package limiter

import (
	"context"
	"time"
)

// Sweep removes every tracked identity whose billed window ended at or
// before cutoff and reports how many were removed. Identities still inside
// their window are kept. A swept identity that reappears is treated as
// first-seen, even if its next timestamp is older than the swept state.
func (l *FixedWindow) Sweep(cutoff time.Time) int {
	start := time.Now()
	c := cutoff.Unix()

	evicted := 0
	for _, sh := range l.shards {
		sh.mu.Lock()
		for key, st := range sh.entries {
			if st.windowStart+l.seconds <= c {
				delete(sh.entries, key)
				evicted++
			}
		}
		sh.mu.Unlock()
	}

	if evicted > 0 {
		l.recorder.Add(metricSweepEvicted, float64(evicted), nil)
	}
	l.recorder.Observe(metricSweepDuration, time.Since(start).Seconds(), nil)
	return evicted
}

// StartSweeper runs Sweep(time.Now()) every interval on its own goroutine
// until ctx is cancelled. Intervals <= 0 disable the sweeper. Sweeping is
// strictly opt-in; without it the limiter tracks identities forever.
func (l *FixedWindow) StartSweeper(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(every):
				l.Sweep(time.Now())
			}
		}
	}()
}

// Len reports how many identities are currently tracked across all shards.
func (l *FixedWindow) Len() int {
	n := 0
	for _, sh := range l.shards {
		sh.mu.Lock()
		n += len(sh.entries)
		sh.mu.Unlock()
	}
	return n
}
