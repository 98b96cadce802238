// Package limiter provides in-process, per-identity admission control based
// on the fixed-window counting algorithm.
//
// The primary entry point is the RateLimiter interface:
//
//	dec, err := lim.Allow(id, time.Now())
//
// The returned Decision contains whether the request is allowed, how much of
// the window's budget remains, and timing hints for callers that want to set
// rate-limit headers (for example, Retry-After).
//
// # Overview
//
// This package implements a fixed-window counter:
//
//   - The time axis is partitioned into contiguous windows of equal length,
//     aligned to multiples of the window size since the Unix epoch.
//   - Each identity has a counter for the window it is currently billed to.
//   - Each Allow call admits while the counter is below Rate, and the counter
//     starts over when a request arrives in a later window.
//
// Unlike token buckets, fixed windows never smooth traffic: the full budget
// is available at once in every window. The trade-off is boundary bursting,
// described below.
//
// # Core Types
//
// Limit defines the policy and is fixed at construction:
//
//   - Rate: admissions allowed per window (for example, 5 per minute)
//   - Window: the window length; must be a positive whole number of seconds
//
// Identity defines "who" is being limited. It is split into:
//
//   - Namespace: a logical grouping (for example, "ip", "client", "token")
//   - Key: the identifier within that namespace (for example, "user_123")
//
// # Window Arithmetic
//
// A timestamp t is billed to the window starting at floor(t/Window)*Window,
// computed from t's whole seconds; fractional seconds never change which
// window a request lands in. The first request from an identity, and the
// first request in a later window, always admit and set the counter to 1.
//
// # Boundary Bursting
//
// Up to twice Rate requests can be admitted in a short span straddling a
// window boundary: Rate at the tail of one window and Rate at the head of
// the next.
// This is inherent to fixed-window counting and is documented, tested
// behavior rather than a defect. Choose Rate and Window so that twice the
// rate in a short burst is tolerable.
//
// # Backward Timestamps
//
// The window an identity is billed to never moves backward. A request whose
// timestamp falls in an earlier window than the stored one is counted
// against the stored window; only a strictly later window starts a new
// count. A clock stepping backward therefore cannot re-arm budgets or
// black-hole traffic.
//
// # Concurrency
//
// FixedWindow is safe for concurrent use by multiple goroutines. The counter
// table is striped across shards keyed by an xxhash of the identity, so
// calls for the same identity serialize while calls for unrelated identities
// usually proceed in parallel. Allow never blocks on I/O and always returns
// synchronously; there are no context or cancellation semantics.
//
// # Decision Semantics
//
//   - Allow reports whether the current request is permitted.
//   - Remaining is the budget left in the billed window after the decision.
//   - ResetTime is the instant the billed window ends.
//   - RetryAfter is 0 when allowed; when denied it is the duration from the
//     request's own timestamp until ResetTime.
//
// # Errors
//
// NewFixedWindow fails with an error wrapping ErrInvalidConfig for a
// non-positive rate, a non-positive window, or a window that is not a whole
// number of seconds. Allow fails with ErrEmptyIdentity or ErrTimeBeforeEpoch
// without creating or modifying any state; callers should surface these as
// malformed requests, distinct from a denied decision.
//
// # Eviction
//
// Nothing is evicted by default, so a long-lived limiter seeing unbounded
// distinct identities grows without bound. Sweep removes identities whose
// window has already ended, and StartSweeper runs sweeps periodically until
// its context is cancelled:
//
//	lim.StartSweeper(ctx, 5*time.Minute)
//
// A swept identity that reappears starts over with a fresh window.
//
// # Configuration
//
// FixedWindow is configured using the Functional Options pattern:
//
//	lim, err := limiter.NewFixedWindow(limit,
//		limiter.WithShardCount(128),
//		limiter.WithRecorder(myMetrics),
//	)
//
// Supported options:
//
//   - WithShardCount(int): Sets the number of lock stripes, rounded up to
//     the next power of two (default 32).
//   - WithRecorder(MetricsRecorder): Injects a custom metrics backend. The
//     limiter counts decisions under "ratelimit.decision" (tagged with
//     namespace and outcome), counts sweep evictions under
//     "ratelimit.sweep.evicted", and observes sweep durations in seconds
//     under "ratelimit.sweep.duration".
package limiter
