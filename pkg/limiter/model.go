package limiter

import (
	"time"
)

// Namespace groups identities by what kind of principal they name, so the
// same key string in two namespaces counts as two identities.
type Namespace string

// Identity is the unit of admission control. Namespace and Key together
// form the full identity; Key must be non-empty.
type Identity struct {
	Namespace Namespace
	Key       string
}

// tableKey is the canonical form an identity is stored under.
func (id Identity) tableKey() string {
	return string(id.Namespace) + ":" + id.Key
}

// Limit is an admission policy: at most Rate requests per Window. Window
// must be a positive whole number of seconds.
type Limit struct {
	Rate   int64
	Window time.Duration
}

// Decision is the outcome of a single Allow call.
//
// Remaining is the budget left in the billed window after this decision.
// ResetTime is the instant the billed window ends. RetryAfter is zero when
// the request is allowed, otherwise the wait from the request's own
// timestamp until ResetTime.
type Decision struct {
	Allow      bool
	Remaining  int64
	RetryAfter time.Duration
	ResetTime  time.Time
}

// RateLimiter decides whether a request from id, observed at the given
// time, is admitted. Implementations must be safe for concurrent use and
// must return synchronously without blocking on I/O.
type RateLimiter interface {
	Allow(id Identity, at time.Time) (Decision, error)
}
