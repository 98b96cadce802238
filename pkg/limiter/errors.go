package limiter

import "errors"

var (
	// ErrInvalidConfig is returned by NewFixedWindow when the limit or an
	// option is unusable. The returned error wraps it with the detail.
	ErrInvalidConfig = errors.New("limiter: invalid configuration")

	// ErrEmptyIdentity is returned by Allow when the identity key is empty.
	// No state is created or modified.
	ErrEmptyIdentity = errors.New("limiter: empty identity key")

	// ErrTimeBeforeEpoch is returned by Allow for timestamps before the
	// Unix epoch. No state is created or modified.
	ErrTimeBeforeEpoch = errors.New("limiter: timestamp before unix epoch")
)
