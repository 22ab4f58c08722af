// Package sensor binds measurement specs to live register windows and
// produces availability-gated readings.
package sensor

import "context"

// RegisterWindow is the view a reader has of one physical device: the
// most recent register snapshot plus an availability flag. The concrete
// implementation owns the connection; ordinary network failure never
// surfaces as an error here, only as Available() == false.
type RegisterWindow interface {
	// Poll refreshes the snapshot with one device round trip. It blocks
	// until the round trip completes, times out, or ctx is cancelled;
	// the returned error is only ever a context error.
	Poll(ctx context.Context) error

	// Registers returns the snapshot from the last successful poll.
	// The slice is immutable once published; callers must not modify it.
	Registers() []uint16

	// Available reports whether the last poll succeeded.
	Available() bool
}
