package subscription

import "errors"

var (
	// ErrVirtualNotPersistable is returned when a write is attempted
	// against the implicit free/active default subscription.
	ErrVirtualNotPersistable = errors.New("virtual subscription cannot be persisted")

	// ErrNotFound is returned when no subscription row matches.
	ErrNotFound = errors.New("subscription not found")
)
