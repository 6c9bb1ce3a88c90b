package subscription

import (
	"context"

	"tablier/internal/shared/authorization"
)

// Repository is the persistence contract for subscriptions.
//
// UpsertFromCheckout must be atomic: the find-latest read and the
// subsequent write happen under a lock so that concurrent reconciliation
// triggers (webhook and confirmation pull) for the same session converge
// on a single row instead of racing to insert duplicates.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	Update(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)

	// GetLatestByUser returns the most recent row for a user across all
	// roles, or nil when the user has no subscription.
	GetLatestByUser(ctx context.Context, userID string) (*Subscription, error)

	// GetLatestByUserAndRole returns the most recent row for the
	// (user, role) lineage, or nil when none exists.
	GetLatestByUserAndRole(ctx context.Context, userID string, role authorization.UserRole) (*Subscription, error)

	// ListAll returns every subscription row, newest first.
	ListAll(ctx context.Context) ([]*Subscription, error)

	// UpsertFromCheckout applies reconciled checkout state to the latest
	// (user, role) row, inserting one if none exists. It returns the
	// persisted subscription.
	UpsertFromCheckout(ctx context.Context, app CheckoutApplication, userID string, role authorization.UserRole) (*Subscription, error)
}
