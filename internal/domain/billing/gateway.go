// Package billing defines the payment processor contract consumed by the
// billing use cases. The concrete Stripe implementation lives in
// infrastructure; use cases never see processor SDK types.
package billing

import (
	"context"
	"time"
)

// Metadata keys attached to every checkout session. They are the only
// link the reconciler has back to internal identities.
const (
	MetadataUserID = "user_id"
	MetadataRole   = "role"
	MetadataPlan   = "plan"
)

// CheckoutSession is the processor-neutral view of a hosted checkout
// session.
type CheckoutSession struct {
	ID             string
	URL            string
	Mode           string
	PaymentStatus  string
	Metadata       map[string]string
	CustomerID     string
	CustomerEmail  string
	SubscriptionID string
}

// Paid reports whether the session's payment has settled.
func (s *CheckoutSession) Paid() bool {
	return s.PaymentStatus == "paid"
}

// ProcessorSubscription is the processor-neutral view of the external
// subscription object linked to a completed session.
type ProcessorSubscription struct {
	ID                 string
	Status             string
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
}

// CreateCheckoutParams describes the hosted session to create.
type CreateCheckoutParams struct {
	PriceID       string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// WebhookEvent is a verified, decoded processor event.
type WebhookEvent struct {
	Type    string
	Session *CheckoutSession
}

// Gateway is the payment processor contract.
type Gateway interface {
	// CreateCheckoutSession creates a hosted subscription-mode checkout
	// session and returns it with its redirect URL.
	CreateCheckoutSession(ctx context.Context, params CreateCheckoutParams) (*CheckoutSession, error)

	// GetCheckoutSession retrieves a session by id with its linked
	// subscription expanded.
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)

	// GetSubscription retrieves the external subscription object for
	// period and status data.
	GetSubscription(ctx context.Context, subscriptionID string) (*ProcessorSubscription, error)

	// CreatePortalSession creates a self-service billing portal session
	// for a stored customer id and returns its URL.
	CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error)

	// ConstructWebhookEvent verifies a webhook payload's signature
	// against the shared secret and decodes it. Unverified payloads are
	// never returned.
	ConstructWebhookEvent(payload []byte, signature string) (*WebhookEvent, error)
}
