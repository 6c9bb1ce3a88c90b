// Package constants defines shared constant values used across the application.
package constants

// Environment names
const (
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"
)

// Database table names
const (
	TableSubscriptions = "subscriptions"
)

// Gin context keys set by the auth middleware
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyUserEmail = "user_email"
)

// Stripe webhook
const (
	StripeSignatureHeader        = "Stripe-Signature"
	StripeEventCheckoutCompleted = "checkout.session.completed"
)
