package dto

import "time"

// SubscriptionDTO is the presentation shape of a subscription. Calendar
// dates are serialized as YYYY-MM-DD; the status field is the effective
// status, already refreshed by the use case layer.
type SubscriptionDTO struct {
	ID                   uint      `json:"id,omitempty"`
	UserID               string    `json:"user_id"`
	Role                 string    `json:"role"`
	Plan                 string    `json:"plan"`
	Status               string    `json:"status"`
	StartDate            string    `json:"start_date"`
	EndDate              string    `json:"end_date"`
	GracePeriodEnd       *string   `json:"grace_period_end,omitempty"`
	MonthlyPrice         float64   `json:"monthly_price"`
	StripeCustomerID     *string   `json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string   `json:"stripe_subscription_id,omitempty"`
	Virtual              bool      `json:"virtual,omitempty"`
	CreatedAt            time.Time `json:"created_at,omitempty"`
	UpdatedAt            time.Time `json:"updated_at,omitempty"`
}

// RefreshResultDTO summarizes a status sweep.
type RefreshResultDTO struct {
	Changed       int                `json:"changed"`
	Subscriptions []*SubscriptionDTO `json:"subscriptions"`
}
