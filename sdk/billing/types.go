package billing

// Subscription is the client-side view of a subscription returned by the
// service.
type Subscription struct {
	ID             uint    `json:"id,omitempty"`
	UserID         string  `json:"user_id"`
	Role           string  `json:"role"`
	Plan           string  `json:"plan"`
	Status         string  `json:"status"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	GracePeriodEnd *string `json:"grace_period_end,omitempty"`
	MonthlyPrice   float64 `json:"monthly_price"`
	Virtual        bool    `json:"virtual,omitempty"`
}

// Active reports whether the subscription grants access.
func (s *Subscription) Active() bool {
	return s.Status == "active"
}

// Paid reports whether the subscription is on a paying plan.
func (s *Subscription) Paid() bool {
	return s.Plan == "pro" || s.Plan == "ultimate"
}

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}
