package valueobjects

// SubscriptionStatus is the internal lifecycle status of a subscription.
type SubscriptionStatus string

const (
	StatusActive  SubscriptionStatus = "active"
	StatusExpired SubscriptionStatus = "expired"
	StatusBlocked SubscriptionStatus = "blocked"
)

// ValidStatuses is the set of statuses a stored row may hold.
var ValidStatuses = map[SubscriptionStatus]bool{
	StatusActive:  true,
	StatusExpired: true,
	StatusBlocked: true,
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) IsValid() bool {
	return ValidStatuses[s]
}

// StatusFromProcessor maps a payment processor subscription status to the
// internal status. Unknown processor states fail closed to blocked.
func StatusFromProcessor(processorStatus string) SubscriptionStatus {
	switch processorStatus {
	case "active", "trialing":
		return StatusActive
	case "past_due", "unpaid":
		return StatusExpired
	default:
		return StatusBlocked
	}
}
