package subscription

import (
	"fmt"
	"time"

	vo "tablier/internal/domain/subscription/valueobjects"
	"tablier/internal/shared/authorization"
	"tablier/internal/shared/biztime"
)

// GracePeriodDays is the window after paid-period expiry during which
// access is degraded but not revoked.
const GracePeriodDays = 3

// Subscription is the aggregate root for one (user, role) subscription
// lineage. A virtual subscription represents the implicit free/active
// default for users with no stored row and can never be persisted.
type Subscription struct {
	id                   uint
	userID               string
	role                 authorization.UserRole
	plan                 vo.Plan
	status               vo.SubscriptionStatus
	startDate            time.Time
	endDate              time.Time
	gracePeriodEnd       *time.Time
	monthlyPrice         float64
	stripeCustomerID     *string
	stripeSubscriptionID *string
	checkoutSessionID    string
	virtual              bool
	createdAt            time.Time
	updatedAt            time.Time
}

// NewSubscription creates a subscription through the administrative path.
// Billing-flow rows are created via ApplyCheckout on a reconciled aggregate.
func NewSubscription(userID string, role authorization.UserRole, plan vo.Plan, startDate, endDate time.Time) (*Subscription, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if role == "" {
		return nil, fmt.Errorf("role is required")
	}
	if !plan.IsValid() {
		return nil, fmt.Errorf("invalid plan: %s", plan)
	}

	startDate = biztime.DateOf(startDate)
	if startDate.IsZero() {
		startDate = biztime.Today()
	}
	endDate = biztime.DateOf(endDate)
	if endDate.IsZero() {
		endDate = startDate
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end date must not be before start date")
	}

	grace := biztime.AddDays(endDate, GracePeriodDays)
	now := biztime.NowUTC()

	return &Subscription{
		userID:         userID,
		role:           role,
		plan:           plan,
		status:         vo.StatusActive,
		startDate:      startDate,
		endDate:        endDate,
		gracePeriodEnd: &grace,
		monthlyPrice:   monthlyPrices[plan],
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// VirtualSubscription returns the non-persisted free/active default for a
// user with no stored row.
func VirtualSubscription(userID string, role authorization.UserRole) *Subscription {
	today := biztime.Today()
	return &Subscription{
		userID:         userID,
		role:           role,
		plan:           vo.PlanFree,
		status:         vo.StatusActive,
		startDate:      today,
		endDate:        today,
		gracePeriodEnd: &today,
		monthlyPrice:   0,
		virtual:        true,
	}
}

// ReconstructParams carries persistence fields for rebuilding the aggregate.
type ReconstructParams struct {
	ID                   uint
	UserID               string
	Role                 string
	Plan                 vo.Plan
	Status               vo.SubscriptionStatus
	StartDate            time.Time
	EndDate              time.Time
	GracePeriodEnd       *time.Time
	MonthlyPrice         float64
	StripeCustomerID     *string
	StripeSubscriptionID *string
	CheckoutSessionID    string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Reconstruct rebuilds a subscription from persistence.
func Reconstruct(p ReconstructParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if p.UserID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if p.Role == "" {
		return nil, fmt.Errorf("role is required")
	}
	if !p.Plan.IsValid() {
		return nil, fmt.Errorf("invalid plan: %s", p.Plan)
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}

	return &Subscription{
		id:                   p.ID,
		userID:               p.UserID,
		role:                 authorization.UserRole(p.Role),
		plan:                 p.Plan,
		status:               p.Status,
		startDate:            p.StartDate,
		endDate:              p.EndDate,
		gracePeriodEnd:       p.GracePeriodEnd,
		monthlyPrice:         p.MonthlyPrice,
		stripeCustomerID:     p.StripeCustomerID,
		stripeSubscriptionID: p.StripeSubscriptionID,
		checkoutSessionID:    p.CheckoutSessionID,
		createdAt:            p.CreatedAt,
		updatedAt:            p.UpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint                       { return s.id }
func (s *Subscription) UserID() string                 { return s.userID }
func (s *Subscription) Role() authorization.UserRole   { return s.role }
func (s *Subscription) Plan() vo.Plan                  { return s.plan }
func (s *Subscription) Status() vo.SubscriptionStatus  { return s.status }
func (s *Subscription) StartDate() time.Time           { return s.startDate }
func (s *Subscription) EndDate() time.Time             { return s.endDate }
func (s *Subscription) GracePeriodEnd() *time.Time     { return s.gracePeriodEnd }
func (s *Subscription) MonthlyPrice() float64          { return s.monthlyPrice }
func (s *Subscription) StripeCustomerID() *string      { return s.stripeCustomerID }
func (s *Subscription) StripeSubscriptionID() *string  { return s.stripeSubscriptionID }
func (s *Subscription) CheckoutSessionID() string      { return s.checkoutSessionID }
func (s *Subscription) CreatedAt() time.Time           { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time           { return s.updatedAt }

// IsVirtual reports whether this is the implicit free/active default
// rather than a stored row. Virtual subscriptions are never persisted.
func (s *Subscription) IsVirtual() bool {
	return s.virtual
}

// SetID sets the subscription ID (only for persistence layer use)
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// EffectiveStatus computes the lifecycle status for a calendar date.
// The conditions form a strict decision chain: blocking is sticky and is
// only reversed by an explicit unblock, an unexpired paid period is
// active on its boundary day inclusive, the grace window downgrades to
// expired, and a lapsed grace window means blocked.
func (s *Subscription) EffectiveStatus(today time.Time) vo.SubscriptionStatus {
	if s.status == vo.StatusBlocked {
		return vo.StatusBlocked
	}
	if biztime.SameOrBefore(today, s.endDate) {
		return vo.StatusActive
	}
	if s.gracePeriodEnd != nil && biztime.SameOrBefore(today, *s.gracePeriodEnd) {
		return vo.StatusExpired
	}
	return vo.StatusBlocked
}

// RefreshStatus recomputes the stored status against today and reports
// whether it changed.
func (s *Subscription) RefreshStatus(today time.Time) bool {
	next := s.EffectiveStatus(today)
	if next == s.status {
		return false
	}
	s.status = next
	s.updatedAt = biztime.NowUTC()
	return true
}

// CheckoutApplication carries the reconciled state of a completed
// checkout session.
type CheckoutApplication struct {
	Plan                 vo.Plan
	Status               vo.SubscriptionStatus
	StartDate            time.Time
	EndDate              time.Time
	GracePeriodEnd       time.Time
	MonthlyPrice         float64
	StripeCustomerID     *string
	StripeSubscriptionID *string
	CheckoutSessionID    string
}

// ApplyCheckout overwrites the subscription with the authoritative state
// from a completed checkout. This is the only path that sets the external
// processor identifiers; plan upgrades and downgrades flow through here.
func (s *Subscription) ApplyCheckout(app CheckoutApplication) error {
	if s.virtual {
		return ErrVirtualNotPersistable
	}
	if !app.Plan.IsValid() {
		return fmt.Errorf("invalid plan: %s", app.Plan)
	}
	if !app.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", app.Status)
	}

	grace := biztime.DateOf(app.GracePeriodEnd)

	s.plan = app.Plan
	s.status = app.Status
	s.startDate = biztime.DateOf(app.StartDate)
	s.endDate = biztime.DateOf(app.EndDate)
	s.gracePeriodEnd = &grace
	s.monthlyPrice = app.MonthlyPrice
	s.stripeCustomerID = app.StripeCustomerID
	s.stripeSubscriptionID = app.StripeSubscriptionID
	s.checkoutSessionID = app.CheckoutSessionID
	s.updatedAt = biztime.NowUTC()
	return nil
}

// Block forces the subscription into the blocked status regardless of dates.
func (s *Subscription) Block() {
	if s.status == vo.StatusBlocked {
		return
	}
	s.status = vo.StatusBlocked
	s.updatedAt = biztime.NowUTC()
}

// Unblock reverses an explicit block. Date-based demotion is reapplied by
// the next status refresh.
func (s *Subscription) Unblock() {
	if s.status == vo.StatusActive {
		return
	}
	s.status = vo.StatusActive
	s.updatedAt = biztime.NowUTC()
}

// UpdateParams is the allow-listed administrative update. Nil fields are
// left untouched; unknown request keys never reach a write.
type UpdateParams struct {
	Plan           *vo.Plan
	Status         *vo.SubscriptionStatus
	StartDate      *time.Time
	EndDate        *time.Time
	GracePeriodEnd *time.Time
	MonthlyPrice   *float64
}

// ApplyUpdate applies an administrative update. The monthly price is
// re-snapshotted from the plan when the plan changes without an explicit
// price, and the grace window follows an end-date change unless overridden.
func (s *Subscription) ApplyUpdate(p UpdateParams) error {
	if s.virtual {
		return ErrVirtualNotPersistable
	}
	if p.Plan != nil && !p.Plan.IsValid() {
		return fmt.Errorf("invalid plan: %s", *p.Plan)
	}
	if p.Status != nil && !p.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", *p.Status)
	}

	if p.Plan != nil {
		s.plan = *p.Plan
		if p.MonthlyPrice == nil {
			s.monthlyPrice = monthlyPrices[*p.Plan]
		}
	}
	if p.MonthlyPrice != nil {
		s.monthlyPrice = *p.MonthlyPrice
	}
	if p.Status != nil {
		s.status = *p.Status
	}
	if p.StartDate != nil {
		s.startDate = biztime.DateOf(*p.StartDate)
	}
	if p.EndDate != nil {
		s.endDate = biztime.DateOf(*p.EndDate)
		if p.GracePeriodEnd == nil {
			grace := biztime.AddDays(s.endDate, GracePeriodDays)
			s.gracePeriodEnd = &grace
		}
	}
	if p.GracePeriodEnd != nil {
		grace := biztime.DateOf(*p.GracePeriodEnd)
		s.gracePeriodEnd = &grace
	}

	s.updatedAt = biztime.NowUTC()
	return nil
}

// Validate performs domain-level validation
func (s *Subscription) Validate() error {
	if s.userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if s.role == "" {
		return fmt.Errorf("role is required")
	}
	if !s.plan.IsValid() {
		return fmt.Errorf("invalid plan: %s", s.plan)
	}
	if !s.status.IsValid() {
		return fmt.Errorf("invalid status: %s", s.status)
	}
	if s.endDate.Before(s.startDate) {
		return fmt.Errorf("end date must not be before start date")
	}
	if s.gracePeriodEnd != nil && s.gracePeriodEnd.Before(s.endDate) {
		return fmt.Errorf("grace period end must not be before end date")
	}
	return nil
}
