package usecases

import (
	"context"

	"tablier/internal/domain/billing"
	"tablier/internal/domain/subscription"
	vo "tablier/internal/domain/subscription/valueobjects"
	"tablier/internal/shared/authorization"
	"tablier/internal/shared/biztime"
	apperrors "tablier/internal/shared/errors"
	"tablier/internal/shared/logger"
)

// ReconcileCheckoutUseCase upserts a subscription row from a completed
// checkout session. It is the only code path allowed to create or advance
// subscription rows from payment events, and it is shared by the webhook
// and confirmation-pull triggers. Running it twice for the same session
// produces the same stored state.
type ReconcileCheckoutUseCase struct {
	subscriptionRepo subscription.Repository
	gateway          billing.Gateway
	catalog          *subscription.Catalog
	notifier         PaymentNotifier
	logger           logger.Interface
}

func NewReconcileCheckoutUseCase(
	subscriptionRepo subscription.Repository,
	gateway billing.Gateway,
	catalog *subscription.Catalog,
	logger logger.Interface,
) *ReconcileCheckoutUseCase {
	return &ReconcileCheckoutUseCase{
		subscriptionRepo: subscriptionRepo,
		gateway:          gateway,
		catalog:          catalog,
		logger:           logger,
	}
}

// SetNotifier sets the payment notifier (optional).
func (uc *ReconcileCheckoutUseCase) SetNotifier(notifier PaymentNotifier) {
	uc.notifier = notifier
}

func (uc *ReconcileCheckoutUseCase) Execute(ctx context.Context, session *billing.CheckoutSession) (*subscription.Subscription, error) {
	userID := session.Metadata[billing.MetadataUserID]
	roleValue := session.Metadata[billing.MetadataRole]
	planValue := session.Metadata[billing.MetadataPlan]

	if userID == "" || roleValue == "" || planValue == "" {
		uc.logger.Errorw("checkout session missing correlation metadata",
			"session_id", session.ID,
			"has_user_id", userID != "",
			"has_role", roleValue != "",
			"has_plan", planValue != "",
		)
		return nil, apperrors.NewMissingMetadataError("checkout session metadata is incomplete", session.ID)
	}

	plan := vo.Plan(planValue)
	if !plan.IsValid() {
		return nil, apperrors.NewValidationError("invalid plan in checkout metadata", planValue)
	}
	role := authorization.UserRole(roleValue)

	// The linked external subscription is authoritative for period and
	// status; one-off completions without one default to a period
	// starting and ending today, active.
	startDate := biztime.Today()
	endDate := startDate
	status := vo.StatusActive

	var stripeSubscriptionID *string
	if session.SubscriptionID != "" {
		procSub, err := uc.gateway.GetSubscription(ctx, session.SubscriptionID)
		if err != nil {
			uc.logger.Errorw("failed to retrieve processor subscription",
				"error", err,
				"session_id", session.ID,
				"subscription_id", session.SubscriptionID,
			)
			return nil, apperrors.NewUpstreamFailureError("failed to retrieve processor subscription", err.Error())
		}
		startDate = biztime.DateOf(procSub.CurrentPeriodStart)
		endDate = biztime.DateOf(procSub.CurrentPeriodEnd)
		status = vo.StatusFromProcessor(procSub.Status)
		id := session.SubscriptionID
		stripeSubscriptionID = &id
	}

	var stripeCustomerID *string
	if session.CustomerID != "" {
		id := session.CustomerID
		stripeCustomerID = &id
	}

	app := subscription.CheckoutApplication{
		Plan:                 plan,
		Status:               status,
		StartDate:            startDate,
		EndDate:              endDate,
		GracePeriodEnd:       biztime.AddDays(endDate, subscription.GracePeriodDays),
		MonthlyPrice:         uc.catalog.MonthlyPrice(plan),
		StripeCustomerID:     stripeCustomerID,
		StripeSubscriptionID: stripeSubscriptionID,
		CheckoutSessionID:    session.ID,
	}

	sub, err := uc.subscriptionRepo.UpsertFromCheckout(ctx, app, userID, role)
	if err != nil {
		uc.logger.Errorw("failed to upsert subscription from checkout",
			"error", err,
			"session_id", session.ID,
			"user_id", userID,
			"role", role,
		)
		return nil, err
	}

	uc.logger.Infow("subscription reconciled from checkout",
		"subscription_id", sub.ID(),
		"session_id", session.ID,
		"user_id", userID,
		"role", role,
		"plan", plan,
		"status", sub.Status(),
	)

	if uc.notifier != nil && session.CustomerEmail != "" {
		if err := uc.notifier.NotifyPaymentConfirmed(ctx, session.CustomerEmail, string(plan)); err != nil {
			uc.logger.Warnw("failed to send payment confirmation",
				"error", err,
				"session_id", session.ID,
			)
		}
	}

	return sub, nil
}
