package usecases

import (
	"context"
	"fmt"
	"time"

	"tablier/internal/domain/subscription"
	vo "tablier/internal/domain/subscription/valueobjects"
	"tablier/internal/shared/authorization"
	"tablier/internal/shared/biztime"
	apperrors "tablier/internal/shared/errors"
	"tablier/internal/shared/logger"
)

// CreateSubscriptionCommand carries the administrative create input.
// Plan and the dates are optional: an empty plan means free, an empty
// start date means today and an empty end date mirrors the start date.
type CreateSubscriptionCommand struct {
	UserID    string `json:"user_id" validate:"required"`
	Role      string `json:"role" validate:"required"`
	Plan      string `json:"plan"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// CreateSubscriptionUseCase creates a subscription row through the
// administrative path, bypassing the payment processor entirely.
type CreateSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewCreateSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	logger logger.Interface,
) *CreateSubscriptionUseCase {
	return &CreateSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *CreateSubscriptionUseCase) Execute(ctx context.Context, cmd CreateSubscriptionCommand) (*subscription.Subscription, error) {
	role := authorization.UserRole(cmd.Role)
	if !role.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid role: %s", cmd.Role))
	}

	plan := vo.PlanFree
	if cmd.Plan != "" {
		plan = vo.Plan(cmd.Plan)
		if !plan.IsValid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid plan: %s", cmd.Plan))
		}
	}

	var startDate, endDate time.Time
	var err error
	if cmd.StartDate != "" {
		startDate, err = parseDate(cmd.StartDate, "start_date")
		if err != nil {
			return nil, err
		}
	}
	if cmd.EndDate != "" {
		endDate, err = parseDate(cmd.EndDate, "end_date")
		if err != nil {
			return nil, err
		}
	}

	sub, err := subscription.NewSubscription(cmd.UserID, role, plan, startDate, endDate)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
		uc.logger.Errorw("failed to create subscription", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	uc.logger.Infow("subscription created",
		"subscription_id", sub.ID(),
		"user_id", cmd.UserID,
		"plan", plan,
	)

	return sub, nil
}

func parseDate(value, field string) (time.Time, error) {
	t, err := biztime.ParseDate(value)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(fmt.Sprintf("invalid %s: expected %s", field, biztime.DateLayout))
	}
	return t, nil
}
