package usecases

import (
	"context"
	"fmt"

	"tablier/internal/domain/subscription"
	vo "tablier/internal/domain/subscription/valueobjects"
	apperrors "tablier/internal/shared/errors"
	"tablier/internal/shared/logger"
)

// UpdateSubscriptionCommand carries the allow-listed administrative
// fields. Absent fields are left untouched.
type UpdateSubscriptionCommand struct {
	SubscriptionID uint     `json:"-"`
	Plan           *string  `json:"plan"`
	Status         *string  `json:"status"`
	StartDate      *string  `json:"start_date"`
	EndDate        *string  `json:"end_date"`
	GracePeriodEnd *string  `json:"grace_period_end"`
	MonthlyPrice   *float64 `json:"monthly_price"`
}

type UpdateSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewUpdateSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	logger logger.Interface,
) *UpdateSubscriptionUseCase {
	return &UpdateSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *UpdateSubscriptionUseCase) Execute(ctx context.Context, cmd UpdateSubscriptionCommand) (*subscription.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetByID(ctx, cmd.SubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("subscription not found")
	}

	params := subscription.UpdateParams{
		MonthlyPrice: cmd.MonthlyPrice,
	}

	if cmd.Plan != nil {
		plan := vo.Plan(*cmd.Plan)
		if !plan.IsValid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid plan: %s", *cmd.Plan))
		}
		params.Plan = &plan
	}
	if cmd.Status != nil {
		status := vo.SubscriptionStatus(*cmd.Status)
		if !status.IsValid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid status: %s", *cmd.Status))
		}
		params.Status = &status
	}
	if cmd.StartDate != nil {
		t, err := parseDate(*cmd.StartDate, "start_date")
		if err != nil {
			return nil, err
		}
		params.StartDate = &t
	}
	if cmd.EndDate != nil {
		t, err := parseDate(*cmd.EndDate, "end_date")
		if err != nil {
			return nil, err
		}
		params.EndDate = &t
	}
	if cmd.GracePeriodEnd != nil {
		t, err := parseDate(*cmd.GracePeriodEnd, "grace_period_end")
		if err != nil {
			return nil, err
		}
		params.GracePeriodEnd = &t
	}

	if err := sub.ApplyUpdate(params); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to update subscription", "error", err, "subscription_id", sub.ID())
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	uc.logger.Infow("subscription updated", "subscription_id", sub.ID())
	return sub, nil
}
