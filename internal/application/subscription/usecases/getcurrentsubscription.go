package usecases

import (
	"context"
	"fmt"

	"tablier/internal/domain/subscription"
	"tablier/internal/shared/authorization"
	"tablier/internal/shared/biztime"
	"tablier/internal/shared/logger"
)

type GetCurrentSubscriptionCommand struct {
	UserID string
	Role   string
}

// GetCurrentSubscriptionUseCase returns the caller's current subscription.
// Users without a stored row get the virtual free/active default. When the
// effective status of a stored row differs from what is persisted, the
// correction is written back before returning.
type GetCurrentSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewGetCurrentSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	logger logger.Interface,
) *GetCurrentSubscriptionUseCase {
	return &GetCurrentSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *GetCurrentSubscriptionUseCase) Execute(ctx context.Context, cmd GetCurrentSubscriptionCommand) (*subscription.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetLatestByUser(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	if sub == nil {
		return subscription.VirtualSubscription(cmd.UserID, authorization.UserRole(cmd.Role)), nil
	}

	if sub.RefreshStatus(biztime.Today()) {
		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			uc.logger.Errorw("failed to persist status correction",
				"error", err,
				"subscription_id", sub.ID(),
			)
			return nil, fmt.Errorf("failed to update subscription status: %w", err)
		}
		uc.logger.Infow("subscription status corrected on read",
			"subscription_id", sub.ID(),
			"status", sub.Status(),
		)
	}

	return sub, nil
}
