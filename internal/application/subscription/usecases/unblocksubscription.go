package usecases

import (
	"context"
	"fmt"

	"tablier/internal/domain/subscription"
	"tablier/internal/shared/biztime"
	apperrors "tablier/internal/shared/errors"
	"tablier/internal/shared/logger"
)

// UnblockSubscriptionUseCase reverses an explicit block. The status is
// recomputed against today right after, so an unblock on a lapsed
// subscription settles on expired or blocked rather than active.
type UnblockSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewUnblockSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	logger logger.Interface,
) *UnblockSubscriptionUseCase {
	return &UnblockSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *UnblockSubscriptionUseCase) Execute(ctx context.Context, subscriptionID uint) (*subscription.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("subscription not found")
	}

	sub.Unblock()
	sub.RefreshStatus(biztime.Today())

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to unblock subscription", "error", err, "subscription_id", subscriptionID)
		return nil, fmt.Errorf("failed to unblock subscription: %w", err)
	}

	uc.logger.Infow("subscription unblocked",
		"subscription_id", subscriptionID,
		"user_id", sub.UserID(),
		"status", sub.Status(),
	)
	return sub, nil
}
