package usecases

import (
	"context"
	"fmt"

	"tablier/internal/domain/subscription"
	apperrors "tablier/internal/shared/errors"
	"tablier/internal/shared/logger"
)

// BlockSubscriptionUseCase forces a subscription into the blocked status.
// A block is sticky: date-based recomputation never lifts it.
type BlockSubscriptionUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewBlockSubscriptionUseCase(
	subscriptionRepo subscription.Repository,
	logger logger.Interface,
) *BlockSubscriptionUseCase {
	return &BlockSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *BlockSubscriptionUseCase) Execute(ctx context.Context, subscriptionID uint) (*subscription.Subscription, error) {
	sub, err := uc.subscriptionRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("subscription not found")
	}

	sub.Block()

	if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to block subscription", "error", err, "subscription_id", subscriptionID)
		return nil, fmt.Errorf("failed to block subscription: %w", err)
	}

	uc.logger.Infow("subscription blocked", "subscription_id", subscriptionID, "user_id", sub.UserID())
	return sub, nil
}
