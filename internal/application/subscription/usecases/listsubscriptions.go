package usecases

import (
	"context"
	"fmt"

	"tablier/internal/domain/subscription"
	"tablier/internal/shared/logger"
)

// ListSubscriptionsUseCase returns all subscription rows for the admin view.
type ListSubscriptionsUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewListSubscriptionsUseCase(
	subscriptionRepo subscription.Repository,
	logger logger.Interface,
) *ListSubscriptionsUseCase {
	return &ListSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *ListSubscriptionsUseCase) Execute(ctx context.Context) ([]*subscription.Subscription, error) {
	subs, err := uc.subscriptionRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}
