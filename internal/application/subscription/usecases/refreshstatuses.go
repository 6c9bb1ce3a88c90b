package usecases

import (
	"context"
	"fmt"

	"tablier/internal/domain/subscription"
	"tablier/internal/shared/biztime"
	"tablier/internal/shared/logger"
)

// RefreshStatusesUseCase recomputes the status of every subscription row
// against today and persists only the rows whose status changed. This is
// how soft-expired subscriptions eventually become blocked without a user
// action; it backs both the admin endpoint and the periodic sweep.
type RefreshStatusesUseCase struct {
	subscriptionRepo subscription.Repository
	logger           logger.Interface
}

func NewRefreshStatusesUseCase(
	subscriptionRepo subscription.Repository,
	logger logger.Interface,
) *RefreshStatusesUseCase {
	return &RefreshStatusesUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

// Execute returns the rows whose status actually changed.
func (uc *RefreshStatusesUseCase) Execute(ctx context.Context) ([]*subscription.Subscription, error) {
	subs, err := uc.subscriptionRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	today := biztime.Today()
	changed := make([]*subscription.Subscription, 0)

	for _, sub := range subs {
		if !sub.RefreshStatus(today) {
			continue
		}

		if err := uc.subscriptionRepo.Update(ctx, sub); err != nil {
			uc.logger.Errorw("failed to update refreshed subscription",
				"error", err,
				"subscription_id", sub.ID(),
			)
			continue
		}

		changed = append(changed, sub)
		uc.logger.Debugw("subscription status refreshed",
			"subscription_id", sub.ID(),
			"status", sub.Status(),
		)
	}

	if len(changed) > 0 {
		uc.logger.Infow("subscription statuses refreshed", "changed", len(changed), "total", len(subs))
	}

	return changed, nil
}
