package scheduler

import (
	"context"
	"sync"
	"time"

	subscriptionUsecases "tablier/internal/application/subscription/usecases"
	"tablier/internal/shared/logger"
)

// SubscriptionScheduler runs the daily status sweep so that lapsed
// subscriptions are demoted even when nobody reads them. Reads still
// recompute the effective status on the fly; the sweep keeps stored rows
// consistent for reports and the admin list.
type SubscriptionScheduler struct {
	refreshStatusesUC *subscriptionUsecases.RefreshStatusesUseCase
	logger            logger.Interface
	stopChan          chan struct{}
	stopOnce          sync.Once
	wg                sync.WaitGroup
	interval          time.Duration
}

// NewSubscriptionScheduler creates a new SubscriptionScheduler
func NewSubscriptionScheduler(
	refreshStatusesUC *subscriptionUsecases.RefreshStatusesUseCase,
	logger logger.Interface,
) *SubscriptionScheduler {
	return &SubscriptionScheduler{
		refreshStatusesUC: refreshStatusesUC,
		logger:            logger,
		stopChan:          make(chan struct{}),
		interval:          24 * time.Hour,
	}
}

// Start starts the scheduler
func (s *SubscriptionScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting subscription scheduler", "interval", s.interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runLoop(ctx)
	}()
}

// Stop stops the scheduler gracefully
func (s *SubscriptionScheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Infow("stopping subscription scheduler")
		close(s.stopChan)
		s.wg.Wait()
		s.logger.Infow("subscription scheduler stopped")
	})
}

func (s *SubscriptionScheduler) runLoop(ctx context.Context) {
	// Run immediately on startup to catch rows that lapsed while the
	// service was down.
	s.refreshStatuses(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("subscription scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.refreshStatuses(ctx)
		}
	}
}

func (s *SubscriptionScheduler) refreshStatuses(ctx context.Context) {
	startTime := time.Now()

	changed, err := s.refreshStatusesUC.Execute(ctx)
	if err != nil {
		s.logger.Errorw("failed to refresh subscription statuses",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if len(changed) > 0 {
		s.logger.Infow("subscription status sweep completed",
			"changed", len(changed),
			"duration", time.Since(startTime),
		)
	} else {
		s.logger.Debugw("subscription status sweep found nothing to change",
			"duration", time.Since(startTime),
		)
	}
}
