package usecases

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tablier/internal/domain/subscription"
	vo "tablier/internal/domain/subscription/valueobjects"
	"tablier/internal/shared/authorization"
	"tablier/internal/shared/biztime"
	"tablier/internal/shared/logger"
)

type fakeRepo struct {
	mu     sync.Mutex
	nextID uint
	subs   map[uint]*subscription.Subscription

	updateErrFor map[uint]error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		nextID:       1,
		subs:         make(map[uint]*subscription.Subscription),
		updateErrFor: make(map[uint]error),
	}
}

func (r *fakeRepo) Create(ctx context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub.ID() == 0 {
		if err := sub.SetID(r.nextID); err != nil {
			return err
		}
		r.nextID++
	}
	r.subs[sub.ID()] = sub
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.updateErrFor[sub.ID()]; err != nil {
		return err
	}
	r.subs[sub.ID()] = sub
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subs[id], nil
}

func (r *fakeRepo) GetLatestByUser(ctx context.Context, userID string) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *subscription.Subscription
	for _, sub := range r.subs {
		if sub.UserID() != userID {
			continue
		}
		if latest == nil || sub.ID() > latest.ID() {
			latest = sub
		}
	}
	return latest, nil
}

func (r *fakeRepo) GetLatestByUserAndRole(ctx context.Context, userID string, role authorization.UserRole) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *subscription.Subscription
	for _, sub := range r.subs {
		if sub.UserID() != userID || sub.Role() != role {
			continue
		}
		if latest == nil || sub.ID() > latest.ID() {
			latest = sub
		}
	}
	return latest, nil
}

func (r *fakeRepo) ListAll(ctx context.Context) ([]*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*subscription.Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		out = append(out, sub)
	}
	return out, nil
}

func (r *fakeRepo) UpsertFromCheckout(ctx context.Context, app subscription.CheckoutApplication, userID string, role authorization.UserRole) (*subscription.Subscription, error) {
	return nil, errors.New("not implemented")
}

// seedSubscription stores a row with an explicit stored status and period,
// bypassing the constructor so stale states can be set up directly.
func seedSubscription(t *testing.T, repo *fakeRepo, userID string, status vo.SubscriptionStatus, start, end time.Time) *subscription.Subscription {
	t.Helper()
	grace := biztime.AddDays(biztime.DateOf(end), subscription.GracePeriodDays)
	repo.mu.Lock()
	id := repo.nextID
	repo.nextID++
	repo.mu.Unlock()
	sub, err := subscription.Reconstruct(subscription.ReconstructParams{
		ID:             id,
		UserID:         userID,
		Role:           "restaurant",
		Plan:           vo.PlanPro,
		Status:         status,
		StartDate:      biztime.DateOf(start),
		EndDate:        biztime.DateOf(end),
		GracePeriodEnd: &grace,
		MonthlyPrice:   9.99,
		CreatedAt:      biztime.NowUTC(),
		UpdatedAt:      biztime.NowUTC(),
	})
	require.NoError(t, err)
	repo.mu.Lock()
	repo.subs[id] = sub
	repo.mu.Unlock()
	return sub
}

func testLogger() logger.Interface {
	return logger.NewLogger()
}
