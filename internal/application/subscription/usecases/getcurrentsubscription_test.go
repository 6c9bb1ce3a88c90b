package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "tablier/internal/domain/subscription/valueobjects"
	"tablier/internal/shared/biztime"
)

func TestGetCurrentSubscription_VirtualDefault(t *testing.T) {
	uc := NewGetCurrentSubscriptionUseCase(newFakeRepo(), testLogger())

	sub, err := uc.Execute(context.Background(), GetCurrentSubscriptionCommand{
		UserID: "user-1",
		Role:   "restaurant",
	})

	require.NoError(t, err)
	assert.True(t, sub.IsVirtual())
	assert.Equal(t, vo.PlanFree, sub.Plan())
	assert.Equal(t, vo.StatusActive, sub.Status())
	assert.Zero(t, sub.ID())
}

func TestGetCurrentSubscription_ReturnsStoredRow(t *testing.T) {
	repo := newFakeRepo()
	today := biztime.Today()
	seeded := seedSubscription(t, repo, "user-1", vo.StatusActive, biztime.AddDays(today, -10), biztime.AddDays(today, 20))
	uc := NewGetCurrentSubscriptionUseCase(repo, testLogger())

	sub, err := uc.Execute(context.Background(), GetCurrentSubscriptionCommand{UserID: "user-1", Role: "restaurant"})

	require.NoError(t, err)
	assert.False(t, sub.IsVirtual())
	assert.Equal(t, seeded.ID(), sub.ID())
	assert.Equal(t, vo.StatusActive, sub.Status())
}

func TestGetCurrentSubscription_CorrectsStaleStatusOnRead(t *testing.T) {
	repo := newFakeRepo()
	today := biztime.Today()
	// Paid period ended yesterday but the row still says active.
	seeded := seedSubscription(t, repo, "user-1", vo.StatusActive, biztime.AddDays(today, -31), biztime.AddDays(today, -1))
	uc := NewGetCurrentSubscriptionUseCase(repo, testLogger())

	sub, err := uc.Execute(context.Background(), GetCurrentSubscriptionCommand{UserID: "user-1", Role: "restaurant"})

	require.NoError(t, err)
	assert.Equal(t, vo.StatusExpired, sub.Status())

	stored, err := repo.GetByID(context.Background(), seeded.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusExpired, stored.Status())
}

func TestGetCurrentSubscription_FailedCorrectionIsAnError(t *testing.T) {
	repo := newFakeRepo()
	today := biztime.Today()
	seeded := seedSubscription(t, repo, "user-1", vo.StatusActive, biztime.AddDays(today, -31), biztime.AddDays(today, -1))
	repo.updateErrFor[seeded.ID()] = assert.AnError
	uc := NewGetCurrentSubscriptionUseCase(repo, testLogger())

	_, err := uc.Execute(context.Background(), GetCurrentSubscriptionCommand{UserID: "user-1", Role: "restaurant"})
	assert.Error(t, err)
}
