package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "tablier/internal/domain/subscription/valueobjects"
	"tablier/internal/shared/biztime"
	apperrors "tablier/internal/shared/errors"
)

func TestBlockSubscription(t *testing.T) {
	repo := newFakeRepo()
	today := biztime.Today()
	seeded := seedSubscription(t, repo, "user-1", vo.StatusActive, biztime.AddDays(today, -10), biztime.AddDays(today, 20))
	uc := NewBlockSubscriptionUseCase(repo, testLogger())

	sub, err := uc.Execute(context.Background(), seeded.ID())

	require.NoError(t, err)
	assert.Equal(t, vo.StatusBlocked, sub.Status())

	stored, err := repo.GetByID(context.Background(), seeded.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusBlocked, stored.Status())
}

func TestBlockSubscription_NotFound(t *testing.T) {
	uc := NewBlockSubscriptionUseCase(newFakeRepo(), testLogger())

	_, err := uc.Execute(context.Background(), 42)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestUnblockSubscription_RestoresActiveWithinPeriod(t *testing.T) {
	repo := newFakeRepo()
	today := biztime.Today()
	seeded := seedSubscription(t, repo, "user-1", vo.StatusBlocked, biztime.AddDays(today, -10), biztime.AddDays(today, 20))
	uc := NewUnblockSubscriptionUseCase(repo, testLogger())

	sub, err := uc.Execute(context.Background(), seeded.ID())

	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, sub.Status())
}

func TestUnblockSubscription_LapsedPeriodSettlesOnDates(t *testing.T) {
	repo := newFakeRepo()
	today := biztime.Today()
	// Blocked row whose paid period ended two days ago: unblocking lands
	// in the grace window, not on active.
	inGrace := seedSubscription(t, repo, "grace", vo.StatusBlocked, biztime.AddDays(today, -32), biztime.AddDays(today, -2))
	// Blocked row whose grace window also lapsed: unblocking is a no-op.
	lapsed := seedSubscription(t, repo, "lapsed", vo.StatusBlocked, biztime.AddDays(today, -60), biztime.AddDays(today, -30))
	uc := NewUnblockSubscriptionUseCase(repo, testLogger())

	sub, err := uc.Execute(context.Background(), inGrace.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusExpired, sub.Status())

	sub, err = uc.Execute(context.Background(), lapsed.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusBlocked, sub.Status())
}

func TestUnblockSubscription_NotFound(t *testing.T) {
	uc := NewUnblockSubscriptionUseCase(newFakeRepo(), testLogger())

	_, err := uc.Execute(context.Background(), 42)
	assert.True(t, apperrors.IsNotFoundError(err))
}
