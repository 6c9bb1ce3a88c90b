package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "tablier/internal/domain/subscription/valueobjects"
	"tablier/internal/shared/biztime"
)

func TestRefreshStatuses_OnlyChangedRowsReturned(t *testing.T) {
	repo := newFakeRepo()
	today := biztime.Today()

	current := seedSubscription(t, repo, "current", vo.StatusActive, biztime.AddDays(today, -10), biztime.AddDays(today, 20))
	inGrace := seedSubscription(t, repo, "in-grace", vo.StatusActive, biztime.AddDays(today, -32), biztime.AddDays(today, -2))
	lapsed := seedSubscription(t, repo, "lapsed", vo.StatusExpired, biztime.AddDays(today, -60), biztime.AddDays(today, -30))
	blocked := seedSubscription(t, repo, "blocked", vo.StatusBlocked, biztime.AddDays(today, -10), biztime.AddDays(today, 20))

	uc := NewRefreshStatusesUseCase(repo, testLogger())
	changed, err := uc.Execute(context.Background())

	require.NoError(t, err)
	require.Len(t, changed, 2)

	changedIDs := map[uint]vo.SubscriptionStatus{}
	for _, sub := range changed {
		changedIDs[sub.ID()] = sub.Status()
	}
	assert.Equal(t, vo.StatusExpired, changedIDs[inGrace.ID()])
	assert.Equal(t, vo.StatusBlocked, changedIDs[lapsed.ID()])
	assert.NotContains(t, changedIDs, current.ID())
	assert.NotContains(t, changedIDs, blocked.ID())
}

func TestRefreshStatuses_ContinuesPastFailedRows(t *testing.T) {
	repo := newFakeRepo()
	today := biztime.Today()

	failing := seedSubscription(t, repo, "failing", vo.StatusActive, biztime.AddDays(today, -32), biztime.AddDays(today, -2))
	ok := seedSubscription(t, repo, "ok", vo.StatusExpired, biztime.AddDays(today, -60), biztime.AddDays(today, -30))
	repo.updateErrFor[failing.ID()] = assert.AnError

	uc := NewRefreshStatusesUseCase(repo, testLogger())
	changed, err := uc.Execute(context.Background())

	// A single bad row never aborts the sweep.
	require.NoError(t, err)
	require.Len(t, changed, 1)
	assert.Equal(t, ok.ID(), changed[0].ID())
}

func TestRefreshStatuses_EmptyTable(t *testing.T) {
	uc := NewRefreshStatusesUseCase(newFakeRepo(), testLogger())

	changed, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Empty(t, changed)
}
