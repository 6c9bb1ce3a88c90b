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

func strPtr(s string) *string { return &s }

func TestUpdateSubscription_NotFound(t *testing.T) {
	uc := NewUpdateSubscriptionUseCase(newFakeRepo(), testLogger())

	_, err := uc.Execute(context.Background(), UpdateSubscriptionCommand{SubscriptionID: 42})
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestUpdateSubscription_PartialUpdate(t *testing.T) {
	repo := newFakeRepo()
	today := biztime.Today()
	seeded := seedSubscription(t, repo, "user-1", vo.StatusActive, biztime.AddDays(today, -10), biztime.AddDays(today, 20))
	uc := NewUpdateSubscriptionUseCase(repo, testLogger())

	sub, err := uc.Execute(context.Background(), UpdateSubscriptionCommand{
		SubscriptionID: seeded.ID(),
		Plan:           strPtr("ultimate"),
	})

	require.NoError(t, err)
	assert.Equal(t, vo.PlanUltimate, sub.Plan())
	// Price follows the plan when not set explicitly.
	assert.Equal(t, 19.99, sub.MonthlyPrice())
	assert.Equal(t, vo.StatusActive, sub.Status())
	assert.Equal(t, biztime.AddDays(today, 20), sub.EndDate())
}

func TestUpdateSubscription_EndDateMovesGraceWindow(t *testing.T) {
	repo := newFakeRepo()
	today := biztime.Today()
	seeded := seedSubscription(t, repo, "user-1", vo.StatusActive, biztime.AddDays(today, -10), biztime.AddDays(today, 20))
	uc := NewUpdateSubscriptionUseCase(repo, testLogger())

	sub, err := uc.Execute(context.Background(), UpdateSubscriptionCommand{
		SubscriptionID: seeded.ID(),
		EndDate:        strPtr("2026-06-30"),
	})

	require.NoError(t, err)
	assert.Equal(t, "2026-06-30", biztime.FormatDate(sub.EndDate()))
	require.NotNil(t, sub.GracePeriodEnd())
	assert.Equal(t, "2026-07-03", biztime.FormatDate(*sub.GracePeriodEnd()))
}

func TestUpdateSubscription_ExplicitGraceWins(t *testing.T) {
	repo := newFakeRepo()
	today := biztime.Today()
	seeded := seedSubscription(t, repo, "user-1", vo.StatusActive, biztime.AddDays(today, -10), biztime.AddDays(today, 20))
	uc := NewUpdateSubscriptionUseCase(repo, testLogger())

	sub, err := uc.Execute(context.Background(), UpdateSubscriptionCommand{
		SubscriptionID: seeded.ID(),
		EndDate:        strPtr("2026-06-30"),
		GracePeriodEnd: strPtr("2026-07-15"),
	})

	require.NoError(t, err)
	require.NotNil(t, sub.GracePeriodEnd())
	assert.Equal(t, "2026-07-15", biztime.FormatDate(*sub.GracePeriodEnd()))
}

func TestUpdateSubscription_RejectsInvalidValues(t *testing.T) {
	repo := newFakeRepo()
	today := biztime.Today()
	seeded := seedSubscription(t, repo, "user-1", vo.StatusActive, biztime.AddDays(today, -10), biztime.AddDays(today, 20))
	uc := NewUpdateSubscriptionUseCase(repo, testLogger())

	tests := []struct {
		name string
		cmd  UpdateSubscriptionCommand
	}{
		{"invalid plan", UpdateSubscriptionCommand{SubscriptionID: seeded.ID(), Plan: strPtr("gold")}},
		{"invalid status", UpdateSubscriptionCommand{SubscriptionID: seeded.ID(), Status: strPtr("paused")}},
		{"malformed date", UpdateSubscriptionCommand{SubscriptionID: seeded.ID(), EndDate: strPtr("soon")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.cmd)
			assert.True(t, apperrors.IsValidationError(err))
		})
	}
}
