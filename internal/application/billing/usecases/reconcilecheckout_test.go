package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablier/internal/domain/billing"
	vo "tablier/internal/domain/subscription/valueobjects"
	"tablier/internal/shared/biztime"
	apperrors "tablier/internal/shared/errors"
)

func paidSession() *billing.CheckoutSession {
	return &billing.CheckoutSession{
		ID:            "cs_123",
		Mode:          "subscription",
		PaymentStatus: "paid",
		Metadata: map[string]string{
			"user_id": "user-1",
			"role":    "restaurant",
			"plan":    "pro",
		},
		CustomerID:     "cus_123",
		CustomerEmail:  "owner@example.com",
		SubscriptionID: "sub_ext_1",
	}
}

func periodGateway(start, end time.Time, status string) *fakeGateway {
	return &fakeGateway{
		getSubFn: func(ctx context.Context, subscriptionID string) (*billing.ProcessorSubscription, error) {
			return &billing.ProcessorSubscription{
				ID:                 subscriptionID,
				Status:             status,
				CurrentPeriodStart: start,
				CurrentPeriodEnd:   end,
			}, nil
		},
	}
}

func TestReconcileCheckout_CreatesRowFromProcessorState(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2026, 1, 1, 10, 30, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 10, 30, 0, 0, time.UTC)
	uc := NewReconcileCheckoutUseCase(repo, periodGateway(start, end, "active"), testCatalog(), testLogger())

	sub, err := uc.Execute(context.Background(), paidSession())

	require.NoError(t, err)
	assert.Equal(t, vo.PlanPro, sub.Plan())
	assert.Equal(t, vo.StatusActive, sub.Status())
	// Timestamps are truncated to calendar dates.
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), sub.StartDate())
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), sub.EndDate())
	require.NotNil(t, sub.GracePeriodEnd())
	assert.Equal(t, time.Date(2026, 2, 4, 0, 0, 0, 0, time.UTC), *sub.GracePeriodEnd())
	assert.Equal(t, 9.99, sub.MonthlyPrice())
	require.NotNil(t, sub.StripeSubscriptionID())
	assert.Equal(t, "sub_ext_1", *sub.StripeSubscriptionID())
	assert.Equal(t, "cs_123", sub.CheckoutSessionID())
}

func TestReconcileCheckout_Idempotent(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	uc := NewReconcileCheckoutUseCase(repo, periodGateway(start, end, "active"), testCatalog(), testLogger())

	first, err := uc.Execute(context.Background(), paidSession())
	require.NoError(t, err)

	second, err := uc.Execute(context.Background(), paidSession())
	require.NoError(t, err)

	// Same (user, role) lineage converges on a single row.
	assert.Equal(t, first.ID(), second.ID())
	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestReconcileCheckout_MissingMetadata(t *testing.T) {
	uc := NewReconcileCheckoutUseCase(newFakeRepo(), &fakeGateway{}, testCatalog(), testLogger())

	session := paidSession()
	session.Metadata = map[string]string{"user_id": "user-1"}

	_, err := uc.Execute(context.Background(), session)
	assert.True(t, apperrors.IsMissingMetadataError(err))
}

func TestReconcileCheckout_InvalidPlanInMetadata(t *testing.T) {
	uc := NewReconcileCheckoutUseCase(newFakeRepo(), &fakeGateway{}, testCatalog(), testLogger())

	session := paidSession()
	session.Metadata["plan"] = "gold"

	_, err := uc.Execute(context.Background(), session)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestReconcileCheckout_NoLinkedSubscriptionDefaultsToToday(t *testing.T) {
	repo := newFakeRepo()
	uc := NewReconcileCheckoutUseCase(repo, &fakeGateway{}, testCatalog(), testLogger())

	session := paidSession()
	session.SubscriptionID = ""

	sub, err := uc.Execute(context.Background(), session)

	require.NoError(t, err)
	today := biztime.Today()
	assert.Equal(t, today, sub.StartDate())
	assert.Equal(t, today, sub.EndDate())
	assert.Equal(t, vo.StatusActive, sub.Status())
	assert.Nil(t, sub.StripeSubscriptionID())
}

func TestReconcileCheckout_ProcessorFetchFailure(t *testing.T) {
	gateway := &fakeGateway{
		getSubFn: func(ctx context.Context, subscriptionID string) (*billing.ProcessorSubscription, error) {
			return nil, errors.New("timeout")
		},
	}
	uc := NewReconcileCheckoutUseCase(newFakeRepo(), gateway, testCatalog(), testLogger())

	_, err := uc.Execute(context.Background(), paidSession())

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeUpstreamFailure, appErr.Type)
}

func TestReconcileCheckout_PastDueMapsToExpired(t *testing.T) {
	start := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	uc := NewReconcileCheckoutUseCase(newFakeRepo(), periodGateway(start, end, "past_due"), testCatalog(), testLogger())

	sub, err := uc.Execute(context.Background(), paidSession())

	require.NoError(t, err)
	assert.Equal(t, vo.StatusExpired, sub.Status())
}

func TestReconcileCheckout_NotifierIsBestEffort(t *testing.T) {
	repo := newFakeRepo()
	uc := NewReconcileCheckoutUseCase(repo, &fakeGateway{}, testCatalog(), testLogger())

	notifier := &fakeNotifier{fail: true}
	uc.SetNotifier(notifier)

	session := paidSession()
	session.SubscriptionID = ""

	// A failing notifier never fails the reconciliation.
	_, err := uc.Execute(context.Background(), session)
	require.NoError(t, err)

	notifier.fail = false
	_, err = uc.Execute(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, []string{"owner@example.com:pro"}, notifier.sent)
}
