package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablier/internal/domain/billing"
	apperrors "tablier/internal/shared/errors"
)

func confirmUseCase(repo *fakeRepo, gateway *fakeGateway) *ConfirmCheckoutUseCase {
	reconcile := NewReconcileCheckoutUseCase(repo, gateway, testCatalog(), testLogger())
	return NewConfirmCheckoutUseCase(gateway, reconcile, testLogger())
}

func TestConfirmCheckout_MissingSessionID(t *testing.T) {
	uc := confirmUseCase(newFakeRepo(), &fakeGateway{})

	err := uc.Execute(context.Background(), ConfirmCheckoutCommand{CallerUserID: "user-1"})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestConfirmCheckout_GatewayFailure(t *testing.T) {
	gateway := &fakeGateway{
		getSessionFn: func(ctx context.Context, sessionID string) (*billing.CheckoutSession, error) {
			return nil, errors.New("connection refused")
		},
	}
	uc := confirmUseCase(newFakeRepo(), gateway)

	err := uc.Execute(context.Background(), ConfirmCheckoutCommand{SessionID: "cs_123", CallerUserID: "user-1"})

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeUpstreamFailure, appErr.Type)
}

func TestConfirmCheckout_RejectsNonSubscriptionSessions(t *testing.T) {
	gateway := &fakeGateway{
		getSessionFn: func(ctx context.Context, sessionID string) (*billing.CheckoutSession, error) {
			session := paidSession()
			session.Mode = "payment"
			return session, nil
		},
	}
	uc := confirmUseCase(newFakeRepo(), gateway)

	err := uc.Execute(context.Background(), ConfirmCheckoutCommand{SessionID: "cs_123", CallerUserID: "user-1"})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestConfirmCheckout_OwnershipMismatch(t *testing.T) {
	gateway := &fakeGateway{
		getSessionFn: func(ctx context.Context, sessionID string) (*billing.CheckoutSession, error) {
			return paidSession(), nil
		},
	}
	uc := confirmUseCase(newFakeRepo(), gateway)

	err := uc.Execute(context.Background(), ConfirmCheckoutCommand{SessionID: "cs_123", CallerUserID: "someone-else"})
	assert.True(t, apperrors.IsForbiddenError(err))
}

func TestConfirmCheckout_UnpaidSession(t *testing.T) {
	gateway := &fakeGateway{
		getSessionFn: func(ctx context.Context, sessionID string) (*billing.CheckoutSession, error) {
			session := paidSession()
			session.PaymentStatus = "unpaid"
			return session, nil
		},
	}
	uc := confirmUseCase(newFakeRepo(), gateway)

	err := uc.Execute(context.Background(), ConfirmCheckoutCommand{SessionID: "cs_123", CallerUserID: "user-1"})
	assert.True(t, apperrors.IsPaymentIncompleteError(err))
}

func TestConfirmCheckout_PaidSessionReconciles(t *testing.T) {
	repo := newFakeRepo()
	session := paidSession()
	session.SubscriptionID = ""
	gateway := &fakeGateway{
		getSessionFn: func(ctx context.Context, sessionID string) (*billing.CheckoutSession, error) {
			assert.Equal(t, "cs_123", sessionID)
			return session, nil
		},
	}
	uc := confirmUseCase(repo, gateway)

	err := uc.Execute(context.Background(), ConfirmCheckoutCommand{SessionID: "cs_123", CallerUserID: "user-1"})

	require.NoError(t, err)
	sub, err := repo.GetLatestByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "cs_123", sub.CheckoutSessionID())
}
