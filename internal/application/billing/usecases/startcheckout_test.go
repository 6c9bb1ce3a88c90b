package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tablier/internal/domain/billing"
	"tablier/internal/domain/subscription"
	apperrors "tablier/internal/shared/errors"
)

func TestStartCheckout_Success(t *testing.T) {
	var captured billing.CreateCheckoutParams
	gateway := &fakeGateway{
		createSessionFn: func(ctx context.Context, params billing.CreateCheckoutParams) (*billing.CheckoutSession, error) {
			captured = params
			return &billing.CheckoutSession{ID: "cs_123", URL: "https://checkout.example/cs_123"}, nil
		},
	}

	uc := NewStartCheckoutUseCase(testCatalog(), gateway, "https://app.example", testLogger())

	result, err := uc.Execute(context.Background(), StartCheckoutCommand{
		UserID: "user-1",
		Role:   "restaurant",
		Email:  "owner@example.com",
		Plan:   "pro",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/cs_123", result.URL)

	assert.Equal(t, "price_pro_123", captured.PriceID)
	assert.Equal(t, "owner@example.com", captured.CustomerEmail)
	assert.Equal(t, "https://app.example/pricing?checkout=success&session_id={CHECKOUT_SESSION_ID}&plan=pro", captured.SuccessURL)
	assert.Equal(t, "https://app.example/pricing?checkout=cancel", captured.CancelURL)
	assert.Equal(t, map[string]string{
		"user_id": "user-1",
		"role":    "restaurant",
		"plan":    "pro",
	}, captured.Metadata)
}

func TestStartCheckout_RoleGating(t *testing.T) {
	uc := NewStartCheckoutUseCase(testCatalog(), &fakeGateway{}, "https://app.example", testLogger())

	for _, role := range []string{"client", "admin", ""} {
		_, err := uc.Execute(context.Background(), StartCheckoutCommand{
			UserID: "user-1", Role: role, Plan: "pro",
		})
		assert.True(t, apperrors.IsForbiddenError(err), "role %q should be forbidden", role)
	}
}

func TestStartCheckout_RejectsNonPaidPlans(t *testing.T) {
	uc := NewStartCheckoutUseCase(testCatalog(), &fakeGateway{}, "https://app.example", testLogger())

	for _, plan := range []string{"free", "gold", ""} {
		_, err := uc.Execute(context.Background(), StartCheckoutCommand{
			UserID: "user-1", Role: "driver", Plan: plan,
		})
		assert.True(t, apperrors.IsValidationError(err), "plan %q should be rejected", plan)
	}
}

func TestStartCheckout_MissingPriceIDIsMisconfiguration(t *testing.T) {
	empty := subscription.NewCatalog(nil)
	uc := NewStartCheckoutUseCase(empty, &fakeGateway{}, "https://app.example", testLogger())

	_, err := uc.Execute(context.Background(), StartCheckoutCommand{
		UserID: "user-1", Role: "restaurant", Plan: "pro",
	})
	assert.True(t, apperrors.IsMisconfiguredError(err))
}

func TestStartCheckout_GatewayFailure(t *testing.T) {
	gateway := &fakeGateway{
		createSessionFn: func(ctx context.Context, params billing.CreateCheckoutParams) (*billing.CheckoutSession, error) {
			return nil, errors.New("connection refused")
		},
	}
	uc := NewStartCheckoutUseCase(testCatalog(), gateway, "https://app.example", testLogger())

	_, err := uc.Execute(context.Background(), StartCheckoutCommand{
		UserID: "user-1", Role: "restaurant", Plan: "pro",
	})

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeUpstreamFailure, appErr.Type)
}
