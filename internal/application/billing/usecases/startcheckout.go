package usecases

import (
	"context"
	"fmt"

	"tablier/internal/domain/billing"
	"tablier/internal/domain/subscription"
	vo "tablier/internal/domain/subscription/valueobjects"
	"tablier/internal/shared/authorization"
	apperrors "tablier/internal/shared/errors"
	"tablier/internal/shared/logger"
)

type StartCheckoutCommand struct {
	UserID string
	Role   string
	Email  string
	Plan   string
}

type StartCheckoutResult struct {
	URL string
}

// StartCheckoutUseCase asks the payment processor for a hosted checkout
// session. No local state is mutated; the subscription row is only
// touched once payment actually completes.
type StartCheckoutUseCase struct {
	catalog     *subscription.Catalog
	gateway     billing.Gateway
	frontendURL string
	logger      logger.Interface
}

func NewStartCheckoutUseCase(
	catalog *subscription.Catalog,
	gateway billing.Gateway,
	frontendURL string,
	logger logger.Interface,
) *StartCheckoutUseCase {
	return &StartCheckoutUseCase{
		catalog:     catalog,
		gateway:     gateway,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

func (uc *StartCheckoutUseCase) Execute(ctx context.Context, cmd StartCheckoutCommand) (*StartCheckoutResult, error) {
	role := authorization.UserRole(cmd.Role)
	if !role.CanSubscribe() {
		return nil, apperrors.NewForbiddenError("only restaurant and driver accounts can subscribe")
	}

	plan := vo.Plan(cmd.Plan)
	if !plan.IsPaid() {
		return nil, apperrors.NewValidationError("invalid paid plan", fmt.Sprintf("plan %q cannot go through checkout", cmd.Plan))
	}

	priceID := uc.catalog.PriceID(plan)
	if priceID == "" {
		uc.logger.Errorw("missing processor price id for plan", "plan", plan)
		return nil, apperrors.NewMisconfiguredError(fmt.Sprintf("missing processor price id for plan %q", plan))
	}

	// The session id placeholder is substituted by the processor; the
	// poller reads it back from the success URL after redirect.
	successURL := fmt.Sprintf("%s/pricing?checkout=success&session_id={CHECKOUT_SESSION_ID}&plan=%s", uc.frontendURL, plan)
	cancelURL := fmt.Sprintf("%s/pricing?checkout=cancel", uc.frontendURL)

	session, err := uc.gateway.CreateCheckoutSession(ctx, billing.CreateCheckoutParams{
		PriceID:       priceID,
		CustomerEmail: cmd.Email,
		SuccessURL:    successURL,
		CancelURL:     cancelURL,
		Metadata: map[string]string{
			billing.MetadataUserID: cmd.UserID,
			billing.MetadataRole:   cmd.Role,
			billing.MetadataPlan:   string(plan),
		},
	})
	if err != nil {
		uc.logger.Errorw("failed to create checkout session", "error", err, "user_id", cmd.UserID, "plan", plan)
		return nil, apperrors.NewUpstreamFailureError("failed to create checkout session", err.Error())
	}

	uc.logger.Infow("checkout session created",
		"session_id", session.ID,
		"user_id", cmd.UserID,
		"role", role,
		"plan", plan,
	)

	return &StartCheckoutResult{URL: session.URL}, nil
}
