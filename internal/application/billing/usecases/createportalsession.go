package usecases

import (
	"context"
	"fmt"

	"tablier/internal/domain/billing"
	"tablier/internal/domain/subscription"
	apperrors "tablier/internal/shared/errors"
	"tablier/internal/shared/logger"
)

type CreatePortalSessionCommand struct {
	UserID string
}

type CreatePortalSessionResult struct {
	URL string
}

// CreatePortalSessionUseCase creates a self-service billing portal
// session for the caller's stored processor customer id.
type CreatePortalSessionUseCase struct {
	subscriptionRepo subscription.Repository
	gateway          billing.Gateway
	frontendURL      string
	logger           logger.Interface
}

func NewCreatePortalSessionUseCase(
	subscriptionRepo subscription.Repository,
	gateway billing.Gateway,
	frontendURL string,
	logger logger.Interface,
) *CreatePortalSessionUseCase {
	return &CreatePortalSessionUseCase{
		subscriptionRepo: subscriptionRepo,
		gateway:          gateway,
		frontendURL:      frontendURL,
		logger:           logger,
	}
}

func (uc *CreatePortalSessionUseCase) Execute(ctx context.Context, cmd CreatePortalSessionCommand) (*CreatePortalSessionResult, error) {
	sub, err := uc.subscriptionRepo.GetLatestByUser(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	if sub == nil || sub.StripeCustomerID() == nil || *sub.StripeCustomerID() == "" {
		return nil, apperrors.NewBadRequestError("no billing customer found for this account")
	}

	returnURL := fmt.Sprintf("%s/pricing", uc.frontendURL)
	url, err := uc.gateway.CreatePortalSession(ctx, *sub.StripeCustomerID(), returnURL)
	if err != nil {
		uc.logger.Errorw("failed to create billing portal session", "error", err, "user_id", cmd.UserID)
		return nil, apperrors.NewUpstreamFailureError("failed to create billing portal session", err.Error())
	}

	return &CreatePortalSessionResult{URL: url}, nil
}
