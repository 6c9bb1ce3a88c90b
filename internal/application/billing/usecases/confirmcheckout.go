package usecases

import (
	"context"
	"fmt"

	"tablier/internal/domain/billing"
	apperrors "tablier/internal/shared/errors"
	"tablier/internal/shared/logger"
)

type ConfirmCheckoutCommand struct {
	SessionID    string
	CallerUserID string
}

// ConfirmCheckoutUseCase is the client-initiated reconciliation trigger.
// It re-fetches the session from the processor rather than trusting any
// client-supplied state, and verifies ownership before writing anything.
type ConfirmCheckoutUseCase struct {
	gateway   billing.Gateway
	reconcile *ReconcileCheckoutUseCase
	logger    logger.Interface
}

func NewConfirmCheckoutUseCase(
	gateway billing.Gateway,
	reconcile *ReconcileCheckoutUseCase,
	logger logger.Interface,
) *ConfirmCheckoutUseCase {
	return &ConfirmCheckoutUseCase{
		gateway:   gateway,
		reconcile: reconcile,
		logger:    logger,
	}
}

func (uc *ConfirmCheckoutUseCase) Execute(ctx context.Context, cmd ConfirmCheckoutCommand) error {
	if cmd.SessionID == "" {
		return apperrors.NewValidationError("missing session_id")
	}

	session, err := uc.gateway.GetCheckoutSession(ctx, cmd.SessionID)
	if err != nil {
		uc.logger.Errorw("failed to retrieve checkout session", "error", err, "session_id", cmd.SessionID)
		return apperrors.NewUpstreamFailureError("failed to retrieve checkout session", err.Error())
	}

	if session == nil || session.Mode != "subscription" {
		return apperrors.NewValidationError("invalid checkout session")
	}

	metadataUserID := session.Metadata[billing.MetadataUserID]
	if metadataUserID == "" || metadataUserID != cmd.CallerUserID {
		uc.logger.Warnw("checkout session ownership mismatch",
			"session_id", cmd.SessionID,
			"caller_user_id", cmd.CallerUserID,
		)
		return apperrors.NewForbiddenError("session does not belong to this user")
	}

	if !session.Paid() {
		return apperrors.NewPaymentIncompleteError(fmt.Sprintf("payment not completed (status: %s)", session.PaymentStatus))
	}

	_, err = uc.reconcile.Execute(ctx, session)
	return err
}
