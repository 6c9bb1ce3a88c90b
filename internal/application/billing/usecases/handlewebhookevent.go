package usecases

import (
	"context"

	"tablier/internal/domain/billing"
	"tablier/internal/shared/constants"
	apperrors "tablier/internal/shared/errors"
	"tablier/internal/shared/logger"
)

// HandleWebhookEventUseCase is the processor-push reconciliation trigger.
// Signature verification happens before anything else; unverified
// payloads are never processed. Failures surface as errors so the
// handler responds non-200 and the processor redelivers.
type HandleWebhookEventUseCase struct {
	gateway   billing.Gateway
	reconcile *ReconcileCheckoutUseCase
	logger    logger.Interface
}

func NewHandleWebhookEventUseCase(
	gateway billing.Gateway,
	reconcile *ReconcileCheckoutUseCase,
	logger logger.Interface,
) *HandleWebhookEventUseCase {
	return &HandleWebhookEventUseCase{
		gateway:   gateway,
		reconcile: reconcile,
		logger:    logger,
	}
}

func (uc *HandleWebhookEventUseCase) Execute(ctx context.Context, payload []byte, signature string) error {
	if signature == "" {
		return apperrors.NewValidationError("missing webhook signature header")
	}

	event, err := uc.gateway.ConstructWebhookEvent(payload, signature)
	if err != nil {
		uc.logger.Warnw("webhook signature verification failed", "error", err)
		return apperrors.NewValidationError("webhook signature verification failed", err.Error())
	}

	// Only completed checkout sessions trigger reconciliation; every
	// other event type is acknowledged and ignored.
	if event.Type != constants.StripeEventCheckoutCompleted || event.Session == nil {
		uc.logger.Debugw("ignoring webhook event", "type", event.Type)
		return nil
	}

	_, err = uc.reconcile.Execute(ctx, event.Session)
	return err
}
