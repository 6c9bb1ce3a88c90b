package usecases

import "context"

// PaymentNotifier sends user-facing notifications for billing events.
// Implementations are best-effort: reconciliation never fails on a
// notification error.
type PaymentNotifier interface {
	NotifyPaymentConfirmed(ctx context.Context, email, plan string) error
}
