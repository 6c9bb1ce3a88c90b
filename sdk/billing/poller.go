package billing

import (
	"context"
	"errors"
	"time"
)

const (
	// DefaultPollAttempts bounds how long a client waits for the
	// reconciled subscription to become visible after checkout.
	DefaultPollAttempts = 12

	// DefaultPollInterval is the pause between poll attempts.
	DefaultPollInterval = time.Second
)

// ErrPropagationDelayed means the payment settled but the subscription
// was still not visible after the full polling window. The webhook
// usually lands shortly after; callers should tell the user to refresh
// rather than retry the checkout.
var ErrPropagationDelayed = errors.New("subscription not visible yet, webhook propagation delayed")

// PollerConfig tunes ConfirmAndPoll.
type PollerConfig struct {
	Attempts int
	Interval time.Duration
}

// ConfirmAndPoll drives post-redirect reconciliation from the client
// side. It fires one best-effort confirmation call, then polls the
// current subscription until it reflects the purchase or the attempts
// run out.
//
// The success predicate is deliberately tolerant: any active paid plan
// counts, not just the one selected, so a quick plan change or an
// already-applied webhook never strands the client in a polling loop.
func (c *Client) ConfirmAndPoll(ctx context.Context, sessionID, selectedPlan string, cfg ...PollerConfig) (*Subscription, error) {
	attempts := DefaultPollAttempts
	interval := DefaultPollInterval
	if len(cfg) > 0 {
		if cfg[0].Attempts > 0 {
			attempts = cfg[0].Attempts
		}
		if cfg[0].Interval > 0 {
			interval = cfg[0].Interval
		}
	}

	// The confirmation is best effort: the webhook may already have
	// reconciled the session, and the poll below is the authority on
	// whether the subscription landed.
	_ = c.ConfirmCheckout(ctx, sessionID)

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(interval):
			}
		}

		sub, err := c.GetCurrentSubscription(ctx)
		if err != nil {
			continue
		}

		if sub.Active() && (sub.Plan == selectedPlan || sub.Paid()) {
			return sub, nil
		}
	}

	return nil, ErrPropagationDelayed
}
