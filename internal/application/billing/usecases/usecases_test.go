package usecases

import (
	"context"
	"errors"
	"sync"

	"tablier/internal/domain/billing"
	"tablier/internal/domain/subscription"
	"tablier/internal/shared/authorization"
	"tablier/internal/shared/logger"
)

// --- in-memory repository fake ---

type fakeRepo struct {
	mu     sync.Mutex
	nextID uint
	subs   map[uint]*subscription.Subscription

	upsertErr error
	updateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, subs: make(map[uint]*subscription.Subscription)}
}

func (r *fakeRepo) Create(ctx context.Context, sub *subscription.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub.ID() == 0 {
		if err := sub.SetID(r.nextID); err != nil {
			return err
		}
		r.nextID++
	}
	r.subs[sub.ID()] = sub
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, sub *subscription.Subscription) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[sub.ID()] = sub
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subs[id], nil
}

func (r *fakeRepo) GetLatestByUser(ctx context.Context, userID string) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *subscription.Subscription
	for _, sub := range r.subs {
		if sub.UserID() != userID {
			continue
		}
		if latest == nil || sub.ID() > latest.ID() {
			latest = sub
		}
	}
	return latest, nil
}

func (r *fakeRepo) GetLatestByUserAndRole(ctx context.Context, userID string, role authorization.UserRole) (*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *subscription.Subscription
	for _, sub := range r.subs {
		if sub.UserID() != userID || sub.Role() != role {
			continue
		}
		if latest == nil || sub.ID() > latest.ID() {
			latest = sub
		}
	}
	return latest, nil
}

func (r *fakeRepo) ListAll(ctx context.Context) ([]*subscription.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*subscription.Subscription, 0, len(r.subs))
	for _, sub := range r.subs {
		out = append(out, sub)
	}
	return out, nil
}

func (r *fakeRepo) UpsertFromCheckout(ctx context.Context, app subscription.CheckoutApplication, userID string, role authorization.UserRole) (*subscription.Subscription, error) {
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}

	existing, _ := r.GetLatestByUserAndRole(ctx, userID, role)
	if existing != nil {
		if err := existing.ApplyCheckout(app); err != nil {
			return nil, err
		}
		return existing, r.Update(ctx, existing)
	}

	fresh, err := subscription.NewSubscription(userID, role, app.Plan, app.StartDate, app.EndDate)
	if err != nil {
		return nil, err
	}
	if err := fresh.ApplyCheckout(app); err != nil {
		return nil, err
	}
	return fresh, r.Create(ctx, fresh)
}

// --- gateway fake ---

type fakeGateway struct {
	createSessionFn  func(ctx context.Context, params billing.CreateCheckoutParams) (*billing.CheckoutSession, error)
	getSessionFn     func(ctx context.Context, sessionID string) (*billing.CheckoutSession, error)
	getSubFn         func(ctx context.Context, subscriptionID string) (*billing.ProcessorSubscription, error)
	createPortalFn   func(ctx context.Context, customerID, returnURL string) (string, error)
	constructEventFn func(payload []byte, signature string) (*billing.WebhookEvent, error)
}

func (g *fakeGateway) CreateCheckoutSession(ctx context.Context, params billing.CreateCheckoutParams) (*billing.CheckoutSession, error) {
	if g.createSessionFn == nil {
		return nil, errors.New("not implemented")
	}
	return g.createSessionFn(ctx, params)
}

func (g *fakeGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*billing.CheckoutSession, error) {
	if g.getSessionFn == nil {
		return nil, errors.New("not implemented")
	}
	return g.getSessionFn(ctx, sessionID)
}

func (g *fakeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*billing.ProcessorSubscription, error) {
	if g.getSubFn == nil {
		return nil, errors.New("not implemented")
	}
	return g.getSubFn(ctx, subscriptionID)
}

func (g *fakeGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	if g.createPortalFn == nil {
		return "", errors.New("not implemented")
	}
	return g.createPortalFn(ctx, customerID, returnURL)
}

func (g *fakeGateway) ConstructWebhookEvent(payload []byte, signature string) (*billing.WebhookEvent, error) {
	if g.constructEventFn == nil {
		return nil, errors.New("not implemented")
	}
	return g.constructEventFn(payload, signature)
}

// --- notifier fake ---

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string
	fail  bool
}

func (n *fakeNotifier) NotifyPaymentConfirmed(ctx context.Context, email, plan string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("smtp unavailable")
	}
	n.sent = append(n.sent, email+":"+plan)
	return nil
}

func testLogger() logger.Interface {
	return logger.NewLogger()
}

func testCatalog() *subscription.Catalog {
	return subscription.NewCatalog(map[string]string{
		"pro":      "price_pro_123",
		"ultimate": "price_ult_456",
	})
}
