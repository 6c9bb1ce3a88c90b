package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	domainBilling "tablier/internal/domain/billing"
	"tablier/internal/shared/biztime"
	"tablier/internal/shared/constants"
	"tablier/internal/shared/logger"
)

// StripeGateway implements the billing gateway on the Stripe API.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	logger        logger.Interface
}

func NewStripeGateway(secretKey, webhookSecret string, logger logger.Interface) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{
		api:           api,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

var _ domainBilling.Gateway = (*StripeGateway)(nil)

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, params domainBilling.CreateCheckoutParams) (*domainBilling.CheckoutSession, error) {
	sessionParams := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(params.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:          stripe.String(params.SuccessURL),
		CancelURL:           stripe.String(params.CancelURL),
		AllowPromotionCodes: stripe.Bool(true),
	}
	sessionParams.Context = ctx

	if params.CustomerEmail != "" {
		sessionParams.CustomerEmail = stripe.String(params.CustomerEmail)
	}
	for key, value := range params.Metadata {
		sessionParams.AddMetadata(key, value)
	}

	session, err := g.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return toCheckoutSession(session), nil
}

func (g *StripeGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*domainBilling.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("subscription")

	session, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}

	return toCheckoutSession(session), nil
}

func (g *StripeGateway) GetSubscription(ctx context.Context, subscriptionID string) (*domainBilling.ProcessorSubscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx

	sub, err := g.api.Subscriptions.Get(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve subscription: %w", err)
	}

	return &domainBilling.ProcessorSubscription{
		ID:                 sub.ID,
		Status:             string(sub.Status),
		CurrentPeriodStart: biztime.FromUnix(sub.CurrentPeriodStart),
		CurrentPeriodEnd:   biztime.FromUnix(sub.CurrentPeriodEnd),
	}, nil
}

func (g *StripeGateway) CreatePortalSession(ctx context.Context, customerID, returnURL string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(customerID),
		ReturnURL: stripe.String(returnURL),
	}
	params.Context = ctx

	session, err := g.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create billing portal session: %w", err)
	}

	return session.URL, nil
}

func (g *StripeGateway) ConstructWebhookEvent(payload []byte, signature string) (*domainBilling.WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	result := &domainBilling.WebhookEvent{Type: string(event.Type)}

	if string(event.Type) == constants.StripeEventCheckoutCompleted {
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session payload: %w", err)
		}
		result.Session = toCheckoutSession(&session)
	}

	return result, nil
}

func toCheckoutSession(session *stripe.CheckoutSession) *domainBilling.CheckoutSession {
	if session == nil {
		return nil
	}

	out := &domainBilling.CheckoutSession{
		ID:            session.ID,
		URL:           session.URL,
		Mode:          string(session.Mode),
		PaymentStatus: string(session.PaymentStatus),
		Metadata:      session.Metadata,
	}
	if session.Customer != nil {
		out.CustomerID = session.Customer.ID
	}
	if session.CustomerDetails != nil {
		out.CustomerEmail = session.CustomerDetails.Email
	}
	if out.CustomerEmail == "" {
		out.CustomerEmail = session.CustomerEmail
	}
	if session.Subscription != nil {
		out.SubscriptionID = session.Subscription.ID
	}
	return out
}
