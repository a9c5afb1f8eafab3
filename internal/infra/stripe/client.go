package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"genius-server/internal/domain"

	stripego "github.com/stripe/stripe-go/v79"
	portal "github.com/stripe/stripe-go/v79/billingportal/session"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/subscription"
	"github.com/stripe/stripe-go/v79/webhook"
)

// Gateway implements domain.BillingGateway on top of the Stripe SDK.
type Gateway struct {
	webhookSecret string
	priceID       string
	frontendURL   string
	logger        domain.Logger
}

// NewGateway wires the Stripe API key from config and returns the gateway.
func NewGateway(config domain.Config, logger domain.Logger) *Gateway {
	stripego.Key = config.GetStripeSecretKey()
	return &Gateway{
		webhookSecret: config.GetStripeWebhookSecret(),
		priceID:       config.GetStripePriceID(),
		frontendURL:   strings.TrimRight(config.GetFrontendURL(), "/"),
		logger:        logger,
	}
}

// VerifyEvent authenticates the raw webhook body against the Stripe
// signature header and maps the event to the domain representation.
func (g *Gateway) VerifyEvent(payload []byte, signature string) (*domain.BillingEvent, error) {
	if g.webhookSecret == "" {
		return nil, fmt.Errorf("stripe webhook secret not configured")
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		signature,
		g.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
	}

	billingEvent := &domain.BillingEvent{Type: string(event.Type)}

	switch billingEvent.Type {
	case domain.EventCheckoutCompleted:
		var sess stripego.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("%w: checkout session: %v", domain.ErrMalformedEventPayload, err)
		}
		checkout := &domain.CheckoutSessionEvent{Metadata: sess.Metadata}
		if sess.Subscription != nil {
			checkout.SubscriptionID = sess.Subscription.ID
		}
		billingEvent.CheckoutSession = checkout
	case domain.EventInvoicePaid:
		var inv stripego.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return nil, fmt.Errorf("%w: invoice: %v", domain.ErrMalformedEventPayload, err)
		}
		invoice := &domain.InvoiceEvent{}
		if inv.Subscription != nil {
			invoice.SubscriptionID = inv.Subscription.ID
		}
		billingEvent.Invoice = invoice
	}

	return billingEvent, nil
}

// GetSubscription fetches the subscription from Stripe. The initiating
// webhook event may carry only a reference, so the record fields come from
// this fetch.
func (g *Gateway) GetSubscription(ctx context.Context, subscriptionID string) (*domain.ProviderSubscription, error) {
	sub, err := subscription.Get(subscriptionID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscription %s: %w", subscriptionID, err)
	}

	providerSub := &domain.ProviderSubscription{
		ID:               sub.ID,
		CurrentPeriodEnd: time.Unix(sub.CurrentPeriodEnd, 0).UTC(),
	}
	if sub.Customer != nil {
		providerSub.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		providerSub.PriceID = sub.Items.Data[0].Price.ID
	}
	return providerSub, nil
}

// NewCheckoutSession starts a subscription-mode checkout. The user id rides
// in both session and subscription metadata so the webhook can link the
// resulting subscription back to the account.
func (g *Gateway) NewCheckoutSession(ctx context.Context, userID, email string) (string, error) {
	if g.priceID == "" || g.frontendURL == "" {
		return "", domain.ErrProviderNotConfigured
	}

	params := &stripego.CheckoutSessionParams{
		Mode:          stripego.String(string(stripego.CheckoutSessionModeSubscription)),
		CustomerEmail: stripego.String(email),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{
				Price:    stripego.String(g.priceID),
				Quantity: stripego.Int64(1),
			},
		},
		SuccessURL: stripego.String(g.frontendURL + "/settings"),
		CancelURL:  stripego.String(g.frontendURL + "/settings"),
		SubscriptionData: &stripego.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{"userId": userID},
		},
	}
	params.AddMetadata("userId", userID)

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return sess.URL, nil
}

// NewPortalSession opens the Stripe customer portal for plan management.
func (g *Gateway) NewPortalSession(ctx context.Context, customerID string) (string, error) {
	if g.frontendURL == "" {
		return "", domain.ErrProviderNotConfigured
	}

	params := &stripego.BillingPortalSessionParams{
		Customer:  stripego.String(customerID),
		ReturnURL: stripego.String(g.frontendURL + "/settings"),
	}

	sess, err := portal.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create portal session: %w", err)
	}
	return sess.URL, nil
}
