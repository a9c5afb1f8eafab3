package domain

import (
	"context"
	"time"
)

// Billing event types this system reacts to. All other event types are
// acknowledged and ignored so new provider events never break the webhook.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventInvoicePaid       = "invoice.payment_succeeded"
)

// CheckoutSessionEvent carries the fields used from a completed checkout.
type CheckoutSessionEvent struct {
	SubscriptionID string
	Metadata       map[string]string
}

// InvoiceEvent carries the subscription reference from a paid invoice.
type InvoiceEvent struct {
	SubscriptionID string
}

// BillingEvent is a signature-verified, provider-agnostic webhook event.
// Exactly one of the payload fields is set depending on Type.
type BillingEvent struct {
	Type            string
	CheckoutSession *CheckoutSessionEvent
	Invoice         *InvoiceEvent
}

// ProviderSubscription is a subscription as fetched from the payment
// provider, reduced to the fields persisted locally.
type ProviderSubscription struct {
	ID               string
	CustomerID       string
	PriceID          string
	CurrentPeriodEnd time.Time
}

// BillingGateway abstracts the payment provider (Stripe).
type BillingGateway interface {
	// VerifyEvent authenticates the raw webhook body against the signature
	// header and returns the parsed event.
	VerifyEvent(payload []byte, signature string) (*BillingEvent, error)
	// GetSubscription fetches full subscription details by id.
	GetSubscription(ctx context.Context, subscriptionID string) (*ProviderSubscription, error)
	// NewCheckoutSession starts a subscription checkout for the user and
	// returns the hosted page URL.
	NewCheckoutSession(ctx context.Context, userID, email string) (string, error)
	// NewPortalSession opens the billing portal for an existing customer.
	NewPortalSession(ctx context.Context, customerID string) (string, error)
}

// BillingService keeps subscription records in sync with provider events
// and hands out checkout/portal URLs.
type BillingService interface {
	ProcessEvent(ctx context.Context, payload []byte, signature string) error
	SessionURL(ctx context.Context, user *SupabaseUser) (string, error)
}
