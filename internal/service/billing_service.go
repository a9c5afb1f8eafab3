package service

import (
	"context"
	"fmt"
	"time"

	"genius-server/internal/domain"
)

// BillingService processes payment-provider webhook events and hands out
// checkout/portal URLs. Events arrive at-least-once and possibly out of
// order, so every handler here is idempotent.
type BillingService struct {
	gateway domain.BillingGateway
	subRepo domain.SubscriptionRepository
	logger  domain.Logger

	now func() time.Time
}

func NewBillingService(
	gateway domain.BillingGateway,
	subRepo domain.SubscriptionRepository,
	logger domain.Logger,
) *BillingService {
	return &BillingService{
		gateway: gateway,
		subRepo: subRepo,
		logger:  logger,
		now:     time.Now,
	}
}

// ProcessEvent verifies the webhook signature and applies the event to the
// subscription records. Unrecognized event types are acknowledged and
// ignored so provider schema growth never breaks the endpoint.
func (s *BillingService) ProcessEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.VerifyEvent(payload, signature)
	if err != nil {
		return err
	}

	switch event.Type {
	case domain.EventCheckoutCompleted:
		return s.handleCheckoutCompleted(ctx, event.CheckoutSession)
	case domain.EventInvoicePaid:
		return s.handleInvoicePaid(ctx, event.Invoice)
	default:
		s.logger.Debug("Ignoring unhandled billing event", "type", event.Type)
		return nil
	}
}

func (s *BillingService) handleCheckoutCompleted(ctx context.Context, sess *domain.CheckoutSessionEvent) error {
	if sess == nil {
		return fmt.Errorf("checkout event missing session payload")
	}

	userID := sess.Metadata["userId"]
	if userID == "" {
		return domain.ErrMissingMetadata
	}
	if sess.SubscriptionID == "" {
		return domain.ErrMissingSubscriptionReference
	}

	providerSub, err := s.gateway.GetSubscription(ctx, sess.SubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to fetch subscription details: %w", err)
	}

	existing, err := s.subRepo.GetBySubscriptionID(ctx, providerSub.ID)
	if err != nil {
		return fmt.Errorf("failed to look up subscription record: %w", err)
	}
	if existing != nil {
		// Redelivered checkout event; the record already exists.
		s.logger.Info("Duplicate checkout event ignored", "subscription_id", providerSub.ID)
		return nil
	}

	record := &domain.UserSubscription{
		UserID:                 userID,
		StripeCustomerID:       providerSub.CustomerID,
		StripeSubscriptionID:   providerSub.ID,
		StripePriceID:          providerSub.PriceID,
		StripeCurrentPeriodEnd: providerSub.CurrentPeriodEnd,
	}
	if err := s.subRepo.Create(ctx, record); err != nil {
		return fmt.Errorf("failed to create subscription record: %w", err)
	}

	s.logger.Info("Subscription created", "user_id", userID, "subscription_id", providerSub.ID)
	return nil
}

func (s *BillingService) handleInvoicePaid(ctx context.Context, invoice *domain.InvoiceEvent) error {
	if invoice == nil {
		return fmt.Errorf("invoice event missing payload")
	}
	if invoice.SubscriptionID == "" {
		return domain.ErrMissingSubscriptionReference
	}

	providerSub, err := s.gateway.GetSubscription(ctx, invoice.SubscriptionID)
	if err != nil {
		return fmt.Errorf("failed to fetch subscription details: %w", err)
	}

	existing, err := s.subRepo.GetBySubscriptionID(ctx, providerSub.ID)
	if err != nil {
		return fmt.Errorf("failed to look up subscription record: %w", err)
	}
	if existing == nil {
		// A renewal for a subscription we never saw the checkout for.
		return domain.ErrUnknownSubscription
	}

	if err := s.subRepo.UpdateBySubscriptionID(ctx, providerSub.ID, providerSub.PriceID, providerSub.CurrentPeriodEnd); err != nil {
		return fmt.Errorf("failed to update subscription record: %w", err)
	}

	s.logger.Info("Subscription period extended", "subscription_id", providerSub.ID, "period_end", providerSub.CurrentPeriodEnd)
	return nil
}

// SessionURL returns the billing page for the user: the customer portal for
// current subscribers, a subscription checkout for everyone else.
func (s *BillingService) SessionURL(ctx context.Context, user *domain.SupabaseUser) (string, error) {
	sub, err := s.subRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to load subscription: %w", err)
	}

	if sub.IsValid(s.now()) && sub.StripeCustomerID != "" {
		return s.gateway.NewPortalSession(ctx, sub.StripeCustomerID)
	}
	return s.gateway.NewCheckoutSession(ctx, user.ID, user.Email)
}
