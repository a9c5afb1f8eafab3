package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"genius-server/internal/domain"

	"github.com/supabase-community/supabase-go"
)

// SubscriptionRepository persists Stripe subscription records in the
// user_subscriptions table. All access goes through the service-role client:
// reads happen during entitlement checks and writes happen during webhook
// processing, neither of which carries a user session.
type SubscriptionRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
}

func NewSubscriptionRepository(supabaseClient domain.SupabaseClient, logger domain.Logger) *SubscriptionRepository {
	return &SubscriptionRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
	}
}

func (r *SubscriptionRepository) client() (*supabase.Client, error) {
	client := r.supabaseClient.Service()
	if client == nil {
		return nil, fmt.Errorf("supabase service client not initialized")
	}
	return client, nil
}

// GetByUserID returns the user's subscription record, or (nil, nil) when the
// user has never subscribed.
func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserSubscription, error) {
	return r.getByColumn("user_id", userID)
}

// GetBySubscriptionID returns the record for a Stripe subscription id, or
// (nil, nil) when none exists.
func (r *SubscriptionRepository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*domain.UserSubscription, error) {
	return r.getByColumn("stripe_subscription_id", subscriptionID)
}

func (r *SubscriptionRepository) getByColumn(column, value string) (*domain.UserSubscription, error) {
	client, err := r.client()
	if err != nil {
		return nil, err
	}

	resp, _, err := client.From("user_subscriptions").
		Select("*", "", false).
		Eq(column, value).
		Limit(1, "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription by %s: %w", column, err)
	}

	var subs []domain.UserSubscription
	if err := json.Unmarshal(resp, &subs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(subs) == 0 {
		return nil, nil
	}
	return &subs[0], nil
}

// Create inserts a new subscription record.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *domain.UserSubscription) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	data := map[string]interface{}{
		"user_id":                   sub.UserID,
		"stripe_customer_id":        sub.StripeCustomerID,
		"stripe_subscription_id":    sub.StripeSubscriptionID,
		"stripe_price_id":           sub.StripePriceID,
		"stripe_current_period_end": sub.StripeCurrentPeriodEnd.Format(time.RFC3339),
	}

	resp, _, err := client.From("user_subscriptions").Insert(data, false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	var result []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp, &result); err == nil && len(result) > 0 {
		sub.ID = result[0].ID
	}
	return nil
}

// UpdateBySubscriptionID sets the price and period end for an existing
// record, keyed by the Stripe subscription id.
func (r *SubscriptionRepository) UpdateBySubscriptionID(ctx context.Context, subscriptionID, priceID string, periodEnd time.Time) error {
	client, err := r.client()
	if err != nil {
		return err
	}

	data := map[string]interface{}{
		"stripe_price_id":           priceID,
		"stripe_current_period_end": periodEnd.Format(time.RFC3339),
	}

	_, _, err = client.From("user_subscriptions").
		Update(data, "", "").
		Eq("stripe_subscription_id", subscriptionID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	return nil
}
