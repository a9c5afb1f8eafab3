package domain

import (
	"context"
	"time"
)

const (
	// DefaultFreeGenerationLimit is the number of generations a user gets
	// before a paid subscription is required. Overridable via config.
	DefaultFreeGenerationLimit = 5

	// SubscriptionGracePeriod extends a paid period past its stored end to
	// tolerate renewal-webhook latency.
	SubscriptionGracePeriod = 24 * time.Hour
)

// UserApiLimit tracks how many free-tier generations a user has consumed.
// One row per user, created lazily on the first recorded generation.
type UserApiLimit struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserSubscription mirrors the Stripe subscription state for a user.
// One row per user; never deleted, it simply lapses when the period ends.
type UserSubscription struct {
	ID                     string    `json:"id"`
	UserID                 string    `json:"user_id"`
	StripeCustomerID       string    `json:"stripe_customer_id"`
	StripeSubscriptionID   string    `json:"stripe_subscription_id"`
	StripePriceID          string    `json:"stripe_price_id"`
	StripeCurrentPeriodEnd time.Time `json:"stripe_current_period_end"`
}

// IsValid reports whether the subscription grants paid access at the given
// time. Validity is purely a function of the stored record and the clock:
// a price must be set and the period end plus grace must still be ahead.
func (s *UserSubscription) IsValid(now time.Time) bool {
	if s == nil {
		return false
	}
	if s.StripePriceID == "" {
		return false
	}
	return s.StripeCurrentPeriodEnd.Add(SubscriptionGracePeriod).After(now)
}

// Entitlement is the outcome of the two gate checks for one request.
type Entitlement struct {
	FreeOK bool
	Pro    bool
}

// Allowed reports whether a generation call may proceed.
func (e Entitlement) Allowed() bool {
	return e.FreeOK || e.Pro
}

// EntitlementStatus is the dashboard-facing view of a user's quota.
type EntitlementStatus struct {
	Count int  `json:"count"`
	Limit int  `json:"limit"`
	IsPro bool `json:"is_pro"`
}

// UsageRepository defines persistence for the free-tier counter.
type UsageRepository interface {
	// GetCount returns the consumed count for the user, 0 when no row exists.
	GetCount(ctx context.Context, userID string, token string) (int, error)
	// Increment adds one to the user's count, creating the row with count=1
	// when absent. The increment is atomic at the datastore.
	Increment(ctx context.Context, userID string, token string) error
}

// SubscriptionRepository defines persistence for subscription records.
// Lookups return (nil, nil) when no record exists.
type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID string) (*UserSubscription, error)
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*UserSubscription, error)
	Create(ctx context.Context, sub *UserSubscription) error
	UpdateBySubscriptionID(ctx context.Context, subscriptionID, priceID string, periodEnd time.Time) error
}

// EntitlementService combines the usage counter and the subscription
// validator into the gate every generation endpoint consults.
type EntitlementService interface {
	HasRemainingFreeUse(ctx context.Context, userID string, token string) (bool, error)
	IsSubscriptionValid(ctx context.Context, userID string) (bool, error)
	Check(ctx context.Context, userID string, token string) (Entitlement, error)
	RecordUsage(ctx context.Context, userID string, token string) error
	Status(ctx context.Context, userID string, token string) (*EntitlementStatus, error)
}
