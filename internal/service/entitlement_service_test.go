package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"genius-server/internal/domain"
)

type mockUsageRepo struct {
	counts       map[string]int
	getErr       error
	incrementErr error
	increments   int
}

func newMockUsageRepo() *mockUsageRepo {
	return &mockUsageRepo{counts: make(map[string]int)}
}

func (m *mockUsageRepo) GetCount(ctx context.Context, userID string, token string) (int, error) {
	if m.getErr != nil {
		return 0, m.getErr
	}
	return m.counts[userID], nil
}

func (m *mockUsageRepo) Increment(ctx context.Context, userID string, token string) error {
	if m.incrementErr != nil {
		return m.incrementErr
	}
	m.increments++
	m.counts[userID]++
	return nil
}

type mockSubscriptionRepo struct {
	byUser  map[string]*domain.UserSubscription
	bySubID map[string]*domain.UserSubscription
	getErr  error

	created []*domain.UserSubscription
	updated int
}

func newMockSubscriptionRepo() *mockSubscriptionRepo {
	return &mockSubscriptionRepo{
		byUser:  make(map[string]*domain.UserSubscription),
		bySubID: make(map[string]*domain.UserSubscription),
	}
}

func (m *mockSubscriptionRepo) GetByUserID(ctx context.Context, userID string) (*domain.UserSubscription, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.byUser[userID], nil
}

func (m *mockSubscriptionRepo) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*domain.UserSubscription, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.bySubID[subscriptionID], nil
}

func (m *mockSubscriptionRepo) Create(ctx context.Context, sub *domain.UserSubscription) error {
	m.created = append(m.created, sub)
	m.byUser[sub.UserID] = sub
	m.bySubID[sub.StripeSubscriptionID] = sub
	return nil
}

func (m *mockSubscriptionRepo) UpdateBySubscriptionID(ctx context.Context, subscriptionID, priceID string, periodEnd time.Time) error {
	sub, ok := m.bySubID[subscriptionID]
	if !ok {
		return errors.New("subscription not found")
	}
	sub.StripePriceID = priceID
	sub.StripeCurrentPeriodEnd = periodEnd
	m.updated++
	return nil
}

func proSubscription(userID string, now time.Time) *domain.UserSubscription {
	return &domain.UserSubscription{
		UserID:                 userID,
		StripeCustomerID:       "cus_1",
		StripeSubscriptionID:   "sub_1",
		StripePriceID:          "price_1",
		StripeCurrentPeriodEnd: now.Add(30 * 24 * time.Hour),
	}
}

func TestEntitlementService_HasRemainingFreeUse_NoRecord(t *testing.T) {
	usage := newMockUsageRepo()
	subs := newMockSubscriptionRepo()
	svc := NewEntitlementService(usage, subs, NewMockLogger(), 5)

	ok, err := svc.HasRemainingFreeUse(context.Background(), "user-1", "token")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !ok {
		t.Fatalf("expected fresh user to have remaining free use")
	}
}

func TestEntitlementService_HasRemainingFreeUse_AtLimit(t *testing.T) {
	usage := newMockUsageRepo()
	usage.counts["user-1"] = 5
	svc := NewEntitlementService(usage, newMockSubscriptionRepo(), NewMockLogger(), 5)

	ok, err := svc.HasRemainingFreeUse(context.Background(), "user-1", "token")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ok {
		t.Fatalf("expected user at limit to have no remaining free use")
	}
}

func TestEntitlementService_SequentialIncrements(t *testing.T) {
	usage := newMockUsageRepo()
	svc := NewEntitlementService(usage, newMockSubscriptionRepo(), NewMockLogger(), 5)

	for i := 0; i < 3; i++ {
		if err := svc.RecordUsage(context.Background(), "user-1", "token"); err != nil {
			t.Fatalf("expected no error on increment %d, got %v", i, err)
		}
	}
	if usage.counts["user-1"] != 3 {
		t.Fatalf("expected count 3 after 3 increments, got %d", usage.counts["user-1"])
	}
}

func TestEntitlementService_IsSubscriptionValid_NoRecord(t *testing.T) {
	svc := NewEntitlementService(newMockUsageRepo(), newMockSubscriptionRepo(), NewMockLogger(), 5)

	valid, err := svc.IsSubscriptionValid(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if valid {
		t.Fatalf("expected no subscription record to mean invalid")
	}
}

func TestEntitlementService_IsSubscriptionValid_ActiveRecord(t *testing.T) {
	subs := newMockSubscriptionRepo()
	now := time.Now()
	subs.byUser["user-1"] = proSubscription("user-1", now)
	svc := NewEntitlementService(newMockUsageRepo(), subs, NewMockLogger(), 5)

	valid, err := svc.IsSubscriptionValid(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !valid {
		t.Fatalf("expected active subscription to be valid")
	}
}

func TestEntitlementService_Check_BothChecks(t *testing.T) {
	usage := newMockUsageRepo()
	usage.counts["user-1"] = 5
	subs := newMockSubscriptionRepo()
	subs.byUser["user-1"] = proSubscription("user-1", time.Now())
	svc := NewEntitlementService(usage, subs, NewMockLogger(), 5)

	ent, err := svc.Check(context.Background(), "user-1", "token")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ent.FreeOK {
		t.Fatalf("expected free budget to be exhausted")
	}
	if !ent.Pro {
		t.Fatalf("expected pro to be true")
	}
	if !ent.Allowed() {
		t.Fatalf("expected pro user to be allowed")
	}
}

func TestEntitlementService_Check_PropagatesErrors(t *testing.T) {
	usage := newMockUsageRepo()
	usage.getErr = errors.New("datastore down")
	svc := NewEntitlementService(usage, newMockSubscriptionRepo(), NewMockLogger(), 5)

	if _, err := svc.Check(context.Background(), "user-1", "token"); err == nil {
		t.Fatalf("expected error when usage read fails")
	}
}

func TestEntitlementService_Status(t *testing.T) {
	usage := newMockUsageRepo()
	usage.counts["user-1"] = 2
	svc := NewEntitlementService(usage, newMockSubscriptionRepo(), NewMockLogger(), 5)

	status, err := svc.Status(context.Background(), "user-1", "token")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if status.Count != 2 {
		t.Fatalf("expected count 2, got %d", status.Count)
	}
	if status.Limit != 5 {
		t.Fatalf("expected limit 5, got %d", status.Limit)
	}
	if status.IsPro {
		t.Fatalf("expected is_pro false for user without subscription")
	}
}
