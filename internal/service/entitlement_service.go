package service

import (
	"context"
	"fmt"
	"time"

	"genius-server/internal/domain"

	"golang.org/x/sync/errgroup"
)

// EntitlementService implements the usage counter and subscription validator
// every generation endpoint consults.
type EntitlementService struct {
	usageRepo domain.UsageRepository
	subRepo   domain.SubscriptionRepository
	logger    domain.Logger
	freeLimit int

	// now is swappable in tests; all validity comparisons use this single
	// clock so checks within one request agree on the time.
	now func() time.Time
}

func NewEntitlementService(
	usageRepo domain.UsageRepository,
	subRepo domain.SubscriptionRepository,
	logger domain.Logger,
	freeLimit int,
) *EntitlementService {
	if freeLimit <= 0 {
		freeLimit = domain.DefaultFreeGenerationLimit
	}
	return &EntitlementService{
		usageRepo: usageRepo,
		subRepo:   subRepo,
		logger:    logger,
		freeLimit: freeLimit,
		now:       time.Now,
	}
}

// HasRemainingFreeUse reports whether the user is still under the free cap.
func (s *EntitlementService) HasRemainingFreeUse(ctx context.Context, userID string, token string) (bool, error) {
	count, err := s.usageRepo.GetCount(ctx, userID, token)
	if err != nil {
		return false, fmt.Errorf("failed to load usage count: %w", err)
	}
	return count < s.freeLimit, nil
}

// IsSubscriptionValid reports whether the user holds a currently valid paid
// subscription. Absent record means false; otherwise validity is the pure
// period-end comparison on the record.
func (s *EntitlementService) IsSubscriptionValid(ctx context.Context, userID string) (bool, error) {
	sub, err := s.subRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to load subscription: %w", err)
	}
	return sub.IsValid(s.now()), nil
}

// Check runs both gate checks. The two reads are independent, so they run
// concurrently.
func (s *EntitlementService) Check(ctx context.Context, userID string, token string) (domain.Entitlement, error) {
	var ent domain.Entitlement

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		freeOK, err := s.HasRemainingFreeUse(gctx, userID, token)
		if err != nil {
			return err
		}
		ent.FreeOK = freeOK
		return nil
	})
	g.Go(func() error {
		pro, err := s.IsSubscriptionValid(gctx, userID)
		if err != nil {
			return err
		}
		ent.Pro = pro
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Entitlement{}, err
	}
	return ent, nil
}

// RecordUsage charges one free-tier generation to the user.
func (s *EntitlementService) RecordUsage(ctx context.Context, userID string, token string) error {
	if err := s.usageRepo.Increment(ctx, userID, token); err != nil {
		return fmt.Errorf("failed to increment usage: %w", err)
	}
	return nil
}

// Status returns the dashboard view of the user's quota and plan.
func (s *EntitlementService) Status(ctx context.Context, userID string, token string) (*domain.EntitlementStatus, error) {
	count, err := s.usageRepo.GetCount(ctx, userID, token)
	if err != nil {
		return nil, fmt.Errorf("failed to load usage count: %w", err)
	}
	pro, err := s.IsSubscriptionValid(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.EntitlementStatus{
		Count: count,
		Limit: s.freeLimit,
		IsPro: pro,
	}, nil
}
