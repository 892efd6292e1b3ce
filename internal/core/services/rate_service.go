package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sahakari/coop_backend/internal/apperrors"
	"github.com/sahakari/coop_backend/internal/core/domain"
	portsrepo "github.com/sahakari/coop_backend/internal/core/ports/repositories"
	portssvc "github.com/sahakari/coop_backend/internal/core/ports/services"
	"github.com/sahakari/coop_backend/internal/dto"
)

// rateService manages the interest rate table.
type rateService struct {
	rateRepo portsrepo.RateRepositoryFacade
}

// NewRateService creates a new rate service.
func NewRateService(rateRepo portsrepo.RateRepositoryFacade) portssvc.RateSvcFacade {
	return &rateService{rateRepo: rateRepo}
}

// Ensure rateService implements the portssvc.RateSvcFacade interface
var _ portssvc.RateSvcFacade = (*rateService)(nil)

// SetRate creates or replaces the rate entry for a duration. Existing loans
// keep the rate they were created with.
func (s *rateService) SetRate(ctx context.Context, req dto.SetRateRequest, managerID string) (*domain.InterestRate, error) {
	if req.DurationMonths < minLoanDurationMonths || req.DurationMonths > maxLoanDurationMonths {
		return nil, fmt.Errorf("%w: duration must be between %d and %d months", apperrors.ErrValidation, minLoanDurationMonths, maxLoanDurationMonths)
	}
	if req.Rate.IsNegative() {
		return nil, fmt.Errorf("%w: interest rate cannot be negative", apperrors.ErrValidation)
	}

	now := time.Now()
	rate := domain.InterestRate{
		RateID:         uuid.NewString(),
		DurationMonths: req.DurationMonths,
		Rate:           req.Rate,
		EffectiveFrom:  now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     managerID,
			LastUpdatedAt: now,
			LastUpdatedBy: managerID,
		},
	}

	saved, err := s.rateRepo.UpsertRate(ctx, rate)
	if err != nil {
		return nil, fmt.Errorf("failed to set interest rate: %w", err)
	}
	return saved, nil
}

// ListRates returns all rate entries ordered by duration.
func (s *rateService) ListRates(ctx context.Context) ([]domain.InterestRate, error) {
	rates, err := s.rateRepo.ListRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list interest rates: %w", err)
	}
	return rates, nil
}

// ResolveRate returns the rate for a duration. A missing entry surfaces as
// ErrNoRateForDuration so loan requests can report it as a validation failure.
func (s *rateService) ResolveRate(ctx context.Context, durationMonths int) (*domain.InterestRate, error) {
	rate, err := s.rateRepo.FindRateByDuration(ctx, durationMonths)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d months", apperrors.ErrNoRateForDuration, durationMonths)
		}
		return nil, fmt.Errorf("failed to resolve rate for %d months: %w", durationMonths, err)
	}
	return rate, nil
}
