package services

import (
	"context"

	"github.com/sahakari/coop_backend/internal/core/domain"
	"github.com/sahakari/coop_backend/internal/dto"
)

// RateSvcFacade defines operations over the interest rate table.
type RateSvcFacade interface {
	// SetRate creates or replaces the rate entry for a duration.
	SetRate(ctx context.Context, req dto.SetRateRequest, managerID string) (*domain.InterestRate, error)

	// ListRates returns all rate entries ordered by duration.
	ListRates(ctx context.Context) ([]domain.InterestRate, error)

	// ResolveRate returns the rate for a duration, or an error when no entry exists.
	ResolveRate(ctx context.Context, durationMonths int) (*domain.InterestRate, error)
}
