package repositories

import (
	"context"

	"github.com/sahakari/coop_backend/internal/core/domain"
)

// RateReader defines read operations for the interest rate table
type RateReader interface {
	// FindRateByDuration retrieves the rate entry for a loan duration.
	FindRateByDuration(ctx context.Context, durationMonths int) (*domain.InterestRate, error)

	// ListRates retrieves all rate entries ordered by duration.
	ListRates(ctx context.Context) ([]domain.InterestRate, error)
}

// RateWriter defines write operations for the interest rate table
type RateWriter interface {
	// UpsertRate creates or replaces the rate entry for a duration.
	UpsertRate(ctx context.Context, rate domain.InterestRate) (*domain.InterestRate, error)
}

// RateRepositoryFacade combines the rate table repository interfaces
type RateRepositoryFacade interface {
	RateReader
	RateWriter
}
