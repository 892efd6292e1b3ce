package dto

import (
	"time"

	"github.com/sahakari/coop_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SetRateRequest is the payload for creating or replacing a rate table entry.
type SetRateRequest struct {
	DurationMonths int             `json:"duration_months" binding:"required"`
	Rate           decimal.Decimal `json:"rate" binding:"required"`
}

// RateResponse is the API representation of a rate table entry.
type RateResponse struct {
	DurationMonths int             `json:"duration_months"`
	Rate           decimal.Decimal `json:"rate"`
	EffectiveFrom  time.Time       `json:"effective_from"`
}

// ToRateResponse converts a domain InterestRate to its API representation.
func ToRateResponse(r *domain.InterestRate) RateResponse {
	return RateResponse{
		DurationMonths: r.DurationMonths,
		Rate:           r.Rate,
		EffectiveFrom:  r.EffectiveFrom,
	}
}

// ToRateResponses converts a slice of domain InterestRates.
func ToRateResponses(rates []domain.InterestRate) []RateResponse {
	out := make([]RateResponse, len(rates))
	for i := range rates {
		out[i] = ToRateResponse(&rates[i])
	}
	return out
}
