package mapping

import (
	"github.com/sahakari/coop_backend/internal/core/domain"
	"github.com/sahakari/coop_backend/internal/models"
)

// ToModelInterestRate converts a domain InterestRate to a model InterestRate
func ToModelInterestRate(d domain.InterestRate) models.InterestRate {
	return models.InterestRate{
		RateID:         d.RateID,
		DurationMonths: d.DurationMonths,
		Rate:           d.Rate,
		EffectiveFrom:  d.EffectiveFrom,
		AuditFields:    toModelAuditFields(d.AuditFields),
	}
}

// ToDomainInterestRate converts a model InterestRate to a domain InterestRate
func ToDomainInterestRate(m models.InterestRate) domain.InterestRate {
	return domain.InterestRate{
		RateID:         m.RateID,
		DurationMonths: m.DurationMonths,
		Rate:           m.Rate,
		EffectiveFrom:  m.EffectiveFrom,
		AuditFields:    toDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInterestRateSlice converts a slice of model InterestRates to domain InterestRates
func ToDomainInterestRateSlice(ms []models.InterestRate) []domain.InterestRate {
	ds := make([]domain.InterestRate, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInterestRate(m)
	}
	return ds
}
