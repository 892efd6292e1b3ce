package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InterestRate represents a row in the interest_rates table.
type InterestRate struct {
	RateID         string          `db:"rate_id"`
	DurationMonths int             `db:"duration_months"`
	Rate           decimal.Decimal `db:"rate"`
	EffectiveFrom  time.Time       `db:"effective_from"`
	AuditFields
}
