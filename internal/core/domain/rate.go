package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InterestRate maps a loan duration to the annual interest rate charged
// for loans created while the entry is in effect.
type InterestRate struct {
	RateID         string          `json:"rateID"`
	DurationMonths int             `json:"durationMonths"`
	Rate           decimal.Decimal `json:"rate"` // annual percentage
	EffectiveFrom  time.Time       `json:"effectiveFrom"`
	AuditFields
}
