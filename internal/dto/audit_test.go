package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sahakari/coop_backend/internal/core/domain"
)

func TestToBlockchainStatusResponseHealthBands(t *testing.T) {
	tests := []struct {
		name           string
		status         domain.BlockchainStatus
		expectedHealth string
		expectedRate   string
	}{
		{
			name:           "empty ledger is healthy",
			status:         domain.BlockchainStatus{},
			expectedHealth: "healthy",
			expectedRate:   "0.00%",
		},
		{
			name: "fully anchored",
			status: domain.BlockchainStatus{
				TotalTransactions:    40,
				VerifiedTransactions: 40,
				VerificationRate:     100,
			},
			expectedHealth: "healthy",
			expectedRate:   "100.00%",
		},
		{
			name: "at the healthy threshold",
			status: domain.BlockchainStatus{
				TotalTransactions:      10,
				VerifiedTransactions:   9,
				UnverifiedTransactions: 1,
				VerificationRate:       90,
			},
			expectedHealth: "healthy",
			expectedRate:   "90.00%",
		},
		{
			name: "warning band",
			status: domain.BlockchainStatus{
				TotalTransactions:      10,
				VerifiedTransactions:   6,
				UnverifiedTransactions: 4,
				VerificationRate:       60,
			},
			expectedHealth: "warning",
			expectedRate:   "60.00%",
		},
		{
			name: "critical band",
			status: domain.BlockchainStatus{
				TotalTransactions:      3,
				VerifiedTransactions:   1,
				UnverifiedTransactions: 2,
				VerificationRate:       33.333333,
			},
			expectedHealth: "critical",
			expectedRate:   "33.33%",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ToBlockchainStatusResponse(&tt.status)
			assert.Equal(t, tt.expectedHealth, resp.Health)
			assert.Equal(t, tt.expectedRate, resp.VerificationRate)
		})
	}
}

func TestToBlockchainStatusResponseLastBlock(t *testing.T) {
	block := int64(8_214_990)
	resp := ToBlockchainStatusResponse(&domain.BlockchainStatus{
		TotalTransactions:    1,
		VerifiedTransactions: 1,
		VerificationRate:     100,
		LastBlockNumber:      &block,
	})
	assert.NotNil(t, resp.LastBlockNumber)
	assert.Equal(t, block, *resp.LastBlockNumber)

	resp = ToBlockchainStatusResponse(&domain.BlockchainStatus{})
	assert.Nil(t, resp.LastBlockNumber)
}
