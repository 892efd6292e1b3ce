package dto

import (
	"fmt"
	"time"

	"github.com/sahakari/coop_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AuditTransactionsParams carries the query parameters of the audit
// transaction listing and export endpoints.
type AuditTransactionsParams struct {
	Type         string `form:"type"`
	VerifiedOnly bool   `form:"verified_only"`
	Limit        int    `form:"limit"`
	Offset       int    `form:"offset"`
}

// AuditSummaryResponse is the headline figures payload.
type AuditSummaryResponse struct {
	TotalAssets         decimal.Decimal `json:"total_assets"`
	TotalDeposits       decimal.Decimal `json:"total_deposits"`
	TotalLoansDisbursed decimal.Decimal `json:"total_loans_disbursed"`
	TotalOutstanding    decimal.Decimal `json:"total_outstanding"`
	TotalLoansRepaid    decimal.Decimal `json:"total_loans_repaid"`
	TotalInterestEarned decimal.Decimal `json:"total_interest_earned"`
	TotalProfit         decimal.Decimal `json:"total_profit"`
	TotalSavings        decimal.Decimal `json:"total_savings"`
	TotalShares         decimal.Decimal `json:"total_shares"`
	TotalMembers        int64           `json:"total_members"`
	GeneratedAt         time.Time       `json:"generated_at"`
}

// ToAuditSummaryResponse converts the domain summary.
func ToAuditSummaryResponse(s *domain.AuditSummary) AuditSummaryResponse {
	return AuditSummaryResponse{
		TotalAssets:         s.TotalAssets,
		TotalDeposits:       s.TotalDeposits,
		TotalLoansDisbursed: s.TotalLoansDisbursed,
		TotalOutstanding:    s.TotalOutstanding,
		TotalLoansRepaid:    s.TotalLoansRepaid,
		TotalInterestEarned: s.TotalInterestEarned,
		TotalProfit:         s.TotalProfit,
		TotalSavings:        s.TotalSavings,
		TotalShares:         s.TotalShares,
		TotalMembers:        s.TotalMembers,
		GeneratedAt:         time.Now().UTC(),
	}
}

// OutstandingLoanResponse is one row of the outstanding-loans report.
type OutstandingLoanResponse struct {
	LoanResponse
	BorrowerName          string          `json:"borrower_name"`
	BorrowerPhone         string          `json:"borrower_phone"`
	AmountRepaid          decimal.Decimal `json:"amount_repaid"`
	ExpectedRepaymentDate *time.Time      `json:"expected_repayment_date,omitempty"`
	BlockchainVerified    bool            `json:"blockchain_verified"`
}

// ToOutstandingLoanResponses converts the domain report rows.
func ToOutstandingLoanResponses(rows []domain.OutstandingLoanRow) []OutstandingLoanResponse {
	out := make([]OutstandingLoanResponse, len(rows))
	for i, row := range rows {
		out[i] = OutstandingLoanResponse{
			LoanResponse:          ToLoanResponse(&row.Loan),
			BorrowerName:          row.BorrowerName,
			BorrowerPhone:         row.BorrowerPhone,
			AmountRepaid:          row.AmountRepaid,
			ExpectedRepaymentDate: row.ExpectedRepayment,
			BlockchainVerified:    row.BlockchainVerified,
		}
	}
	return out
}

// AuditTransactionResponse is one row of the audit transaction listing.
type AuditTransactionResponse struct {
	TransactionResponse
	UserName  string `json:"user_name"`
	UserPhone string `json:"user_phone"`
}

// AuditTransactionsResponse is the transaction listing payload with totals.
type AuditTransactionsResponse struct {
	Transactions  []AuditTransactionResponse `json:"transactions"`
	TotalAmount   decimal.Decimal            `json:"total_amount"`
	VerifiedCount int64                      `json:"verified_count"`
	Count         int64                      `json:"count"`
}

// ToAuditTransactionsResponse converts the domain report rows and computes totals.
func ToAuditTransactionsResponse(rows []domain.AuditTransactionRow) AuditTransactionsResponse {
	resp := AuditTransactionsResponse{
		Transactions: make([]AuditTransactionResponse, len(rows)),
		TotalAmount:  decimal.Zero,
	}
	for i, row := range rows {
		resp.Transactions[i] = AuditTransactionResponse{
			TransactionResponse: ToTransactionResponse(&row.Transaction),
			UserName:            row.UserName,
			UserPhone:           row.UserPhone,
		}
		resp.TotalAmount = resp.TotalAmount.Add(row.Amount)
		if row.Verified {
			resp.VerifiedCount++
		}
	}
	resp.Count = int64(len(rows))
	return resp
}

// BlockchainStatusResponse is the anchoring coverage payload.
type BlockchainStatusResponse struct {
	TotalTransactions      int64  `json:"total_transactions"`
	VerifiedTransactions   int64  `json:"verified_transactions"`
	UnverifiedTransactions int64  `json:"unverified_transactions"`
	VerificationRate       string `json:"verification_rate"`
	LastBlockNumber        *int64 `json:"last_block_number,omitempty"`
	Health                 string `json:"health"`
}

// ToBlockchainStatusResponse converts the domain status and assigns a health
// band. An empty ledger counts as healthy.
func ToBlockchainStatusResponse(s *domain.BlockchainStatus) BlockchainStatusResponse {
	health := "healthy"
	if s.TotalTransactions > 0 {
		switch {
		case s.VerificationRate >= 90:
			health = "healthy"
		case s.VerificationRate >= 50:
			health = "warning"
		default:
			health = "critical"
		}
	}
	return BlockchainStatusResponse{
		TotalTransactions:      s.TotalTransactions,
		VerifiedTransactions:   s.VerifiedTransactions,
		UnverifiedTransactions: s.UnverifiedTransactions,
		VerificationRate:       fmt.Sprintf("%.2f%%", s.VerificationRate),
		LastBlockNumber:        s.LastBlockNumber,
		Health:                 health,
	}
}

// UserAuditReportResponse is the per-member audit payload.
type UserAuditReportResponse struct {
	UserID              string          `json:"user_id"`
	Name                string          `json:"name"`
	PhoneNumber         string          `json:"phone_number"`
	SavingsBalance      decimal.Decimal `json:"savings_balance"`
	SharesBalance       decimal.Decimal `json:"shares_balance"`
	TotalDeposits       decimal.Decimal `json:"total_deposits"`
	TotalLoansBorrowed  decimal.Decimal `json:"total_loans_borrowed"`
	TotalLoansRepaid    decimal.Decimal `json:"total_loans_repaid"`
	OutstandingBalance  decimal.Decimal `json:"outstanding_balance"`
	TransactionCount    int64           `json:"transaction_count"`
	VerificationRate    string          `json:"verification_rate"`
	LastTransactionDate *time.Time      `json:"last_transaction_date,omitempty"`
}

// ToUserAuditReportResponse converts the domain report.
func ToUserAuditReportResponse(r *domain.UserAuditReport) UserAuditReportResponse {
	return UserAuditReportResponse{
		UserID:              r.UserID,
		Name:                r.Name,
		PhoneNumber:         r.PhoneNumber,
		SavingsBalance:      r.SavingsBalance,
		SharesBalance:       r.SharesBalance,
		TotalDeposits:       r.TotalDeposits,
		TotalLoansBorrowed:  r.TotalLoansBorrowed,
		TotalLoansRepaid:    r.TotalLoansRepaid,
		OutstandingBalance:  r.OutstandingBalance,
		TransactionCount:    r.TransactionCount,
		VerificationRate:    fmt.Sprintf("%.2f%%", r.VerificationRate),
		LastTransactionDate: r.LastTransactionDate,
	}
}
