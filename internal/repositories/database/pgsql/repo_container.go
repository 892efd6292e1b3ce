package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/sahakari/coop_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	userRepo := newPgxUserRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	loanRepo := newPgxLoanRepository(dbPool)
	rateRepo := newPgxRateRepository(dbPool)
	auditRepo := newPgxAuditRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:   userRepo,
		LedgerRepo: ledgerRepo,
		LoanRepo:   loanRepo,
		RateRepo:   rateRepo,
		AuditRepo:  auditRepo,
	}
}
