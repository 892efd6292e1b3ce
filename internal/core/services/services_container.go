package services

import (
	portsrepo "github.com/sahakari/coop_backend/internal/core/ports/repositories"
	portssvc "github.com/sahakari/coop_backend/internal/core/ports/services"
	"github.com/sahakari/coop_backend/internal/events"
	"github.com/sahakari/coop_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized
// dependencies. anchor may be nil when on-chain anchoring is disabled.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, anchor AnchorEnqueuer, publisher events.Publisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Rate = NewRateService(repos.RateRepo)
	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.UserRepo, anchor, publisher)
	container.Loan = NewLoanService(repos.LoanRepo, repos.UserRepo, container.Rate, anchor, publisher)
	container.Audit = NewAuditService(repos.AuditRepo, cfg)
	container.Home = NewHomeService(repos.UserRepo, repos.LoanRepo, container.Audit)

	return container
}
