package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/sahakari/coop_backend/cmd/docs"
	"github.com/sahakari/coop_backend/internal/core/domain"
	portssvc "github.com/sahakari/coop_backend/internal/core/ports/services"
	"github.com/sahakari/coop_backend/internal/middleware"
	"github.com/sahakari/coop_backend/internal/platform/config"
)

const (
	globalRateLimit = 100
	loginRateLimit  = 8
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(globalRateLimit, time.Minute)))

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	authHdl := newAuthHandler(cfg, services.User)
	r.POST("/auth/login",
		middleware.RateLimit(middleware.NewRateLimiter(loginRateLimit, time.Minute)),
		authHdl.login,
	)

	registerAuthenticatedRoutes(r, cfg, services, authHdl)
	setupSwaggerRoutes(r, cfg)
}

// registerAuthenticatedRoutes wires every route behind the JWT middleware.
// Role gates resolve the caller's role from the database on each request, so
// a role change takes effect without re-issuing tokens.
func registerAuthenticatedRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	authHdl *authHandler,
) {
	authed := r.Group("/", middleware.AuthMiddleware(cfg.JWTSecret))

	resolver := middleware.RoleResolver(services.User.GetUserRole)
	managerOnly := middleware.RequireRoles(resolver, domain.RoleManager)
	memberOrManager := middleware.RequireRoles(resolver, domain.RoleMember, domain.RoleManager)
	auditorOrManager := middleware.RequireRoles(resolver, domain.RoleAuditor, domain.RoleManager)

	authed.GET("/auth/me", authHdl.me)

	homeHdl := newHomeHandler(services.Home)
	authed.GET("/home", homeHdl.home)

	ledgerHdl := newLedgerHandler(services.Ledger)
	authed.POST("/deposit", memberOrManager, ledgerHdl.deposit)
	authed.GET("/transactions", ledgerHdl.listMyTransactions)

	rateHdl := newRateHandler(services.Rate)
	authed.GET("/interest_rates", rateHdl.listRates)
	authed.POST("/interest_rates/set", managerOnly, rateHdl.setRate)

	loanHdl := newLoanHandler(services.Loan)
	authed.POST("/loans/request", memberOrManager, loanHdl.requestLoan)
	authed.POST("/loans/add", managerOnly, loanHdl.addLoan)
	authed.GET("/loans/manager", managerOnly, loanHdl.listManagerLoans)
	authed.GET("/loans/member", loanHdl.listMemberLoans)
	authed.GET("/loans/:id", loanHdl.getLoan)
	authed.POST("/loans/:id/update_status", managerOnly, loanHdl.updateLoanStatus)
	authed.POST("/loans/:id/repay", memberOrManager, loanHdl.repayLoan)

	userHdl := newUserHandler(services.User)
	authed.GET("/users", managerOnly, userHdl.searchUsers)

	auditHdl := newAuditHandler(services.Audit)
	audit := authed.Group("/audit", auditorOrManager)
	{
		audit.GET("/summary", auditHdl.summary)
		audit.GET("/loans/outstanding", auditHdl.outstandingLoans)
		audit.GET("/transactions", auditHdl.transactions)
		audit.GET("/transactions/export", auditHdl.exportTransactions)
		audit.GET("/blockchain/status", auditHdl.blockchainStatus)
		audit.GET("/users/:id", auditHdl.userReport)
	}
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
