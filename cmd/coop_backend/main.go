package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sahakari/coop_backend/internal/anchor"
	portsrepo "github.com/sahakari/coop_backend/internal/core/ports/repositories"
	"github.com/sahakari/coop_backend/internal/core/services"
	"github.com/sahakari/coop_backend/internal/events"
	"github.com/sahakari/coop_backend/internal/events/kafka"
	"github.com/sahakari/coop_backend/internal/handlers"
	"github.com/sahakari/coop_backend/internal/middleware"
	"github.com/sahakari/coop_backend/internal/platform/config"
	"github.com/sahakari/coop_backend/internal/repositories/database/pgsql"
	"github.com/sahakari/coop_backend/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// repoMarker adapts the ledger repository to the anchor client's Marker.
type repoMarker struct {
	repo portsrepo.LedgerRepositoryFacade
}

func (m repoMarker) MarkAnchored(ctx context.Context, transactionID string, blockchainTxHash string, blockNumber int64) error {
	return m.repo.MarkTransactionAnchored(ctx, transactionID, blockchainTxHash, blockNumber)
}

// @title Cooperative Savings Backend API
// @version 1.0
// @description Savings, loans and blockchain-anchored ledger for a cooperative society.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)

	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		logger.Info("Kafka publisher configured", slog.String("topic", cfg.KafkaTopic))
	}
	defer func() {
		if cerr := publisher.Close(); cerr != nil {
			logger.Error("Error closing event publisher", slog.String("error", cerr.Error()))
		}
	}()

	var submitter anchor.Submitter
	if cfg.EthRPCURL != "" && cfg.EthContractAddress != "" && cfg.EthPrivateKey != "" {
		ethSubmitter, err := anchor.NewEthSubmitter(context.Background(), cfg.EthRPCURL, cfg.EthContractAddress, cfg.EthPrivateKey)
		if err != nil {
			logger.Error("Failed to connect to Ethereum node, anchoring disabled", slog.String("error", err.Error()))
		} else {
			submitter = ethSubmitter
			logger.Info("Ethereum submitter connected", slog.String("contract", cfg.EthContractAddress))
		}
	} else {
		logger.Warn("Blockchain anchoring not configured, ledger entries will stay unverified")
	}

	anchorClient := anchor.NewClient(submitter, repoMarker{repo: repos.LedgerRepo}, publisher, logger, anchor.Options{
		Workers:       cfg.AnchorWorkers,
		QueueSize:     cfg.AnchorQueueSize,
		MaxAttempts:   cfg.AnchorMaxAttempts,
		RetryBase:     cfg.AnchorRetryBase,
		SubmitTimeout: cfg.AnchorSubmitTimeout,
		ConfirmWindow: cfg.AnchorConfirmWindow,
	})
	anchorClient.Start()
	defer anchorClient.Stop()

	serviceContainer := services.NewServiceContainer(cfg, repos, anchorClient, publisher)

	rescanner, err := anchor.NewRescanner(anchorClient, serviceContainer.Ledger, logger, cfg.AnchorRescanSpec)
	if err != nil {
		logger.Error("Invalid rescan schedule", slog.String("spec", cfg.AnchorRescanSpec), slog.String("error", err.Error()))
		os.Exit(1)
	}
	rescanner.Start()
	defer rescanner.Stop()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", slog.String("error", err.Error()))
	}
}

// runMigrations applies all pending "up" migrations using a temporary
// database/sql connection, keeping the pgx pool for application queries only.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	if err := migrationDB.Ping(); err != nil {
		migrationDB.Close()
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
