package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jobhive/jobhive_backend/internal/adapters/notification"
	portsrepo "github.com/jobhive/jobhive_backend/internal/core/ports/repositories"
	"github.com/jobhive/jobhive_backend/internal/core/services"
	"github.com/jobhive/jobhive_backend/internal/dto"
	"github.com/jobhive/jobhive_backend/internal/handlers"
	"github.com/jobhive/jobhive_backend/internal/middleware"
	"github.com/jobhive/jobhive_backend/internal/platform/config"
	"github.com/jobhive/jobhive_backend/internal/repositories/database/pgsql"
	"github.com/jobhive/jobhive_backend/internal/utils"
	"github.com/jobhive/jobhive_backend/pkg/database"
)

// @title JobHive Backend API
// @version 1.0
// @description Wallet, ledger and escrow backend for the JobHive marketplace.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
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
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		os.Exit(1)
	}

	if err := dto.RegisterValidators(); err != nil {
		logger.Error("Failed to register custom validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	notifier, err := notification.NewFCMNotifier(context.Background(), cfg.FCMCredentialsFile, logger)
	if err != nil {
		logger.Error("Failed to initialize FCM notifier", slog.String("error", err.Error()))
		os.Exit(1)
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	retry := pgsql.RetryPolicy{MaxAttempts: cfg.DBMaxRetries, BaseDelay: cfg.DBRetryBaseDelay}
	userRepo := pgsql.NewUserRepository(dbPool, retry)
	walletRepo := pgsql.NewWalletRepository(dbPool, retry)
	txnRepo := pgsql.NewTransactionRepository(dbPool, retry)
	jobRepo := pgsql.NewJobRepository(dbPool, retry)
	escrowRepo := pgsql.NewEscrowRepository(dbPool, retry, walletRepo, txnRepo, jobRepo)

	repos := portsrepo.RepositoryProvider{
		UserRepo:        userRepo,
		WalletRepo:      walletRepo,
		TransactionRepo: txnRepo,
		JobRepo:         jobRepo,
		EscrowRepo:      escrowRepo,
	}
	serviceContainer := services.NewServiceContainer(cfg, repos, notifier)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())
	r.Use(middleware.PosthogMiddleware(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations over a temporary
// database/sql connection compatible with the main pgx pool.
func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		logger.Error("Failed to ping database for migrations", slog.String("error", err.Error()))
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Error("Migration source error", slog.String("error", sourceErr.Error()))
		return sourceErr
	}
	if dbErr != nil {
		logger.Error("Migration database error", slog.String("error", dbErr.Error()))
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
