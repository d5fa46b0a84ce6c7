package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	smtpmail "github.com/contaflow/tax_compliance_app/internal/adapters/mail/smtp"
	s3store "github.com/contaflow/tax_compliance_app/internal/adapters/storage/s3"
	"github.com/contaflow/tax_compliance_app/internal/core/services"
	"github.com/contaflow/tax_compliance_app/internal/handlers"
	"github.com/contaflow/tax_compliance_app/internal/jobs"
	"github.com/contaflow/tax_compliance_app/internal/middleware"
	"github.com/contaflow/tax_compliance_app/internal/repositories/database/pgsql"
	"github.com/contaflow/tax_compliance_app/pkg/config"
	"github.com/contaflow/tax_compliance_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Tax Compliance API
// @version 1.0
// @description Compliance and notification engine for recurring tax filings.

// @host localhost:8080
// @BasePath /api/v1

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

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		os.Exit(1)
	}

	// Outbound providers
	mailer, err := smtpmail.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.DefaultMailFrom, logger)
	if err != nil {
		logger.Error("Failed to initialize mailer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store, err := s3store.NewObjectStore(context.Background(), cfg.S3Region, cfg.S3Bucket)
	if err != nil {
		logger.Error("Failed to initialize object store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, mailer, store)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	handlers.RegisterCustomValidators()

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Per-IP rate limits on the abuse-prone routes.
	loginLimiter := middleware.RateLimit(limiter.New(memory.NewStore(), limiter.Rate{Period: time.Minute, Limit: 10}))
	dispatchLimiter := middleware.RateLimit(limiter.New(memory.NewStore(), limiter.Rate{Period: time.Minute, Limit: 30}))

	handlers.RegisterRoutes(r, cfg, serviceContainer, loginLimiter, dispatchLimiter)

	// Background jobs run until shutdown.
	jobCtx, stopJobs := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopJobs()

	go jobs.NewDocumentReminder(repos.ObligationRepo, repos.UserRepo, serviceContainer.Dispatch, logger, cfg.JobInterval, cfg.ReminderWindow).Start(jobCtx)
	go jobs.NewUnviewedAlert(repos.ObligationRepo, repos.UserRepo, serviceContainer.Dispatch, logger, cfg.JobInterval, cfg.UnviewedThreshold).Start(jobCtx)
	go jobs.NewTokenCleanup(repos.TokenRepo, logger, cfg.JobInterval).Start(jobCtx)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies pending migrations over a temporary database/sql
// connection using the pgx stdlib driver.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
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
