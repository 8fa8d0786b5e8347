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

	"github.com/mptrsn/corpledger/internal/adapters/database/pgsql"
	"github.com/mptrsn/corpledger/internal/core/services"
	"github.com/mptrsn/corpledger/internal/handlers"
	"github.com/mptrsn/corpledger/internal/middleware"
	"github.com/mptrsn/corpledger/internal/platform/config"
	"github.com/mptrsn/corpledger/pkg/database"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		os.Exit(1)
	}

	accountRepo := pgsql.NewPgxAccountRepository(dbPool)
	repos := services.ContainerRepos{
		Account:      accountRepo,
		Transaction:  pgsql.NewPgxTransactionRepository(dbPool, accountRepo),
		JournalEntry: pgsql.NewPgxJournalEntryRepository(dbPool),
		ExchangeRate: pgsql.NewPgxExchangeRateRepository(dbPool),
	}
	container, registry, balances := services.NewServiceContainer(repos, services.ContainerConfig{
		BaseCurrency:        cfg.BaseCurrency,
		SupportedCurrencies: cfg.SupportedCurrencies,
		Precision:           cfg.DecimalPrecision,
		DefaultExchangeRate: cfg.DefaultExchangeRate,
	})

	// Warm the registry so account-state checks see the persisted chart of accounts.
	storeRegistry := services.NewStoreBackedRegistryFrom(registry, accountRepo)
	if err := storeRegistry.LoadFromStore(context.Background()); err != nil {
		logger.Warn("Failed to preload account registry", slog.String("error", err.Error()))
	} else {
		logger.Info("Account registry loaded", slog.Int("accounts", registry.Len()))
	}

	// Replay the persisted journal so reports include history from before this start.
	if err := balances.WarmFromStore(context.Background(), repos.Transaction, repos.JournalEntry); err != nil {
		logger.Warn("Failed to warm balance cache", slog.String("error", err.Error()))
	} else {
		logger.Info("Balance cache warmed", slog.Int("accounts", len(balances.TrackedAccounts())))
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), middleware.ActorMiddleware(), cors.Default(), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations from the migrations directory
// over a temporary database/sql connection.
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

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", upErr.Error()))
		return upErr
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

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
