// Package dependency provides dependency injection for the application.
package dependency

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ledgerline/backend/config"
	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/application/usecase/duplicate"
	"github.com/ledgerline/backend/internal/application/usecase/reconciliation"
	"github.com/ledgerline/backend/internal/application/usecase/transfer"
	"github.com/ledgerline/backend/internal/domain/valueobject"
	"github.com/ledgerline/backend/internal/infra/server/router"
	"github.com/ledgerline/backend/internal/integration/adapters"
	"github.com/ledgerline/backend/internal/integration/bank"
	"github.com/ledgerline/backend/internal/integration/email"
	"github.com/ledgerline/backend/internal/integration/email/templates"
	"github.com/ledgerline/backend/internal/integration/entrypoint/controller"
	"github.com/ledgerline/backend/internal/integration/entrypoint/middleware"
	"github.com/ledgerline/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	DB          *gorm.DB
	Router      *router.Router
	EmailWorker *email.Worker
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB) *Injector {
	// Create repositories
	transactionRepo := persistence.NewTransactionRepository(db)
	accountRepo := persistence.NewAccountRepository(db)
	reconciliationRepo := persistence.NewReconciliationRepository(db)
	dismissalRepo := persistence.NewDismissalRepository(db)
	mappingRepo := persistence.NewCategoryMappingRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)

	// Create adapters/services
	tokenService := adapters.NewTokenService(cfg.JWT.Secret)
	statementDecoder := bank.NewRegistry()

	var suggester adapter.CategorySuggestionService
	if cfg.Gemini.APIKey != "" {
		suggester = adapters.NewGeminiService(cfg.Gemini.APIKey, mappingRepo)
	}

	notifier := email.NewService(emailQueueRepo)

	matchingConfig := buildMatchingConfig(cfg.Matching)

	// Create reconciliation use cases
	createSessionUseCase := reconciliation.NewCreateSessionUseCase(reconciliationRepo, transactionRepo, accountRepo)
	listSessionsUseCase := reconciliation.NewListSessionsUseCase(reconciliationRepo)
	getSessionUseCase := reconciliation.NewGetSessionUseCase(reconciliationRepo)
	importStatementUseCase := reconciliation.NewImportStatementUseCase(reconciliationRepo, transactionRepo, statementDecoder, matchingConfig)
	finalizeSessionUseCase := reconciliation.NewFinalizeSessionUseCase(reconciliationRepo, transactionRepo, accountRepo, notifier)
	importUnmatchedUseCase := reconciliation.NewImportUnmatchedUseCase(reconciliationRepo, transactionRepo, mappingRepo, suggester, matchingConfig)
	manualLinkUseCase := reconciliation.NewManualLinkUseCase(reconciliationRepo, transactionRepo, matchingConfig)

	// Create duplicate use cases
	detectDuplicatesUseCase := duplicate.NewDetectDuplicatesUseCase(transactionRepo, dismissalRepo, matchingConfig)
	resolveDuplicatesUseCase := duplicate.NewResolveDuplicatesUseCase(transactionRepo, dismissalRepo)

	// Create transfer use cases
	detectTransfersUseCase := transfer.NewDetectTransfersUseCase(transactionRepo, matchingConfig)
	linkTransferUseCase := transfer.NewLinkTransferUseCase(transactionRepo)
	reverseTransferUseCase := transfer.NewReverseTransferUseCase(transactionRepo)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	})

	reconciliationController := controller.NewReconciliationController(
		createSessionUseCase,
		listSessionsUseCase,
		getSessionUseCase,
		importStatementUseCase,
		finalizeSessionUseCase,
		importUnmatchedUseCase,
		manualLinkUseCase,
		matchingConfig,
	)

	duplicateController := controller.NewDuplicateController(
		detectDuplicatesUseCase,
		resolveDuplicatesUseCase,
		matchingConfig,
	)

	transferController := controller.NewTransferController(
		detectTransfersUseCase,
		linkTransferUseCase,
		reverseTransferUseCase,
		matchingConfig,
	)

	// Create middleware
	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var detectRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		detectRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		detectRateLimiter = middleware.NewRateLimiterWithConfig(30, 1*time.Minute)
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Create router
	r := router.NewRouter(
		healthController,
		reconciliationController,
		duplicateController,
		transferController,
		detectRateLimiter,
		authMiddleware,
	)

	// Create the email worker when sending is configured
	var worker *email.Worker
	if cfg.Email.WorkerEnabled && cfg.Email.ResendAPIKey != "" {
		renderer, err := templates.NewRenderer()
		if err != nil {
			slog.Error("Failed to initialize email templates, worker disabled", "error", err)
		} else {
			sender := email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
			worker = email.NewWorker(emailQueueRepo, sender, renderer, email.WorkerConfig{
				PollInterval: cfg.Email.PollInterval,
				BatchSize:    cfg.Email.BatchSize,
			})
		}
	}

	return &Injector{
		Config:      cfg,
		DB:          db,
		Router:      r,
		EmailWorker: worker,
	}
}

// buildMatchingConfig converts the environment-driven matching configuration
// into the domain value object.
func buildMatchingConfig(cfg config.MatchingConfig) valueobject.MatchingConfig {
	return valueobject.MatchingConfig{
		Reconciliation:      buildTolerances(cfg.Reconciliation),
		Duplicate:           buildTolerances(cfg.Duplicate),
		Transfer:            buildTolerances(cfg.Transfer),
		AutoReviewThreshold: cfg.AutoReviewThreshold,
	}
}

func buildTolerances(cfg config.FeatureToleranceConfig) valueobject.FeatureTolerances {
	return valueobject.FeatureTolerances{
		AmountTolerance:   decimal.NewFromFloat(cfg.AmountTolerance),
		DateToleranceDays: cfg.DateToleranceDays,
		MinConfidence:     cfg.MinConfidence,
	}
}
