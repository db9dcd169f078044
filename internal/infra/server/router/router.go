// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ledgerline/backend/internal/integration/entrypoint/controller"
	"github.com/ledgerline/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                   *gin.Engine
	healthController         *controller.HealthController
	reconciliationController *controller.ReconciliationController
	duplicateController      *controller.DuplicateController
	transferController       *controller.TransferController
	detectRateLimiter        *middleware.RateLimiter
	authMiddleware           *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	reconciliationController *controller.ReconciliationController,
	duplicateController *controller.DuplicateController,
	transferController *controller.TransferController,
	detectRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:         healthController,
		reconciliationController: reconciliationController,
		duplicateController:      duplicateController,
		transferController:       transferController,
		detectRateLimiter:        detectRateLimiter,
		authMiddleware:           authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	// API v1 group
	v1 := r.engine.Group("/api/v1")
	{
		// Reconciliation session routes (require authentication)
		if r.reconciliationController != nil && r.authMiddleware != nil {
			sessions := v1.Group("/reconciliation/sessions")
			sessions.Use(r.authMiddleware.Authenticate())
			{
				sessions.POST("", r.reconciliationController.CreateSession)
				sessions.GET("", r.reconciliationController.ListSessions)
				sessions.GET("/:id", r.reconciliationController.GetSession)
				sessions.POST("/:id/import", r.reconciliationController.ImportStatement)
				sessions.POST("/:id/finalize", r.reconciliationController.FinalizeSession)
				sessions.POST("/:id/import-unmatched", r.reconciliationController.ImportUnmatched)
				sessions.POST("/:id/items/:item_id/link", r.reconciliationController.ManualLink)
			}
		}

		// Duplicate routes (require authentication). Detection scans the full
		// ledger, so it sits behind the rate limiter.
		if r.duplicateController != nil && r.authMiddleware != nil {
			duplicates := v1.Group("/duplicates")
			duplicates.Use(r.authMiddleware.Authenticate())
			{
				if r.detectRateLimiter != nil {
					duplicates.POST("/detect", r.detectRateLimiter.Middleware(), r.duplicateController.Detect)
				} else {
					duplicates.POST("/detect", r.duplicateController.Detect)
				}
				duplicates.POST("/resolve", r.duplicateController.Resolve)
			}
		}

		// Transfer routes (require authentication)
		if r.transferController != nil && r.authMiddleware != nil {
			transfers := v1.Group("/transfers")
			transfers.Use(r.authMiddleware.Authenticate())
			{
				if r.detectRateLimiter != nil {
					transfers.POST("/detect", r.detectRateLimiter.Middleware(), r.transferController.Detect)
				} else {
					transfers.POST("/detect", r.transferController.Detect)
				}
				transfers.POST("/link", r.transferController.Link)
				transfers.POST("/:transfer_id/reverse", r.transferController.Reverse)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
