// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/backend/internal/application/usecase/reconciliation"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
	"github.com/ledgerline/backend/internal/domain/valueobject"
	"github.com/ledgerline/backend/internal/integration/entrypoint/dto"
	"github.com/ledgerline/backend/internal/integration/entrypoint/middleware"
)

// ReconciliationController handles reconciliation session endpoints.
type ReconciliationController struct {
	createSessionUseCase   *reconciliation.CreateSessionUseCase
	listSessionsUseCase    *reconciliation.ListSessionsUseCase
	getSessionUseCase      *reconciliation.GetSessionUseCase
	importStatementUseCase *reconciliation.ImportStatementUseCase
	finalizeSessionUseCase *reconciliation.FinalizeSessionUseCase
	importUnmatchedUseCase *reconciliation.ImportUnmatchedUseCase
	manualLinkUseCase      *reconciliation.ManualLinkUseCase
	config                 valueobject.MatchingConfig
}

// NewReconciliationController creates a new reconciliation controller instance.
func NewReconciliationController(
	createSessionUseCase *reconciliation.CreateSessionUseCase,
	listSessionsUseCase *reconciliation.ListSessionsUseCase,
	getSessionUseCase *reconciliation.GetSessionUseCase,
	importStatementUseCase *reconciliation.ImportStatementUseCase,
	finalizeSessionUseCase *reconciliation.FinalizeSessionUseCase,
	importUnmatchedUseCase *reconciliation.ImportUnmatchedUseCase,
	manualLinkUseCase *reconciliation.ManualLinkUseCase,
	config valueobject.MatchingConfig,
) *ReconciliationController {
	return &ReconciliationController{
		createSessionUseCase:   createSessionUseCase,
		listSessionsUseCase:    listSessionsUseCase,
		getSessionUseCase:      getSessionUseCase,
		importStatementUseCase: importStatementUseCase,
		finalizeSessionUseCase: finalizeSessionUseCase,
		importUnmatchedUseCase: importUnmatchedUseCase,
		manualLinkUseCase:      manualLinkUseCase,
		config:                 config,
	}
}

// CreateSession handles POST /reconciliation/sessions requests.
func (c *ReconciliationController) CreateSession(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	var req dto.CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid account ID format",
		})
		return
	}

	statementEndDate, err := time.Parse("2006-01-02", req.StatementEndDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid statement end date, expected YYYY-MM-DD",
		})
		return
	}

	input := reconciliation.CreateSessionInput{
		UserID:              userID,
		AccountID:           accountID,
		StatementEndDate:    statementEndDate,
		StatementEndBalance: decimal.NewFromFloat(req.StatementEndBalance),
		Notes:               req.Notes,
	}

	output, err := c.createSessionUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.CreateSessionResponse{
		Session: dto.ToSessionResponse(output.Session),
	})
}

// ListSessions handles GET /reconciliation/sessions requests.
func (c *ReconciliationController) ListSessions(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	input := reconciliation.ListSessionsInput{UserID: userID}

	if accountIDStr := ctx.Query("account_id"); accountIDStr != "" {
		accountID, err := uuid.Parse(accountIDStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid account ID format",
			})
			return
		}
		input.AccountID = &accountID
	}

	if statusStr := ctx.Query("status"); statusStr != "" {
		status := entity.SessionStatus(statusStr)
		if status != entity.SessionStatusInProgress && status != entity.SessionStatusCompleted {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid status, expected in_progress or completed",
			})
			return
		}
		input.Status = &status
	}

	output, err := c.listSessionsUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ListSessionsResponse{
		Sessions: dto.ToSessionResponses(output.Sessions),
	})
}

// GetSession handles GET /reconciliation/sessions/:id requests.
func (c *ReconciliationController) GetSession(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	sessionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid session ID format",
		})
		return
	}

	output, err := c.getSessionUseCase.Execute(ctx.Request.Context(), reconciliation.GetSessionInput{
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.GetSessionResponse{
		Session: dto.ToSessionResponse(output.Session),
		Items:   dto.ToItemResponses(output.Items),
		Audit:   dto.ToAuditEntryResponses(output.Audit),
	})
}

// ImportStatement handles POST /reconciliation/sessions/:id/import requests.
func (c *ReconciliationController) ImportStatement(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	sessionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid session ID format",
		})
		return
	}

	var req dto.ImportStatementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	externals, err := parseExternalTransactions(req.Transactions)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: err.Error(),
		})
		return
	}

	input := reconciliation.ImportStatementInput{
		UserID:    userID,
		SessionID: sessionID,
		Provider:  req.Provider,
		Payload:   req.Payload,
		Externals: externals,
		Params: overrideParams(
			c.config.Reconciliation.Params(),
			req.DateToleranceDays,
			req.AmountTolerance,
			req.MinConfidence,
		),
	}

	output, err := c.importStatementUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToImportStatementResponse(output))
}

// FinalizeSession handles POST /reconciliation/sessions/:id/finalize requests.
func (c *ReconciliationController) FinalizeSession(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	sessionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid session ID format",
		})
		return
	}

	var req dto.FinalizeSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	userEmail, _ := middleware.GetUserEmailFromContext(ctx)

	output, err := c.finalizeSessionUseCase.Execute(ctx.Request.Context(), reconciliation.FinalizeSessionInput{
		UserID:    userID,
		SessionID: sessionID,
		Notes:     req.Notes,
		Force:     req.Force,
		UserEmail: userEmail,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.FinalizeSessionResponse{
		Session:             dto.ToSessionResponse(output.Session),
		ReconciledCount:     output.ReconciledCount,
		UnmatchedItems:      output.UnmatchedItems,
		UnmatchedPercentage: output.UnmatchedPercentage,
	})
}

// ImportUnmatched handles POST /reconciliation/sessions/:id/import-unmatched requests.
func (c *ReconciliationController) ImportUnmatched(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	sessionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid session ID format",
		})
		return
	}

	var req dto.ImportUnmatchedRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	itemIDs := make([]uuid.UUID, 0, len(req.ItemIDs))
	for _, idStr := range req.ItemIDs {
		id, err := uuid.Parse(idStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid item ID format: " + idStr,
			})
			return
		}
		itemIDs = append(itemIDs, id)
	}

	output, err := c.importUnmatchedUseCase.Execute(ctx.Request.Context(), reconciliation.ImportUnmatchedInput{
		UserID:    userID,
		SessionID: sessionID,
		ItemIDs:   itemIDs,
		All:       req.All,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToImportUnmatchedResponse(output))
}

// ManualLink handles POST /reconciliation/sessions/:id/items/:item_id/link requests.
func (c *ReconciliationController) ManualLink(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	sessionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid session ID format",
		})
		return
	}

	itemID, err := uuid.Parse(ctx.Param("item_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid item ID format",
		})
		return
	}

	var req dto.ManualLinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	transactionID, err := uuid.Parse(req.TransactionID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid transaction ID format",
		})
		return
	}

	output, err := c.manualLinkUseCase.Execute(ctx.Request.Context(), reconciliation.ManualLinkInput{
		UserID:        userID,
		SessionID:     sessionID,
		ItemID:        itemID,
		TransactionID: transactionID,
		Force:         req.Force,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ManualLinkResponse{
		Item:   dto.ToItemResponse(output.Item),
		Forced: output.Forced,
	})
}

// parseExternalTransactions converts request rows to external transactions.
func parseExternalTransactions(rows []dto.ExternalTransactionRequest) ([]entity.ExternalTransaction, error) {
	externals := make([]entity.ExternalTransaction, 0, len(rows))
	for _, row := range rows {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, errors.New("invalid transaction date, expected YYYY-MM-DD: " + row.Date)
		}
		externals = append(externals, entity.ExternalTransaction{
			ExternalID:   row.ExternalID,
			Amount:       decimal.NewFromFloat(row.Amount),
			Date:         date,
			Description:  row.Description,
			BankCategory: row.BankCategory,
			Reference:    row.Reference,
		})
	}
	return externals, nil
}

// handleReconciliationError maps domain errors to HTTP responses.
func (c *ReconciliationController) handleReconciliationError(ctx *gin.Context, err error) {
	var recErr *domainerror.ReconciliationError
	if errors.As(err, &recErr) {
		ctx.JSON(c.getStatusCodeForReconciliationError(recErr.Code), dto.ErrorResponse{
			Error: recErr.Message,
			Code:  string(recErr.Code),
		})
		return
	}

	var txnErr *domainerror.TransactionError
	if errors.As(err, &txnErr) {
		ctx.JSON(getStatusCodeForTransactionError(txnErr.Code), dto.ErrorResponse{
			Error: txnErr.Message,
			Code:  string(txnErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForReconciliationError maps error codes to HTTP status codes.
func (c *ReconciliationController) getStatusCodeForReconciliationError(code domainerror.ReconciliationErrorCode) int {
	switch code {
	case domainerror.ErrCodeSessionNotFound,
		domainerror.ErrCodeItemNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAuthorizedSession:
		return http.StatusForbidden
	case domainerror.ErrCodeSessionAlreadyCompleted,
		domainerror.ErrCodeSessionNotInProgress,
		domainerror.ErrCodeTransactionAlreadyMatched:
		return http.StatusConflict
	case domainerror.ErrCodeTooManyUnmatched,
		domainerror.ErrCodeStatementEmpty,
		domainerror.ErrCodeUnknownBankProvider,
		domainerror.ErrCodeInvalidStatementPayload,
		domainerror.ErrCodeItemNotUnmatched,
		domainerror.ErrCodeManualLinkOutsideTolerance:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// getStatusCodeForTransactionError maps transaction error codes to HTTP status codes.
func getStatusCodeForTransactionError(code domainerror.TransactionErrorCode) int {
	switch code {
	case domainerror.ErrCodeTransactionNotFound,
		domainerror.ErrCodeAccountNotFound,
		domainerror.ErrCodeTransactionIDsNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeNotAuthorizedTransaction,
		domainerror.ErrCodeAccountNotOwned:
		return http.StatusForbidden
	case domainerror.ErrCodeInvalidTransactionAmount,
		domainerror.ErrCodeEmptyTransactionIDs:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
