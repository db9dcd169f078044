// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/application/usecase/duplicate"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
	"github.com/ledgerline/backend/internal/domain/valueobject"
	"github.com/ledgerline/backend/internal/integration/entrypoint/dto"
	"github.com/ledgerline/backend/internal/integration/entrypoint/middleware"
)

// DuplicateController handles duplicate detection and resolution endpoints.
type DuplicateController struct {
	detectDuplicatesUseCase  *duplicate.DetectDuplicatesUseCase
	resolveDuplicatesUseCase *duplicate.ResolveDuplicatesUseCase
	config                   valueobject.MatchingConfig
}

// NewDuplicateController creates a new duplicate controller instance.
func NewDuplicateController(
	detectDuplicatesUseCase *duplicate.DetectDuplicatesUseCase,
	resolveDuplicatesUseCase *duplicate.ResolveDuplicatesUseCase,
	config valueobject.MatchingConfig,
) *DuplicateController {
	return &DuplicateController{
		detectDuplicatesUseCase:  detectDuplicatesUseCase,
		resolveDuplicatesUseCase: resolveDuplicatesUseCase,
		config:                   config,
	}
}

// Detect handles POST /duplicates/detect requests.
func (c *DuplicateController) Detect(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	var req dto.DetectDuplicatesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	output, err := c.detectDuplicatesUseCase.Execute(ctx.Request.Context(), duplicate.DetectDuplicatesInput{
		UserID: userID,
		Params: overrideParams(
			c.config.Duplicate.Params(),
			req.DateToleranceDays,
			req.AmountTolerance,
			req.MinConfidence,
		),
		IncludeReviewed: req.IncludeReviewed,
		SameAccountOnly: req.SameAccountOnly,
	})
	if err != nil {
		c.handleMatchingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.DetectDuplicatesResponse{
		Groups:            dto.ToDuplicateGroupResponses(output.Groups),
		TotalGroups:       output.TotalGroups,
		TotalTransactions: output.TotalTransactions,
	})
}

// Resolve handles POST /duplicates/resolve requests.
func (c *DuplicateController) Resolve(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	var req dto.ResolveDuplicatesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	resolutions := make([]duplicate.Resolution, 0, len(req.Resolutions))
	for _, resolution := range req.Resolutions {
		ids := make([]uuid.UUID, 0, len(resolution.TransactionIDs))
		for _, idStr := range resolution.TransactionIDs {
			id, err := uuid.Parse(idStr)
			if err != nil {
				ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
					Error: "Invalid transaction ID format: " + idStr,
				})
				return
			}
			ids = append(ids, id)
		}
		resolutions = append(resolutions, duplicate.Resolution{
			TransactionIDs: ids,
			Strategy:       duplicate.ResolutionStrategy(resolution.Strategy),
		})
	}

	output, err := c.resolveDuplicatesUseCase.Execute(ctx.Request.Context(), duplicate.ResolveDuplicatesInput{
		UserID:      userID,
		Resolutions: resolutions,
	})
	if err != nil {
		c.handleMatchingError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ResolveDuplicatesResponse{
		Success:             output.Success,
		TransactionsDeleted: output.TransactionsDeleted,
		TransactionsKept:    output.TransactionsKept,
		Failures:            dto.ToBatchFailureResponses(output.Failures),
	})
}

// handleMatchingError maps domain errors to HTTP responses.
func (c *DuplicateController) handleMatchingError(ctx *gin.Context, err error) {
	var matchErr *domainerror.MatchingError
	if errors.As(err, &matchErr) {
		ctx.JSON(getStatusCodeForMatchingError(matchErr.Code), dto.ErrorResponse{
			Error: matchErr.Message,
			Code:  string(matchErr.Code),
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

// getStatusCodeForMatchingError maps matching error codes to HTTP status codes.
func getStatusCodeForMatchingError(code domainerror.MatchingErrorCode) int {
	switch code {
	case domainerror.ErrCodeTransferNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeTransferAlreadyLinked:
		return http.StatusConflict
	case domainerror.ErrCodeInvalidResolutionStrategy,
		domainerror.ErrCodeDuplicateGroupTooSmall,
		domainerror.ErrCodeNotATransferPair,
		domainerror.ErrCodeTransferSameAccount:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
