// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/application/usecase/transfer"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
	"github.com/ledgerline/backend/internal/domain/valueobject"
	"github.com/ledgerline/backend/internal/integration/entrypoint/dto"
	"github.com/ledgerline/backend/internal/integration/entrypoint/middleware"
)

// TransferController handles transfer detection and linking endpoints.
type TransferController struct {
	detectTransfersUseCase *transfer.DetectTransfersUseCase
	linkTransferUseCase    *transfer.LinkTransferUseCase
	reverseTransferUseCase *transfer.ReverseTransferUseCase
	config                 valueobject.MatchingConfig
}

// NewTransferController creates a new transfer controller instance.
func NewTransferController(
	detectTransfersUseCase *transfer.DetectTransfersUseCase,
	linkTransferUseCase *transfer.LinkTransferUseCase,
	reverseTransferUseCase *transfer.ReverseTransferUseCase,
	config valueobject.MatchingConfig,
) *TransferController {
	return &TransferController{
		detectTransfersUseCase: detectTransfersUseCase,
		linkTransferUseCase:    linkTransferUseCase,
		reverseTransferUseCase: reverseTransferUseCase,
		config:                 config,
	}
}

// Detect handles POST /transfers/detect requests.
func (c *TransferController) Detect(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	var req dto.DetectTransfersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	output, err := c.detectTransfersUseCase.Execute(ctx.Request.Context(), transfer.DetectTransfersInput{
		UserID: userID,
		Params: overrideParams(
			c.config.Transfer.Params(),
			req.DateToleranceDays,
			req.AmountTolerance,
			req.MinConfidence,
		),
		IncludeReviewed:          req.IncludeReviewed,
		IncludeExistingTransfers: req.IncludeExistingTransfers,
	})
	if err != nil {
		c.handleTransferError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.DetectTransfersResponse{
		Groups:      dto.ToTransferGroupResponses(output.Groups),
		TotalGroups: output.TotalGroups,
	})
}

// Link handles POST /transfers/link requests.
func (c *TransferController) Link(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	var req dto.LinkTransferRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	sourceID, err := uuid.Parse(req.SourceID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid source transaction ID format",
		})
		return
	}

	destinationID, err := uuid.Parse(req.DestinationID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid destination transaction ID format",
		})
		return
	}

	output, err := c.linkTransferUseCase.Execute(ctx.Request.Context(), transfer.LinkTransferInput{
		UserID:        userID,
		SourceID:      sourceID,
		DestinationID: destinationID,
		Description:   req.Description,
	})
	if err != nil {
		c.handleTransferError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.LinkTransferResponse{
		TransferID: output.TransferID.String(),
	})
}

// Reverse handles POST /transfers/:transfer_id/reverse requests.
func (c *TransferController) Reverse(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return
	}

	transferID, err := uuid.Parse(ctx.Param("transfer_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid transfer ID format",
		})
		return
	}

	output, err := c.reverseTransferUseCase.Execute(ctx.Request.Context(), transfer.ReverseTransferInput{
		UserID:     userID,
		TransferID: transferID,
	})
	if err != nil {
		c.handleTransferError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ReverseTransferResponse{
		TransferID: output.TransferID.String(),
	})
}

// handleTransferError maps domain errors to HTTP responses.
func (c *TransferController) handleTransferError(ctx *gin.Context, err error) {
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
