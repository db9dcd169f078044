// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/ledgerline/backend/internal/domain/entity"
)

// DetectDuplicatesRequest represents the request for POST /duplicates/detect.
type DetectDuplicatesRequest struct {
	DateToleranceDays *int     `json:"date_tolerance_days" binding:"omitempty,min=0,max=31"`
	AmountTolerance   *float64 `json:"amount_tolerance" binding:"omitempty,min=0"`
	MinConfidence     *float64 `json:"min_confidence" binding:"omitempty,min=0,max=1"`
	IncludeReviewed   bool     `json:"include_reviewed"`
	SameAccountOnly   bool     `json:"same_account_only"`
}

// ResolutionRequest represents one group's resolution in a batch.
type ResolutionRequest struct {
	TransactionIDs []string `json:"transaction_ids" binding:"required,min=2,dive,uuid"`
	Strategy       string   `json:"strategy" binding:"required,oneof=keep_newest keep_oldest not_duplicate"`
}

// ResolveDuplicatesRequest represents the request for POST /duplicates/resolve.
type ResolveDuplicatesRequest struct {
	Resolutions []ResolutionRequest `json:"resolutions" binding:"required,min=1,dive"`
}

// DetectTransfersRequest represents the request for POST /transfers/detect.
type DetectTransfersRequest struct {
	DateToleranceDays        *int     `json:"date_tolerance_days" binding:"omitempty,min=0,max=31"`
	AmountTolerance          *float64 `json:"amount_tolerance" binding:"omitempty,min=0"`
	MinConfidence            *float64 `json:"min_confidence" binding:"omitempty,min=0,max=1"`
	IncludeReviewed          bool     `json:"include_reviewed"`
	IncludeExistingTransfers bool     `json:"include_existing_transfers"`
}

// LinkTransferRequest represents the request for POST /transfers/link.
type LinkTransferRequest struct {
	SourceID      string `json:"source_id" binding:"required,uuid"`
	DestinationID string `json:"destination_id" binding:"required,uuid"`
	Description   string `json:"description" binding:"omitempty,max=255"`
}

// TransactionSummaryResponse represents a transaction inside a detected group.
type TransactionSummaryResponse struct {
	ID          string  `json:"id"`
	AccountID   string  `json:"account_id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Type        string  `json:"type"`
	ExternalID  *string `json:"external_id,omitempty"`
	Reviewed    bool    `json:"reviewed"`
	Reconciled  bool    `json:"reconciled"`
}

// DuplicateGroupResponse represents one detected duplicate group.
type DuplicateGroupResponse struct {
	Transactions      []TransactionSummaryResponse `json:"transactions"`
	HighestConfidence float64                      `json:"highest_confidence"`
}

// DetectDuplicatesResponse represents the detection result.
type DetectDuplicatesResponse struct {
	Groups            []DuplicateGroupResponse `json:"groups"`
	TotalGroups       int                      `json:"total_groups"`
	TotalTransactions int                      `json:"total_transactions"`
}

// ResolveDuplicatesResponse reports the batch resolution result.
type ResolveDuplicatesResponse struct {
	Success             bool                   `json:"success"`
	TransactionsDeleted int                    `json:"transactions_deleted"`
	TransactionsKept    int                    `json:"transactions_kept"`
	Failures            []BatchFailureResponse `json:"failures"`
}

// TransferGroupResponse represents one detected transfer candidate pair.
type TransferGroupResponse struct {
	Source       TransactionSummaryResponse `json:"source"`
	Destination  TransactionSummaryResponse `json:"destination"`
	Confidence   float64                    `json:"confidence"`
	MatchReasons []string                   `json:"match_reasons"`
}

// DetectTransfersResponse represents the transfer detection result.
type DetectTransfersResponse struct {
	Groups      []TransferGroupResponse `json:"groups"`
	TotalGroups int                     `json:"total_groups"`
}

// LinkTransferResponse represents the confirmed transfer link.
type LinkTransferResponse struct {
	TransferID string `json:"transfer_id"`
}

// ReverseTransferResponse represents the result of a direction swap.
type ReverseTransferResponse struct {
	TransferID string `json:"transfer_id"`
}

// ToTransactionSummaryResponse converts a transaction entity to its DTO.
func ToTransactionSummaryResponse(tx *entity.Transaction) TransactionSummaryResponse {
	return TransactionSummaryResponse{
		ID:          tx.ID.String(),
		AccountID:   tx.AccountID.String(),
		Date:        tx.Date.Format("2006-01-02"),
		Description: tx.Description,
		Amount:      tx.Amount.String(),
		Type:        string(tx.Type),
		ExternalID:  tx.ExternalID,
		Reviewed:    tx.Reviewed,
		Reconciled:  tx.Reconciled,
	}
}

// ToDuplicateGroupResponses converts duplicate groups to DTOs.
func ToDuplicateGroupResponses(groups []*entity.DuplicateGroup) []DuplicateGroupResponse {
	responses := make([]DuplicateGroupResponse, len(groups))
	for i, group := range groups {
		transactions := make([]TransactionSummaryResponse, len(group.Transactions))
		for j, tx := range group.Transactions {
			transactions[j] = ToTransactionSummaryResponse(tx)
		}
		responses[i] = DuplicateGroupResponse{
			Transactions:      transactions,
			HighestConfidence: group.HighestConfidence,
		}
	}
	return responses
}

// ToTransferGroupResponses converts transfer candidate pairs to DTOs.
func ToTransferGroupResponses(groups []*entity.TransferGroup) []TransferGroupResponse {
	responses := make([]TransferGroupResponse, len(groups))
	for i, group := range groups {
		responses[i] = TransferGroupResponse{
			Source:       ToTransactionSummaryResponse(group.Source),
			Destination:  ToTransactionSummaryResponse(group.Destination),
			Confidence:   group.Confidence,
			MatchReasons: group.MatchReasons,
		}
	}
	return responses
}
