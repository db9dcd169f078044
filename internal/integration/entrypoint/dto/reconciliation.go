// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"encoding/json"
	"time"

	"github.com/ledgerline/backend/internal/application/usecase/reconciliation"
	"github.com/ledgerline/backend/internal/domain/entity"
)

// CreateSessionRequest represents the request for POST /reconciliation/sessions.
type CreateSessionRequest struct {
	AccountID           string  `json:"account_id" binding:"required,uuid"`
	StatementEndDate    string  `json:"statement_end_date" binding:"required"`
	StatementEndBalance float64 `json:"statement_end_balance"`
	Notes               string  `json:"notes" binding:"omitempty,max=1000"`
}

// ImportStatementRequest represents the request for importing a statement
// into a session. Either a provider payload or pre-decoded transactions must
// be supplied.
type ImportStatementRequest struct {
	Provider     string                       `json:"provider"`
	Payload      json.RawMessage              `json:"payload"`
	Transactions []ExternalTransactionRequest `json:"transactions"`

	DateToleranceDays *int     `json:"date_tolerance_days" binding:"omitempty,min=0,max=31"`
	AmountTolerance   *float64 `json:"amount_tolerance" binding:"omitempty,min=0"`
	MinConfidence     *float64 `json:"min_confidence" binding:"omitempty,min=0,max=1"`
}

// ExternalTransactionRequest represents one pre-decoded bank transaction.
type ExternalTransactionRequest struct {
	ExternalID   string  `json:"external_id" binding:"required"`
	Amount       float64 `json:"amount"`
	Date         string  `json:"date" binding:"required"`
	Description  string  `json:"description"`
	BankCategory *string `json:"bank_category"`
	Reference    *string `json:"reference"`
}

// FinalizeSessionRequest represents the request for finalizing a session.
type FinalizeSessionRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=1000"`
	Force bool   `json:"force"`
}

// ImportUnmatchedRequest represents the request for importing unmatched bank
// items as ledger transactions.
type ImportUnmatchedRequest struct {
	ItemIDs []string `json:"item_ids" binding:"omitempty,dive,uuid"`
	All     bool     `json:"all"`
}

// ManualLinkRequest represents the request for manually linking a bank item
// to an internal transaction.
type ManualLinkRequest struct {
	TransactionID string `json:"transaction_id" binding:"required,uuid"`
	Force         bool   `json:"force"`
}

// SessionResponse represents a reconciliation session.
type SessionResponse struct {
	ID                  string     `json:"id"`
	AccountID           string     `json:"account_id"`
	StatementEndDate    string     `json:"statement_end_date"`
	StatementEndBalance string     `json:"statement_end_balance"`
	CalculatedBalance   string     `json:"calculated_balance"`
	Status              string     `json:"status"`
	Notes               string     `json:"notes,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
}

// ExternalTransactionResponse represents a bank transaction snapshot.
type ExternalTransactionResponse struct {
	ExternalID   string  `json:"external_id"`
	Amount       string  `json:"amount"`
	Date         string  `json:"date"`
	Description  string  `json:"description"`
	BankCategory *string `json:"bank_category,omitempty"`
	Reference    *string `json:"reference,omitempty"`
}

// ItemResponse represents one outcome row of a session's matching pass.
type ItemResponse struct {
	ID              string                       `json:"id"`
	ItemType        string                       `json:"item_type"`
	TransactionID   *string                      `json:"transaction_id,omitempty"`
	Provider        string                       `json:"provider,omitempty"`
	External        *ExternalTransactionResponse `json:"external,omitempty"`
	MatchConfidence float64                      `json:"match_confidence"`
	MatchMethod     string                       `json:"match_method,omitempty"`
}

// AuditEntryResponse represents one audit trail entry.
type AuditEntryResponse struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details"`
	CreatedAt time.Time       `json:"created_at"`
}

// CreateSessionResponse represents the created session.
type CreateSessionResponse struct {
	Session SessionResponse `json:"session"`
}

// ListSessionsResponse represents the session list, newest first.
type ListSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

// GetSessionResponse represents a session with its items and audit trail.
type GetSessionResponse struct {
	Session SessionResponse      `json:"session"`
	Items   []ItemResponse       `json:"items"`
	Audit   []AuditEntryResponse `json:"audit"`
}

// ImportStatementResponse represents the outcome of a matching pass.
type ImportStatementResponse struct {
	MatchedCount      int            `json:"matched_count"`
	ExactMatches      int            `json:"exact_matches"`
	FuzzyMatches      int            `json:"fuzzy_matches"`
	UnmatchedBank     int            `json:"unmatched_bank"`
	UnmatchedInternal int            `json:"unmatched_internal"`
	MatchPercentage   float64        `json:"match_percentage"`
	Items             []ItemResponse `json:"items"`
	CalculatedBalance string         `json:"calculated_balance"`
	BalanceDifference string         `json:"balance_difference"`
	Balanced          bool           `json:"balanced"`
}

// FinalizeSessionResponse represents the completed session and its statistics.
type FinalizeSessionResponse struct {
	Session             SessionResponse `json:"session"`
	ReconciledCount     int             `json:"reconciled_count"`
	UnmatchedItems      int             `json:"unmatched_items"`
	UnmatchedPercentage float64         `json:"unmatched_percentage"`
}

// ImportUnmatchedResponse reports the batch result of importing bank items.
type ImportUnmatchedResponse struct {
	ImportedCount int                    `json:"imported_count"`
	SkippedCount  int                    `json:"skipped_count"`
	CreatedIDs    []string               `json:"created_ids"`
	Failures      []BatchFailureResponse `json:"failures"`
}

// ManualLinkResponse represents the result of manual linking.
type ManualLinkResponse struct {
	Item   ItemResponse `json:"item"`
	Forced bool         `json:"forced"`
}

// ToSessionResponse converts a session entity to its DTO.
func ToSessionResponse(session *entity.ReconciliationSession) SessionResponse {
	return SessionResponse{
		ID:                  session.ID.String(),
		AccountID:           session.AccountID.String(),
		StatementEndDate:    session.StatementEndDate.Format("2006-01-02"),
		StatementEndBalance: session.StatementEndBalance.String(),
		CalculatedBalance:   session.CalculatedBalance.String(),
		Status:              string(session.Status),
		Notes:               session.Notes,
		CreatedAt:           session.CreatedAt,
		CompletedAt:         session.CompletedAt,
	}
}

// ToSessionResponses converts session entities to DTOs.
func ToSessionResponses(sessions []*entity.ReconciliationSession) []SessionResponse {
	responses := make([]SessionResponse, len(sessions))
	for i, session := range sessions {
		responses[i] = ToSessionResponse(session)
	}
	return responses
}

// ToItemResponse converts a reconciliation item entity to its DTO.
func ToItemResponse(item *entity.ReconciliationItem) ItemResponse {
	response := ItemResponse{
		ID:              item.ID.String(),
		ItemType:        string(item.ItemType),
		Provider:        item.Provider,
		MatchConfidence: item.MatchConfidence,
		MatchMethod:     string(item.MatchMethod),
	}
	if item.TransactionID != nil {
		id := item.TransactionID.String()
		response.TransactionID = &id
	}
	if item.External != nil {
		response.External = &ExternalTransactionResponse{
			ExternalID:   item.External.ExternalID,
			Amount:       item.External.Amount.String(),
			Date:         item.External.Date.Format("2006-01-02"),
			Description:  item.External.Description,
			BankCategory: item.External.BankCategory,
			Reference:    item.External.Reference,
		}
	}
	return response
}

// ToItemResponses converts reconciliation item entities to DTOs.
func ToItemResponses(items []*entity.ReconciliationItem) []ItemResponse {
	responses := make([]ItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToItemResponse(item)
	}
	return responses
}

// ToAuditEntryResponses converts audit trail entities to DTOs.
func ToAuditEntryResponses(entries []*entity.AuditLogEntry) []AuditEntryResponse {
	responses := make([]AuditEntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = AuditEntryResponse{
			ID:        entry.ID.String(),
			Action:    string(entry.Action),
			Details:   entry.Details,
			CreatedAt: entry.CreatedAt,
		}
	}
	return responses
}

// ToImportStatementResponse converts a matching pass outcome to its DTO.
func ToImportStatementResponse(output *reconciliation.ImportStatementOutput) ImportStatementResponse {
	return ImportStatementResponse{
		MatchedCount:      len(output.Result.Pairs),
		ExactMatches:      output.Result.ExactMatches,
		FuzzyMatches:      output.Result.FuzzyMatches,
		UnmatchedBank:     len(output.Result.UnmatchedBank),
		UnmatchedInternal: len(output.Result.UnmatchedInternal),
		MatchPercentage:   output.Result.MatchPercentage,
		Items:             ToItemResponses(output.Items),
		CalculatedBalance: output.CalculatedBalance.String(),
		BalanceDifference: output.BalanceDifference.String(),
		Balanced:          output.Balanced,
	}
}

// ToImportUnmatchedResponse converts a batch import outcome to its DTO.
func ToImportUnmatchedResponse(output *reconciliation.ImportUnmatchedOutput) ImportUnmatchedResponse {
	createdIDs := make([]string, len(output.CreatedIDs))
	for i, id := range output.CreatedIDs {
		createdIDs[i] = id.String()
	}
	return ImportUnmatchedResponse{
		ImportedCount: output.ImportedCount,
		SkippedCount:  output.SkippedCount,
		CreatedIDs:    createdIDs,
		Failures:      ToBatchFailureResponses(output.Failures),
	}
}
