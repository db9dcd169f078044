package valueobject

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuditAction identifies the kind of a reconciliation audit entry.
type AuditAction string

const (
	AuditActionStarted              AuditAction = "started"
	AuditActionStatementImported    AuditAction = "statement_imported"
	AuditActionCompleted            AuditAction = "completed"
	AuditActionManualLink           AuditAction = "manual_link"
	AuditActionTransactionsImported AuditAction = "transactions_imported"
)

// AuditEvent is one of the closed set of typed audit payloads. Events are
// serialized uniformly at the persistence boundary; nothing else in the
// system builds ad hoc detail maps.
type AuditEvent interface {
	Action() AuditAction
}

// SessionStartedEvent records the creation of a reconciliation session.
type SessionStartedEvent struct {
	AccountID           uuid.UUID       `json:"account_id"`
	StatementEndDate    time.Time       `json:"statement_end_date"`
	StatementEndBalance decimal.Decimal `json:"statement_end_balance"`
	CalculatedBalance   decimal.Decimal `json:"calculated_balance"`
}

// Action implements AuditEvent.
func (SessionStartedEvent) Action() AuditAction { return AuditActionStarted }

// StatementImportedEvent records the outcome of a matching pass.
type StatementImportedEvent struct {
	Provider          string  `json:"provider,omitempty"`
	ExternalCount     int     `json:"external_count"`
	MatchedCount      int     `json:"matched_count"`
	ExactMatches      int     `json:"exact_matches"`
	FuzzyMatches      int     `json:"fuzzy_matches"`
	UnmatchedBank     int     `json:"unmatched_bank"`
	UnmatchedInternal int     `json:"unmatched_internal"`
	MatchPercentage   float64 `json:"match_percentage"`

	StatementEndBalance decimal.Decimal `json:"statement_end_balance"`
	CalculatedBalance   decimal.Decimal `json:"calculated_balance"`
	BalanceDifference   decimal.Decimal `json:"balance_difference"`
	Balanced            bool            `json:"balanced"`
}

// Action implements AuditEvent.
func (StatementImportedEvent) Action() AuditAction { return AuditActionStatementImported }

// SessionCompletedEvent records a successful finalize with its statistics.
type SessionCompletedEvent struct {
	TotalItems           int     `json:"total_items"`
	MatchedItems         int     `json:"matched_items"`
	UnmatchedItems       int     `json:"unmatched_items"`
	UnmatchedPercentage  float64 `json:"unmatched_percentage"`
	ReconciledCount      int     `json:"reconciled_count"`
	Forced               bool    `json:"forced"`
}

// Action implements AuditEvent.
func (SessionCompletedEvent) Action() AuditAction { return AuditActionCompleted }

// ManualLinkEvent records a user manually linking a bank item.
type ManualLinkEvent struct {
	ItemID        uuid.UUID `json:"item_id"`
	TransactionID uuid.UUID `json:"transaction_id"`
	ExternalID    string    `json:"external_id"`
	Forced        bool      `json:"forced"`
}

// Action implements AuditEvent.
func (ManualLinkEvent) Action() AuditAction { return AuditActionManualLink }

// TransactionsImportedEvent records an import of unmatched bank rows.
type TransactionsImportedEvent struct {
	ImportedCount int         `json:"imported_count"`
	SkippedCount  int         `json:"skipped_count"`
	FailedCount   int         `json:"failed_count"`
	CreatedIDs    []uuid.UUID `json:"created_ids"`
}

// Action implements AuditEvent.
func (TransactionsImportedEvent) Action() AuditAction { return AuditActionTransactionsImported }
