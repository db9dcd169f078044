package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/backend/internal/domain/valueobject"
)

// SessionStatus represents the lifecycle state of a reconciliation session.
// The only transition is InProgress -> Completed, exactly once.
type SessionStatus string

const (
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
)

// ReconciliationItemType classifies the outcome of one matching row.
type ReconciliationItemType string

const (
	ItemTypeMatched           ReconciliationItemType = "matched"
	ItemTypeUnmatchedBank     ReconciliationItemType = "unmatched_bank"
	ItemTypeUnmatchedInternal ReconciliationItemType = "unmatched_internal"
)

// ReconciliationSession is a bounded review process comparing one account's
// internal ledger against one statement period's external records.
type ReconciliationSession struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	AccountID           uuid.UUID
	StatementEndDate    time.Time
	StatementEndBalance decimal.Decimal
	CalculatedBalance   decimal.Decimal
	Status              SessionStatus
	Notes               string
	CreatedAt           time.Time
	CompletedAt         *time.Time
}

// NewReconciliationSession creates a session in the InProgress state.
func NewReconciliationSession(
	userID uuid.UUID,
	accountID uuid.UUID,
	statementEndDate time.Time,
	statementEndBalance decimal.Decimal,
	calculatedBalance decimal.Decimal,
	notes string,
) *ReconciliationSession {
	return &ReconciliationSession{
		ID:                  uuid.New(),
		UserID:              userID,
		AccountID:           accountID,
		StatementEndDate:    statementEndDate,
		StatementEndBalance: statementEndBalance,
		CalculatedBalance:   calculatedBalance,
		Status:              SessionStatusInProgress,
		Notes:               notes,
		CreatedAt:           time.Now().UTC(),
	}
}

// IsCompleted reports whether the session has reached its terminal state.
func (s *ReconciliationSession) IsCompleted() bool {
	return s.Status == SessionStatusCompleted
}

// ReconciliationItem is one outcome row of a session's matching pass.
// Unmatched bank items keep a snapshot of the external transaction so they
// can later be imported without re-fetching from the provider. Items are
// never deleted, only superseded when the matching pass re-runs.
type ReconciliationItem struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	ItemType  ReconciliationItemType

	// TransactionID links to the internal transaction for Matched and
	// UnmatchedInternal rows.
	TransactionID *uuid.UUID

	// Provider tags which bank-data provider produced the external snapshot;
	// External is nil for UnmatchedInternal rows.
	Provider string
	External *ExternalTransaction

	MatchConfidence float64
	MatchMethod     valueobject.MatchMethod

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewReconciliationItem creates an item for a session.
func NewReconciliationItem(sessionID uuid.UUID, itemType ReconciliationItemType) *ReconciliationItem {
	now := time.Now().UTC()

	return &ReconciliationItem{
		ID:        uuid.New(),
		SessionID: sessionID,
		ItemType:  itemType,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
