// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// SessionFilter defines filter options for listing reconciliation sessions.
type SessionFilter struct {
	UserID    uuid.UUID
	AccountID *uuid.UUID
	Status    *entity.SessionStatus
}

// ReconciliationRepository defines the interface for reconciliation persistence operations.
type ReconciliationRepository interface {
	// CreateSession creates a new reconciliation session.
	CreateSession(ctx context.Context, session *entity.ReconciliationSession) error

	// FindSessionByID retrieves a session by its ID.
	FindSessionByID(ctx context.Context, id uuid.UUID) (*entity.ReconciliationSession, error)

	// FindSessions retrieves sessions matching the filter, newest first.
	FindSessions(ctx context.Context, filter SessionFilter) ([]*entity.ReconciliationSession, error)

	// UpdateSession updates an existing session.
	UpdateSession(ctx context.Context, session *entity.ReconciliationSession) error

	// CompleteSession persists the terminal state of a session. The update is
	// conditional on the session still being in progress, so of two concurrent
	// finalizes only the first commits; the loser gets a session already
	// completed error.
	CompleteSession(ctx context.Context, session *entity.ReconciliationSession) error

	// ReplaceSessionItems deletes all items of a session and inserts the given
	// ones in a single transaction. Re-running a statement import must not
	// leave items from the previous run behind.
	ReplaceSessionItems(ctx context.Context, sessionID uuid.UUID, items []*entity.ReconciliationItem) error

	// FindItemsBySession retrieves all items of a session.
	FindItemsBySession(ctx context.Context, sessionID uuid.UUID) ([]*entity.ReconciliationItem, error)

	// FindItemByID retrieves a reconciliation item by its ID.
	FindItemByID(ctx context.Context, id uuid.UUID) (*entity.ReconciliationItem, error)

	// UpdateItem updates an existing reconciliation item.
	UpdateItem(ctx context.Context, item *entity.ReconciliationItem) error

	// CountItemsByType returns the number of items of each type in a session.
	CountItemsByType(ctx context.Context, sessionID uuid.UUID) (map[entity.ReconciliationItemType]int, error)

	// AppendAuditEntry appends an audit log entry for a session.
	AppendAuditEntry(ctx context.Context, entry *entity.AuditLogEntry) error

	// FindAuditBySession retrieves the audit trail of a session, oldest first.
	FindAuditBySession(ctx context.Context, sessionID uuid.UUID) ([]*entity.AuditLogEntry, error)
}
