// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
	"github.com/ledgerline/backend/internal/domain/valueobject"
)

// loadOwnedSession fetches a session and verifies ownership.
func loadOwnedSession(
	ctx context.Context,
	repo adapter.ReconciliationRepository,
	sessionID uuid.UUID,
	userID uuid.UUID,
) (*entity.ReconciliationSession, error) {
	session, err := repo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeSessionNotFound,
			"reconciliation session not found",
			domainerror.ErrSessionNotFound,
		)
	}
	if session.UserID != userID {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeNotAuthorizedSession,
			"not authorized to access reconciliation session",
			domainerror.ErrNotAuthorizedToModifySession,
		)
	}
	return session, nil
}

// loadOpenSession fetches a session, verifies ownership and that it is still
// in progress.
func loadOpenSession(
	ctx context.Context,
	repo adapter.ReconciliationRepository,
	sessionID uuid.UUID,
	userID uuid.UUID,
) (*entity.ReconciliationSession, error) {
	session, err := loadOwnedSession(ctx, repo, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeSessionAlreadyCompleted,
			"reconciliation session already completed",
			domainerror.ErrSessionAlreadyCompleted,
		)
	}
	return session, nil
}

// appendAudit serializes a typed audit event and appends it to the session's
// audit trail.
func appendAudit(
	ctx context.Context,
	repo adapter.ReconciliationRepository,
	sessionID uuid.UUID,
	userID uuid.UUID,
	event valueobject.AuditEvent,
) error {
	details, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return repo.AppendAuditEntry(ctx, &entity.AuditLogEntry{
		ID:        uuid.New(),
		SessionID: sessionID,
		UserID:    userID,
		Action:    event.Action(),
		Details:   details,
		CreatedAt: time.Now().UTC(),
	})
}
