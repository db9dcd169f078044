// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
)

// GetSessionInput represents the input for fetching one session.
type GetSessionInput struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
}

// GetSessionOutput carries the session with its items and audit trail.
type GetSessionOutput struct {
	Session *entity.ReconciliationSession
	Items   []*entity.ReconciliationItem
	Audit   []*entity.AuditLogEntry
}

// GetSessionUseCase fetches a session with its full detail.
type GetSessionUseCase struct {
	reconciliationRepo adapter.ReconciliationRepository
}

// NewGetSessionUseCase creates a new GetSessionUseCase instance.
func NewGetSessionUseCase(reconciliationRepo adapter.ReconciliationRepository) *GetSessionUseCase {
	return &GetSessionUseCase{reconciliationRepo: reconciliationRepo}
}

// Execute fetches the session, its items and its audit trail.
func (uc *GetSessionUseCase) Execute(ctx context.Context, input GetSessionInput) (*GetSessionOutput, error) {
	session, err := loadOwnedSession(ctx, uc.reconciliationRepo, input.SessionID, input.UserID)
	if err != nil {
		return nil, err
	}

	items, err := uc.reconciliationRepo.FindItemsBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	audit, err := uc.reconciliationRepo.FindAuditBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	return &GetSessionOutput{Session: session, Items: items, Audit: audit}, nil
}
