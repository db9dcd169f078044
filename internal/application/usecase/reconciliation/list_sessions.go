// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
)

// ListSessionsInput represents the input for listing sessions.
type ListSessionsInput struct {
	UserID    uuid.UUID
	AccountID *uuid.UUID
	Status    *entity.SessionStatus
}

// ListSessionsOutput carries the matching sessions, newest first.
type ListSessionsOutput struct {
	Sessions []*entity.ReconciliationSession
}

// ListSessionsUseCase lists a user's reconciliation sessions.
type ListSessionsUseCase struct {
	reconciliationRepo adapter.ReconciliationRepository
}

// NewListSessionsUseCase creates a new ListSessionsUseCase instance.
func NewListSessionsUseCase(reconciliationRepo adapter.ReconciliationRepository) *ListSessionsUseCase {
	return &ListSessionsUseCase{reconciliationRepo: reconciliationRepo}
}

// Execute lists sessions matching the filter.
func (uc *ListSessionsUseCase) Execute(ctx context.Context, input ListSessionsInput) (*ListSessionsOutput, error) {
	sessions, err := uc.reconciliationRepo.FindSessions(ctx, adapter.SessionFilter{
		UserID:    input.UserID,
		AccountID: input.AccountID,
		Status:    input.Status,
	})
	if err != nil {
		return nil, err
	}

	return &ListSessionsOutput{Sessions: sessions}, nil
}
