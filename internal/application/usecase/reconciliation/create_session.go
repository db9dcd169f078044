// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
	"github.com/ledgerline/backend/internal/domain/valueobject"
)

// CreateSessionInput represents the input for starting a reconciliation session.
type CreateSessionInput struct {
	UserID              uuid.UUID
	AccountID           uuid.UUID
	StatementEndDate    time.Time
	StatementEndBalance decimal.Decimal
	Notes               string
}

// CreateSessionOutput represents the created session.
type CreateSessionOutput struct {
	Session *entity.ReconciliationSession
}

// CreateSessionUseCase starts a new reconciliation session for an account.
type CreateSessionUseCase struct {
	reconciliationRepo adapter.ReconciliationRepository
	transactionRepo    adapter.TransactionRepository
	accountRepo        adapter.AccountRepository
}

// NewCreateSessionUseCase creates a new CreateSessionUseCase instance.
func NewCreateSessionUseCase(
	reconciliationRepo adapter.ReconciliationRepository,
	transactionRepo adapter.TransactionRepository,
	accountRepo adapter.AccountRepository,
) *CreateSessionUseCase {
	return &CreateSessionUseCase{
		reconciliationRepo: reconciliationRepo,
		transactionRepo:    transactionRepo,
		accountRepo:        accountRepo,
	}
}

// Execute creates the session with the ledger balance calculated as of the
// statement end date and writes the opening audit entry.
func (uc *CreateSessionUseCase) Execute(ctx context.Context, input CreateSessionInput) (*CreateSessionOutput, error) {
	account, err := uc.accountRepo.FindByID(ctx, input.AccountID)
	if err != nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeAccountNotFound,
			"account not found",
			domainerror.ErrAccountNotFound,
		)
	}
	if account.UserID != input.UserID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeAccountNotOwned,
			"account does not belong to user",
			domainerror.ErrAccountNotOwnedByUser,
		)
	}

	calculated, err := uc.transactionRepo.SumByAccountThrough(ctx, input.AccountID, input.StatementEndDate)
	if err != nil {
		return nil, err
	}

	session := entity.NewReconciliationSession(
		input.UserID,
		input.AccountID,
		input.StatementEndDate,
		input.StatementEndBalance,
		calculated,
		input.Notes,
	)
	if err := uc.reconciliationRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	if err := appendAudit(ctx, uc.reconciliationRepo, session.ID, input.UserID, valueobject.SessionStartedEvent{
		AccountID:           input.AccountID,
		StatementEndDate:    input.StatementEndDate,
		StatementEndBalance: input.StatementEndBalance,
		CalculatedBalance:   calculated,
	}); err != nil {
		return nil, err
	}

	return &CreateSessionOutput{Session: session}, nil
}
