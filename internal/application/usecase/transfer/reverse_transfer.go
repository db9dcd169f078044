// Package transfer contains inter-account transfer detection use cases.
package transfer

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/application/adapter"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

// ReverseTransferInput represents the input for reversing a transfer's direction.
type ReverseTransferInput struct {
	UserID     uuid.UUID
	TransferID uuid.UUID
}

// ReverseTransferOutput represents the result of the reversal.
type ReverseTransferOutput struct {
	TransferID uuid.UUID
}

// ReverseTransferUseCase swaps which side of a transfer is the source and
// which the destination. Amounts and the linkage itself are untouched.
type ReverseTransferUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewReverseTransferUseCase creates a new ReverseTransferUseCase instance.
func NewReverseTransferUseCase(transactionRepo adapter.TransactionRepository) *ReverseTransferUseCase {
	return &ReverseTransferUseCase{transactionRepo: transactionRepo}
}

// Execute performs the reversal.
func (uc *ReverseTransferUseCase) Execute(ctx context.Context, input ReverseTransferInput) (*ReverseTransferOutput, error) {
	transactions, err := uc.transactionRepo.FindByTransferID(ctx, input.TransferID)
	if err != nil || len(transactions) != 2 {
		return nil, domainerror.NewMatchingError(
			domainerror.ErrCodeTransferNotFound,
			"transfer not found",
			domainerror.ErrTransferNotFound,
		)
	}
	for _, tx := range transactions {
		if tx.UserID != input.UserID {
			return nil, domainerror.NewTransactionError(
				domainerror.ErrCodeNotAuthorizedTransaction,
				"not authorized to modify transaction",
				domainerror.ErrNotAuthorizedToModifyTransaction,
			)
		}
	}

	if err := uc.transactionRepo.SwapTransferDirections(ctx, input.TransferID); err != nil {
		return nil, err
	}

	return &ReverseTransferOutput{TransferID: input.TransferID}, nil
}
