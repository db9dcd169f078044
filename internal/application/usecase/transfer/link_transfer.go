// Package transfer contains inter-account transfer detection use cases.
package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

// LinkTransferInput represents the input for confirming a transfer pair.
type LinkTransferInput struct {
	UserID        uuid.UUID
	SourceID      uuid.UUID
	DestinationID uuid.UUID
	Description   string
}

// LinkTransferOutput represents the confirmed transfer link.
type LinkTransferOutput struct {
	TransferID uuid.UUID
}

// LinkTransferUseCase confirms two transactions as one transfer. Both sides
// receive a shared transfer identifier and their direction; the surrounding
// ledger uses the linkage to exclude transfers from income and expense totals.
type LinkTransferUseCase struct {
	transactionRepo adapter.TransactionRepository
}

// NewLinkTransferUseCase creates a new LinkTransferUseCase instance.
func NewLinkTransferUseCase(transactionRepo adapter.TransactionRepository) *LinkTransferUseCase {
	return &LinkTransferUseCase{transactionRepo: transactionRepo}
}

// Execute validates the pair and links it.
func (uc *LinkTransferUseCase) Execute(ctx context.Context, input LinkTransferInput) (*LinkTransferOutput, error) {
	source, err := uc.loadOwned(ctx, input.SourceID, input.UserID)
	if err != nil {
		return nil, err
	}
	destination, err := uc.loadOwned(ctx, input.DestinationID, input.UserID)
	if err != nil {
		return nil, err
	}

	if !source.Amount.IsNegative() || !destination.Amount.IsPositive() {
		return nil, domainerror.NewMatchingError(
			domainerror.ErrCodeNotATransferPair,
			"transactions do not form a valid transfer pair",
			domainerror.ErrNotATransferPair,
		)
	}
	if source.AccountID == destination.AccountID {
		return nil, domainerror.NewMatchingError(
			domainerror.ErrCodeTransferSameAccount,
			"transfer source and destination must be in different accounts",
			domainerror.ErrTransferSameAccount,
		)
	}
	if source.TransferID != nil || destination.TransferID != nil {
		return nil, domainerror.NewMatchingError(
			domainerror.ErrCodeTransferAlreadyLinked,
			"transaction is already part of a transfer",
			domainerror.ErrTransferAlreadyLinked,
		)
	}

	transferID := uuid.New()
	if err := uc.transactionRepo.LinkTransfer(ctx, source.ID, destination.ID, transferID); err != nil {
		return nil, err
	}

	if input.Description != "" {
		uc.annotate(ctx, source, destination, transferID, input.Description)
	}

	return &LinkTransferOutput{TransferID: transferID}, nil
}

func (uc *LinkTransferUseCase) loadOwned(ctx context.Context, id, userID uuid.UUID) (*entity.Transaction, error) {
	tx, err := uc.transactionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionNotFound,
			"transaction not found",
			domainerror.ErrTransactionNotFound,
		)
	}
	if tx.UserID != userID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeNotAuthorizedTransaction,
			"not authorized to modify transaction",
			domainerror.ErrNotAuthorizedToModifyTransaction,
		)
	}
	return tx, nil
}

// annotate writes the user's description on both sides. Annotation is
// cosmetic; a failure here does not undo the link.
func (uc *LinkTransferUseCase) annotate(
	ctx context.Context,
	source *entity.Transaction,
	destination *entity.Transaction,
	transferID uuid.UUID,
	description string,
) {
	now := time.Now().UTC()
	for _, tx := range []*entity.Transaction{source, destination} {
		tx.Notes = description
		tx.TransferID = &transferID
		tx.UpdatedAt = now
	}
	sourceDir := entity.TransferDirectionSource
	destinationDir := entity.TransferDirectionDestination
	source.TransferDirection = &sourceDir
	destination.TransferDirection = &destinationDir

	_ = uc.transactionRepo.Update(ctx, source)
	_ = uc.transactionRepo.Update(ctx, destination)
}
