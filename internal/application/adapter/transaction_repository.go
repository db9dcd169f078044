// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// TransactionRepository defines the interface for transaction persistence operations.
type TransactionRepository interface {
	// Create creates a new transaction in the database.
	Create(ctx context.Context, transaction *entity.Transaction) error

	// FindByID retrieves a transaction by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error)

	// FindByIDs retrieves transactions by their IDs with ownership verification.
	// IDs not owned by the user are silently omitted from the result.
	FindByIDs(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) ([]*entity.Transaction, error)

	// FindByUser retrieves all non-deleted transactions for a given user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Transaction, error)

	// FindByAccountAndDateRange retrieves transactions for an account whose date
	// falls inside [start, end], inclusive on both ends.
	FindByAccountAndDateRange(
		ctx context.Context,
		accountID uuid.UUID,
		start time.Time,
		end time.Time,
	) ([]*entity.Transaction, error)

	// FindExistingExternalIDs returns which of the given external IDs already
	// exist on transactions in the account, mapped to the owning transaction ID.
	FindExistingExternalIDs(
		ctx context.Context,
		accountID uuid.UUID,
		externalIDs []string,
	) (map[string]uuid.UUID, error)

	// SumByAccountThrough returns the sum of all non-deleted transaction
	// amounts for an account dated on or before the given date.
	SumByAccountThrough(ctx context.Context, accountID uuid.UUID, through time.Time) (decimal.Decimal, error)

	// FindByTransferID retrieves both sides of a transfer link.
	FindByTransferID(ctx context.Context, transferID uuid.UUID) ([]*entity.Transaction, error)

	// Update updates an existing transaction in the database.
	Update(ctx context.Context, transaction *entity.Transaction) error

	// ResolveDuplicateGroup soft-deletes the given transactions and marks the
	// kept one reviewed in a single operation. A failure applies nothing.
	ResolveDuplicateGroup(ctx context.Context, keptID uuid.UUID, deletedIDs []uuid.UUID) error

	// MarkReconciled marks the given transactions as reconciled.
	// Returns the count of updated transactions.
	MarkReconciled(ctx context.Context, ids []uuid.UUID) (int64, error)

	// LinkTransfer stamps both sides of a transfer with a shared transfer ID
	// and their directions in a single operation.
	LinkTransfer(
		ctx context.Context,
		sourceID uuid.UUID,
		destinationID uuid.UUID,
		transferID uuid.UUID,
	) error

	// SwapTransferDirections swaps the source and destination directions of an
	// existing transfer link without touching amounts.
	SwapTransferDirections(ctx context.Context, transferID uuid.UUID) error
}
