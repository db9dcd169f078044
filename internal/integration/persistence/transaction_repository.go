// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
	"github.com/ledgerline/backend/internal/integration/persistence/model"
)

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction in the database.
func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel := model.TransactionFromEntity(transaction)
	result := r.db.WithContext(ctx).Create(transactionModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a transaction by its ID.
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var transactionModel model.TransactionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return transactionModel.ToEntity(), nil
}

// FindByIDs retrieves transactions by their IDs with ownership verification.
// IDs not owned by the user are silently omitted from the result.
func (r *transactionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID, userID uuid.UUID) ([]*entity.Transaction, error) {
	if len(ids) == 0 {
		return []*entity.Transaction{}, nil
	}

	var transactionModels []model.TransactionModel
	result := r.db.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, userID).
		Find(&transactionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]*entity.Transaction, len(transactionModels))
	for i, transactionModel := range transactionModels {
		transactions[i] = transactionModel.ToEntity()
	}
	return transactions, nil
}

// FindByUser retrieves all non-deleted transactions for a given user.
func (r *transactionRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Transaction, error) {
	var transactionModels []model.TransactionModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Find(&transactionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]*entity.Transaction, len(transactionModels))
	for i, transactionModel := range transactionModels {
		transactions[i] = transactionModel.ToEntity()
	}
	return transactions, nil
}

// FindByAccountAndDateRange retrieves transactions for an account whose date
// falls inside [start, end], inclusive on both ends.
func (r *transactionRepository) FindByAccountAndDateRange(
	ctx context.Context,
	accountID uuid.UUID,
	start time.Time,
	end time.Time,
) ([]*entity.Transaction, error) {
	var transactionModels []model.TransactionModel
	result := r.db.WithContext(ctx).
		Where("account_id = ? AND date >= ? AND date <= ?", accountID, start, end).
		Order("date ASC, created_at ASC").
		Find(&transactionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]*entity.Transaction, len(transactionModels))
	for i, transactionModel := range transactionModels {
		transactions[i] = transactionModel.ToEntity()
	}
	return transactions, nil
}

// FindExistingExternalIDs returns which of the given external IDs already
// exist on transactions in the account, mapped to the owning transaction ID.
func (r *transactionRepository) FindExistingExternalIDs(
	ctx context.Context,
	accountID uuid.UUID,
	externalIDs []string,
) (map[string]uuid.UUID, error) {
	existing := make(map[string]uuid.UUID)
	if len(externalIDs) == 0 {
		return existing, nil
	}

	var rows []struct {
		ID         uuid.UUID
		ExternalID string
	}
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Select("id, external_id").
		Where("account_id = ? AND external_id IN ?", accountID, externalIDs).
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	for _, row := range rows {
		existing[row.ExternalID] = row.ID
	}
	return existing, nil
}

// SumByAccountThrough returns the sum of all non-deleted transaction amounts
// for an account dated on or before the given date.
func (r *transactionRepository) SumByAccountThrough(
	ctx context.Context,
	accountID uuid.UUID,
	through time.Time,
) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("account_id = ? AND date <= ?", accountID, through).
		Scan(&row)
	if result.Error != nil {
		return decimal.Zero, result.Error
	}
	return row.Total, nil
}

// FindByTransferID retrieves both sides of a transfer link.
func (r *transactionRepository) FindByTransferID(ctx context.Context, transferID uuid.UUID) ([]*entity.Transaction, error) {
	var transactionModels []model.TransactionModel
	result := r.db.WithContext(ctx).
		Where("transfer_id = ?", transferID).
		Order("date ASC, created_at ASC").
		Find(&transactionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	transactions := make([]*entity.Transaction, len(transactionModels))
	for i, transactionModel := range transactionModels {
		transactions[i] = transactionModel.ToEntity()
	}
	return transactions, nil
}

// Update updates an existing transaction in the database.
func (r *transactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel := model.TransactionFromEntity(transaction)
	result := r.db.WithContext(ctx).Save(transactionModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}

// ResolveDuplicateGroup soft-deletes the given transactions and marks the
// kept one reviewed in one database transaction, so a failing group never
// leaves a partial resolution behind.
func (r *transactionRepository) ResolveDuplicateGroup(
	ctx context.Context,
	keptID uuid.UUID,
	deletedIDs []uuid.UUID,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(deletedIDs) > 0 {
			result := tx.Delete(&model.TransactionModel{}, "id IN ?", deletedIDs)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected != int64(len(deletedIDs)) {
				return domainerror.ErrTransactionNotFound
			}
		}

		result := tx.Model(&model.TransactionModel{}).
			Where("id = ?", keptID).
			Updates(map[string]interface{}{
				"reviewed":   true,
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrTransactionNotFound
		}
		return nil
	})
}

// MarkReconciled marks the given transactions as reconciled.
func (r *transactionRepository) MarkReconciled(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"reconciled": true,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// LinkTransfer stamps both sides of a transfer with a shared transfer ID and
// their directions. Both updates run in one database transaction so a failure
// never leaves a half-linked pair.
func (r *transactionRepository) LinkTransfer(
	ctx context.Context,
	sourceID uuid.UUID,
	destinationID uuid.UUID,
	transferID uuid.UUID,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		result := tx.Model(&model.TransactionModel{}).
			Where("id = ?", sourceID).
			Updates(map[string]interface{}{
				"transfer_id":        transferID,
				"transfer_direction": string(entity.TransferDirectionSource),
				"updated_at":         now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrTransactionNotFound
		}

		result = tx.Model(&model.TransactionModel{}).
			Where("id = ?", destinationID).
			Updates(map[string]interface{}{
				"transfer_id":        transferID,
				"transfer_direction": string(entity.TransferDirectionDestination),
				"updated_at":         now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrTransactionNotFound
		}
		return nil
	})
}

// SwapTransferDirections swaps the source and destination directions of an
// existing transfer link without touching amounts.
func (r *transactionRepository) SwapTransferDirections(ctx context.Context, transferID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("transfer_id = ?", transferID).
		Updates(map[string]interface{}{
			"transfer_direction": gorm.Expr(
				"CASE transfer_direction WHEN ? THEN ? ELSE ? END",
				string(entity.TransferDirectionSource),
				string(entity.TransferDirectionDestination),
				string(entity.TransferDirectionSource),
			),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	return nil
}
