// Package transfer contains inter-account transfer detection use cases.
package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/backend/internal/domain/entity"
)

var errFakeNotFound = errors.New("not found")

type fakeTransactionRepo struct {
	transactions map[uuid.UUID]*entity.Transaction
	linkErr      error
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{transactions: make(map[uuid.UUID]*entity.Transaction)}
}

func (r *fakeTransactionRepo) add(txs ...*entity.Transaction) {
	for _, tx := range txs {
		r.transactions[tx.ID] = tx
	}
}

func (r *fakeTransactionRepo) Create(_ context.Context, tx *entity.Transaction) error {
	r.transactions[tx.ID] = tx
	return nil
}

func (r *fakeTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	tx, ok := r.transactions[id]
	if !ok || tx.DeletedAt != nil {
		return nil, errFakeNotFound
	}
	return tx, nil
}

func (r *fakeTransactionRepo) FindByIDs(_ context.Context, ids []uuid.UUID, userID uuid.UUID) ([]*entity.Transaction, error) {
	var result []*entity.Transaction
	for _, id := range ids {
		if tx, ok := r.transactions[id]; ok && tx.UserID == userID && tx.DeletedAt == nil {
			result = append(result, tx)
		}
	}
	return result, nil
}

func (r *fakeTransactionRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*entity.Transaction, error) {
	var result []*entity.Transaction
	for _, tx := range r.transactions {
		if tx.UserID == userID && tx.DeletedAt == nil {
			result = append(result, tx)
		}
	}
	return result, nil
}

func (r *fakeTransactionRepo) FindByAccountAndDateRange(_ context.Context, accountID uuid.UUID, start, end time.Time) ([]*entity.Transaction, error) {
	var result []*entity.Transaction
	for _, tx := range r.transactions {
		if tx.AccountID == accountID && tx.DeletedAt == nil && !tx.Date.Before(start) && !tx.Date.After(end) {
			result = append(result, tx)
		}
	}
	return result, nil
}

func (r *fakeTransactionRepo) FindExistingExternalIDs(_ context.Context, _ uuid.UUID, _ []string) (map[string]uuid.UUID, error) {
	return map[string]uuid.UUID{}, nil
}

func (r *fakeTransactionRepo) SumByAccountThrough(_ context.Context, _ uuid.UUID, _ time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *fakeTransactionRepo) FindByTransferID(_ context.Context, transferID uuid.UUID) ([]*entity.Transaction, error) {
	var result []*entity.Transaction
	for _, tx := range r.transactions {
		if tx.TransferID != nil && *tx.TransferID == transferID && tx.DeletedAt == nil {
			result = append(result, tx)
		}
	}
	return result, nil
}

func (r *fakeTransactionRepo) Update(_ context.Context, tx *entity.Transaction) error {
	if _, ok := r.transactions[tx.ID]; !ok {
		return errFakeNotFound
	}
	r.transactions[tx.ID] = tx
	return nil
}

func (r *fakeTransactionRepo) MarkReconciled(_ context.Context, ids []uuid.UUID) (int64, error) {
	var count int64
	for _, id := range ids {
		if tx, ok := r.transactions[id]; ok {
			tx.Reconciled = true
			count++
		}
	}
	return count, nil
}

func (r *fakeTransactionRepo) LinkTransfer(_ context.Context, sourceID, destinationID, transferID uuid.UUID) error {
	if r.linkErr != nil {
		return r.linkErr
	}
	source, ok := r.transactions[sourceID]
	if !ok {
		return errFakeNotFound
	}
	destination, ok := r.transactions[destinationID]
	if !ok {
		return errFakeNotFound
	}
	id := transferID
	sourceDir := entity.TransferDirectionSource
	destinationDir := entity.TransferDirectionDestination
	source.TransferID = &id
	source.TransferDirection = &sourceDir
	destination.TransferID = &id
	destination.TransferDirection = &destinationDir
	return nil
}

func (r *fakeTransactionRepo) SwapTransferDirections(_ context.Context, transferID uuid.UUID) error {
	for _, tx := range r.transactions {
		if tx.TransferID == nil || *tx.TransferID != transferID || tx.TransferDirection == nil {
			continue
		}
		var flipped entity.TransferDirection
		if *tx.TransferDirection == entity.TransferDirectionSource {
			flipped = entity.TransferDirectionDestination
		} else {
			flipped = entity.TransferDirectionSource
		}
		tx.TransferDirection = &flipped
	}
	return nil
}

func (r *fakeTransactionRepo) ResolveDuplicateGroup(_ context.Context, keptID uuid.UUID, deletedIDs []uuid.UUID) error {
	kept, ok := r.transactions[keptID]
	if !ok {
		return errFakeNotFound
	}
	now := time.Now().UTC()
	for _, id := range deletedIDs {
		tx, ok := r.transactions[id]
		if !ok {
			return errFakeNotFound
		}
		deleted := now
		tx.DeletedAt = &deleted
	}
	kept.Reviewed = true
	kept.UpdatedAt = now
	return nil
}
