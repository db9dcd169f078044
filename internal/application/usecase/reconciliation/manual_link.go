// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
	"github.com/ledgerline/backend/internal/domain/matching"
	"github.com/ledgerline/backend/internal/domain/valueobject"
)

// ManualLinkInput represents the input for manually linking an unmatched
// bank item to an internal transaction.
type ManualLinkInput struct {
	UserID        uuid.UUID
	SessionID     uuid.UUID
	ItemID        uuid.UUID
	TransactionID uuid.UUID
	Force         bool // If true, allow linking outside the tolerance window
}

// ManualLinkOutput represents the result of manual linking.
type ManualLinkOutput struct {
	Item   *entity.ReconciliationItem
	Forced bool
}

// ManualLinkUseCase handles a user overriding the matcher for one bank item.
type ManualLinkUseCase struct {
	reconciliationRepo adapter.ReconciliationRepository
	transactionRepo    adapter.TransactionRepository
	config             valueobject.MatchingConfig
}

// NewManualLinkUseCase creates a new ManualLinkUseCase instance.
func NewManualLinkUseCase(
	reconciliationRepo adapter.ReconciliationRepository,
	transactionRepo adapter.TransactionRepository,
	config valueobject.MatchingConfig,
) *ManualLinkUseCase {
	return &ManualLinkUseCase{
		reconciliationRepo: reconciliationRepo,
		transactionRepo:    transactionRepo,
		config:             config,
	}
}

// Execute performs the manual linking operation.
func (uc *ManualLinkUseCase) Execute(ctx context.Context, input ManualLinkInput) (*ManualLinkOutput, error) {
	session, err := loadOpenSession(ctx, uc.reconciliationRepo, input.SessionID, input.UserID)
	if err != nil {
		return nil, err
	}

	item, err := uc.reconciliationRepo.FindItemByID(ctx, input.ItemID)
	if err != nil || item.SessionID != session.ID {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeItemNotFound,
			"reconciliation item not found",
			domainerror.ErrReconciliationItemNotFound,
		)
	}
	if item.ItemType != entity.ItemTypeUnmatchedBank || item.External == nil {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeItemNotUnmatched,
			"reconciliation item is not an unmatched bank item",
			domainerror.ErrItemNotUnmatched,
		)
	}

	tx, err := uc.transactionRepo.FindByID(ctx, input.TransactionID)
	if err != nil {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionNotFound,
			"transaction not found",
			domainerror.ErrTransactionNotFound,
		)
	}
	if tx.UserID != input.UserID {
		return nil, domainerror.NewTransactionError(
			domainerror.ErrCodeNotAuthorizedTransaction,
			"not authorized to modify transaction",
			domainerror.ErrNotAuthorizedToModifyTransaction,
		)
	}

	if err := uc.ensureNotAlreadyMatched(ctx, session.ID, tx.ID); err != nil {
		return nil, err
	}

	// A manual link outside the tolerance window is usually a mistake;
	// force confirms the user means it.
	_, withinTolerance := matching.Score(matching.ScoreInput{
		AmountA: item.External.Amount,
		AmountB: tx.Amount,
		DateA:   item.External.Date,
		DateB:   tx.Date,
		DescA:   item.External.Description,
		DescB:   tx.Description,
	}, uc.config.Reconciliation.Params())
	if !withinTolerance && !input.Force {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeManualLinkOutsideTolerance,
			"transaction is outside tolerance, use force to override",
			domainerror.ErrManualLinkOutsideTolerance,
		)
	}

	txID := tx.ID
	item.ItemType = entity.ItemTypeMatched
	item.TransactionID = &txID
	item.MatchConfidence = 1.0
	item.MatchMethod = valueobject.MatchMethodManual
	item.UpdatedAt = time.Now().UTC()
	if err := uc.reconciliationRepo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	if err := appendAudit(ctx, uc.reconciliationRepo, session.ID, input.UserID, valueobject.ManualLinkEvent{
		ItemID:        item.ID,
		TransactionID: tx.ID,
		ExternalID:    item.External.ExternalID,
		Forced:        !withinTolerance,
	}); err != nil {
		return nil, err
	}

	return &ManualLinkOutput{Item: item, Forced: !withinTolerance}, nil
}

func (uc *ManualLinkUseCase) ensureNotAlreadyMatched(ctx context.Context, sessionID, txID uuid.UUID) error {
	items, err := uc.reconciliationRepo.FindItemsBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	for _, existing := range items {
		if existing.ItemType == entity.ItemTypeMatched &&
			existing.TransactionID != nil && *existing.TransactionID == txID {
			return domainerror.NewReconciliationError(
				domainerror.ErrCodeTransactionAlreadyMatched,
				"transaction is already matched in this session",
				domainerror.ErrTransactionAlreadyMatched,
			)
		}
	}
	return nil
}
