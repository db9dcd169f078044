// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
	"github.com/ledgerline/backend/internal/domain/valueobject"
)

// ImportUnmatchedInput represents the input for importing unmatched bank rows.
type ImportUnmatchedInput struct {
	UserID    uuid.UUID
	SessionID uuid.UUID

	// ItemIDs selects which unmatched bank items to import. All imports
	// every unmatched bank item in the session and ignores ItemIDs.
	ItemIDs []uuid.UUID
	All     bool
}

// ImportUnmatchedOutput reports the batch result. Failures are per row; one
// failing row never aborts the batch.
type ImportUnmatchedOutput struct {
	ImportedCount int
	SkippedCount  int
	CreatedIDs    []uuid.UUID
	Failures      []valueobject.BatchFailure
}

// ImportUnmatchedUseCase turns unmatched bank items into ledger transactions.
// Rows whose external id already exists in the account are skipped and linked
// to the existing transaction instead of creating a duplicate.
type ImportUnmatchedUseCase struct {
	reconciliationRepo adapter.ReconciliationRepository
	transactionRepo    adapter.TransactionRepository
	mappingRepo        adapter.CategoryMappingRepository
	suggester          adapter.CategorySuggestionService
	config             valueobject.MatchingConfig
}

// NewImportUnmatchedUseCase creates a new ImportUnmatchedUseCase instance.
// The suggester may be nil; category resolution then relies on learned
// mappings only.
func NewImportUnmatchedUseCase(
	reconciliationRepo adapter.ReconciliationRepository,
	transactionRepo adapter.TransactionRepository,
	mappingRepo adapter.CategoryMappingRepository,
	suggester adapter.CategorySuggestionService,
	config valueobject.MatchingConfig,
) *ImportUnmatchedUseCase {
	return &ImportUnmatchedUseCase{
		reconciliationRepo: reconciliationRepo,
		transactionRepo:    transactionRepo,
		mappingRepo:        mappingRepo,
		suggester:          suggester,
		config:             config,
	}
}

// Execute performs the batch import.
func (uc *ImportUnmatchedUseCase) Execute(ctx context.Context, input ImportUnmatchedInput) (*ImportUnmatchedOutput, error) {
	session, err := loadOpenSession(ctx, uc.reconciliationRepo, input.SessionID, input.UserID)
	if err != nil {
		return nil, err
	}

	items, err := uc.reconciliationRepo.FindItemsBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	output := &ImportUnmatchedOutput{}
	selected := selectBankItems(items, input, output)
	if len(selected) == 0 {
		return output, nil
	}

	externalIDs := make([]string, 0, len(selected))
	for _, item := range selected {
		externalIDs = append(externalIDs, item.External.ExternalID)
	}
	existing, err := uc.transactionRepo.FindExistingExternalIDs(ctx, session.AccountID, externalIDs)
	if err != nil {
		return nil, err
	}

	for _, item := range selected {
		uc.importItem(ctx, session, item, existing, output)
	}

	if err := appendAudit(ctx, uc.reconciliationRepo, session.ID, input.UserID, valueobject.TransactionsImportedEvent{
		ImportedCount: output.ImportedCount,
		SkippedCount:  output.SkippedCount,
		FailedCount:   len(output.Failures),
		CreatedIDs:    output.CreatedIDs,
	}); err != nil {
		return nil, err
	}

	return output, nil
}

// selectBankItems filters the session's items down to the requested unmatched
// bank rows, recording a failure for every id that does not qualify.
func selectBankItems(
	items []*entity.ReconciliationItem,
	input ImportUnmatchedInput,
	output *ImportUnmatchedOutput,
) []*entity.ReconciliationItem {
	byID := make(map[uuid.UUID]*entity.ReconciliationItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	var selected []*entity.ReconciliationItem
	if input.All {
		for _, item := range items {
			if item.ItemType == entity.ItemTypeUnmatchedBank && item.External != nil {
				selected = append(selected, item)
			}
		}
		return selected
	}

	for _, id := range input.ItemIDs {
		item, ok := byID[id]
		if !ok {
			output.Failures = append(output.Failures, valueobject.BatchFailure{
				ID:     id.String(),
				Reason: domainerror.ErrReconciliationItemNotFound.Error(),
			})
			continue
		}
		if item.ItemType != entity.ItemTypeUnmatchedBank || item.External == nil {
			output.Failures = append(output.Failures, valueobject.BatchFailure{
				ID:     id.String(),
				Reason: domainerror.ErrItemNotUnmatched.Error(),
			})
			continue
		}
		selected = append(selected, item)
	}
	return selected
}

// importItem imports one row. Every failure is recorded on the output and
// never propagated, so the remaining rows still run.
func (uc *ImportUnmatchedUseCase) importItem(
	ctx context.Context,
	session *entity.ReconciliationSession,
	item *entity.ReconciliationItem,
	existing map[string]uuid.UUID,
	output *ImportUnmatchedOutput,
) {
	ext := item.External

	if existingID, ok := existing[ext.ExternalID]; ok {
		if err := uc.linkItem(ctx, item, existingID); err != nil {
			output.Failures = append(output.Failures, valueobject.BatchFailure{
				ID:     item.ID.String(),
				Reason: err.Error(),
			})
			return
		}
		output.SkippedCount++
		return
	}

	categoryID, reviewed := uc.resolveCategory(ctx, session.UserID, ext.BankCategory)

	tx := entity.NewTransaction(
		session.UserID,
		session.AccountID,
		ext.Date,
		ext.Description,
		ext.Amount,
		entity.TypeForAmount(ext.Amount),
		categoryID,
		"",
	)
	externalID := ext.ExternalID
	tx.ExternalID = &externalID
	tx.Reviewed = reviewed

	if err := uc.transactionRepo.Create(ctx, tx); err != nil {
		output.Failures = append(output.Failures, valueobject.BatchFailure{
			ID:     item.ID.String(),
			Reason: err.Error(),
		})
		return
	}

	if err := uc.linkItem(ctx, item, tx.ID); err != nil {
		output.Failures = append(output.Failures, valueobject.BatchFailure{
			ID:     item.ID.String(),
			Reason: err.Error(),
		})
		return
	}

	existing[ext.ExternalID] = tx.ID
	output.ImportedCount++
	output.CreatedIDs = append(output.CreatedIDs, tx.ID)
}

// linkItem re-types an unmatched bank item as matched against a transaction.
func (uc *ImportUnmatchedUseCase) linkItem(ctx context.Context, item *entity.ReconciliationItem, txID uuid.UUID) error {
	item.ItemType = entity.ItemTypeMatched
	item.TransactionID = &txID
	item.MatchConfidence = 1.0
	item.MatchMethod = valueobject.MatchMethodManual
	item.UpdatedAt = time.Now().UTC()
	return uc.reconciliationRepo.UpdateItem(ctx, item)
}

// resolveCategory maps a bank-provided category label to a ledger category.
// Learned mappings win; the suggestion service is the fallback and its
// results are stored for next time. Any failure degrades to an
// uncategorized, unreviewed transaction.
func (uc *ImportUnmatchedUseCase) resolveCategory(
	ctx context.Context,
	userID uuid.UUID,
	bankCategory *string,
) (*uuid.UUID, bool) {
	if bankCategory == nil || *bankCategory == "" {
		return nil, false
	}

	mapping, err := uc.mappingRepo.FindByBankCategory(ctx, userID, *bankCategory)
	if err == nil && mapping != nil {
		categoryID := mapping.CategoryID
		return &categoryID, mapping.Confidence >= uc.config.AutoReviewThreshold
	}

	if uc.suggester == nil || !uc.suggester.IsAvailable() {
		return nil, false
	}
	suggestion, err := uc.suggester.Suggest(ctx, userID, *bankCategory)
	if err != nil {
		slog.Warn("category suggestion failed", "bank_category", *bankCategory, "error", err)
		return nil, false
	}
	if suggestion == nil {
		return nil, false
	}

	learned := entity.NewCategoryMapping(userID, *bankCategory, suggestion.CategoryID, suggestion.CategoryName, suggestion.Confidence)
	if err := uc.mappingRepo.Upsert(ctx, learned); err != nil {
		slog.Warn("category mapping upsert failed", "bank_category", *bankCategory, "error", err)
	}

	categoryID := suggestion.CategoryID
	return &categoryID, suggestion.Confidence >= uc.config.AutoReviewThreshold
}
