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
	"github.com/ledgerline/backend/internal/domain/matching"
	"github.com/ledgerline/backend/internal/domain/valueobject"
)

// balancedTolerance is the maximum absolute balance difference still
// reported as balanced.
var balancedTolerance = decimal.NewFromFloat(0.01)

// ImportStatementInput represents the input for importing and matching a statement.
type ImportStatementInput struct {
	UserID    uuid.UUID
	SessionID uuid.UUID

	// Provider plus Payload feed the statement decoder. Externals may be
	// supplied directly instead, in which case Payload is ignored.
	Provider  string
	Payload   []byte
	Externals []entity.ExternalTransaction

	// Params overrides the configured reconciliation tolerances when set.
	Params *valueobject.MatchParams
}

// ImportStatementOutput represents the outcome of a matching pass.
type ImportStatementOutput struct {
	Result            matching.MatchResult
	Items             []*entity.ReconciliationItem
	CalculatedBalance decimal.Decimal
	BalanceDifference decimal.Decimal
	Balanced          bool
}

// ImportStatementUseCase runs the matching pass of a session: decode the
// statement, pair externals against the ledger, and persist one item per
// outcome row. Re-running replaces the previous item set.
type ImportStatementUseCase struct {
	reconciliationRepo adapter.ReconciliationRepository
	transactionRepo    adapter.TransactionRepository
	decoder            adapter.BankStatementDecoder
	config             valueobject.MatchingConfig
}

// NewImportStatementUseCase creates a new ImportStatementUseCase instance.
func NewImportStatementUseCase(
	reconciliationRepo adapter.ReconciliationRepository,
	transactionRepo adapter.TransactionRepository,
	decoder adapter.BankStatementDecoder,
	config valueobject.MatchingConfig,
) *ImportStatementUseCase {
	return &ImportStatementUseCase{
		reconciliationRepo: reconciliationRepo,
		transactionRepo:    transactionRepo,
		decoder:            decoder,
		config:             config,
	}
}

// Execute performs the import and matching pass.
func (uc *ImportStatementUseCase) Execute(ctx context.Context, input ImportStatementInput) (*ImportStatementOutput, error) {
	session, err := loadOpenSession(ctx, uc.reconciliationRepo, input.SessionID, input.UserID)
	if err != nil {
		return nil, err
	}

	externals := input.Externals
	if len(externals) == 0 && len(input.Payload) > 0 {
		externals, err = uc.decoder.Decode(input.Provider, input.Payload)
		if err != nil {
			return nil, err
		}
	}
	if len(externals) == 0 {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeStatementEmpty,
			"statement contains no transactions",
			domainerror.ErrStatementEmpty,
		)
	}

	params := uc.config.Reconciliation.Params()
	if input.Params != nil {
		params = *input.Params
	}

	start, end := statementWindow(externals, params.DateToleranceDays)
	internals, err := uc.transactionRepo.FindByAccountAndDateRange(ctx, session.AccountID, start, end)
	if err != nil {
		return nil, err
	}

	result := matching.MatchStatement(externals, internals, params)

	items := buildItems(session.ID, input.Provider, result)
	if err := uc.reconciliationRepo.ReplaceSessionItems(ctx, session.ID, items); err != nil {
		return nil, err
	}

	calculated, err := uc.transactionRepo.SumByAccountThrough(ctx, session.AccountID, session.StatementEndDate)
	if err != nil {
		return nil, err
	}
	session.CalculatedBalance = calculated
	if err := uc.reconciliationRepo.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	diff := session.StatementEndBalance.Sub(calculated)
	balanced := diff.Abs().LessThanOrEqual(balancedTolerance)

	if err := appendAudit(ctx, uc.reconciliationRepo, session.ID, input.UserID, valueobject.StatementImportedEvent{
		Provider:            input.Provider,
		ExternalCount:       len(externals),
		MatchedCount:        len(result.Pairs),
		ExactMatches:        result.ExactMatches,
		FuzzyMatches:        result.FuzzyMatches,
		UnmatchedBank:       len(result.UnmatchedBank),
		UnmatchedInternal:   len(result.UnmatchedInternal),
		MatchPercentage:     result.MatchPercentage,
		StatementEndBalance: session.StatementEndBalance,
		CalculatedBalance:   calculated,
		BalanceDifference:   diff,
		Balanced:            balanced,
	}); err != nil {
		return nil, err
	}

	return &ImportStatementOutput{
		Result:            result,
		Items:             items,
		CalculatedBalance: calculated,
		BalanceDifference: diff,
		Balanced:          balanced,
	}, nil
}

// statementWindow derives the ledger date range to load: the span of the
// statement's dates padded by the date tolerance on both ends.
func statementWindow(externals []entity.ExternalTransaction, toleranceDays int) (time.Time, time.Time) {
	min, max := externals[0].Date, externals[0].Date
	for _, ext := range externals[1:] {
		if ext.Date.Before(min) {
			min = ext.Date
		}
		if ext.Date.After(max) {
			max = ext.Date
		}
	}
	pad := time.Duration(toleranceDays) * 24 * time.Hour
	return min.Add(-pad), max.Add(pad)
}

func buildItems(sessionID uuid.UUID, provider string, result matching.MatchResult) []*entity.ReconciliationItem {
	items := make([]*entity.ReconciliationItem, 0, len(result.Pairs)+len(result.UnmatchedBank)+len(result.UnmatchedInternal))

	for _, pair := range result.Pairs {
		item := entity.NewReconciliationItem(sessionID, entity.ItemTypeMatched)
		txID := pair.Internal.ID
		item.TransactionID = &txID
		item.Provider = provider
		ext := pair.External
		item.External = &ext
		item.MatchConfidence = pair.Confidence
		item.MatchMethod = pair.Method
		items = append(items, item)
	}

	for _, ext := range result.UnmatchedBank {
		item := entity.NewReconciliationItem(sessionID, entity.ItemTypeUnmatchedBank)
		item.Provider = provider
		extCopy := ext
		item.External = &extCopy
		items = append(items, item)
	}

	for _, tx := range result.UnmatchedInternal {
		item := entity.NewReconciliationItem(sessionID, entity.ItemTypeUnmatchedInternal)
		txID := tx.ID
		item.TransactionID = &txID
		items = append(items, item)
	}

	return items
}
