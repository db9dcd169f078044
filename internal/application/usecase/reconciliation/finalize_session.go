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

// maxUnmatchedPercentage is the largest share of unmatched items a session
// may carry and still be finalized without force.
const maxUnmatchedPercentage = 5.0

// FinalizeSessionInput represents the input for completing a session.
type FinalizeSessionInput struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Notes     string
	Force     bool

	// UserEmail, when present, receives a best-effort completion notice.
	UserEmail string
}

// FinalizeSessionOutput represents the completed session and its statistics.
type FinalizeSessionOutput struct {
	Session             *entity.ReconciliationSession
	ReconciledCount     int
	UnmatchedItems      int
	UnmatchedPercentage float64
}

// FinalizeSessionUseCase closes a session: matched transactions become
// reconciled, the account is stamped, and the session reaches its terminal
// state. A second finalize on the same session fails cleanly.
type FinalizeSessionUseCase struct {
	reconciliationRepo adapter.ReconciliationRepository
	transactionRepo    adapter.TransactionRepository
	accountRepo        adapter.AccountRepository
	notifier           adapter.ReconciliationNotifier
}

// NewFinalizeSessionUseCase creates a new FinalizeSessionUseCase instance.
// The notifier may be nil, in which case no completion notice is sent.
func NewFinalizeSessionUseCase(
	reconciliationRepo adapter.ReconciliationRepository,
	transactionRepo adapter.TransactionRepository,
	accountRepo adapter.AccountRepository,
	notifier adapter.ReconciliationNotifier,
) *FinalizeSessionUseCase {
	return &FinalizeSessionUseCase{
		reconciliationRepo: reconciliationRepo,
		transactionRepo:    transactionRepo,
		accountRepo:        accountRepo,
		notifier:           notifier,
	}
}

// Execute performs the finalization.
func (uc *FinalizeSessionUseCase) Execute(ctx context.Context, input FinalizeSessionInput) (*FinalizeSessionOutput, error) {
	session, err := loadOpenSession(ctx, uc.reconciliationRepo, input.SessionID, input.UserID)
	if err != nil {
		return nil, err
	}

	counts, err := uc.reconciliationRepo.CountItemsByType(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	matched := counts[entity.ItemTypeMatched]
	unmatched := counts[entity.ItemTypeUnmatchedBank] + counts[entity.ItemTypeUnmatchedInternal]
	total := matched + unmatched

	var unmatchedPct float64
	if total > 0 {
		unmatchedPct = float64(unmatched) / float64(total) * 100
	}
	if unmatched > 0 && unmatchedPct > maxUnmatchedPercentage && !input.Force {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeTooManyUnmatched,
			"too many unmatched items to complete reconciliation, use force to override",
			domainerror.ErrTooManyUnmatchedItems,
		)
	}

	items, err := uc.reconciliationRepo.FindItemsBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	var matchedTxIDs []uuid.UUID
	for _, item := range items {
		if item.ItemType == entity.ItemTypeMatched && item.TransactionID != nil {
			matchedTxIDs = append(matchedTxIDs, *item.TransactionID)
		}
	}

	var reconciled int64
	if len(matchedTxIDs) > 0 {
		reconciled, err = uc.transactionRepo.MarkReconciled(ctx, matchedTxIDs)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	if err := uc.accountRepo.StampReconciliation(ctx, session.AccountID, now, session.StatementEndBalance); err != nil {
		return nil, err
	}

	session.Status = entity.SessionStatusCompleted
	session.CompletedAt = &now
	if input.Notes != "" {
		session.Notes = input.Notes
	}
	if err := uc.reconciliationRepo.CompleteSession(ctx, session); err != nil {
		return nil, err
	}

	if err := appendAudit(ctx, uc.reconciliationRepo, session.ID, input.UserID, valueobject.SessionCompletedEvent{
		TotalItems:          total,
		MatchedItems:        matched,
		UnmatchedItems:      unmatched,
		UnmatchedPercentage: unmatchedPct,
		ReconciledCount:     int(reconciled),
		Forced:              input.Force,
	}); err != nil {
		return nil, err
	}

	uc.notifyCompleted(ctx, session, input, matched, unmatched)

	return &FinalizeSessionOutput{
		Session:             session,
		ReconciledCount:     int(reconciled),
		UnmatchedItems:      unmatched,
		UnmatchedPercentage: unmatchedPct,
	}, nil
}

// notifyCompleted sends the completion notice. Failures are logged and never
// surface to the caller.
func (uc *FinalizeSessionUseCase) notifyCompleted(
	ctx context.Context,
	session *entity.ReconciliationSession,
	input FinalizeSessionInput,
	matched int,
	unmatched int,
) {
	if uc.notifier == nil || input.UserEmail == "" {
		return
	}

	accountName := ""
	if account, err := uc.accountRepo.FindByID(ctx, session.AccountID); err == nil {
		accountName = account.Name
	}

	err := uc.notifier.NotifyCompleted(ctx, adapter.ReconciliationCompletedInput{
		UserEmail:        input.UserEmail,
		AccountName:      accountName,
		StatementEndDate: session.StatementEndDate.Format("2006-01-02"),
		MatchedCount:     matched,
		UnmatchedCount:   unmatched,
		Forced:           input.Force,
	})
	if err != nil {
		slog.Warn("reconciliation completion notice failed",
			"session_id", session.ID,
			"error", err,
		)
	}
}
