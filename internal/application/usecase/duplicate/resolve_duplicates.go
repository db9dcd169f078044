// Package duplicate contains duplicate transaction detection use cases.
package duplicate

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
	"github.com/ledgerline/backend/internal/domain/valueobject"
)

// ResolutionStrategy names what to do with one duplicate group.
type ResolutionStrategy string

const (
	StrategyKeepNewest   ResolutionStrategy = "keep_newest"
	StrategyKeepOldest   ResolutionStrategy = "keep_oldest"
	StrategyNotDuplicate ResolutionStrategy = "not_duplicate"
)

// Resolution is one group's resolution in a batch.
type Resolution struct {
	TransactionIDs []uuid.UUID
	Strategy       ResolutionStrategy
}

// ResolveDuplicatesInput represents the input for a batch resolution.
type ResolveDuplicatesInput struct {
	UserID      uuid.UUID
	Resolutions []Resolution
}

// ResolveDuplicatesOutput reports the batch result. Each group is resolved
// independently; one failing group never blocks the others.
type ResolveDuplicatesOutput struct {
	Success             bool
	TransactionsDeleted int
	TransactionsKept    int
	Failures            []valueobject.BatchFailure
}

// ResolveDuplicatesUseCase applies user decisions to duplicate groups.
type ResolveDuplicatesUseCase struct {
	transactionRepo adapter.TransactionRepository
	dismissalRepo   adapter.DismissalRepository
}

// NewResolveDuplicatesUseCase creates a new ResolveDuplicatesUseCase instance.
func NewResolveDuplicatesUseCase(
	transactionRepo adapter.TransactionRepository,
	dismissalRepo adapter.DismissalRepository,
) *ResolveDuplicatesUseCase {
	return &ResolveDuplicatesUseCase{
		transactionRepo: transactionRepo,
		dismissalRepo:   dismissalRepo,
	}
}

// Execute applies every resolution in the batch.
func (uc *ResolveDuplicatesUseCase) Execute(ctx context.Context, input ResolveDuplicatesInput) (*ResolveDuplicatesOutput, error) {
	output := &ResolveDuplicatesOutput{}

	for _, resolution := range input.Resolutions {
		if err := uc.resolveGroup(ctx, input.UserID, resolution, output); err != nil {
			output.Failures = append(output.Failures, valueobject.BatchFailure{
				ID:     groupKey(resolution.TransactionIDs),
				Reason: err.Error(),
			})
		}
	}

	output.Success = len(output.Failures) == 0
	return output, nil
}

// resolveGroup applies one resolution. The group either fully resolves or
// fails as a unit.
func (uc *ResolveDuplicatesUseCase) resolveGroup(
	ctx context.Context,
	userID uuid.UUID,
	resolution Resolution,
	output *ResolveDuplicatesOutput,
) error {
	if len(resolution.TransactionIDs) < 2 {
		return domainerror.NewMatchingError(
			domainerror.ErrCodeDuplicateGroupTooSmall,
			"duplicate group must contain at least two transactions",
			domainerror.ErrDuplicateGroupTooSmall,
		)
	}

	transactions, err := uc.transactionRepo.FindByIDs(ctx, resolution.TransactionIDs, userID)
	if err != nil {
		return err
	}
	if len(transactions) != len(resolution.TransactionIDs) {
		return domainerror.NewTransactionError(
			domainerror.ErrCodeTransactionIDsNotFound,
			"one or more transactions not found",
			domainerror.ErrTransactionIDsNotFound,
		)
	}

	switch resolution.Strategy {
	case StrategyNotDuplicate:
		dismissal := entity.NewDuplicateDismissal(userID, resolution.TransactionIDs)
		if err := uc.dismissalRepo.Create(ctx, dismissal); err != nil {
			return err
		}
		output.TransactionsKept += len(transactions)
		return nil

	case StrategyKeepNewest, StrategyKeepOldest:
		return uc.keepOne(ctx, transactions, resolution.Strategy, output)

	default:
		return domainerror.NewMatchingError(
			domainerror.ErrCodeInvalidResolutionStrategy,
			"invalid duplicate resolution strategy",
			domainerror.ErrInvalidResolutionStrategy,
		)
	}
}

// keepOne keeps the newest or oldest transaction of the group, soft-deletes
// the rest, and marks the kept one reviewed.
func (uc *ResolveDuplicatesUseCase) keepOne(
	ctx context.Context,
	transactions []*entity.Transaction,
	strategy ResolutionStrategy,
	output *ResolveDuplicatesOutput,
) error {
	sorted := make([]*entity.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	kept := sorted[0]
	if strategy == StrategyKeepNewest {
		kept = sorted[len(sorted)-1]
	}

	deletedIDs := make([]uuid.UUID, 0, len(sorted)-1)
	for _, tx := range sorted {
		if tx.ID != kept.ID {
			deletedIDs = append(deletedIDs, tx.ID)
		}
	}

	if err := uc.transactionRepo.ResolveDuplicateGroup(ctx, kept.ID, deletedIDs); err != nil {
		return err
	}
	output.TransactionsDeleted += len(deletedIDs)
	output.TransactionsKept++
	return nil
}

// groupKey is the stable identity of a group in failure reports.
func groupKey(ids []uuid.UUID) string {
	sorted := make([]string, len(ids))
	for i, id := range ids {
		sorted[i] = id.String()
	}
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
