// Package duplicate contains duplicate transaction detection use cases.
package duplicate

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	"github.com/ledgerline/backend/internal/domain/matching"
	"github.com/ledgerline/backend/internal/domain/valueobject"
)

// DetectDuplicatesInput represents the input for one detection run.
// Params overrides the configured duplicate tolerances when set; detection is
// read-only and safe to re-run with different parameters.
type DetectDuplicatesInput struct {
	UserID          uuid.UUID
	Params          *valueobject.MatchParams
	IncludeReviewed bool
	SameAccountOnly bool
}

// DetectDuplicatesOutput represents the detected groups.
type DetectDuplicatesOutput struct {
	Groups            []*entity.DuplicateGroup
	TotalGroups       int
	TotalTransactions int
}

// DetectDuplicatesUseCase finds likely duplicate transactions.
type DetectDuplicatesUseCase struct {
	transactionRepo adapter.TransactionRepository
	dismissalRepo   adapter.DismissalRepository
	config          valueobject.MatchingConfig
}

// NewDetectDuplicatesUseCase creates a new DetectDuplicatesUseCase instance.
func NewDetectDuplicatesUseCase(
	transactionRepo adapter.TransactionRepository,
	dismissalRepo adapter.DismissalRepository,
	config valueobject.MatchingConfig,
) *DetectDuplicatesUseCase {
	return &DetectDuplicatesUseCase{
		transactionRepo: transactionRepo,
		dismissalRepo:   dismissalRepo,
		config:          config,
	}
}

// Execute runs duplicate detection over the user's transactions.
func (uc *DetectDuplicatesUseCase) Execute(ctx context.Context, input DetectDuplicatesInput) (*DetectDuplicatesOutput, error) {
	transactions, err := uc.transactionRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	dismissals, err := uc.dismissalRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	params := uc.config.Duplicate.Params()
	if input.Params != nil {
		params = *input.Params
	}

	groups := matching.DetectDuplicates(transactions, dismissals, matching.DuplicateParams{
		Tolerance:       params,
		IncludeReviewed: input.IncludeReviewed,
		SameAccountOnly: input.SameAccountOnly,
	})

	total := 0
	for _, g := range groups {
		total += len(g.Transactions)
	}

	return &DetectDuplicatesOutput{
		Groups:            groups,
		TotalGroups:       len(groups),
		TotalTransactions: total,
	}, nil
}
