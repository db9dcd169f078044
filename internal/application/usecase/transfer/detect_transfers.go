// Package transfer contains inter-account transfer detection use cases.
package transfer

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	"github.com/ledgerline/backend/internal/domain/matching"
	"github.com/ledgerline/backend/internal/domain/valueobject"
)

// DetectTransfersInput represents the input for one detection run.
// Params overrides the configured transfer tolerances when set; detection is
// read-only and safe to re-run with different parameters.
type DetectTransfersInput struct {
	UserID                   uuid.UUID
	Params                   *valueobject.MatchParams
	IncludeReviewed          bool
	IncludeExistingTransfers bool
}

// DetectTransfersOutput represents the detected transfer pairs.
type DetectTransfersOutput struct {
	Groups      []*entity.TransferGroup
	TotalGroups int
}

// DetectTransfersUseCase finds likely inter-account transfer pairs.
type DetectTransfersUseCase struct {
	transactionRepo adapter.TransactionRepository
	config          valueobject.MatchingConfig
}

// NewDetectTransfersUseCase creates a new DetectTransfersUseCase instance.
func NewDetectTransfersUseCase(
	transactionRepo adapter.TransactionRepository,
	config valueobject.MatchingConfig,
) *DetectTransfersUseCase {
	return &DetectTransfersUseCase{
		transactionRepo: transactionRepo,
		config:          config,
	}
}

// Execute runs transfer detection over the user's transactions.
func (uc *DetectTransfersUseCase) Execute(ctx context.Context, input DetectTransfersInput) (*DetectTransfersOutput, error) {
	transactions, err := uc.transactionRepo.FindByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	params := uc.config.Transfer.Params()
	if input.Params != nil {
		params = *input.Params
	}

	groups := matching.DetectTransfers(transactions, matching.TransferParams{
		Tolerance:                params,
		IncludeReviewed:          input.IncludeReviewed,
		IncludeExistingTransfers: input.IncludeExistingTransfers,
	})

	return &DetectTransfersOutput{
		Groups:      groups,
		TotalGroups: len(groups),
	}, nil
}
