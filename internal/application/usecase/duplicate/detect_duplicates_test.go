// Package duplicate contains duplicate transaction detection use cases.
package duplicate

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/backend/internal/domain/entity"
	"github.com/ledgerline/backend/internal/domain/valueobject"
)

func txOn(userID uuid.UUID, amount string, day int, description string) *entity.Transaction {
	amt := decimal.RequireFromString(amount)
	date := time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC)
	return entity.NewTransaction(userID, uuid.New(), date, description, amt, entity.TypeForAmount(amt), nil, "")
}

func TestDetectDuplicates_FindsGroup(t *testing.T) {
	userID := uuid.New()
	txRepo := newFakeTransactionRepo()
	txRepo.add(
		txOn(userID, "-12.50", 1, "Coffee Shop"),
		txOn(userID, "-12.50", 1, "COFFEE SHOP #442"),
		txOn(userID, "-500.00", 10, "Rent"),
	)

	uc := NewDetectDuplicatesUseCase(txRepo, &fakeDismissalRepo{}, valueobject.DefaultMatchingConfig())

	out, err := uc.Execute(context.Background(), DetectDuplicatesInput{UserID: userID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.TotalGroups != 1 {
		t.Fatalf("expected 1 group, got %d", out.TotalGroups)
	}
	if out.TotalTransactions != 2 {
		t.Errorf("expected 2 grouped transactions, got %d", out.TotalTransactions)
	}
	if out.Groups[0].HighestConfidence < 0.6 {
		t.Errorf("expected confidence above threshold, got %f", out.Groups[0].HighestConfidence)
	}
}

func TestDetectDuplicates_RespectsDismissals(t *testing.T) {
	userID := uuid.New()
	a := txOn(userID, "-12.50", 1, "Coffee Shop")
	b := txOn(userID, "-12.50", 1, "Coffee Shop")

	txRepo := newFakeTransactionRepo()
	txRepo.add(a, b)
	dismissalRepo := &fakeDismissalRepo{
		dismissals: []*entity.DuplicateDismissal{
			entity.NewDuplicateDismissal(userID, []uuid.UUID{a.ID, b.ID}),
		},
	}

	uc := NewDetectDuplicatesUseCase(txRepo, dismissalRepo, valueobject.DefaultMatchingConfig())

	out, err := uc.Execute(context.Background(), DetectDuplicatesInput{UserID: userID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.TotalGroups != 0 {
		t.Errorf("expected dismissed group suppressed, got %d groups", out.TotalGroups)
	}
}

func TestDetectDuplicates_ParamOverrides(t *testing.T) {
	userID := uuid.New()
	txRepo := newFakeTransactionRepo()
	// Three days apart: outside the default duplicate window, inside an
	// explicit override.
	txRepo.add(
		txOn(userID, "-30.00", 1, "Gym Membership"),
		txOn(userID, "-30.00", 4, "Gym Membership"),
	)

	uc := NewDetectDuplicatesUseCase(txRepo, &fakeDismissalRepo{}, valueobject.DefaultMatchingConfig())

	out, err := uc.Execute(context.Background(), DetectDuplicatesInput{UserID: userID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.TotalGroups != 0 {
		t.Fatalf("expected no groups under default window, got %d", out.TotalGroups)
	}

	out, err = uc.Execute(context.Background(), DetectDuplicatesInput{
		UserID: userID,
		Params: &valueobject.MatchParams{
			AmountTolerance:        decimal.RequireFromString("0.01"),
			DateToleranceDays:      5,
			MinConfidence:          0.5,
			UseDescriptionMatching: true,
			UseDateRangeMatching:   true,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.TotalGroups != 1 {
		t.Errorf("expected 1 group with widened window, got %d", out.TotalGroups)
	}
}
