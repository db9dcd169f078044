// Package duplicate contains duplicate transaction detection use cases.
package duplicate

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestResolveDuplicates_KeepNewest(t *testing.T) {
	userID := uuid.New()
	older := txOn(userID, "-12.50", 1, "Coffee Shop")
	newer := txOn(userID, "-12.50", 2, "Coffee Shop")

	txRepo := newFakeTransactionRepo()
	txRepo.add(older, newer)

	uc := NewResolveDuplicatesUseCase(txRepo, &fakeDismissalRepo{})

	out, err := uc.Execute(context.Background(), ResolveDuplicatesInput{
		UserID: userID,
		Resolutions: []Resolution{
			{TransactionIDs: []uuid.UUID{older.ID, newer.ID}, Strategy: StrategyKeepNewest},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !out.Success || out.TransactionsDeleted != 1 || out.TransactionsKept != 1 {
		t.Fatalf("unexpected result: %+v", out)
	}
	if older.DeletedAt == nil {
		t.Error("expected the older transaction soft-deleted")
	}
	if newer.DeletedAt != nil {
		t.Error("expected the newer transaction kept")
	}
	if !newer.Reviewed {
		t.Error("expected the kept transaction marked reviewed")
	}
}

func TestResolveDuplicates_KeepOldest(t *testing.T) {
	userID := uuid.New()
	older := txOn(userID, "-12.50", 1, "Coffee Shop")
	newer := txOn(userID, "-12.50", 2, "Coffee Shop")

	txRepo := newFakeTransactionRepo()
	txRepo.add(older, newer)

	uc := NewResolveDuplicatesUseCase(txRepo, &fakeDismissalRepo{})

	out, err := uc.Execute(context.Background(), ResolveDuplicatesInput{
		UserID: userID,
		Resolutions: []Resolution{
			{TransactionIDs: []uuid.UUID{older.ID, newer.ID}, Strategy: StrategyKeepOldest},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !out.Success {
		t.Fatalf("unexpected failures: %+v", out.Failures)
	}
	if newer.DeletedAt == nil || older.DeletedAt != nil {
		t.Error("expected the newer deleted and the older kept")
	}
}

func TestResolveDuplicates_MarkNotDuplicate(t *testing.T) {
	userID := uuid.New()
	a := txOn(userID, "-12.50", 1, "Coffee Shop")
	b := txOn(userID, "-12.50", 1, "Coffee Shop")

	txRepo := newFakeTransactionRepo()
	txRepo.add(a, b)
	dismissalRepo := &fakeDismissalRepo{}

	uc := NewResolveDuplicatesUseCase(txRepo, dismissalRepo)

	out, err := uc.Execute(context.Background(), ResolveDuplicatesInput{
		UserID: userID,
		Resolutions: []Resolution{
			{TransactionIDs: []uuid.UUID{a.ID, b.ID}, Strategy: StrategyNotDuplicate},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !out.Success || out.TransactionsDeleted != 0 || out.TransactionsKept != 2 {
		t.Fatalf("unexpected result: %+v", out)
	}
	if len(dismissalRepo.dismissals) != 1 {
		t.Fatalf("expected 1 dismissal, got %d", len(dismissalRepo.dismissals))
	}
	if a.DeletedAt != nil || b.DeletedAt != nil {
		t.Error("mark-not-duplicate must not delete anything")
	}
}

func TestResolveDuplicates_PartialFailureIsPerGroup(t *testing.T) {
	userID := uuid.New()
	a := txOn(userID, "-12.50", 1, "Coffee Shop")
	b := txOn(userID, "-12.50", 1, "Coffee Shop")
	c := txOn(userID, "-30.00", 2, "Gym")
	d := txOn(userID, "-30.00", 2, "Gym")

	txRepo := newFakeTransactionRepo()
	txRepo.add(a, b, c, d)
	txRepo.deleteErr[c.ID] = errors.New("db down")
	txRepo.deleteErr[d.ID] = errors.New("db down")

	uc := NewResolveDuplicatesUseCase(txRepo, &fakeDismissalRepo{})

	out, err := uc.Execute(context.Background(), ResolveDuplicatesInput{
		UserID: userID,
		Resolutions: []Resolution{
			{TransactionIDs: []uuid.UUID{a.ID, b.ID}, Strategy: StrategyKeepNewest},
			{TransactionIDs: []uuid.UUID{c.ID, d.ID}, Strategy: StrategyKeepNewest},
		},
	})
	if err != nil {
		t.Fatalf("one failing group must not abort the batch: %v", err)
	}

	if out.Success {
		t.Error("expected success=false with a failing group")
	}
	if len(out.Failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(out.Failures))
	}
	// The first group still resolved.
	if out.TransactionsDeleted != 1 || out.TransactionsKept != 1 {
		t.Errorf("expected the healthy group resolved, got %+v", out)
	}
}

func TestResolveDuplicates_FailingGroupAppliesNothing(t *testing.T) {
	userID := uuid.New()
	a := txOn(userID, "-12.50", 1, "Coffee Shop")
	b := txOn(userID, "-12.50", 2, "Coffee Shop")
	c := txOn(userID, "-12.50", 3, "Coffee Shop")

	txRepo := newFakeTransactionRepo()
	txRepo.add(a, b, c)
	txRepo.deleteErr[a.ID] = errors.New("db down")

	uc := NewResolveDuplicatesUseCase(txRepo, &fakeDismissalRepo{})

	out, err := uc.Execute(context.Background(), ResolveDuplicatesInput{
		UserID: userID,
		Resolutions: []Resolution{
			{TransactionIDs: []uuid.UUID{a.ID, b.ID, c.ID}, Strategy: StrategyKeepNewest},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Success || len(out.Failures) != 1 {
		t.Fatalf("expected the group reported as failed, got %+v", out)
	}
	if out.TransactionsDeleted != 0 || out.TransactionsKept != 0 {
		t.Errorf("failing group must count nothing, got %+v", out)
	}
	if a.DeletedAt != nil || b.DeletedAt != nil || c.DeletedAt != nil {
		t.Error("failing group must not soft-delete any member")
	}
	if c.Reviewed {
		t.Error("failing group must not mark the kept transaction reviewed")
	}
}

func TestResolveDuplicates_Validation(t *testing.T) {
	userID := uuid.New()
	a := txOn(userID, "-12.50", 1, "Coffee Shop")
	b := txOn(userID, "-12.50", 1, "Coffee Shop")

	txRepo := newFakeTransactionRepo()
	txRepo.add(a, b)

	uc := NewResolveDuplicatesUseCase(txRepo, &fakeDismissalRepo{})

	tests := []struct {
		name       string
		resolution Resolution
	}{
		{
			name:       "group too small",
			resolution: Resolution{TransactionIDs: []uuid.UUID{a.ID}, Strategy: StrategyKeepNewest},
		},
		{
			name:       "unknown transaction id",
			resolution: Resolution{TransactionIDs: []uuid.UUID{a.ID, uuid.New()}, Strategy: StrategyKeepNewest},
		},
		{
			name:       "invalid strategy",
			resolution: Resolution{TransactionIDs: []uuid.UUID{a.ID, b.ID}, Strategy: "merge"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := uc.Execute(context.Background(), ResolveDuplicatesInput{
				UserID:      userID,
				Resolutions: []Resolution{tt.resolution},
			})
			if err != nil {
				t.Fatalf("validation failures must be reported per group: %v", err)
			}
			if out.Success || len(out.Failures) != 1 {
				t.Errorf("expected exactly one failure, got %+v", out)
			}
		})
	}
}
