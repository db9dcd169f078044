// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
	"github.com/ledgerline/backend/internal/domain/valueobject"
)

type importWorld struct {
	userID  uuid.UUID
	account *entity.Account
	session *entity.ReconciliationSession
	recRepo *fakeReconciliationRepo
	txRepo  *fakeTransactionRepo
	decoder *fakeDecoder
	uc      *ImportStatementUseCase
}

func newImportWorld() *importWorld {
	userID := uuid.New()
	account := entity.NewAccount(userID, "Checking", entity.AccountTypeChecking)
	session := entity.NewReconciliationSession(
		userID, account.ID, statementDate(15),
		decimal.RequireFromString("70.00"), decimal.Zero, "",
	)

	recRepo := newFakeReconciliationRepo()
	recRepo.sessions[session.ID] = session
	txRepo := newFakeTransactionRepo()
	decoder := &fakeDecoder{statements: map[string][]entity.ExternalTransaction{}}

	return &importWorld{
		userID:  userID,
		account: account,
		session: session,
		recRepo: recRepo,
		txRepo:  txRepo,
		decoder: decoder,
		uc:      NewImportStatementUseCase(recRepo, txRepo, decoder, valueobject.DefaultMatchingConfig()),
	}
}

func external(externalID, amount string, date time.Time, description string) entity.ExternalTransaction {
	return entity.ExternalTransaction{
		ExternalID:  externalID,
		Amount:      decimal.RequireFromString(amount),
		Date:        date,
		Description: description,
	}
}

func TestImportStatement_MatchesAndPersistsItems(t *testing.T) {
	w := newImportWorld()

	withID := ledgerTx(w.userID, w.account.ID, "-45.00", statementDate(2), "Coffee Shop")
	extID := "B1"
	withID.ExternalID = &extID
	fuzzy := ledgerTx(w.userID, w.account.ID, "-20.01", statementDate(6), "Lunch")
	unmatchedInternal := ledgerTx(w.userID, w.account.ID, "-500.00", statementDate(10), "Rent")
	w.txRepo.add(withID, fuzzy, unmatchedInternal)

	out, err := w.uc.Execute(context.Background(), ImportStatementInput{
		UserID:    w.userID,
		SessionID: w.session.ID,
		Provider:  "acme_bank",
		Externals: []entity.ExternalTransaction{
			external("B1", "-45.00", statementDate(2), "COFFEE SHOP"),
			external("B2", "-20.00", statementDate(5), "LUNCH PLACE"),
			external("B9", "-77.77", statementDate(8), "UNKNOWN MERCHANT"),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Result.ExactMatches != 1 || out.Result.FuzzyMatches != 1 {
		t.Errorf("expected exact=1 fuzzy=1, got exact=%d fuzzy=%d", out.Result.ExactMatches, out.Result.FuzzyMatches)
	}

	items := w.recRepo.items[w.session.ID]
	counts := map[entity.ReconciliationItemType]int{}
	for _, item := range items {
		counts[item.ItemType]++
		if item.ItemType != entity.ItemTypeUnmatchedInternal && item.Provider != "acme_bank" {
			t.Errorf("expected provider tag on bank-backed item, got %q", item.Provider)
		}
	}
	if counts[entity.ItemTypeMatched] != 2 || counts[entity.ItemTypeUnmatchedBank] != 1 || counts[entity.ItemTypeUnmatchedInternal] != 1 {
		t.Errorf("unexpected item counts: %+v", counts)
	}

	if len(w.recRepo.audit) != 1 || w.recRepo.audit[0].Action != valueobject.AuditActionStatementImported {
		t.Fatalf("expected one statement_imported audit entry, got %+v", w.recRepo.audit)
	}
}

func TestImportStatement_RerunReplacesItems(t *testing.T) {
	w := newImportWorld()
	w.txRepo.add(ledgerTx(w.userID, w.account.ID, "-45.00", statementDate(2), "Coffee Shop"))

	input := ImportStatementInput{
		UserID:    w.userID,
		SessionID: w.session.ID,
		Externals: []entity.ExternalTransaction{
			external("B1", "-45.00", statementDate(2), "COFFEE SHOP"),
		},
	}

	if _, err := w.uc.Execute(context.Background(), input); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := w.uc.Execute(context.Background(), input); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if got := len(w.recRepo.items[w.session.ID]); got != 1 {
		t.Errorf("expected re-run to replace items, got %d items", got)
	}
}

func TestImportStatement_BalanceComparison(t *testing.T) {
	w := newImportWorld()
	// Ledger sums to 70.00 through the statement end date; statement balance
	// is 70.00, so the session is balanced.
	w.txRepo.add(
		ledgerTx(w.userID, w.account.ID, "100.00", statementDate(1), "Paycheck"),
		ledgerTx(w.userID, w.account.ID, "-30.00", statementDate(5), "Groceries"),
	)

	out, err := w.uc.Execute(context.Background(), ImportStatementInput{
		UserID:    w.userID,
		SessionID: w.session.ID,
		Externals: []entity.ExternalTransaction{
			external("B1", "-30.00", statementDate(5), "GROCERIES"),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !out.Balanced {
		t.Errorf("expected balanced session, diff %s", out.BalanceDifference)
	}
	if !w.session.CalculatedBalance.Equal(decimal.RequireFromString("70.00")) {
		t.Errorf("expected recomputed calculated balance 70.00, got %s", w.session.CalculatedBalance)
	}
}

func TestImportStatement_DecodesPayload(t *testing.T) {
	w := newImportWorld()
	w.decoder.statements["acme_bank"] = []entity.ExternalTransaction{
		external("B1", "-45.00", statementDate(2), "COFFEE SHOP"),
	}
	w.txRepo.add(ledgerTx(w.userID, w.account.ID, "-45.00", statementDate(2), "Coffee Shop"))

	out, err := w.uc.Execute(context.Background(), ImportStatementInput{
		UserID:    w.userID,
		SessionID: w.session.ID,
		Provider:  "acme_bank",
		Payload:   []byte(`{"rows":[]}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Result.Pairs) != 1 {
		t.Errorf("expected 1 pair from decoded payload, got %d", len(out.Result.Pairs))
	}
}

func TestImportStatement_Errors(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		w := newImportWorld()
		_, err := w.uc.Execute(context.Background(), ImportStatementInput{
			UserID:    w.userID,
			SessionID: w.session.ID,
			Provider:  "unknown_bank",
			Payload:   []byte(`{}`),
		})

		var recErr *domainerror.ReconciliationError
		if !errors.As(err, &recErr) || recErr.Code != domainerror.ErrCodeUnknownBankProvider {
			t.Fatalf("expected unknown provider error, got %v", err)
		}
	})

	t.Run("empty statement", func(t *testing.T) {
		w := newImportWorld()
		_, err := w.uc.Execute(context.Background(), ImportStatementInput{
			UserID:    w.userID,
			SessionID: w.session.ID,
		})

		var recErr *domainerror.ReconciliationError
		if !errors.As(err, &recErr) || recErr.Code != domainerror.ErrCodeStatementEmpty {
			t.Fatalf("expected empty statement error, got %v", err)
		}
	})

	t.Run("completed session", func(t *testing.T) {
		w := newImportWorld()
		w.session.Status = entity.SessionStatusCompleted

		_, err := w.uc.Execute(context.Background(), ImportStatementInput{
			UserID:    w.userID,
			SessionID: w.session.ID,
			Externals: []entity.ExternalTransaction{external("B1", "-1.00", statementDate(1), "x")},
		})

		var recErr *domainerror.ReconciliationError
		if !errors.As(err, &recErr) || recErr.Code != domainerror.ErrCodeSessionAlreadyCompleted {
			t.Fatalf("expected already completed error, got %v", err)
		}
	})

	t.Run("foreign session", func(t *testing.T) {
		w := newImportWorld()
		_, err := w.uc.Execute(context.Background(), ImportStatementInput{
			UserID:    uuid.New(),
			SessionID: w.session.ID,
			Externals: []entity.ExternalTransaction{external("B1", "-1.00", statementDate(1), "x")},
		})

		var recErr *domainerror.ReconciliationError
		if !errors.As(err, &recErr) || recErr.Code != domainerror.ErrCodeNotAuthorizedSession {
			t.Fatalf("expected not authorized error, got %v", err)
		}
	})
}
