// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
	"github.com/ledgerline/backend/internal/domain/valueobject"
)

type manualLinkWorld struct {
	userID  uuid.UUID
	account *entity.Account
	session *entity.ReconciliationSession
	recRepo *fakeReconciliationRepo
	txRepo  *fakeTransactionRepo
	uc      *ManualLinkUseCase
}

func newManualLinkWorld() *manualLinkWorld {
	userID := uuid.New()
	account := entity.NewAccount(userID, "Checking", entity.AccountTypeChecking)
	session := entity.NewReconciliationSession(
		userID, account.ID, statementDate(15), decimal.Zero, decimal.Zero, "",
	)

	recRepo := newFakeReconciliationRepo()
	recRepo.sessions[session.ID] = session
	txRepo := newFakeTransactionRepo()

	return &manualLinkWorld{
		userID:  userID,
		account: account,
		session: session,
		recRepo: recRepo,
		txRepo:  txRepo,
		uc:      NewManualLinkUseCase(recRepo, txRepo, valueobject.DefaultMatchingConfig()),
	}
}

func (w *manualLinkWorld) addBankItem(externalID, amount string, day int, description string) *entity.ReconciliationItem {
	item := entity.NewReconciliationItem(w.session.ID, entity.ItemTypeUnmatchedBank)
	ext := external(externalID, amount, statementDate(day), description)
	item.External = &ext
	w.recRepo.items[w.session.ID] = append(w.recRepo.items[w.session.ID], item)
	return item
}

func TestManualLink_LinksWithinTolerance(t *testing.T) {
	w := newManualLinkWorld()
	item := w.addBankItem("B1", "-45.00", 2, "COFFEE SHOP")
	tx := ledgerTx(w.userID, w.account.ID, "-45.00", statementDate(2), "Coffee Shop")
	w.txRepo.add(tx)

	out, err := w.uc.Execute(context.Background(), ManualLinkInput{
		UserID:        w.userID,
		SessionID:     w.session.ID,
		ItemID:        item.ID,
		TransactionID: tx.ID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Forced {
		t.Error("in-tolerance link must not be reported as forced")
	}
	if item.ItemType != entity.ItemTypeMatched {
		t.Error("expected item re-typed to matched")
	}
	if item.MatchMethod != valueobject.MatchMethodManual || item.MatchConfidence != 1.0 {
		t.Errorf("expected manual/1.0, got %s/%f", item.MatchMethod, item.MatchConfidence)
	}
	if len(w.recRepo.audit) != 1 || w.recRepo.audit[0].Action != valueobject.AuditActionManualLink {
		t.Fatalf("expected manual_link audit entry, got %+v", w.recRepo.audit)
	}
}

func TestManualLink_OutsideToleranceNeedsForce(t *testing.T) {
	w := newManualLinkWorld()
	item := w.addBankItem("B1", "-45.00", 2, "COFFEE SHOP")
	// Amount far outside the reconciliation tolerance.
	tx := ledgerTx(w.userID, w.account.ID, "-90.00", statementDate(2), "Coffee Shop")
	w.txRepo.add(tx)

	_, err := w.uc.Execute(context.Background(), ManualLinkInput{
		UserID:        w.userID,
		SessionID:     w.session.ID,
		ItemID:        item.ID,
		TransactionID: tx.ID,
	})
	var recErr *domainerror.ReconciliationError
	if !errors.As(err, &recErr) || recErr.Code != domainerror.ErrCodeManualLinkOutsideTolerance {
		t.Fatalf("expected outside tolerance error, got %v", err)
	}

	out, err := w.uc.Execute(context.Background(), ManualLinkInput{
		UserID:        w.userID,
		SessionID:     w.session.ID,
		ItemID:        item.ID,
		TransactionID: tx.ID,
		Force:         true,
	})
	if err != nil {
		t.Fatalf("forced link failed: %v", err)
	}
	if !out.Forced {
		t.Error("expected forced link to be reported as forced")
	}
}

func TestManualLink_Errors(t *testing.T) {
	w := newManualLinkWorld()
	item := w.addBankItem("B1", "-45.00", 2, "COFFEE SHOP")
	tx := ledgerTx(w.userID, w.account.ID, "-45.00", statementDate(2), "Coffee Shop")
	w.txRepo.add(tx)

	t.Run("item not found", func(t *testing.T) {
		_, err := w.uc.Execute(context.Background(), ManualLinkInput{
			UserID: w.userID, SessionID: w.session.ID, ItemID: uuid.New(), TransactionID: tx.ID,
		})
		var recErr *domainerror.ReconciliationError
		if !errors.As(err, &recErr) || recErr.Code != domainerror.ErrCodeItemNotFound {
			t.Fatalf("expected item not found, got %v", err)
		}
	})

	t.Run("transaction not found", func(t *testing.T) {
		_, err := w.uc.Execute(context.Background(), ManualLinkInput{
			UserID: w.userID, SessionID: w.session.ID, ItemID: item.ID, TransactionID: uuid.New(),
		})
		var txErr *domainerror.TransactionError
		if !errors.As(err, &txErr) || txErr.Code != domainerror.ErrCodeTransactionNotFound {
			t.Fatalf("expected transaction not found, got %v", err)
		}
	})

	t.Run("transaction owned by someone else", func(t *testing.T) {
		foreign := ledgerTx(uuid.New(), w.account.ID, "-45.00", statementDate(2), "Coffee Shop")
		w.txRepo.add(foreign)

		_, err := w.uc.Execute(context.Background(), ManualLinkInput{
			UserID: w.userID, SessionID: w.session.ID, ItemID: item.ID, TransactionID: foreign.ID,
		})
		var txErr *domainerror.TransactionError
		if !errors.As(err, &txErr) || txErr.Code != domainerror.ErrCodeNotAuthorizedTransaction {
			t.Fatalf("expected not authorized, got %v", err)
		}
	})

	t.Run("transaction already matched in session", func(t *testing.T) {
		matched := entity.NewReconciliationItem(w.session.ID, entity.ItemTypeMatched)
		txID := tx.ID
		matched.TransactionID = &txID
		w.recRepo.items[w.session.ID] = append(w.recRepo.items[w.session.ID], matched)

		_, err := w.uc.Execute(context.Background(), ManualLinkInput{
			UserID: w.userID, SessionID: w.session.ID, ItemID: item.ID, TransactionID: tx.ID,
		})
		var recErr *domainerror.ReconciliationError
		if !errors.As(err, &recErr) || recErr.Code != domainerror.ErrCodeTransactionAlreadyMatched {
			t.Fatalf("expected already matched, got %v", err)
		}
	})
}
