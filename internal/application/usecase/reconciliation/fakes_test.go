// Package reconciliation contains bank statement reconciliation use cases.
package reconciliation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

var errFakeNotFound = errors.New("not found")

type fakeReconciliationRepo struct {
	sessions map[uuid.UUID]*entity.ReconciliationSession
	items    map[uuid.UUID][]*entity.ReconciliationItem
	audit    []*entity.AuditLogEntry

	// completed mirrors the persisted status column, which the conditional
	// completion checks independently of the in-memory entity.
	completed map[uuid.UUID]bool
}

func newFakeReconciliationRepo() *fakeReconciliationRepo {
	return &fakeReconciliationRepo{
		sessions:  make(map[uuid.UUID]*entity.ReconciliationSession),
		items:     make(map[uuid.UUID][]*entity.ReconciliationItem),
		completed: make(map[uuid.UUID]bool),
	}
}

func (r *fakeReconciliationRepo) CreateSession(_ context.Context, session *entity.ReconciliationSession) error {
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeReconciliationRepo) FindSessionByID(_ context.Context, id uuid.UUID) (*entity.ReconciliationSession, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return session, nil
}

func (r *fakeReconciliationRepo) FindSessions(_ context.Context, filter adapter.SessionFilter) ([]*entity.ReconciliationSession, error) {
	var result []*entity.ReconciliationSession
	for _, s := range r.sessions {
		if s.UserID != filter.UserID {
			continue
		}
		if filter.AccountID != nil && s.AccountID != *filter.AccountID {
			continue
		}
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

func (r *fakeReconciliationRepo) UpdateSession(_ context.Context, session *entity.ReconciliationSession) error {
	if _, ok := r.sessions[session.ID]; !ok {
		return errFakeNotFound
	}
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeReconciliationRepo) CompleteSession(_ context.Context, session *entity.ReconciliationSession) error {
	if _, ok := r.sessions[session.ID]; !ok {
		return errFakeNotFound
	}
	if r.completed[session.ID] {
		return domainerror.NewReconciliationError(
			domainerror.ErrCodeSessionAlreadyCompleted,
			"reconciliation session already completed",
			domainerror.ErrSessionAlreadyCompleted,
		)
	}
	r.completed[session.ID] = true
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeReconciliationRepo) ReplaceSessionItems(_ context.Context, sessionID uuid.UUID, items []*entity.ReconciliationItem) error {
	r.items[sessionID] = items
	return nil
}

func (r *fakeReconciliationRepo) FindItemsBySession(_ context.Context, sessionID uuid.UUID) ([]*entity.ReconciliationItem, error) {
	return r.items[sessionID], nil
}

func (r *fakeReconciliationRepo) FindItemByID(_ context.Context, id uuid.UUID) (*entity.ReconciliationItem, error) {
	for _, items := range r.items {
		for _, item := range items {
			if item.ID == id {
				return item, nil
			}
		}
	}
	return nil, errFakeNotFound
}

func (r *fakeReconciliationRepo) UpdateItem(_ context.Context, item *entity.ReconciliationItem) error {
	for _, items := range r.items {
		for i, existing := range items {
			if existing.ID == item.ID {
				items[i] = item
				return nil
			}
		}
	}
	return errFakeNotFound
}

func (r *fakeReconciliationRepo) CountItemsByType(_ context.Context, sessionID uuid.UUID) (map[entity.ReconciliationItemType]int, error) {
	counts := make(map[entity.ReconciliationItemType]int)
	for _, item := range r.items[sessionID] {
		counts[item.ItemType]++
	}
	return counts, nil
}

func (r *fakeReconciliationRepo) AppendAuditEntry(_ context.Context, entry *entity.AuditLogEntry) error {
	r.audit = append(r.audit, entry)
	return nil
}

func (r *fakeReconciliationRepo) FindAuditBySession(_ context.Context, sessionID uuid.UUID) ([]*entity.AuditLogEntry, error) {
	var result []*entity.AuditLogEntry
	for _, entry := range r.audit {
		if entry.SessionID == sessionID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type fakeTransactionRepo struct {
	transactions map[uuid.UUID]*entity.Transaction

	// createErrByExternalID forces Create failures for specific bank rows.
	createErrByExternalID map[string]error

	reconciledIDs []uuid.UUID
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{
		transactions:          make(map[uuid.UUID]*entity.Transaction),
		createErrByExternalID: make(map[string]error),
	}
}

func (r *fakeTransactionRepo) add(txs ...*entity.Transaction) {
	for _, tx := range txs {
		r.transactions[tx.ID] = tx
	}
}

func (r *fakeTransactionRepo) Create(_ context.Context, tx *entity.Transaction) error {
	if tx.ExternalID != nil {
		if err, ok := r.createErrByExternalID[*tx.ExternalID]; ok {
			return err
		}
	}
	r.transactions[tx.ID] = tx
	return nil
}

func (r *fakeTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Transaction, error) {
	tx, ok := r.transactions[id]
	if !ok || tx.DeletedAt != nil {
		return nil, errFakeNotFound
	}
	return tx, nil
}

func (r *fakeTransactionRepo) FindByIDs(_ context.Context, ids []uuid.UUID, userID uuid.UUID) ([]*entity.Transaction, error) {
	var result []*entity.Transaction
	for _, id := range ids {
		if tx, ok := r.transactions[id]; ok && tx.UserID == userID && tx.DeletedAt == nil {
			result = append(result, tx)
		}
	}
	return result, nil
}

func (r *fakeTransactionRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*entity.Transaction, error) {
	var result []*entity.Transaction
	for _, tx := range r.transactions {
		if tx.UserID == userID && tx.DeletedAt == nil {
			result = append(result, tx)
		}
	}
	return result, nil
}

func (r *fakeTransactionRepo) FindByAccountAndDateRange(_ context.Context, accountID uuid.UUID, start, end time.Time) ([]*entity.Transaction, error) {
	var result []*entity.Transaction
	for _, tx := range r.transactions {
		if tx.AccountID != accountID || tx.DeletedAt != nil {
			continue
		}
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		result = append(result, tx)
	}
	return result, nil
}

func (r *fakeTransactionRepo) FindExistingExternalIDs(_ context.Context, accountID uuid.UUID, externalIDs []string) (map[string]uuid.UUID, error) {
	wanted := make(map[string]bool, len(externalIDs))
	for _, id := range externalIDs {
		wanted[id] = true
	}
	result := make(map[string]uuid.UUID)
	for _, tx := range r.transactions {
		if tx.AccountID != accountID || tx.ExternalID == nil || tx.DeletedAt != nil {
			continue
		}
		if wanted[*tx.ExternalID] {
			result[*tx.ExternalID] = tx.ID
		}
	}
	return result, nil
}

func (r *fakeTransactionRepo) SumByAccountThrough(_ context.Context, accountID uuid.UUID, through time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range r.transactions {
		if tx.AccountID != accountID || tx.DeletedAt != nil || tx.Date.After(through) {
			continue
		}
		sum = sum.Add(tx.Amount)
	}
	return sum, nil
}

func (r *fakeTransactionRepo) FindByTransferID(_ context.Context, transferID uuid.UUID) ([]*entity.Transaction, error) {
	var result []*entity.Transaction
	for _, tx := range r.transactions {
		if tx.TransferID != nil && *tx.TransferID == transferID && tx.DeletedAt == nil {
			result = append(result, tx)
		}
	}
	return result, nil
}

func (r *fakeTransactionRepo) Update(_ context.Context, tx *entity.Transaction) error {
	if _, ok := r.transactions[tx.ID]; !ok {
		return errFakeNotFound
	}
	r.transactions[tx.ID] = tx
	return nil
}

func (r *fakeTransactionRepo) ResolveDuplicateGroup(_ context.Context, keptID uuid.UUID, deletedIDs []uuid.UUID) error {
	kept, ok := r.transactions[keptID]
	if !ok {
		return errFakeNotFound
	}
	now := time.Now().UTC()
	for _, id := range deletedIDs {
		tx, ok := r.transactions[id]
		if !ok {
			return errFakeNotFound
		}
		deleted := now
		tx.DeletedAt = &deleted
	}
	kept.Reviewed = true
	kept.UpdatedAt = now
	return nil
}

func (r *fakeTransactionRepo) MarkReconciled(_ context.Context, ids []uuid.UUID) (int64, error) {
	var count int64
	for _, id := range ids {
		if tx, ok := r.transactions[id]; ok && tx.DeletedAt == nil {
			tx.Reconciled = true
			r.reconciledIDs = append(r.reconciledIDs, id)
			count++
		}
	}
	return count, nil
}

func (r *fakeTransactionRepo) LinkTransfer(_ context.Context, sourceID, destinationID, transferID uuid.UUID) error {
	source, ok := r.transactions[sourceID]
	if !ok {
		return errFakeNotFound
	}
	destination, ok := r.transactions[destinationID]
	if !ok {
		return errFakeNotFound
	}
	id := transferID
	sourceDir := entity.TransferDirectionSource
	destinationDir := entity.TransferDirectionDestination
	source.TransferID = &id
	source.TransferDirection = &sourceDir
	destination.TransferID = &id
	destination.TransferDirection = &destinationDir
	return nil
}

func (r *fakeTransactionRepo) SwapTransferDirections(_ context.Context, transferID uuid.UUID) error {
	for _, tx := range r.transactions {
		if tx.TransferID == nil || *tx.TransferID != transferID {
			continue
		}
		if tx.TransferDirection == nil {
			continue
		}
		var flipped entity.TransferDirection
		if *tx.TransferDirection == entity.TransferDirectionSource {
			flipped = entity.TransferDirectionDestination
		} else {
			flipped = entity.TransferDirectionSource
		}
		tx.TransferDirection = &flipped
	}
	return nil
}

type fakeAccountRepo struct {
	accounts       map[uuid.UUID]*entity.Account
	stampedAt      *time.Time
	stampedBalance *decimal.Decimal
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]*entity.Account)}
}

func (r *fakeAccountRepo) Create(_ context.Context, account *entity.Account) error {
	r.accounts[account.ID] = account
	return nil
}

func (r *fakeAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, errFakeNotFound
	}
	return account, nil
}

func (r *fakeAccountRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*entity.Account, error) {
	var result []*entity.Account
	for _, account := range r.accounts {
		if account.UserID == userID {
			result = append(result, account)
		}
	}
	return result, nil
}

func (r *fakeAccountRepo) StampReconciliation(_ context.Context, accountID uuid.UUID, reconciledAt time.Time, balance decimal.Decimal) error {
	account, ok := r.accounts[accountID]
	if !ok {
		return errFakeNotFound
	}
	account.LastReconciledAt = &reconciledAt
	account.LastReconciledBalance = &balance
	r.stampedAt = &reconciledAt
	r.stampedBalance = &balance
	return nil
}

type fakeDecoder struct {
	statements map[string][]entity.ExternalTransaction
}

func (d *fakeDecoder) Decode(provider string, _ []byte) ([]entity.ExternalTransaction, error) {
	externals, ok := d.statements[provider]
	if !ok {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeUnknownBankProvider,
			"unknown bank provider",
			domainerror.ErrUnknownBankProvider,
		)
	}
	return externals, nil
}

func (d *fakeDecoder) Providers() []string {
	providers := make([]string, 0, len(d.statements))
	for name := range d.statements {
		providers = append(providers, name)
	}
	return providers
}

type fakeMappingRepo struct {
	mappings map[string]*entity.CategoryMapping
	upserts  int
}

func newFakeMappingRepo() *fakeMappingRepo {
	return &fakeMappingRepo{mappings: make(map[string]*entity.CategoryMapping)}
}

func (r *fakeMappingRepo) key(userID uuid.UUID, bankCategory string) string {
	return userID.String() + "/" + bankCategory
}

func (r *fakeMappingRepo) FindByBankCategory(_ context.Context, userID uuid.UUID, bankCategory string) (*entity.CategoryMapping, error) {
	mapping, ok := r.mappings[r.key(userID, bankCategory)]
	if !ok {
		return nil, nil
	}
	return mapping, nil
}

func (r *fakeMappingRepo) Upsert(_ context.Context, mapping *entity.CategoryMapping) error {
	r.mappings[r.key(mapping.UserID, mapping.BankCategory)] = mapping
	r.upserts++
	return nil
}

func (r *fakeMappingRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*entity.CategoryMapping, error) {
	var result []*entity.CategoryMapping
	for _, mapping := range r.mappings {
		if mapping.UserID == userID {
			result = append(result, mapping)
		}
	}
	return result, nil
}

type fakeSuggester struct {
	available  bool
	suggestion *adapter.CategorySuggestion
	err        error
	calls      int
}

func (s *fakeSuggester) Suggest(_ context.Context, _ uuid.UUID, _ string) (*adapter.CategorySuggestion, error) {
	s.calls++
	return s.suggestion, s.err
}

func (s *fakeSuggester) IsAvailable() bool { return s.available }

type fakeNotifier struct {
	notices []adapter.ReconciliationCompletedInput
	err     error
}

func (n *fakeNotifier) NotifyCompleted(_ context.Context, input adapter.ReconciliationCompletedInput) error {
	n.notices = append(n.notices, input)
	return n.err
}
