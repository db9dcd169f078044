// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
	"github.com/ledgerline/backend/internal/integration/persistence/model"
)

// reconciliationRepository implements the adapter.ReconciliationRepository interface.
type reconciliationRepository struct {
	db *gorm.DB
}

// NewReconciliationRepository creates a new reconciliation repository instance.
func NewReconciliationRepository(db *gorm.DB) adapter.ReconciliationRepository {
	return &reconciliationRepository{
		db: db,
	}
}

// CreateSession creates a new reconciliation session.
func (r *reconciliationRepository) CreateSession(ctx context.Context, session *entity.ReconciliationSession) error {
	sessionModel := model.ReconciliationSessionFromEntity(session)
	result := r.db.WithContext(ctx).Create(sessionModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindSessionByID retrieves a session by its ID.
func (r *reconciliationRepository) FindSessionByID(ctx context.Context, id uuid.UUID) (*entity.ReconciliationSession, error) {
	var sessionModel model.ReconciliationSessionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&sessionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrSessionNotFound
		}
		return nil, result.Error
	}
	return sessionModel.ToEntity(), nil
}

// FindSessions retrieves sessions matching the filter, newest first.
func (r *reconciliationRepository) FindSessions(ctx context.Context, filter adapter.SessionFilter) ([]*entity.ReconciliationSession, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", filter.UserID)
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var sessionModels []model.ReconciliationSessionModel
	result := query.Order("created_at DESC").Find(&sessionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	sessions := make([]*entity.ReconciliationSession, len(sessionModels))
	for i, sessionModel := range sessionModels {
		sessions[i] = sessionModel.ToEntity()
	}
	return sessions, nil
}

// UpdateSession updates an existing session.
func (r *reconciliationRepository) UpdateSession(ctx context.Context, session *entity.ReconciliationSession) error {
	sessionModel := model.ReconciliationSessionFromEntity(session)
	result := r.db.WithContext(ctx).Save(sessionModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrSessionNotFound
	}
	return nil
}

// CompleteSession persists the terminal state of a session. The update only
// applies while the session is still in progress, so the status check doubles
// as an optimistic guard against concurrent finalizes.
func (r *reconciliationRepository) CompleteSession(ctx context.Context, session *entity.ReconciliationSession) error {
	result := r.db.WithContext(ctx).
		Model(&model.ReconciliationSessionModel{}).
		Where("id = ? AND status = ?", session.ID, string(entity.SessionStatusInProgress)).
		Updates(map[string]interface{}{
			"status":       string(session.Status),
			"notes":        session.Notes,
			"completed_at": session.CompletedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.NewReconciliationError(
			domainerror.ErrCodeSessionAlreadyCompleted,
			"reconciliation session already completed",
			domainerror.ErrSessionAlreadyCompleted,
		)
	}
	return nil
}

// ReplaceSessionItems deletes all items of a session and inserts the given
// ones in a single database transaction, so a re-run never leaves items from
// the previous pass behind.
func (r *reconciliationRepository) ReplaceSessionItems(
	ctx context.Context,
	sessionID uuid.UUID,
	items []*entity.ReconciliationItem,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("session_id = ?", sessionID).Delete(&model.ReconciliationItemModel{})
		if result.Error != nil {
			return result.Error
		}

		if len(items) == 0 {
			return nil
		}

		itemModels := make([]*model.ReconciliationItemModel, len(items))
		for i, item := range items {
			itemModels[i] = model.ReconciliationItemFromEntity(item)
		}
		return tx.Create(itemModels).Error
	})
}

// FindItemsBySession retrieves all items of a session.
func (r *reconciliationRepository) FindItemsBySession(ctx context.Context, sessionID uuid.UUID) ([]*entity.ReconciliationItem, error) {
	var itemModels []model.ReconciliationItemModel
	result := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&itemModels)
	if result.Error != nil {
		return nil, result.Error
	}

	items := make([]*entity.ReconciliationItem, len(itemModels))
	for i, itemModel := range itemModels {
		items[i] = itemModel.ToEntity()
	}
	return items, nil
}

// FindItemByID retrieves a reconciliation item by its ID.
func (r *reconciliationRepository) FindItemByID(ctx context.Context, id uuid.UUID) (*entity.ReconciliationItem, error) {
	var itemModel model.ReconciliationItemModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&itemModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrReconciliationItemNotFound
		}
		return nil, result.Error
	}
	return itemModel.ToEntity(), nil
}

// UpdateItem updates an existing reconciliation item.
func (r *reconciliationRepository) UpdateItem(ctx context.Context, item *entity.ReconciliationItem) error {
	itemModel := model.ReconciliationItemFromEntity(item)
	result := r.db.WithContext(ctx).Save(itemModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrReconciliationItemNotFound
	}
	return nil
}

// CountItemsByType returns the number of items of each type in a session.
func (r *reconciliationRepository) CountItemsByType(ctx context.Context, sessionID uuid.UUID) (map[entity.ReconciliationItemType]int, error) {
	var rows []struct {
		ItemType string
		Count    int
	}
	result := r.db.WithContext(ctx).
		Model(&model.ReconciliationItemModel{}).
		Select("item_type, COUNT(*) as count").
		Where("session_id = ?", sessionID).
		Group("item_type").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	counts := make(map[entity.ReconciliationItemType]int, len(rows))
	for _, row := range rows {
		counts[entity.ReconciliationItemType(row.ItemType)] = row.Count
	}
	return counts, nil
}

// AppendAuditEntry appends an audit log entry for a session.
func (r *reconciliationRepository) AppendAuditEntry(ctx context.Context, entry *entity.AuditLogEntry) error {
	entryModel := model.AuditLogFromEntity(entry)
	result := r.db.WithContext(ctx).Create(entryModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindAuditBySession retrieves the audit trail of a session, oldest first.
func (r *reconciliationRepository) FindAuditBySession(ctx context.Context, sessionID uuid.UUID) ([]*entity.AuditLogEntry, error) {
	var entryModels []model.AuditLogModel
	result := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&entryModels)
	if result.Error != nil {
		return nil, result.Error
	}

	entries := make([]*entity.AuditLogEntry, len(entryModels))
	for i, entryModel := range entryModels {
		entries[i] = entryModel.ToEntity()
	}
	return entries, nil
}
