// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// DuplicateDismissalModel represents the duplicate_dismissals table. The
// member set is stored as a sorted uuid array; detection runs compare sets,
// not rows, so no join table is needed.
type DuplicateDismissalModel struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index"`
	TransactionIDs pq.StringArray `gorm:"type:uuid[];not null"`
	CreatedAt      time.Time      `gorm:"not null"`
}

// TableName returns the table name for the DuplicateDismissalModel.
func (DuplicateDismissalModel) TableName() string {
	return "duplicate_dismissals"
}

// ToEntity converts a DuplicateDismissalModel to a domain entity. Malformed
// ids are skipped rather than failing the whole read.
func (m *DuplicateDismissalModel) ToEntity() *entity.DuplicateDismissal {
	ids := make([]uuid.UUID, 0, len(m.TransactionIDs))
	for _, raw := range m.TransactionIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return &entity.DuplicateDismissal{
		ID:             m.ID,
		UserID:         m.UserID,
		TransactionIDs: ids,
		CreatedAt:      m.CreatedAt,
	}
}

// DuplicateDismissalFromEntity creates a model from a domain entity.
func DuplicateDismissalFromEntity(dismissal *entity.DuplicateDismissal) *DuplicateDismissalModel {
	ids := make(pq.StringArray, len(dismissal.TransactionIDs))
	for i, id := range dismissal.TransactionIDs {
		ids[i] = id.String()
	}

	return &DuplicateDismissalModel{
		ID:             dismissal.ID,
		UserID:         dismissal.UserID,
		TransactionIDs: ids,
		CreatedAt:      dismissal.CreatedAt,
	}
}
