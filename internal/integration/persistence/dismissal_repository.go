// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	"github.com/ledgerline/backend/internal/integration/persistence/model"
)

// dismissalRepository implements the adapter.DismissalRepository interface.
type dismissalRepository struct {
	db *gorm.DB
}

// NewDismissalRepository creates a new duplicate dismissal repository instance.
func NewDismissalRepository(db *gorm.DB) adapter.DismissalRepository {
	return &dismissalRepository{
		db: db,
	}
}

// Create records a dismissed duplicate group.
func (r *dismissalRepository) Create(ctx context.Context, dismissal *entity.DuplicateDismissal) error {
	dismissalModel := model.DuplicateDismissalFromEntity(dismissal)
	result := r.db.WithContext(ctx).Create(dismissalModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByUser retrieves all dismissals recorded by a user.
func (r *dismissalRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.DuplicateDismissal, error) {
	var dismissalModels []model.DuplicateDismissalModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&dismissalModels)
	if result.Error != nil {
		return nil, result.Error
	}

	dismissals := make([]*entity.DuplicateDismissal, len(dismissalModels))
	for i, dismissalModel := range dismissalModels {
		dismissals[i] = dismissalModel.ToEntity()
	}
	return dismissals, nil
}
