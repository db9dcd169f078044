// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	"github.com/ledgerline/backend/internal/integration/persistence/model"
)

// categoryMappingRepository implements the adapter.CategoryMappingRepository interface.
type categoryMappingRepository struct {
	db *gorm.DB
}

// NewCategoryMappingRepository creates a new category mapping repository instance.
func NewCategoryMappingRepository(db *gorm.DB) adapter.CategoryMappingRepository {
	return &categoryMappingRepository{
		db: db,
	}
}

// FindByBankCategory retrieves a user's mapping for a bank category label.
// Returns nil without error when no mapping exists.
func (r *categoryMappingRepository) FindByBankCategory(
	ctx context.Context,
	userID uuid.UUID,
	bankCategory string,
) (*entity.CategoryMapping, error) {
	var mappingModel model.CategoryMappingModel
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND bank_category = ?", userID, bankCategory).
		First(&mappingModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return mappingModel.ToEntity(), nil
}

// Upsert creates or refreshes a mapping for a bank category label. Conflicts
// on (user_id, bank_category) overwrite the target category and confidence.
func (r *categoryMappingRepository) Upsert(ctx context.Context, mapping *entity.CategoryMapping) error {
	mappingModel := model.CategoryMappingFromEntity(mapping)
	mappingModel.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "bank_category"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"category_id", "category_name", "confidence", "updated_at",
		}),
	}).Create(mappingModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByUser retrieves all mappings for a user.
func (r *categoryMappingRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CategoryMapping, error) {
	var mappingModels []model.CategoryMappingModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("bank_category ASC").
		Find(&mappingModels)
	if result.Error != nil {
		return nil, result.Error
	}

	mappings := make([]*entity.CategoryMapping, len(mappingModels))
	for i, mappingModel := range mappingModels {
		mappings[i] = mappingModel.ToEntity()
	}
	return mappings, nil
}
