// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// CategoryMappingModel represents the category_mappings table. One row per
// user and bank category label; upserts overwrite the target category.
type CategoryMappingModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_category_mappings_user_bank"`
	BankCategory string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_category_mappings_user_bank"`
	CategoryID   uuid.UUID `gorm:"type:uuid;not null"`
	CategoryName string    `gorm:"type:varchar(100);not null"`
	Confidence   float64   `gorm:"type:decimal(4,3);not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the CategoryMappingModel.
func (CategoryMappingModel) TableName() string {
	return "category_mappings"
}

// ToEntity converts a CategoryMappingModel to a domain entity.
func (m *CategoryMappingModel) ToEntity() *entity.CategoryMapping {
	return &entity.CategoryMapping{
		ID:           m.ID,
		UserID:       m.UserID,
		BankCategory: m.BankCategory,
		CategoryID:   m.CategoryID,
		CategoryName: m.CategoryName,
		Confidence:   m.Confidence,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// CategoryMappingFromEntity creates a model from a domain entity.
func CategoryMappingFromEntity(mapping *entity.CategoryMapping) *CategoryMappingModel {
	return &CategoryMappingModel{
		ID:           mapping.ID,
		UserID:       mapping.UserID,
		BankCategory: mapping.BankCategory,
		CategoryID:   mapping.CategoryID,
		CategoryName: mapping.CategoryName,
		Confidence:   mapping.Confidence,
		CreatedAt:    mapping.CreatedAt,
		UpdatedAt:    mapping.UpdatedAt,
	}
}
