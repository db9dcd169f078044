package entity

import (
	"time"

	"github.com/google/uuid"
)

// CategoryMapping maps a bank-provided category string to an internal
// category for one user. Confidence expresses how reliable the mapping is;
// imports auto-mark rows reviewed only above the auto-review threshold.
type CategoryMapping struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	BankCategory string
	CategoryID   uuid.UUID
	CategoryName string
	Confidence   float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewCategoryMapping creates a mapping for a user's bank category label.
func NewCategoryMapping(
	userID uuid.UUID,
	bankCategory string,
	categoryID uuid.UUID,
	categoryName string,
	confidence float64,
) *CategoryMapping {
	now := time.Now().UTC()

	return &CategoryMapping{
		ID:           uuid.New(),
		UserID:       userID,
		BankCategory: bankCategory,
		CategoryID:   categoryID,
		CategoryName: categoryName,
		Confidence:   confidence,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
