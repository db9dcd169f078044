// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// CategorySuggestion is a category proposal for a bank-provided category label.
type CategorySuggestion struct {
	CategoryID   uuid.UUID
	CategoryName string
	Confidence   float64
}

// CategoryMappingRepository defines persistence for learned bank-category mappings.
type CategoryMappingRepository interface {
	// FindByBankCategory retrieves a user's mapping for a bank category label, if any.
	FindByBankCategory(ctx context.Context, userID uuid.UUID, bankCategory string) (*entity.CategoryMapping, error)

	// Upsert creates or refreshes a mapping for a bank category label.
	Upsert(ctx context.Context, mapping *entity.CategoryMapping) error

	// FindByUser retrieves all mappings for a user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CategoryMapping, error)
}

// CategorySuggestionService defines the interface for inferring a category from
// a bank category label when no learned mapping exists.
type CategorySuggestionService interface {
	// Suggest proposes a category for the given bank category label.
	// Returns nil without error when no confident suggestion exists.
	Suggest(ctx context.Context, userID uuid.UUID, bankCategory string) (*CategorySuggestion, error)

	// IsAvailable checks if the suggestion service is available and properly configured.
	IsAvailable() bool
}
