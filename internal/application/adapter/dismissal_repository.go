// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// DismissalRepository defines the interface for duplicate dismissal persistence.
type DismissalRepository interface {
	// Create records a dismissed duplicate group.
	Create(ctx context.Context, dismissal *entity.DuplicateDismissal) error

	// FindByUser retrieves all dismissals recorded by a user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.DuplicateDismissal, error)
}
