// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// AccountRepository defines the interface for account persistence operations.
type AccountRepository interface {
	// Create creates a new account in the database.
	Create(ctx context.Context, account *entity.Account) error

	// FindByID retrieves an account by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByUser retrieves all accounts for a given user.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Account, error)

	// StampReconciliation records the completion of a reconciliation on the
	// account: when it ran and the statement balance it reconciled against.
	StampReconciliation(
		ctx context.Context,
		accountID uuid.UUID,
		reconciledAt time.Time,
		balance decimal.Decimal,
	) error
}
