package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType represents the type of a financial account.
type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeCredit   AccountType = "credit"
)

// Account represents a user's financial account.
type Account struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Name   string
	Type   AccountType

	// Stamped by the reconciliation lifecycle on finalize.
	LastReconciledAt      *time.Time
	LastReconciledBalance *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount creates a new Account entity.
func NewAccount(userID uuid.UUID, name string, accountType AccountType) *Account {
	now := time.Now().UTC()

	return &Account{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		Type:      accountType,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
