// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of transaction (expense or income).
type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

// TransferDirection marks which side of a linked transfer a transaction is.
type TransferDirection string

const (
	TransferDirectionSource      TransferDirection = "source"
	TransferDirectionDestination TransferDirection = "destination"
)

// Transaction represents a financial transaction in the Ledgerline system.
// Amount is negative for expenses and positive for income; the matching
// engine never flips the sign.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	AccountID   uuid.UUID
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	CategoryID  *uuid.UUID // Optional, can be uncategorized
	Notes       string

	// ExternalID is the bank-provider-assigned id when the transaction
	// originated from a bank feed. Nil for manually entered rows.
	ExternalID *string

	// Review/reconciliation state.
	Reviewed   bool
	Reconciled bool

	// Transfer linkage. Both sides of a confirmed transfer share TransferID.
	TransferID        *uuid.UUID
	TransferDirection *TransferDirection

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time // Soft-delete support
}

// NewTransaction creates a new Transaction entity.
func NewTransaction(
	userID uuid.UUID,
	accountID uuid.UUID,
	date time.Time,
	description string,
	amount decimal.Decimal,
	transactionType TransactionType,
	categoryID *uuid.UUID,
	notes string,
) *Transaction {
	now := time.Now().UTC()

	return &Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		AccountID:   accountID,
		Date:        date,
		Description: description,
		Amount:      amount,
		Type:        transactionType,
		CategoryID:  categoryID,
		Notes:       notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TypeForAmount derives the transaction type from the sign of an amount.
func TypeForAmount(amount decimal.Decimal) TransactionType {
	if amount.IsNegative() {
		return TransactionTypeExpense
	}
	return TransactionTypeIncome
}
