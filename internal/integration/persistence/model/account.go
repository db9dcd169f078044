// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// AccountModel represents the accounts table in the database.
type AccountModel struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name   string    `gorm:"type:varchar(100);not null"`
	Type   string    `gorm:"type:varchar(20);not null"`

	LastReconciledAt      *time.Time       `gorm:"type:timestamp"`
	LastReconciledBalance *decimal.Decimal `gorm:"type:decimal(15,2)"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the AccountModel.
func (AccountModel) TableName() string {
	return "accounts"
}

// ToEntity converts an AccountModel to a domain Account entity.
func (m *AccountModel) ToEntity() *entity.Account {
	return &entity.Account{
		ID:                    m.ID,
		UserID:                m.UserID,
		Name:                  m.Name,
		Type:                  entity.AccountType(m.Type),
		LastReconciledAt:      m.LastReconciledAt,
		LastReconciledBalance: m.LastReconciledBalance,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

// AccountFromEntity creates an AccountModel from a domain Account entity.
func AccountFromEntity(account *entity.Account) *AccountModel {
	return &AccountModel{
		ID:                    account.ID,
		UserID:                account.UserID,
		Name:                  account.Name,
		Type:                  string(account.Type),
		LastReconciledAt:      account.LastReconciledAt,
		LastReconciledBalance: account.LastReconciledBalance,
		CreatedAt:             account.CreatedAt,
		UpdatedAt:             account.UpdatedAt,
	}
}
