// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ledgerline/backend/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
type TransactionModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date        time.Time       `gorm:"type:date;not null;index"`
	Description string          `gorm:"type:varchar(255);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Type        string          `gorm:"type:varchar(10);not null;index"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Notes       string          `gorm:"type:text"`

	ExternalID *string `gorm:"type:varchar(128);index"`
	Reviewed   bool    `gorm:"default:false"`
	Reconciled bool    `gorm:"default:false;index"`

	TransferID        *uuid.UUID `gorm:"type:uuid;index"`
	TransferDirection *string    `gorm:"type:varchar(11)"`

	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	DeletedAt gorm.DeletedAt `gorm:"index"` // Soft-delete support

	// Relationships (not loaded by default, use Preload)
	Account *AccountModel `gorm:"foreignKey:AccountID;references:ID"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	var deletedAt *time.Time
	if m.DeletedAt.Valid {
		deletedAt = &m.DeletedAt.Time
	}

	var direction *entity.TransferDirection
	if m.TransferDirection != nil {
		d := entity.TransferDirection(*m.TransferDirection)
		direction = &d
	}

	return &entity.Transaction{
		ID:                m.ID,
		UserID:            m.UserID,
		AccountID:         m.AccountID,
		Date:              m.Date,
		Description:       m.Description,
		Amount:            m.Amount,
		Type:              entity.TransactionType(m.Type),
		CategoryID:        m.CategoryID,
		Notes:             m.Notes,
		ExternalID:        m.ExternalID,
		Reviewed:          m.Reviewed,
		Reconciled:        m.Reconciled,
		TransferID:        m.TransferID,
		TransferDirection: direction,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
		DeletedAt:         deletedAt,
	}
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(transaction *entity.Transaction) *TransactionModel {
	var deletedAt gorm.DeletedAt
	if transaction.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *transaction.DeletedAt, Valid: true}
	}

	var direction *string
	if transaction.TransferDirection != nil {
		d := string(*transaction.TransferDirection)
		direction = &d
	}

	return &TransactionModel{
		ID:                transaction.ID,
		UserID:            transaction.UserID,
		AccountID:         transaction.AccountID,
		Date:              transaction.Date,
		Description:       transaction.Description,
		Amount:            transaction.Amount,
		Type:              string(transaction.Type),
		CategoryID:        transaction.CategoryID,
		Notes:             transaction.Notes,
		ExternalID:        transaction.ExternalID,
		Reviewed:          transaction.Reviewed,
		Reconciled:        transaction.Reconciled,
		TransferID:        transaction.TransferID,
		TransferDirection: direction,
		CreatedAt:         transaction.CreatedAt,
		UpdatedAt:         transaction.UpdatedAt,
		DeletedAt:         deletedAt,
	}
}
