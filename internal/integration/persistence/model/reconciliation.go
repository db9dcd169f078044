// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerline/backend/internal/domain/entity"
	"github.com/ledgerline/backend/internal/domain/valueobject"
)

// ReconciliationSessionModel represents the reconciliation_sessions table.
type ReconciliationSessionModel struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	StatementEndDate    time.Time       `gorm:"type:date;not null"`
	StatementEndBalance decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CalculatedBalance   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Status              string          `gorm:"type:varchar(20);not null;index"`
	Notes               string          `gorm:"type:text"`
	CreatedAt           time.Time       `gorm:"not null"`
	CompletedAt         *time.Time      `gorm:"type:timestamp"`

	Account *AccountModel `gorm:"foreignKey:AccountID;references:ID"`
}

// TableName returns the table name for the ReconciliationSessionModel.
func (ReconciliationSessionModel) TableName() string {
	return "reconciliation_sessions"
}

// ToEntity converts a ReconciliationSessionModel to a domain entity.
func (m *ReconciliationSessionModel) ToEntity() *entity.ReconciliationSession {
	return &entity.ReconciliationSession{
		ID:                  m.ID,
		UserID:              m.UserID,
		AccountID:           m.AccountID,
		StatementEndDate:    m.StatementEndDate,
		StatementEndBalance: m.StatementEndBalance,
		CalculatedBalance:   m.CalculatedBalance,
		Status:              entity.SessionStatus(m.Status),
		Notes:               m.Notes,
		CreatedAt:           m.CreatedAt,
		CompletedAt:         m.CompletedAt,
	}
}

// ReconciliationSessionFromEntity creates a model from a domain entity.
func ReconciliationSessionFromEntity(session *entity.ReconciliationSession) *ReconciliationSessionModel {
	return &ReconciliationSessionModel{
		ID:                  session.ID,
		UserID:              session.UserID,
		AccountID:           session.AccountID,
		StatementEndDate:    session.StatementEndDate,
		StatementEndBalance: session.StatementEndBalance,
		CalculatedBalance:   session.CalculatedBalance,
		Status:              string(session.Status),
		Notes:               session.Notes,
		CreatedAt:           session.CreatedAt,
		CompletedAt:         session.CompletedAt,
	}
}

// ReconciliationItemModel represents the reconciliation_items table. The
// external transaction snapshot is flattened into nullable columns so that
// unmatched bank rows can be imported later without re-fetching.
type ReconciliationItemModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SessionID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	ItemType      string     `gorm:"type:varchar(20);not null;index"`
	TransactionID *uuid.UUID `gorm:"type:uuid;index"`
	Provider      string     `gorm:"type:varchar(50)"`

	ExternalID          *string          `gorm:"type:varchar(128)"`
	ExternalAmount      *decimal.Decimal `gorm:"type:decimal(15,2)"`
	ExternalDate        *time.Time       `gorm:"type:date"`
	ExternalDescription *string          `gorm:"type:varchar(255)"`
	BankCategory        *string          `gorm:"type:varchar(100)"`
	BankReference       *string          `gorm:"type:varchar(128)"`

	MatchConfidence float64 `gorm:"type:decimal(4,3);not null;default:0"`
	MatchMethod     string  `gorm:"type:varchar(20)"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the ReconciliationItemModel.
func (ReconciliationItemModel) TableName() string {
	return "reconciliation_items"
}

// ToEntity converts a ReconciliationItemModel to a domain entity.
func (m *ReconciliationItemModel) ToEntity() *entity.ReconciliationItem {
	var external *entity.ExternalTransaction
	if m.ExternalID != nil {
		external = &entity.ExternalTransaction{
			ExternalID:   *m.ExternalID,
			BankCategory: m.BankCategory,
			Reference:    m.BankReference,
		}
		if m.ExternalAmount != nil {
			external.Amount = *m.ExternalAmount
		}
		if m.ExternalDate != nil {
			external.Date = *m.ExternalDate
		}
		if m.ExternalDescription != nil {
			external.Description = *m.ExternalDescription
		}
	}

	return &entity.ReconciliationItem{
		ID:              m.ID,
		SessionID:       m.SessionID,
		ItemType:        entity.ReconciliationItemType(m.ItemType),
		TransactionID:   m.TransactionID,
		Provider:        m.Provider,
		External:        external,
		MatchConfidence: m.MatchConfidence,
		MatchMethod:     valueobject.MatchMethod(m.MatchMethod),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ReconciliationItemFromEntity creates a model from a domain entity.
func ReconciliationItemFromEntity(item *entity.ReconciliationItem) *ReconciliationItemModel {
	model := &ReconciliationItemModel{
		ID:              item.ID,
		SessionID:       item.SessionID,
		ItemType:        string(item.ItemType),
		TransactionID:   item.TransactionID,
		Provider:        item.Provider,
		MatchConfidence: item.MatchConfidence,
		MatchMethod:     string(item.MatchMethod),
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}

	if item.External != nil {
		externalID := item.External.ExternalID
		amount := item.External.Amount
		date := item.External.Date
		description := item.External.Description
		model.ExternalID = &externalID
		model.ExternalAmount = &amount
		model.ExternalDate = &date
		model.ExternalDescription = &description
		model.BankCategory = item.External.BankCategory
		model.BankReference = item.External.Reference
	}

	return model
}
