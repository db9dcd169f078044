// Package model defines database models for persistence layer.
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/domain/entity"
	"github.com/ledgerline/backend/internal/domain/valueobject"
)

// AuditLogModel represents the reconciliation_audit_log table. Rows are
// append-only; there is no update or delete path.
type AuditLogModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Action    string    `gorm:"type:varchar(50);not null"`
	Details   []byte    `gorm:"type:jsonb"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for the AuditLogModel.
func (AuditLogModel) TableName() string {
	return "reconciliation_audit_log"
}

// ToEntity converts an AuditLogModel to a domain AuditLogEntry.
func (m *AuditLogModel) ToEntity() *entity.AuditLogEntry {
	return &entity.AuditLogEntry{
		ID:        m.ID,
		SessionID: m.SessionID,
		UserID:    m.UserID,
		Action:    valueobject.AuditAction(m.Action),
		Details:   json.RawMessage(m.Details),
		CreatedAt: m.CreatedAt,
	}
}

// AuditLogFromEntity creates an AuditLogModel from a domain AuditLogEntry.
func AuditLogFromEntity(entry *entity.AuditLogEntry) *AuditLogModel {
	return &AuditLogModel{
		ID:        entry.ID,
		SessionID: entry.SessionID,
		UserID:    entry.UserID,
		Action:    string(entry.Action),
		Details:   []byte(entry.Details),
		CreatedAt: entry.CreatedAt,
	}
}
