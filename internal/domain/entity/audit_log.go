package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/backend/internal/domain/valueobject"
)

// AuditLogEntry is an append-only record of a reconciliation decision.
// Entries are never mutated or deleted. Details holds the serialized form of
// the typed audit event that produced the entry; serialization happens at
// the persistence boundary.
type AuditLogEntry struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	UserID    uuid.UUID
	Action    valueobject.AuditAction
	Details   json.RawMessage
	CreatedAt time.Time
}
