package entity

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// DuplicateGroup is a set of two or more transactions believed to represent
// one real-world event. Groups are recomputed per detection run and never
// persisted; only dismissals are durable.
type DuplicateGroup struct {
	Transactions      []*Transaction
	HighestConfidence float64
}

// MemberIDs returns the sorted member transaction ids of the group.
// The sorted set is the group's stable identity across detection runs.
func (g *DuplicateGroup) MemberIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(g.Transactions))
	for i, t := range g.Transactions {
		ids[i] = t.ID
	}
	sortUUIDs(ids)
	return ids
}

// DuplicateDismissal records a user's "not a duplicate" decision, keyed by
// the sorted set of member transaction ids. Future detection runs suppress
// any group whose member set is a subset of a dismissed set.
type DuplicateDismissal struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	TransactionIDs []uuid.UUID // sorted
	CreatedAt      time.Time
}

// NewDuplicateDismissal creates a dismissal for the given member set.
func NewDuplicateDismissal(userID uuid.UUID, transactionIDs []uuid.UUID) *DuplicateDismissal {
	ids := make([]uuid.UUID, len(transactionIDs))
	copy(ids, transactionIDs)
	sortUUIDs(ids)

	return &DuplicateDismissal{
		ID:             uuid.New(),
		UserID:         userID,
		TransactionIDs: ids,
		CreatedAt:      time.Now().UTC(),
	}
}

// Covers reports whether every id in memberIDs is part of this dismissal.
func (d *DuplicateDismissal) Covers(memberIDs []uuid.UUID) bool {
	dismissed := make(map[uuid.UUID]struct{}, len(d.TransactionIDs))
	for _, id := range d.TransactionIDs {
		dismissed[id] = struct{}{}
	}
	for _, id := range memberIDs {
		if _, ok := dismissed[id]; !ok {
			return false
		}
	}
	return true
}

func sortUUIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
}
