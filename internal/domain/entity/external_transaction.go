package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExternalTransaction is a bank-side transaction record supplied by a bank
// data provider. It is immutable as seen by the matching core; the provider
// id is stable across fetches.
type ExternalTransaction struct {
	ExternalID   string
	Amount       decimal.Decimal
	Date         time.Time
	Description  string
	BankCategory *string
	Reference    *string
}
