// Package bank decodes provider-specific statement payloads.
package bank

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

const plaidDateLayout = "2006-01-02"

// plaidTransaction mirrors the subset of Plaid's transaction schema we consume.
type plaidTransaction struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Name          string          `json:"name"`
	Category      struct {
		Primary string `json:"primary"`
	} `json:"personal_finance_category"`
	PaymentMeta struct {
		ReferenceNumber *string `json:"reference_number"`
	} `json:"payment_meta"`
}

type plaidPayload struct {
	Transactions []plaidTransaction `json:"transactions"`
}

// PlaidDecoder decodes Plaid transaction sync payloads.
type PlaidDecoder struct{}

// NewPlaidDecoder creates a new Plaid decoder.
func NewPlaidDecoder() *PlaidDecoder {
	return &PlaidDecoder{}
}

// Provider returns the provider key the decoder is registered under.
func (d *PlaidDecoder) Provider() string {
	return "plaid"
}

// Decode parses a Plaid payload into external transactions.
func (d *PlaidDecoder) Decode(payload []byte) ([]entity.ExternalTransaction, error) {
	var parsed plaidPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidStatementPayload,
			"failed to parse plaid payload",
			err,
		)
	}

	externals := make([]entity.ExternalTransaction, 0, len(parsed.Transactions))
	for _, tx := range parsed.Transactions {
		date, err := time.Parse(plaidDateLayout, tx.Date)
		if err != nil {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeInvalidStatementPayload,
				"invalid date in plaid transaction "+tx.TransactionID,
				err,
			)
		}

		var bankCategory *string
		if tx.Category.Primary != "" {
			category := tx.Category.Primary
			bankCategory = &category
		}

		externals = append(externals, entity.ExternalTransaction{
			ExternalID: tx.TransactionID,
			// Plaid reports outflows as positive amounts; the ledger convention
			// is the opposite.
			Amount:       tx.Amount.Neg(),
			Date:         date,
			Description:  tx.Name,
			BankCategory: bankCategory,
			Reference:    tx.PaymentMeta.ReferenceNumber,
		})
	}
	return externals, nil
}
