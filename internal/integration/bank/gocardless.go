// Package bank decodes provider-specific statement payloads.
package bank

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

const gocardlessDateLayout = "2006-01-02"

// gocardlessTransaction mirrors the subset of the GoCardless Bank Account
// Data (Nordigen) transaction schema we consume.
type gocardlessTransaction struct {
	TransactionID     string `json:"transactionId"`
	BookingDate       string `json:"bookingDate"`
	TransactionAmount struct {
		Amount decimal.Decimal `json:"amount"`
	} `json:"transactionAmount"`
	RemittanceInformation string  `json:"remittanceInformationUnstructured"`
	MerchantCategoryCode  *string `json:"merchantCategoryCode"`
	EndToEndID            *string `json:"endToEndId"`
}

type gocardlessPayload struct {
	Transactions struct {
		Booked []gocardlessTransaction `json:"booked"`
	} `json:"transactions"`
}

// GoCardlessDecoder decodes GoCardless Bank Account Data payloads. Only
// booked transactions are taken; pending ones have no stable identity yet.
type GoCardlessDecoder struct{}

// NewGoCardlessDecoder creates a new GoCardless decoder.
func NewGoCardlessDecoder() *GoCardlessDecoder {
	return &GoCardlessDecoder{}
}

// Provider returns the provider key the decoder is registered under.
func (d *GoCardlessDecoder) Provider() string {
	return "gocardless"
}

// Decode parses a GoCardless payload into external transactions.
func (d *GoCardlessDecoder) Decode(payload []byte) ([]entity.ExternalTransaction, error) {
	var parsed gocardlessPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, domainerror.NewReconciliationError(
			domainerror.ErrCodeInvalidStatementPayload,
			"failed to parse gocardless payload",
			err,
		)
	}

	externals := make([]entity.ExternalTransaction, 0, len(parsed.Transactions.Booked))
	for _, tx := range parsed.Transactions.Booked {
		date, err := time.Parse(gocardlessDateLayout, tx.BookingDate)
		if err != nil {
			return nil, domainerror.NewReconciliationError(
				domainerror.ErrCodeInvalidStatementPayload,
				"invalid booking date in gocardless transaction "+tx.TransactionID,
				err,
			)
		}

		externals = append(externals, entity.ExternalTransaction{
			ExternalID:   tx.TransactionID,
			Amount:       tx.TransactionAmount.Amount,
			Date:         date,
			Description:  tx.RemittanceInformation,
			BankCategory: tx.MerchantCategoryCode,
			Reference:    tx.EndToEndID,
		})
	}
	return externals, nil
}
