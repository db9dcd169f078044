// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"github.com/shopspring/decimal"

	"github.com/ledgerline/backend/internal/domain/valueobject"
)

// overrideParams applies per-request tolerance overrides on top of the
// configured feature defaults. Returns nil when the request carries no
// overrides, letting the use case fall back to its configuration.
func overrideParams(
	base valueobject.MatchParams,
	dateToleranceDays *int,
	amountTolerance *float64,
	minConfidence *float64,
) *valueobject.MatchParams {
	if dateToleranceDays == nil && amountTolerance == nil && minConfidence == nil {
		return nil
	}

	params := base
	if dateToleranceDays != nil {
		params.DateToleranceDays = *dateToleranceDays
	}
	if amountTolerance != nil {
		params.AmountTolerance = decimal.NewFromFloat(*amountTolerance)
	}
	if minConfidence != nil {
		params.MinConfidence = *minConfidence
	}
	return &params
}
