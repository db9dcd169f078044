// Package valueobject contains domain value objects for the Ledgerline system.
package valueobject

import "github.com/shopspring/decimal"

// FeatureTolerances is the tolerance window for one matching feature.
type FeatureTolerances struct {
	AmountTolerance   decimal.Decimal
	DateToleranceDays int
	MinConfidence     float64
}

// MatchingConfig is the single shared configuration for all three matching
// features. Each feature has its own named tolerances instead of scattered
// literal constants.
type MatchingConfig struct {
	Reconciliation FeatureTolerances
	Duplicate      FeatureTolerances
	Transfer       FeatureTolerances

	// AutoReviewThreshold is the minimum category-mapping confidence at
	// which imported bank rows are marked reviewed without user action.
	AutoReviewThreshold float64
}

// DefaultMatchingConfig returns the default matching configuration.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		Reconciliation: FeatureTolerances{
			AmountTolerance:   decimal.NewFromFloat(0.05),
			DateToleranceDays: 3,
			MinConfidence:     0.5,
		},
		Duplicate: FeatureTolerances{
			AmountTolerance:   decimal.NewFromFloat(0.01),
			DateToleranceDays: 1,
			MinConfidence:     0.6,
		},
		Transfer: FeatureTolerances{
			AmountTolerance:   decimal.NewFromFloat(0.01),
			DateToleranceDays: 2,
			MinConfidence:     0.6,
		},
		AutoReviewThreshold: 0.8,
	}
}

// MatchParams are the per-run parameters handed to a matching engine.
// Callers may override the feature defaults per invocation.
type MatchParams struct {
	AmountTolerance        decimal.Decimal
	DateToleranceDays      int
	MinConfidence          float64
	UseDescriptionMatching bool
	UseDateRangeMatching   bool
}

// Params converts feature tolerances into engine parameters.
func (t FeatureTolerances) Params() MatchParams {
	return MatchParams{
		AmountTolerance:        t.AmountTolerance,
		DateToleranceDays:      t.DateToleranceDays,
		MinConfidence:          t.MinConfidence,
		UseDescriptionMatching: true,
		UseDateRangeMatching:   true,
	}
}
