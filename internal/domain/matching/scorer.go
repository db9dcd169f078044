package matching

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/backend/internal/domain/valueobject"
)

// Scoring weights. An exact external-id match is always 1.0 and bypasses
// the formula; everything else starts from the base, loses up to the date
// and amount penalties proportionally to how far inside the tolerance
// window the candidate sits, and gains a bounded description bonus.
const (
	baseScore     = 0.90
	datePenalty   = 0.25
	amountPenalty = 0.25
	descBonus     = 0.10
)

// ScoreInput carries the primitive signals of one candidate pair.
type ScoreInput struct {
	AmountA decimal.Decimal
	AmountB decimal.Decimal
	DateA   time.Time
	DateB   time.Time
	DescA   string
	DescB   string
}

// ScoreResult is a scored candidate pair.
type ScoreResult struct {
	Confidence   float64
	Method       valueobject.MatchMethod
	DateDiffDays int
	AmountDiff   decimal.Decimal
}

// Score combines the primitive signals into a single confidence value.
// It returns ok=false when the amount or date check fails, or when the
// resulting confidence falls below p.MinConfidence; absence of a match is a
// normal outcome, never an error.
func Score(in ScoreInput, p valueobject.MatchParams) (ScoreResult, bool) {
	amountDiff := AmountDistance(in.AmountA, in.AmountB)
	if !amountDiff.LessThanOrEqual(p.AmountTolerance) {
		return ScoreResult{}, false
	}

	dateDiff := DaysApart(in.DateA, in.DateB)
	if p.UseDateRangeMatching {
		if dateDiff > p.DateToleranceDays {
			return ScoreResult{}, false
		}
	} else if dateDiff != 0 {
		return ScoreResult{}, false
	}

	confidence := baseScore
	if p.DateToleranceDays > 0 {
		confidence -= datePenalty * float64(dateDiff) / float64(p.DateToleranceDays)
	}
	if p.AmountTolerance.IsPositive() {
		frac, _ := amountDiff.Div(p.AmountTolerance).Float64()
		confidence -= amountPenalty * frac
	}
	if p.UseDescriptionMatching {
		confidence += descBonus * DescriptionSimilarity(in.DescA, in.DescB)
	}

	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	if confidence < p.MinConfidence {
		return ScoreResult{}, false
	}

	method := valueobject.MatchMethodFuzzy
	if amountDiff.IsZero() && dateDiff == 0 {
		method = valueobject.MatchMethodExact
	}

	return ScoreResult{
		Confidence:   confidence,
		Method:       method,
		DateDiffDays: dateDiff,
		AmountDiff:   amountDiff,
	}, true
}

// betterCandidate reports whether a should be preferred over b under the
// deterministic tie-break order: higher confidence, then smaller date
// distance, then smaller amount distance, then lowest id.
func betterCandidate(aConf float64, aDate int, aAmount decimal.Decimal, aID string,
	bConf float64, bDate int, bAmount decimal.Decimal, bID string) bool {
	if aConf != bConf {
		return aConf > bConf
	}
	if aDate != bDate {
		return aDate < bDate
	}
	if !aAmount.Equal(bAmount) {
		return aAmount.LessThan(bAmount)
	}
	return aID < bID
}
