// Package matching implements the transaction-matching core shared by
// bank-statement reconciliation, duplicate detection, and transfer
// detection. Everything in this package is a pure function over in-memory
// collections; no I/O happens here.
package matching

import (
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/shopspring/decimal"
)

// AmountDistance returns |a - b|.
func AmountDistance(a, b decimal.Decimal) decimal.Decimal {
	return a.Sub(b).Abs()
}

// AmountWithinTolerance reports whether |a - b| <= tolerance.
func AmountWithinTolerance(a, b, tolerance decimal.Decimal) bool {
	return AmountDistance(a, b).LessThanOrEqual(tolerance)
}

// DaysApart returns the absolute calendar-day distance between two dates.
func DaysApart(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)

	d := da.Sub(db)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}

// DateWithinWindow reports whether two dates are at most toleranceDays apart.
func DateWithinWindow(a, b time.Time, toleranceDays int) bool {
	return DaysApart(a, b) <= toleranceDays
}

// DescriptionSimilarity returns a normalized similarity score in [0, 1] for
// two free-text descriptions. It combines token overlap with a levenshtein
// ratio over the normalized strings and keeps whichever signal is stronger,
// so "Coffee Shop" vs "COFFEE SHOP #442" scores high either way.
func DescriptionSimilarity(a, b string) float64 {
	tokensA := normalizeTokens(a)
	tokensB := normalizeTokens(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	overlap := tokenOverlap(tokensA, tokensB)

	normA := strings.Join(tokensA, " ")
	normB := strings.Join(tokensB, " ")
	ratio := levenshteinRatio(normA, normB)

	if overlap > ratio {
		return overlap
	}
	return ratio
}

// normalizeTokens uppercases, strips everything but letters and digits, and
// splits into tokens. Pure-number tokens are kept; bank descriptors often
// differ only by a store number.
func normalizeTokens(s string) []string {
	var sb strings.Builder
	for _, r := range strings.ToUpper(s) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteRune(' ')
		}
	}
	return strings.Fields(sb.String())
}

func tokenOverlap(a, b []string) float64 {
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}

	common := 0
	seen := make(map[string]struct{}, len(b))
	for _, t := range b {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			common++
		}
	}

	longer := len(set)
	if len(seen) > longer {
		longer = len(seen)
	}
	return float64(common) / float64(longer)
}

func levenshteinRatio(a, b string) float64 {
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 0
	}

	dist := levenshtein.ComputeDistance(a, b)
	ratio := 1 - float64(dist)/float64(longer)
	if ratio < 0 {
		return 0
	}
	return ratio
}
