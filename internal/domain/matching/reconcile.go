package matching

import (
	"sort"

	"github.com/ledgerline/backend/internal/domain/entity"
	"github.com/ledgerline/backend/internal/domain/valueobject"
)

// MatchedPair pairs one internal transaction with one external record.
// Every internal and external record appears in at most one pair per run.
type MatchedPair struct {
	Internal   *entity.Transaction
	External   entity.ExternalTransaction
	Confidence float64
	Method     valueobject.MatchMethod
}

// MatchResult is the outcome of one statement matching pass.
type MatchResult struct {
	Pairs             []MatchedPair
	UnmatchedBank     []entity.ExternalTransaction
	UnmatchedInternal []*entity.Transaction
	ExactMatches      int
	FuzzyMatches      int
	MatchPercentage   float64
}

// MatchStatement pairs external (bank) records against internal
// transactions. Pass one matches by external-id equality (confidence 1.0,
// method Exact); pass two runs the tolerance scorer for whatever remains.
// Each record on either side is consumed by at most one pass.
func MatchStatement(
	externals []entity.ExternalTransaction,
	internals []*entity.Transaction,
	p valueobject.MatchParams,
) MatchResult {
	result := MatchResult{}

	// Stable processing order keeps results reproducible regardless of the
	// order records were loaded in.
	ordered := make([]entity.ExternalTransaction, len(externals))
	copy(ordered, externals)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].ExternalID < ordered[j].ExternalID
	})

	consumed := make(map[int]bool, len(internals))

	byExternalID := make(map[string]int, len(internals))
	for i, t := range internals {
		if t.ExternalID != nil && *t.ExternalID != "" {
			byExternalID[*t.ExternalID] = i
		}
	}

	// Pass one: external-id equality.
	var remaining []entity.ExternalTransaction
	for _, ext := range ordered {
		if i, ok := byExternalID[ext.ExternalID]; ok && !consumed[i] {
			consumed[i] = true
			result.Pairs = append(result.Pairs, MatchedPair{
				Internal:   internals[i],
				External:   ext,
				Confidence: 1.0,
				Method:     valueobject.MatchMethodExact,
			})
			continue
		}
		remaining = append(remaining, ext)
	}

	// Pass two: tolerance matching over the remainders.
	for _, ext := range remaining {
		best := -1
		var bestScore ScoreResult

		for i, t := range internals {
			if consumed[i] {
				continue
			}
			score, ok := Score(ScoreInput{
				AmountA: ext.Amount,
				AmountB: t.Amount,
				DateA:   ext.Date,
				DateB:   t.Date,
				DescA:   ext.Description,
				DescB:   t.Description,
			}, p)
			if !ok {
				continue
			}
			if best < 0 || betterCandidate(
				score.Confidence, score.DateDiffDays, score.AmountDiff, t.ID.String(),
				bestScore.Confidence, bestScore.DateDiffDays, bestScore.AmountDiff, internals[best].ID.String(),
			) {
				best = i
				bestScore = score
			}
		}

		if best < 0 {
			result.UnmatchedBank = append(result.UnmatchedBank, ext)
			continue
		}

		consumed[best] = true
		result.Pairs = append(result.Pairs, MatchedPair{
			Internal:   internals[best],
			External:   ext,
			Confidence: bestScore.Confidence,
			Method:     bestScore.Method,
		})
	}

	for i, t := range internals {
		if !consumed[i] {
			result.UnmatchedInternal = append(result.UnmatchedInternal, t)
		}
	}

	for _, pair := range result.Pairs {
		if pair.Method == valueobject.MatchMethodExact {
			result.ExactMatches++
		} else {
			result.FuzzyMatches++
		}
	}

	if len(externals) > 0 {
		result.MatchPercentage = float64(len(result.Pairs)) / float64(len(externals)) * 100
	}

	return result
}
