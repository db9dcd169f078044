package matching

import (
	"sort"

	"github.com/ledgerline/backend/internal/domain/entity"
	"github.com/ledgerline/backend/internal/domain/valueobject"
)

// TransferParams controls one transfer detection run.
type TransferParams struct {
	Tolerance                valueobject.MatchParams
	IncludeReviewed          bool
	IncludeExistingTransfers bool
}

// DetectTransfers finds pairs of transactions across two different accounts
// that represent one manual transfer: an outflow on the source side, an
// inflow of near-equal amount on the destination side, within the date
// window. Transfers are strictly pairwise; there is no transitive grouping,
// and each transaction joins at most one pair per run.
func DetectTransfers(transactions []*entity.Transaction, p TransferParams) []*entity.TransferGroup {
	var sources, destinations []*entity.Transaction
	for _, t := range transactions {
		if t.DeletedAt != nil {
			continue
		}
		if !p.IncludeReviewed && t.Reviewed {
			continue
		}
		if !p.IncludeExistingTransfers && t.TransferID != nil {
			continue
		}
		switch {
		case t.Amount.IsNegative():
			sources = append(sources, t)
		case t.Amount.IsPositive():
			destinations = append(destinations, t)
		}
	}

	type candidate struct {
		source      *entity.Transaction
		destination *entity.Transaction
		score       ScoreResult
	}

	var candidates []candidate
	for _, src := range sources {
		for _, dst := range destinations {
			if src.AccountID == dst.AccountID {
				continue
			}
			score, ok := Score(ScoreInput{
				AmountA: src.Amount.Neg(),
				AmountB: dst.Amount,
				DateA:   src.Date,
				DateB:   dst.Date,
				DescA:   src.Description,
				DescB:   dst.Description,
			}, p.Tolerance)
			if !ok {
				continue
			}
			candidates = append(candidates, candidate{source: src, destination: dst, score: score})
		}
	}

	// Best candidates first; greedy assignment then guarantees each
	// transaction lands in its strongest available pair.
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		return betterCandidate(
			a.score.Confidence, a.score.DateDiffDays, a.score.AmountDiff, a.source.ID.String()+a.destination.ID.String(),
			b.score.Confidence, b.score.DateDiffDays, b.score.AmountDiff, b.source.ID.String()+b.destination.ID.String(),
		)
	})

	taken := make(map[string]bool)
	var groups []*entity.TransferGroup
	for _, c := range candidates {
		if taken[c.source.ID.String()] || taken[c.destination.ID.String()] {
			continue
		}
		taken[c.source.ID.String()] = true
		taken[c.destination.ID.String()] = true

		groups = append(groups, &entity.TransferGroup{
			Source:       c.source,
			Destination:  c.destination,
			Confidence:   c.score.Confidence,
			MatchReasons: transferReasons(c.score),
		})
	}

	return groups
}

func transferReasons(score ScoreResult) []string {
	reasons := []string{}
	if score.AmountDiff.IsZero() {
		reasons = append(reasons, "exact_amount")
	} else {
		reasons = append(reasons, "amount_within_tolerance")
	}
	if score.DateDiffDays == 0 {
		reasons = append(reasons, "same_day")
	} else {
		reasons = append(reasons, "date_within_window")
	}
	return reasons
}
