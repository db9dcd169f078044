package matching

import (
	"sort"

	"github.com/ledgerline/backend/internal/domain/entity"
	"github.com/ledgerline/backend/internal/domain/valueobject"
)

// DuplicateParams controls one duplicate detection run.
type DuplicateParams struct {
	Tolerance       valueobject.MatchParams
	IncludeReviewed bool
	SameAccountOnly bool
}

// DetectDuplicates groups transactions that likely represent the same
// real-world event entered twice. Grouping is the transitive closure over
// pairwise matches above threshold: if A~B and B~C both pass, A, B and C
// form one group even when A~C alone would not pass. Groups whose member
// set is a subset of a previously dismissed set are suppressed.
func DetectDuplicates(
	transactions []*entity.Transaction,
	dismissals []*entity.DuplicateDismissal,
	p DuplicateParams,
) []*entity.DuplicateGroup {
	candidates := make([]*entity.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.DeletedAt != nil {
			continue
		}
		if !p.IncludeReviewed && t.Reviewed {
			continue
		}
		candidates = append(candidates, t)
	}

	// Union-find over candidate indices; pairScore keeps the best score seen
	// for any pair inside a component.
	parent := make([]int, len(candidates))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(i, j int) {
		ri, rj := find(i), find(j)
		if ri != rj {
			parent[rj] = ri
		}
	}

	type pairKey struct{ a, b int }
	pairScores := make(map[pairKey]float64)

	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			if p.SameAccountOnly && a.AccountID != b.AccountID {
				continue
			}
			score, ok := Score(ScoreInput{
				AmountA: a.Amount,
				AmountB: b.Amount,
				DateA:   a.Date,
				DateB:   b.Date,
				DescA:   a.Description,
				DescB:   b.Description,
			}, p.Tolerance)
			if !ok {
				continue
			}
			union(i, j)
			pairScores[pairKey{i, j}] = score.Confidence
		}
	}

	components := make(map[int][]int)
	for i := range candidates {
		root := find(i)
		components[root] = append(components[root], i)
	}

	var groups []*entity.DuplicateGroup
	for _, members := range components {
		if len(members) < 2 {
			continue
		}

		highest := 0.0
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				a, b := members[i], members[j]
				if a > b {
					a, b = b, a
				}
				if s, ok := pairScores[pairKey{a, b}]; ok && s > highest {
					highest = s
				}
			}
		}

		group := &entity.DuplicateGroup{HighestConfidence: highest}
		for _, i := range members {
			group.Transactions = append(group.Transactions, candidates[i])
		}
		sort.SliceStable(group.Transactions, func(i, j int) bool {
			a, b := group.Transactions[i], group.Transactions[j]
			if !a.Date.Equal(b.Date) {
				return a.Date.Before(b.Date)
			}
			return a.ID.String() < b.ID.String()
		})

		if isDismissed(group, dismissals) {
			continue
		}
		groups = append(groups, group)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].HighestConfidence != groups[j].HighestConfidence {
			return groups[i].HighestConfidence > groups[j].HighestConfidence
		}
		return groups[i].Transactions[0].ID.String() < groups[j].Transactions[0].ID.String()
	})

	return groups
}

func isDismissed(group *entity.DuplicateGroup, dismissals []*entity.DuplicateDismissal) bool {
	memberIDs := group.MemberIDs()
	for _, d := range dismissals {
		if d.Covers(memberIDs) {
			return true
		}
	}
	return false
}
