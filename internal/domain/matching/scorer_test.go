package matching

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/backend/internal/domain/valueobject"
)

func testParams() valueobject.MatchParams {
	return valueobject.MatchParams{
		AmountTolerance:        decimal.RequireFromString("0.05"),
		DateToleranceDays:      2,
		MinConfidence:          0.5,
		UseDescriptionMatching: true,
		UseDateRangeMatching:   true,
	}
}

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestScore_ExactAmountAndDate(t *testing.T) {
	result, ok := Score(ScoreInput{
		AmountA: decimal.RequireFromString("-45.00"),
		AmountB: decimal.RequireFromString("-45.00"),
		DateA:   day(1),
		DateB:   day(1),
		DescA:   "Coffee Shop",
		DescB:   "Coffee Shop",
	}, testParams())

	if !ok {
		t.Fatal("expected a match")
	}
	if result.Method != valueobject.MatchMethodExact {
		t.Errorf("expected method exact, got %s", result.Method)
	}
	if result.Confidence != 1.0 {
		t.Errorf("expected confidence 1.0 for identical records, got %f", result.Confidence)
	}
}

func TestScore_FuzzyWithinTolerance(t *testing.T) {
	result, ok := Score(ScoreInput{
		AmountA: decimal.RequireFromString("-20.00"),
		AmountB: decimal.RequireFromString("-20.01"),
		DateA:   day(5),
		DateB:   day(6),
	}, testParams())

	if !ok {
		t.Fatal("expected a match")
	}
	if result.Method != valueobject.MatchMethodFuzzy {
		t.Errorf("expected method fuzzy, got %s", result.Method)
	}
	if result.Confidence <= 0 || result.Confidence >= 1 {
		t.Errorf("expected confidence strictly between 0 and 1, got %f", result.Confidence)
	}
	if result.DateDiffDays != 1 {
		t.Errorf("expected date diff 1, got %d", result.DateDiffDays)
	}
}

func TestScore_Rejections(t *testing.T) {
	tests := []struct {
		name string
		in   ScoreInput
	}{
		{
			name: "amount outside tolerance",
			in: ScoreInput{
				AmountA: decimal.RequireFromString("-20.00"),
				AmountB: decimal.RequireFromString("-20.10"),
				DateA:   day(1),
				DateB:   day(1),
			},
		},
		{
			name: "date outside window",
			in: ScoreInput{
				AmountA: decimal.RequireFromString("-20.00"),
				AmountB: decimal.RequireFromString("-20.00"),
				DateA:   day(1),
				DateB:   day(10),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Score(tt.in, testParams()); ok {
				t.Error("expected no match")
			}
		})
	}
}

func TestScore_MinConfidenceCutoff(t *testing.T) {
	p := testParams()
	p.MinConfidence = 0.99

	// Max date and amount distance: confidence well below the cutoff.
	_, ok := Score(ScoreInput{
		AmountA: decimal.RequireFromString("-20.00"),
		AmountB: decimal.RequireFromString("-20.05"),
		DateA:   day(1),
		DateB:   day(3),
	}, p)
	if ok {
		t.Error("expected candidate below minConfidence to be discarded")
	}
}

func TestScore_DateRangeMatchingDisabled(t *testing.T) {
	p := testParams()
	p.UseDateRangeMatching = false

	if _, ok := Score(ScoreInput{
		AmountA: decimal.RequireFromString("-20.00"),
		AmountB: decimal.RequireFromString("-20.00"),
		DateA:   day(1),
		DateB:   day(2),
	}, p); ok {
		t.Error("expected different-day candidate to be rejected when date range matching is off")
	}

	if _, ok := Score(ScoreInput{
		AmountA: decimal.RequireFromString("-20.00"),
		AmountB: decimal.RequireFromString("-20.00"),
		DateA:   day(1),
		DateB:   day(1),
	}, p); !ok {
		t.Error("expected same-day candidate to match when date range matching is off")
	}
}

func TestScore_ConfidenceAlwaysInRange(t *testing.T) {
	amounts := []string{"-20.00", "-20.01", "-20.03", "-20.05"}
	for _, a := range amounts {
		for _, b := range amounts {
			for da := 1; da <= 3; da++ {
				for db := 1; db <= 3; db++ {
					result, ok := Score(ScoreInput{
						AmountA: decimal.RequireFromString(a),
						AmountB: decimal.RequireFromString(b),
						DateA:   day(da),
						DateB:   day(db),
						DescA:   "Grocery Store",
						DescB:   "GROCERY STORE 11",
					}, testParams())
					if !ok {
						continue
					}
					if result.Confidence < 0 || result.Confidence > 1 {
						t.Fatalf("confidence %f out of [0,1] for %s/%s days %d/%d", result.Confidence, a, b, da, db)
					}
					if result.Confidence < testParams().MinConfidence {
						t.Fatalf("returned candidate below minConfidence: %f", result.Confidence)
					}
				}
			}
		}
	}
}

func TestScore_DescriptionBonusIsBounded(t *testing.T) {
	base, ok := Score(ScoreInput{
		AmountA: decimal.RequireFromString("-20.00"),
		AmountB: decimal.RequireFromString("-20.01"),
		DateA:   day(1),
		DateB:   day(2),
	}, testParams())
	if !ok {
		t.Fatal("expected base candidate to match")
	}

	boosted, ok := Score(ScoreInput{
		AmountA: decimal.RequireFromString("-20.00"),
		AmountB: decimal.RequireFromString("-20.01"),
		DateA:   day(1),
		DateB:   day(2),
		DescA:   "Electric Bill",
		DescB:   "Electric Bill",
	}, testParams())
	if !ok {
		t.Fatal("expected boosted candidate to match")
	}

	bonus := boosted.Confidence - base.Confidence
	if bonus <= 0 || bonus > descBonus+1e-9 {
		t.Errorf("description bonus %f outside (0, %f]", bonus, descBonus)
	}
}
