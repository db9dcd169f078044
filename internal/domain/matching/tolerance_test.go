package matching

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAmountWithinTolerance(t *testing.T) {
	tests := []struct {
		name      string
		a         string
		b         string
		tolerance string
		want      bool
	}{
		{name: "equal amounts", a: "-45.00", b: "-45.00", tolerance: "0.00", want: true},
		{name: "inside tolerance", a: "-20.00", b: "-20.01", tolerance: "0.05", want: true},
		{name: "at tolerance boundary", a: "-20.00", b: "-20.05", tolerance: "0.05", want: true},
		{name: "outside tolerance", a: "-20.00", b: "-20.06", tolerance: "0.05", want: false},
		{name: "opposite order", a: "-20.01", b: "-20.00", tolerance: "0.05", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := decimal.RequireFromString(tt.a)
			b := decimal.RequireFromString(tt.b)
			tol := decimal.RequireFromString(tt.tolerance)

			if got := AmountWithinTolerance(a, b, tol); got != tt.want {
				t.Errorf("AmountWithinTolerance(%s, %s, %s) = %v, want %v", tt.a, tt.b, tt.tolerance, got, tt.want)
			}
		})
	}
}

func TestDaysApart(t *testing.T) {
	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want int
	}{
		{
			name: "same day",
			a:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "same day different hours",
			a:    time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "one day apart",
			a:    time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "negative direction",
			a:    time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
			want: 7,
		},
		{
			name: "across month boundary",
			a:    time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysApart(tt.a, tt.b); got != tt.want {
				t.Errorf("DaysApart() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDescriptionSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		min  float64
		max  float64
	}{
		{name: "identical", a: "Coffee Shop", b: "Coffee Shop", min: 1.0, max: 1.0},
		{name: "case insensitive", a: "coffee shop", b: "COFFEE SHOP", min: 1.0, max: 1.0},
		{name: "store number suffix", a: "Coffee Shop", b: "COFFEE SHOP #442", min: 0.6, max: 1.0},
		{name: "punctuation ignored", a: "AMZN*Marketplace", b: "AMZN Marketplace", min: 1.0, max: 1.0},
		{name: "unrelated", a: "Grocery Store", b: "Gas Station", min: 0.0, max: 0.4},
		{name: "empty left", a: "", b: "Coffee Shop", min: 0.0, max: 0.0},
		{name: "empty both", a: "", b: "", min: 0.0, max: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DescriptionSimilarity(tt.a, tt.b)
			if got < tt.min || got > tt.max {
				t.Errorf("DescriptionSimilarity(%q, %q) = %f, want in [%f, %f]", tt.a, tt.b, got, tt.min, tt.max)
			}
		})
	}
}

func TestDescriptionSimilarity_Symmetric(t *testing.T) {
	a, b := "Coffee Shop", "COFFEE SHOP #442"
	if DescriptionSimilarity(a, b) != DescriptionSimilarity(b, a) {
		t.Error("expected similarity to be symmetric")
	}
}
