package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func maxPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func testBands() []PayeBand {
	return []PayeBand{
		{Min: decimal.Zero, Max: maxPtr(60000), Rate: decimal.Zero},
		{Min: decimal.NewFromInt(60001), Max: maxPtr(100000), Rate: decimal.NewFromFloat(0.10)},
		{Min: decimal.NewFromInt(100001), Max: maxPtr(200000), Rate: decimal.NewFromFloat(0.20)},
		{Min: decimal.NewFromInt(200001), Max: nil, Rate: decimal.NewFromFloat(0.30)},
	}
}

func TestCalculatePAYEFixtures(t *testing.T) {
	bands := testBands()

	cases := []struct {
		income int64
		want   int64
	}{
		{0, 0},
		{50000, 0},
		{60000, 0},
		{80000, 2000},
		{150000, 14000},
		{250000, 39000},
		{500000, 114000},
	}
	for _, tc := range cases {
		got := CalculatePAYE(decimal.NewFromInt(tc.income), bands)
		if !got.Equal(decimal.NewFromInt(tc.want)) {
			t.Fatalf("PAYE(%d): expected %d, got %s", tc.income, tc.want, got)
		}
	}
}

func TestCalculatePAYEMonotonic(t *testing.T) {
	bands := testBands()
	previous := decimal.Zero
	for income := int64(0); income <= 400000; income += 7500 {
		tax := CalculatePAYE(decimal.NewFromInt(income), bands)
		if tax.Cmp(previous) < 0 {
			t.Fatalf("PAYE decreased at income %d: %s < %s", income, tax, previous)
		}
		previous = tax
	}
}

func TestCalculatePAYEEmptyBands(t *testing.T) {
	if got := CalculatePAYE(decimal.NewFromInt(500000), nil); !got.IsZero() {
		t.Fatalf("expected zero tax without bands, got %s", got)
	}
}

func TestCalculatePAYETopBandUnbounded(t *testing.T) {
	bands := testBands()
	// 1,000,000 gross: everything above 200,000 lands in the open-ended band.
	got := CalculatePAYE(decimal.NewFromInt(1000000), bands)
	want := decimal.NewFromInt(264000)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
