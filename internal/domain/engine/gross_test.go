package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeGrossAllGrossTyped(t *testing.T) {
	settings := testSettings()
	types := []PaymentType{
		{ID: "t1", Name: BasicPayName, Kind: PaymentKindGross, Order: 1},
		{ID: "t2", Name: TransportAllowanceName, Kind: PaymentKindGross, Order: 2},
		{ID: "t3", Name: "Housing Allowance", Kind: PaymentKindGross, Order: 3},
	}
	amounts := []PaymentAmount{
		{PaymentTypeID: "t1", Amount: decimal.NewFromInt(300000)},
		{PaymentTypeID: "t2", Amount: decimal.NewFromInt(50000)},
		{PaymentTypeID: "t3", Amount: decimal.NewFromInt(150000)},
	}

	breakdown := ComputeGross(types, amounts, settings, Exemptions{})
	if !breakdown.TotalGross.Equal(decimal.NewFromInt(500000)) {
		t.Fatalf("expected total gross 500000, got %s", breakdown.TotalGross)
	}
	if !breakdown.BasicPay.Equal(decimal.NewFromInt(300000)) {
		t.Fatalf("expected basic pay 300000, got %s", breakdown.BasicPay)
	}
	if !breakdown.TransportAllowance.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("expected transport allowance 50000, got %s", breakdown.TransportAllowance)
	}
	if !breakdown.OtherPayments["Housing Allowance"].Equal(decimal.NewFromInt(150000)) {
		t.Fatalf("expected housing allowance 150000, got %v", breakdown.OtherPayments)
	}
}

func TestComputeGrossSkipsZeroAmounts(t *testing.T) {
	settings := testSettings()
	types := []PaymentType{
		{ID: "t1", Name: BasicPayName, Kind: PaymentKindGross, Order: 1},
		{ID: "t2", Name: "Bonus", Kind: PaymentKindGross, Order: 2},
	}
	amounts := []PaymentAmount{
		{PaymentTypeID: "t1", Amount: decimal.NewFromInt(200000)},
		{PaymentTypeID: "t2", Amount: decimal.Zero},
	}

	breakdown := ComputeGross(types, amounts, settings, Exemptions{})
	if _, ok := breakdown.OtherPayments["Bonus"]; ok {
		t.Fatal("zero amounts must not produce line items")
	}
	if !breakdown.TotalGross.Equal(decimal.NewFromInt(200000)) {
		t.Fatalf("expected total gross 200000, got %s", breakdown.TotalGross)
	}
}

func TestComputeGrossNetTypedUsesRunningGross(t *testing.T) {
	settings := testSettings()
	types := []PaymentType{
		{ID: "t1", Name: BasicPayName, Kind: PaymentKindGross, Order: 1},
		{ID: "t2", Name: "Net Bonus", Kind: PaymentKindNet, Order: 2},
	}
	target := decimal.NewFromInt(20000)
	amounts := []PaymentAmount{
		{PaymentTypeID: "t1", Amount: decimal.NewFromInt(300000)},
		{PaymentTypeID: "t2", Amount: target},
	}

	breakdown := ComputeGross(types, amounts, settings, Exemptions{})
	bonusGross, ok := breakdown.OtherPayments["Net Bonus"]
	if !ok {
		t.Fatal("expected a solved gross line item for the net bonus")
	}
	// The solved increment sits on top of the 300,000 already accumulated,
	// so the marginal PAYE there drives it well above the raw net amount.
	if bonusGross.Cmp(target) <= 0 {
		t.Fatalf("expected solved gross above the net target, got %s", bonusGross)
	}
	if !breakdown.TotalGross.Equal(decimal.NewFromInt(300000).Add(bonusGross)) {
		t.Fatalf("total gross must include the solved increment: %s", breakdown.TotalGross)
	}

	// The same net entry solved first, against zero running gross, grosses up
	// against the bottom bands and must come out smaller.
	reordered := []PaymentType{
		{ID: "t2", Name: "Net Bonus", Kind: PaymentKindNet, Order: 1},
		{ID: "t1", Name: BasicPayName, Kind: PaymentKindGross, Order: 2},
	}
	flipped := ComputeGross(reordered, amounts, settings, Exemptions{})
	if flipped.OtherPayments["Net Bonus"].Cmp(bonusGross) >= 0 {
		t.Fatalf("net entry solved first should cost less gross: %s vs %s", flipped.OtherPayments["Net Bonus"], bonusGross)
	}
}

func TestComputeGrossStableOrder(t *testing.T) {
	settings := testSettings()
	// Equal Order values keep insertion order, so the duplicate name is
	// overwritten by the later entry.
	types := []PaymentType{
		{ID: "t1", Name: "Allowance", Kind: PaymentKindGross, Order: 1},
		{ID: "t2", Name: "Allowance", Kind: PaymentKindGross, Order: 1},
	}
	amounts := []PaymentAmount{
		{PaymentTypeID: "t1", Amount: decimal.NewFromInt(1000)},
		{PaymentTypeID: "t2", Amount: decimal.NewFromInt(2500)},
	}

	breakdown := ComputeGross(types, amounts, settings, Exemptions{})
	if !breakdown.OtherPayments["Allowance"].Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("later duplicate entry must win, got %s", breakdown.OtherPayments["Allowance"])
	}
	// Both amounts still count toward the total even though the line items
	// collapse.
	if !breakdown.TotalGross.Equal(decimal.NewFromInt(3500)) {
		t.Fatalf("expected total gross 3500, got %s", breakdown.TotalGross)
	}
}

func TestComputeGrossDoesNotMutateInput(t *testing.T) {
	settings := testSettings()
	types := []PaymentType{
		{ID: "t2", Name: "Bonus", Kind: PaymentKindGross, Order: 2},
		{ID: "t1", Name: BasicPayName, Kind: PaymentKindGross, Order: 1},
	}
	amounts := []PaymentAmount{
		{PaymentTypeID: "t1", Amount: decimal.NewFromInt(100)},
		{PaymentTypeID: "t2", Amount: decimal.NewFromInt(50)},
	}

	ComputeGross(types, amounts, settings, Exemptions{})
	if types[0].ID != "t2" || types[1].ID != "t1" {
		t.Fatal("caller slice must not be reordered")
	}
}
