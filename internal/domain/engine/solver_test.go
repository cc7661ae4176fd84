package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSolveGrossIncrementRoundTrip(t *testing.T) {
	settings := testSettings()
	baseGross := decimal.NewFromInt(300000)
	basic := decimal.NewFromInt(300000)
	transport := decimal.Zero
	target := decimal.NewFromInt(50000)

	increment := SolveGrossIncrement(settings, Exemptions{}, baseGross, basic, transport, target)
	if increment.Sign() <= 0 {
		t.Fatalf("expected a positive gross increment, got %s", increment)
	}

	baseNet := ComputeStatutory(baseGross, basic, transport, settings, Exemptions{}).NetAfterCBHI
	solvedNet := ComputeStatutory(baseGross.Add(increment), basic, transport, settings, Exemptions{}).NetAfterCBHI
	gain := solvedNet.Sub(baseNet)

	// PAYE rounds to whole currency units, so the reachable net values step
	// by roughly one unit; accuracy is bounded by that step plus the
	// bisection tolerance.
	tolerance := decimal.RequireFromString("1.5")
	if gain.Sub(target).Abs().Cmp(tolerance) > 0 {
		t.Fatalf("net gain %s not within %s of target %s", gain, tolerance, target)
	}
}

func TestSolveGrossIncrementExceedsTarget(t *testing.T) {
	settings := testSettings()
	target := decimal.NewFromInt(10000)
	increment := SolveGrossIncrement(settings, Exemptions{}, decimal.NewFromInt(100000), decimal.NewFromInt(100000), decimal.Zero, target)
	// Grossing up always costs more than the net delivered while any
	// deduction applies.
	if increment.Cmp(target) <= 0 {
		t.Fatalf("expected gross increment above %s, got %s", target, increment)
	}
}

func TestSolveGrossIncrementZeroTarget(t *testing.T) {
	settings := testSettings()
	if got := SolveGrossIncrement(settings, Exemptions{}, decimal.NewFromInt(100000), decimal.NewFromInt(100000), decimal.Zero, decimal.Zero); !got.IsZero() {
		t.Fatalf("expected zero increment for zero target, got %s", got)
	}
	if got := SolveGrossIncrement(settings, Exemptions{}, decimal.NewFromInt(100000), decimal.NewFromInt(100000), decimal.Zero, decimal.NewFromInt(-500)); !got.IsZero() {
		t.Fatalf("expected zero increment for negative target, got %s", got)
	}
}

func TestSolveGrossIncrementDeterministic(t *testing.T) {
	settings := testSettings()
	first := SolveGrossIncrement(settings, Exemptions{}, decimal.NewFromInt(250000), decimal.NewFromInt(200000), decimal.NewFromInt(20000), decimal.NewFromInt(30000))
	second := SolveGrossIncrement(settings, Exemptions{}, decimal.NewFromInt(250000), decimal.NewFromInt(200000), decimal.NewFromInt(20000), decimal.NewFromInt(30000))
	if !first.Equal(second) {
		t.Fatalf("solver is not deterministic: %s vs %s", first, second)
	}
}

func TestSolveGrossIncrementUnreachableTargetReturnsBound(t *testing.T) {
	// A flat 80% marginal rate keeps the reachable net gain under the
	// target everywhere inside the search interval, so bisection collapses
	// onto the 3x upper bound and returns it instead of diverging.
	settings := &TaxSettings{
		PayeBands: []PayeBand{{Min: decimal.Zero, Max: nil, Rate: decimal.NewFromFloat(0.80)}},
	}
	target := decimal.NewFromInt(1000)
	bound := target.Mul(decimal.NewFromInt(3))

	increment := SolveGrossIncrement(settings, Exemptions{}, decimal.Zero, decimal.Zero, decimal.Zero, target)
	if bound.Sub(increment).Abs().Cmp(decimal.RequireFromString("0.01")) > 0 {
		t.Fatalf("expected increment pinned at bound %s, got %s", bound, increment)
	}
	if gain := ComputeStatutory(increment, decimal.Zero, decimal.Zero, settings, Exemptions{}).NetAfterCBHI; gain.Cmp(target) >= 0 {
		t.Fatalf("expected capped net gain below target %s, got %s", target, gain)
	}
}

func TestSolveGrossIncrementFullyExempt(t *testing.T) {
	settings := testSettings()
	exempt := Exemptions{Paye: true, Pension: true, Maternity: true, Rama: true, Cbhi: true}
	target := decimal.NewFromInt(25000)
	increment := SolveGrossIncrement(settings, exempt, decimal.NewFromInt(100000), decimal.NewFromInt(100000), decimal.Zero, target)
	// With no deductions at all, net equals gross and the increment converges
	// on the target itself.
	if increment.Sub(target).Abs().Cmp(decimal.RequireFromString("0.01")) > 0 {
		t.Fatalf("expected increment ~%s, got %s", target, increment)
	}
}
