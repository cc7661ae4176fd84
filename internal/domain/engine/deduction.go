package engine

import "github.com/shopspring/decimal"

// DeductionBalance is the running ledger of one installment-style deduction:
// a loan, an advance, a welfare contribution. DeductedSoFar is updated by the
// caller after a run is accepted, never by the engine.
type DeductionBalance struct {
	ID               string
	OriginalAmount   decimal.Decimal
	MonthlyDeduction decimal.Decimal
	DeductedSoFar    decimal.Decimal
}

// Remaining is the outstanding balance still to collect.
func (d DeductionBalance) Remaining() decimal.Decimal {
	return d.OriginalAmount.Sub(d.DeductedSoFar)
}

// Allocation is the outcome of one allocation pass.
type Allocation struct {
	Breakdown    map[string]decimal.Decimal `json:"breakdown"`
	TotalApplied decimal.Decimal            `json:"totalApplied"`
}

// Allocate charges company deductions against the net pay left after
// statutory deductions. Deductions are processed in caller order — callers
// pre-sort by business priority — and each takes
// min(monthlyDeduction, remaining balance, available), greedily until the
// available amount is exhausted. There is no proportional split across
// competing deductions. Nothing is ever allocated past a deduction's
// outstanding balance, and sum(breakdown) == totalApplied <= available.
func Allocate(deductions []DeductionBalance, available decimal.Decimal) Allocation {
	allocation := Allocation{Breakdown: map[string]decimal.Decimal{}}
	for _, deduction := range deductions {
		if available.Sign() <= 0 {
			break
		}
		applied := decimal.Min(deduction.MonthlyDeduction, deduction.Remaining(), available)
		if applied.Sign() <= 0 {
			continue
		}
		allocation.Breakdown[deduction.ID] = applied
		allocation.TotalApplied = allocation.TotalApplied.Add(applied)
		available = available.Sub(applied)
	}
	return allocation
}
