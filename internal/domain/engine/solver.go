package engine

import "github.com/shopspring/decimal"

const solverMaxIterations = 100

var (
	solverPrecision  = decimal.New(1, -2) // 0.01, one cent
	solverUpperBound = decimal.NewFromInt(3)
	two              = decimal.NewFromInt(2)
)

// SolveGrossIncrement finds the additional gross amount that, once statutory
// deductions are applied on top of baseGross, raises net pay by targetNet.
// There is no closed form because PAYE is piecewise, so bisection is used
// over [0, 3*targetNet]. Terminates when the interval is narrower than one
// cent or after the iteration cap, whichever comes first, and returns the
// final midpoint either way — a non-converged answer is off by at most the
// remaining interval width.
//
// The 3x upper bound is a heuristic: a marginal rate above ~66% would push
// the true root outside the interval and the solver would return the bound.
func SolveGrossIncrement(settings *TaxSettings, exempt Exemptions, baseGross, basicPay, transportAllowance, targetNet decimal.Decimal) decimal.Decimal {
	if targetNet.Sign() <= 0 {
		return decimal.Zero
	}

	baseNet := ComputeStatutory(baseGross, basicPay, transportAllowance, settings, exempt).NetAfterCBHI

	low := decimal.Zero
	high := targetNet.Mul(solverUpperBound)
	for i := 0; i < solverMaxIterations && high.Sub(low).Cmp(solverPrecision) > 0; i++ {
		mid := low.Add(high).Div(two)
		netGain := ComputeStatutory(baseGross.Add(mid), basicPay, transportAllowance, settings, exempt).NetAfterCBHI.Sub(baseNet)
		if netGain.Cmp(targetNet) < 0 {
			low = mid
		} else {
			high = mid
		}
	}
	return low.Add(high).Div(two)
}
