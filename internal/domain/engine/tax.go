package engine

import "github.com/shopspring/decimal"

// CalculatePAYE walks the progressive bands in ascending order and taxes the
// slice of income that falls inside each. Band widths are inclusive
// (Max - Min + 1): the historical tables list each band's first and last
// taxable unit, so 60001..100000 is a 40000-unit band. The final tax is
// rounded to the nearest whole currency unit.
func CalculatePAYE(income decimal.Decimal, bands []PayeBand) decimal.Decimal {
	if income.Sign() <= 0 || len(bands) == 0 {
		return decimal.Zero
	}

	one := decimal.NewFromInt(1)
	remaining := income
	tax := decimal.Zero
	for _, band := range bands {
		if remaining.Sign() <= 0 {
			break
		}
		if income.Cmp(band.Min) <= 0 {
			continue
		}
		slice := remaining
		if band.Max != nil {
			width := band.Max.Sub(band.Min).Add(one)
			if slice.Cmp(width) > 0 {
				slice = width
			}
		}
		if slice.Sign() <= 0 {
			continue
		}
		tax = tax.Add(slice.Mul(band.Rate))
		remaining = remaining.Sub(slice)
	}
	return tax.Round(0)
}
