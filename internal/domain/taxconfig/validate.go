package taxconfig

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// The engine trusts its band table blindly, so malformed configurations must
// be rejected here, at entry time.

var (
	ErrNoBands          = errors.New("at least one PAYE band is required")
	ErrBandGap          = errors.New("PAYE bands must be contiguous")
	ErrBandUnbounded    = errors.New("only the last PAYE band may be unbounded")
	ErrLastBandBounded  = errors.New("the last PAYE band must be unbounded")
	ErrBandFirstMin     = errors.New("the first PAYE band must start at zero")
	ErrBandRateOutside  = errors.New("PAYE band rates must lie in [0, 1]")
	ErrBandMaxBelowMin  = errors.New("PAYE band max must not be below its min")
	ErrRateOutsideRange = errors.New("contribution rates must lie in [0, 1]")
)

var one = decimal.NewFromInt(1)

// ValidateBands checks the inclusive-bound band table: ascending, gapless
// (each band starts one unit above the previous band's max) and capped by a
// single unbounded top band.
func ValidateBands(bands []Band) error {
	if len(bands) == 0 {
		return ErrNoBands
	}
	if !bands[0].Min.IsZero() {
		return ErrBandFirstMin
	}
	for i, band := range bands {
		if band.Rate.Sign() < 0 || band.Rate.Cmp(one) > 0 {
			return fmt.Errorf("band %d: %w", i, ErrBandRateOutside)
		}
		last := i == len(bands)-1
		if band.Max == nil {
			if !last {
				return fmt.Errorf("band %d: %w", i, ErrBandUnbounded)
			}
			continue
		}
		if last {
			return ErrLastBandBounded
		}
		if band.Max.Cmp(band.Min) < 0 {
			return fmt.Errorf("band %d: %w", i, ErrBandMaxBelowMin)
		}
		if !bands[i+1].Min.Equal(band.Max.Add(one)) {
			return fmt.Errorf("band %d to %d: %w", i, i+1, ErrBandGap)
		}
	}
	return nil
}

// ValidateRates bounds every statutory contribution rate.
func ValidateRates(s Settings) error {
	rates := []decimal.Decimal{
		s.PensionEmployerRate, s.PensionEmployeeRate,
		s.MaternityEmployerRate, s.MaternityEmployeeRate,
		s.RamaEmployerRate, s.RamaEmployeeRate,
		s.CbhiRate,
	}
	for _, rate := range rates {
		if rate.Sign() < 0 || rate.Cmp(one) > 0 {
			return ErrRateOutsideRange
		}
	}
	return nil
}
