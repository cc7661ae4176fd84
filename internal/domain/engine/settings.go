package engine

import "github.com/shopspring/decimal"

// PayeBand is one bracket of the progressive income tax table. Bands are
// inclusive on both ends: a band covering 60001..100000 taxes 40000 units.
// Max is nil for the unbounded top band.
type PayeBand struct {
	Min  decimal.Decimal
	Max  *decimal.Decimal
	Rate decimal.Decimal
}

// TaxSettings carries every statutory rate used by a calculation. It is
// supplied by the caller per run and never mutated by the engine. Bands must
// be sorted ascending by Min and non-overlapping; the engine does not
// validate this, configuration entry does.
type TaxSettings struct {
	PensionEmployerRate   decimal.Decimal
	PensionEmployeeRate   decimal.Decimal
	MaternityEmployerRate decimal.Decimal
	MaternityEmployeeRate decimal.Decimal
	RamaEmployerRate      decimal.Decimal
	RamaEmployeeRate      decimal.Decimal
	CbhiRate              decimal.Decimal
	PayeBands             []PayeBand
}

// Exemptions zeroes individual statutory stages for flagged companies.
type Exemptions struct {
	Paye      bool
	Pension   bool
	Maternity bool
	Rama      bool
	Cbhi      bool
}
