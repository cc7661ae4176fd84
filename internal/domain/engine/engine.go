// Package engine computes one staff member's monthly payroll from configured
// payments, deduction balances and statutory tax settings. It is pure
// computation: no I/O, no shared state, no mutation of its inputs. Identical
// inputs always produce identical results, and each invocation is fully
// independent, so callers may run staff members in parallel without
// coordination.
package engine

import "github.com/shopspring/decimal"

// Input is everything one calculation needs, assembled by the caller from
// configuration. The engine reads it and nothing else.
type Input struct {
	Settings     *TaxSettings
	Exemptions   Exemptions
	PaymentTypes []PaymentType
	Amounts      []PaymentAmount
	Deductions   []DeductionBalance
}

// Result is the fully itemized payroll outcome for one staff member.
type Result struct {
	TotalGross         decimal.Decimal            `json:"totalGross"`
	BasicPay           decimal.Decimal            `json:"basicPay"`
	TransportAllowance decimal.Decimal            `json:"transportAllowance"`
	OtherPayments      map[string]decimal.Decimal `json:"otherPayments"`
	PensionEmployer    decimal.Decimal            `json:"pensionEmployer"`
	PensionEmployee    decimal.Decimal            `json:"pensionEmployee"`
	MaternityEmployer  decimal.Decimal            `json:"maternityEmployer"`
	MaternityEmployee  decimal.Decimal            `json:"maternityEmployee"`
	RamaEmployer       decimal.Decimal            `json:"ramaEmployer"`
	RamaEmployee       decimal.Decimal            `json:"ramaEmployee"`
	Paye               decimal.Decimal            `json:"paye"`
	Cbhi               decimal.Decimal            `json:"cbhi"`
	NetBeforeCBHI      decimal.Decimal            `json:"netBeforeCbhi"`
	NetAfterCBHI       decimal.Decimal            `json:"netAfterCbhi"`
	DeductionBreakdown map[string]decimal.Decimal `json:"deductionBreakdown"`
	TotalDeductions    decimal.Decimal            `json:"totalDeductions"`
	FinalNetPay        decimal.Decimal            `json:"finalNetPay"`
}

// Calculate runs the full pipeline: gross accumulation (with net-to-gross
// solving), statutory deductions, company deduction allocation, final net.
// FinalNetPay is clamped at zero; a staff member can be over-deducted by
// configuration and callers that care must inspect the intermediate fields.
// The only error is an entirely missing TaxSettings — per-field oddities
// default to zero instead of aborting a whole company run.
func Calculate(input Input) (Result, error) {
	if input.Settings == nil {
		return Result{}, ErrMissingTaxSettings
	}

	gross := ComputeGross(input.PaymentTypes, input.Amounts, input.Settings, input.Exemptions)
	statutory := ComputeStatutory(gross.TotalGross, gross.BasicPay, gross.TransportAllowance, input.Settings, input.Exemptions)
	allocation := Allocate(input.Deductions, statutory.NetAfterCBHI)

	finalNet := statutory.NetAfterCBHI.Sub(allocation.TotalApplied)
	if finalNet.Sign() < 0 {
		finalNet = decimal.Zero
	}

	return Result{
		TotalGross:         gross.TotalGross,
		BasicPay:           gross.BasicPay,
		TransportAllowance: gross.TransportAllowance,
		OtherPayments:      gross.OtherPayments,
		PensionEmployer:    statutory.PensionEmployer,
		PensionEmployee:    statutory.PensionEmployee,
		MaternityEmployer:  statutory.MaternityEmployer,
		MaternityEmployee:  statutory.MaternityEmployee,
		RamaEmployer:       statutory.RamaEmployer,
		RamaEmployee:       statutory.RamaEmployee,
		Paye:               statutory.Paye,
		Cbhi:               statutory.Cbhi,
		NetBeforeCBHI:      statutory.NetBeforeCBHI,
		NetAfterCBHI:       statutory.NetAfterCBHI,
		DeductionBreakdown: allocation.Breakdown,
		TotalDeductions:    allocation.TotalApplied,
		FinalNetPay:        finalNet,
	}, nil
}
