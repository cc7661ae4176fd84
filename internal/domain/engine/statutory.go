package engine

import "github.com/shopspring/decimal"

// StatutoryResult itemizes every government-mandated contribution for one
// gross salary, employer and employee sides separately.
type StatutoryResult struct {
	PensionEmployer   decimal.Decimal `json:"pensionEmployer"`
	PensionEmployee   decimal.Decimal `json:"pensionEmployee"`
	MaternityEmployer decimal.Decimal `json:"maternityEmployer"`
	MaternityEmployee decimal.Decimal `json:"maternityEmployee"`
	RamaEmployer      decimal.Decimal `json:"ramaEmployer"`
	RamaEmployee      decimal.Decimal `json:"ramaEmployee"`
	Paye              decimal.Decimal `json:"paye"`
	Cbhi              decimal.Decimal `json:"cbhi"`
	NetBeforeCBHI     decimal.Decimal `json:"netBeforeCbhi"`
	NetAfterCBHI      decimal.Decimal `json:"netAfterCbhi"`
}

// ComputeStatutory applies the statutory stages in their fixed order. The
// ordering matters: CBHI is charged on the net that remains after pension,
// maternity, RAMA and PAYE. Bases differ per contribution: pension uses total
// gross, maternity excludes the transport allowance, RAMA uses basic pay
// only, PAYE uses total gross.
func ComputeStatutory(totalGross, basicPay, transportAllowance decimal.Decimal, settings *TaxSettings, exempt Exemptions) StatutoryResult {
	var result StatutoryResult

	if !exempt.Pension {
		result.PensionEmployer = totalGross.Mul(settings.PensionEmployerRate)
		result.PensionEmployee = totalGross.Mul(settings.PensionEmployeeRate)
	}

	if !exempt.Maternity {
		maternityBase := totalGross.Sub(transportAllowance)
		result.MaternityEmployer = maternityBase.Mul(settings.MaternityEmployerRate)
		result.MaternityEmployee = maternityBase.Mul(settings.MaternityEmployeeRate)
	}

	if !exempt.Rama {
		result.RamaEmployer = basicPay.Mul(settings.RamaEmployerRate)
		result.RamaEmployee = basicPay.Mul(settings.RamaEmployeeRate)
	}

	if !exempt.Paye {
		result.Paye = CalculatePAYE(totalGross, settings.PayeBands)
	}

	result.NetBeforeCBHI = totalGross.
		Sub(result.PensionEmployee).
		Sub(result.MaternityEmployee).
		Sub(result.RamaEmployee).
		Sub(result.Paye)

	if !exempt.Cbhi {
		result.Cbhi = result.NetBeforeCBHI.Mul(settings.CbhiRate)
	}
	result.NetAfterCBHI = result.NetBeforeCBHI.Sub(result.Cbhi)

	return result
}
