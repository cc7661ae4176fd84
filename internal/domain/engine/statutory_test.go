package engine

import (
	"testing"

	"github.com/shopspring/decimal"
)

func testSettings() *TaxSettings {
	return &TaxSettings{
		PensionEmployerRate:   decimal.NewFromFloat(0.08),
		PensionEmployeeRate:   decimal.NewFromFloat(0.06),
		MaternityEmployerRate: decimal.NewFromFloat(0.003),
		MaternityEmployeeRate: decimal.NewFromFloat(0.003),
		RamaEmployerRate:      decimal.NewFromFloat(0.075),
		RamaEmployeeRate:      decimal.NewFromFloat(0.075),
		CbhiRate:              decimal.NewFromFloat(0.005),
		PayeBands:             testBands(),
	}
}

func TestComputeStatutoryBases(t *testing.T) {
	settings := testSettings()
	result := ComputeStatutory(decimal.NewFromInt(500000), decimal.NewFromInt(300000), decimal.NewFromInt(50000), settings, Exemptions{})

	if want := decimal.NewFromInt(30000); !result.PensionEmployee.Equal(want) {
		t.Fatalf("expected employee pension %s, got %s", want, result.PensionEmployee)
	}
	if want := decimal.NewFromInt(40000); !result.PensionEmployer.Equal(want) {
		t.Fatalf("expected employer pension %s, got %s", want, result.PensionEmployer)
	}
	// Maternity base excludes the transport allowance: 450,000 * 0.3%.
	if want := decimal.NewFromInt(1350); !result.MaternityEmployee.Equal(want) {
		t.Fatalf("expected employee maternity %s, got %s", want, result.MaternityEmployee)
	}
	// RAMA is charged on basic pay only, not total gross.
	if want := decimal.NewFromInt(22500); !result.RamaEmployee.Equal(want) {
		t.Fatalf("expected employee RAMA %s, got %s", want, result.RamaEmployee)
	}
	if want := decimal.NewFromInt(114000); !result.Paye.Equal(want) {
		t.Fatalf("expected PAYE %s, got %s", want, result.Paye)
	}
	if want := decimal.NewFromInt(332150); !result.NetBeforeCBHI.Equal(want) {
		t.Fatalf("expected net before CBHI %s, got %s", want, result.NetBeforeCBHI)
	}
	if want := decimal.RequireFromString("1660.75"); !result.Cbhi.Equal(want) {
		t.Fatalf("expected CBHI %s, got %s", want, result.Cbhi)
	}
	if want := decimal.RequireFromString("330489.25"); !result.NetAfterCBHI.Equal(want) {
		t.Fatalf("expected net after CBHI %s, got %s", want, result.NetAfterCBHI)
	}
}

func TestComputeStatutoryExemptions(t *testing.T) {
	settings := testSettings()
	gross := decimal.NewFromInt(500000)
	basic := decimal.NewFromInt(300000)
	transport := decimal.NewFromInt(50000)

	result := ComputeStatutory(gross, basic, transport, settings, Exemptions{Paye: true, Pension: true, Maternity: true, Rama: true, Cbhi: true})
	if !result.Paye.IsZero() || !result.PensionEmployee.IsZero() || !result.MaternityEmployee.IsZero() || !result.RamaEmployee.IsZero() || !result.Cbhi.IsZero() {
		t.Fatal("expected all exempted contributions to be zero")
	}
	if !result.NetAfterCBHI.Equal(gross) {
		t.Fatalf("fully exempt net should equal gross, got %s", result.NetAfterCBHI)
	}
}

func TestComputeStatutoryPayeExemptOnly(t *testing.T) {
	settings := testSettings()
	result := ComputeStatutory(decimal.NewFromInt(500000), decimal.NewFromInt(300000), decimal.NewFromInt(50000), settings, Exemptions{Paye: true})
	if !result.Paye.IsZero() {
		t.Fatalf("expected zero PAYE when exempt, got %s", result.Paye)
	}
	if result.PensionEmployee.IsZero() {
		t.Fatal("pension must still apply when only PAYE is exempt")
	}
	// CBHI is charged on the larger net that the PAYE exemption leaves.
	want := decimal.NewFromInt(446150).Mul(settings.CbhiRate)
	if !result.Cbhi.Equal(want) {
		t.Fatalf("expected CBHI %s, got %s", want, result.Cbhi)
	}
}

func TestComputeStatutoryRateMonotonic(t *testing.T) {
	settings := testSettings()
	base := ComputeStatutory(decimal.NewFromInt(500000), decimal.NewFromInt(300000), decimal.NewFromInt(50000), settings, Exemptions{})

	raised := testSettings()
	raised.PensionEmployeeRate = decimal.NewFromFloat(0.07)
	higher := ComputeStatutory(decimal.NewFromInt(500000), decimal.NewFromInt(300000), decimal.NewFromInt(50000), raised, Exemptions{})

	if higher.PensionEmployee.Cmp(base.PensionEmployee) <= 0 {
		t.Fatalf("raising the pension rate must not lower the contribution: %s vs %s", higher.PensionEmployee, base.PensionEmployee)
	}
}
