package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"staffpay/internal/domain/engine"
)

// Run is one payroll calculation for a company and period. Results are
// recalculated on every draft run; once submitted the numbers are frozen.
type Run struct {
	ID        string     `json:"id"`
	CompanyID string     `json:"companyId"`
	Period    string     `json:"period"`
	Status    string     `json:"status"`
	CreatedBy string     `json:"createdBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	DecidedAt *time.Time `json:"decidedAt,omitempty"`
}

// ResultRecord is one staff member's stored outcome within a run.
type ResultRecord struct {
	ID         string        `json:"id"`
	RunID      string        `json:"runId"`
	StaffID    string        `json:"staffId"`
	StaffName  string        `json:"staffName,omitempty"`
	StaffEmail string        `json:"-"`
	Result     engine.Result `json:"result"`
}

// Totals aggregates a run for the register footer and the approval summary.
type Totals struct {
	StaffCount      int             `json:"staffCount"`
	TotalGross      decimal.Decimal `json:"totalGross"`
	TotalPaye       decimal.Decimal `json:"totalPaye"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	TotalNet        decimal.Decimal `json:"totalNet"`
}

// SumTotals folds stored results into run totals.
func SumTotals(results []ResultRecord) Totals {
	totals := Totals{StaffCount: len(results)}
	for _, r := range results {
		totals.TotalGross = totals.TotalGross.Add(r.Result.TotalGross)
		totals.TotalPaye = totals.TotalPaye.Add(r.Result.Paye)
		totals.TotalDeductions = totals.TotalDeductions.Add(r.Result.TotalDeductions)
		totals.TotalNet = totals.TotalNet.Add(r.Result.FinalNetPay)
	}
	return totals
}
