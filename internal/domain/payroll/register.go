package payroll

import (
	"bytes"
	"encoding/csv"
)

var registerHeader = []string{
	"staff", "gross", "basic_pay", "transport_allowance",
	"pension_employee", "maternity_employee", "rama_employee",
	"paye", "cbhi", "other_deductions", "final_net",
}

// BuildRegisterCSV renders the run's results as the bank-ready payroll
// register, one row per staff member plus a totals footer.
func BuildRegisterCSV(results []ResultRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(registerHeader); err != nil {
		return nil, err
	}
	for _, r := range results {
		row := []string{
			r.StaffName,
			r.Result.TotalGross.StringFixed(2),
			r.Result.BasicPay.StringFixed(2),
			r.Result.TransportAllowance.StringFixed(2),
			r.Result.PensionEmployee.StringFixed(2),
			r.Result.MaternityEmployee.StringFixed(2),
			r.Result.RamaEmployee.StringFixed(2),
			r.Result.Paye.StringFixed(2),
			r.Result.Cbhi.StringFixed(2),
			r.Result.TotalDeductions.StringFixed(2),
			r.Result.FinalNetPay.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	totals := SumTotals(results)
	footer := []string{
		"TOTAL",
		totals.TotalGross.StringFixed(2), "", "", "", "", "",
		totals.TotalPaye.StringFixed(2), "",
		totals.TotalDeductions.StringFixed(2),
		totals.TotalNet.StringFixed(2),
	}
	if err := w.Write(footer); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
