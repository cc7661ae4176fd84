package payroll

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// GeneratePayslipPDF writes a payslip for one result under dir and returns
// the file path. The file name is a fresh UUID so payslip URLs are not
// guessable from staff identifiers.
func GeneratePayslipPDF(dir, companyName, period string, record ResultRecord) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(dir, uuid.NewString()+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Company: %s", companyName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Staff: %s", record.StaffName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", period))
	pdf.Ln(10)

	payslipLine(pdf, "Basic pay", record.Result.BasicPay)
	payslipLine(pdf, "Transport allowance", record.Result.TransportAllowance)
	for name, amount := range record.Result.OtherPayments {
		payslipLine(pdf, name, amount)
	}
	payslipLine(pdf, "Total gross", record.Result.TotalGross)
	pdf.Ln(4)

	payslipLine(pdf, "Pension (employee)", record.Result.PensionEmployee.Neg())
	payslipLine(pdf, "Maternity (employee)", record.Result.MaternityEmployee.Neg())
	payslipLine(pdf, "Medical (employee)", record.Result.RamaEmployee.Neg())
	payslipLine(pdf, "PAYE", record.Result.Paye.Neg())
	payslipLine(pdf, "CBHI", record.Result.Cbhi.Neg())
	payslipLine(pdf, "Other deductions", record.Result.TotalDeductions.Neg())
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	payslipLine(pdf, "Net pay", record.Result.FinalNetPay)

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}

func payslipLine(pdf *gofpdf.Fpdf, label string, amount decimal.Decimal) {
	pdf.Cell(100, 7, label)
	pdf.CellFormat(60, 7, amount.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.Ln(7)
}
