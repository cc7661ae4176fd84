package payroll

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"staffpay/internal/domain/engine"
)

func TestGeneratePayslipPDFWritesFile(t *testing.T) {
	dir := t.TempDir()
	record := ResultRecord{
		StaffID:   "st-1",
		StaffName: "Ada N",
		Result: engine.Result{
			TotalGross:  decimal.NewFromInt(500000),
			BasicPay:    decimal.NewFromInt(450000),
			Paye:        decimal.NewFromInt(90000),
			FinalNetPay: decimal.NewFromInt(360000),
		},
	}

	path, err := GeneratePayslipPDF(dir, "Acme Ltd", "2026-03", record)
	if err != nil {
		t.Fatalf("generate payslip: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("expected payslip under %s, got %s", dir, path)
	}
	if !strings.HasSuffix(path, ".pdf") {
		t.Fatalf("expected a .pdf file, got %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read payslip: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected a PDF header, got %q", data[:min(8, len(data))])
	}

	// File names are random, so two payslips for the same staff member
	// never collide.
	second, err := GeneratePayslipPDF(dir, "Acme Ltd", "2026-03", record)
	if err != nil {
		t.Fatalf("generate second payslip: %v", err)
	}
	if second == path {
		t.Fatalf("expected distinct payslip file names, both were %s", second)
	}
}
