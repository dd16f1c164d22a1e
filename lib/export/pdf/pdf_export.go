package pdfexport

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	payrollapimodels "hrms-backend/models/api/payroll"
	usersapimodels "hrms-backend/models/api/users"
)

const companyName = "HRMS Pro"

// GeneratePayslip renders a one page A4 payslip.
func GeneratePayslip(user usersapimodels.User, rec payrollapimodels.PayrollRecord) (pdfFile []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("GeneratePayslip panic recover: %v", r)
		}
	}()
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Payslip %s %s", user.Name, rec.Month), true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, companyName, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Payslip for %s", rec.Month), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// employee block
	pdf.SetFont("Arial", "", 11)
	for _, line := range [][2]string{
		{"Employee", user.Name},
		{"Email", user.Email},
		{"Position", user.Position},
		{"Department", user.Department},
		{"Status", string(rec.Status)},
	} {
		pdf.CellFormat(40, 7, line[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, line[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(224, 231, 255)
	pdf.CellFormat(120, 8, "Component", "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 8, "Amount", "1", 1, "R", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	for _, line := range []struct {
		name  string
		value float64
	}{
		{"Basic salary", rec.BasicSalary},
		{"Allowances", rec.Allowances},
		{"Deductions", -rec.Deductions},
	} {
		pdf.CellFormat(120, 8, line.name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, formatAmount(line.value), "1", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(120, 8, "Net salary", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, formatAmount(rec.NetSalary), "1", 1, "R", false, 0, "")

	if pdf.Error() != nil {
		return nil, pdf.Error()
	}
	buf := new(bytes.Buffer)
	err = pdf.Output(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
