package salary

import "github.com/shopspring/decimal"

var (
	monthsInYear  = decimal.NewFromInt(12)
	allowanceRate = decimal.NewFromFloat(0.2)
	deductionRate = decimal.NewFromFloat(0.1)
)

// Breakdown is a monthly payslip derived from an annual salary.
type Breakdown struct {
	Basic      decimal.Decimal
	Allowances decimal.Decimal
	Deductions decimal.Decimal
	Net        decimal.Decimal
}

// Monthly computes basic = annual/12, allowances = 20% of basic,
// deductions = 10% of basic, net = basic + allowances - deductions.
func Monthly(annual decimal.Decimal) Breakdown {
	if annual.IsNegative() {
		annual = decimal.Zero
	}
	basic := annual.Div(monthsInYear).Round(2)
	allowances := basic.Mul(allowanceRate).Round(2)
	deductions := basic.Mul(deductionRate).Round(2)
	return Breakdown{
		Basic:      basic,
		Allowances: allowances,
		Deductions: deductions,
		Net:        basic.Add(allowances).Sub(deductions),
	}
}

func MonthlyFromFloat(annual *float64) Breakdown {
	if annual == nil {
		return Monthly(decimal.Zero)
	}
	return Monthly(decimal.NewFromFloat(*annual))
}
