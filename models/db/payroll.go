package dbmodels

import (
	"github.com/shopspring/decimal"
	"hrms-backend/models"
	payrollapimodels "hrms-backend/models/api/payroll"
)

type Payroll struct {
	BaseModel
	UserID      string               `gorm:"type:varchar(36);uniqueIndex:idx_payroll_user_month"`
	User        *User                `gorm:"foreignKey:UserID"`
	Month       string               `gorm:"type:varchar(7);uniqueIndex:idx_payroll_user_month"`
	BasicSalary decimal.Decimal      `gorm:"type:numeric(14,2)"`
	Allowances  decimal.Decimal      `gorm:"type:numeric(14,2)"`
	Deductions  decimal.Decimal      `gorm:"type:numeric(14,2)"`
	NetSalary   decimal.Decimal      `gorm:"type:numeric(14,2)"`
	Status      models.PayrollStatus `gorm:"type:varchar(20)"`
}

func (r Payroll) ToModel() payrollapimodels.PayrollRecord {
	result := payrollapimodels.PayrollRecord{
		ID:          r.ID,
		UserID:      r.UserID,
		Month:       r.Month,
		BasicSalary: r.BasicSalary.InexactFloat64(),
		Allowances:  r.Allowances.InexactFloat64(),
		Deductions:  r.Deductions.InexactFloat64(),
		NetSalary:   r.NetSalary.InexactFloat64(),
		Status:      r.Status,
	}
	if r.User != nil {
		result.UserName = r.User.Name
	}
	return result
}
