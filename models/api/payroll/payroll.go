package payrollapimodels

import (
	"time"

	"github.com/pkg/errors"
	"hrms-backend/models"
)

type PayrollRecord struct {
	ID          string               `json:"id"`
	UserID      string               `json:"userId"`
	UserName    string               `json:"userName,omitempty"`
	Month       string               `json:"month"`
	BasicSalary float64              `json:"basicSalary"`
	Allowances  float64              `json:"allowances"`
	Deductions  float64              `json:"deductions"`
	NetSalary   float64              `json:"netSalary"`
	Status      models.PayrollStatus `json:"status"`
}

type GenerateRequest struct {
	Month string `json:"month"`
}

func (r GenerateRequest) Validate() error {
	return ValidateMonth(r.Month)
}

type Filter struct {
	UserID string `query:"userId"`
	Month  string `query:"month"`
}

func ValidateMonth(month string) error {
	if _, err := time.Parse(models.MonthLayout, month); err != nil {
		return errors.New("month must be in YYYY-MM format")
	}
	return nil
}
