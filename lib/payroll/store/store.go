package payrollstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"hrms-backend/models"
	dbmodels "hrms-backend/models/db"
)

type ListFilter struct {
	UserID string
	Month  string
}

type Provider interface {
	Create(rec dbmodels.Payroll) (string, error)
	GetByID(id string) (rec *dbmodels.Payroll, err error)
	GetByUserMonth(userID, month string) (rec *dbmodels.Payroll, err error)
	List(filter ListFilter) (list []dbmodels.Payroll, err error)
	// MarkPaid moves a PENDING record to PAID, updated is false for any other state.
	MarkPaid(id string) (updated bool, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Payroll) (string, error) {
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (rec *dbmodels.Payroll, err error) {
	err = i.db.
		Model(dbmodels.Payroll{}).
		Where("id = ?", id).
		Preload("User").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (i impl) GetByUserMonth(userID, month string) (rec *dbmodels.Payroll, err error) {
	err = i.db.
		Model(dbmodels.Payroll{}).
		Where("user_id = ? AND month = ?", userID, month).
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (i impl) List(filter ListFilter) (list []dbmodels.Payroll, err error) {
	tx := i.db.Model(dbmodels.Payroll{})
	if filter.UserID != "" {
		tx = tx.Where("user_id = ?", filter.UserID)
	}
	if filter.Month != "" {
		tx = tx.Where("month = ?", filter.Month)
	}
	err = tx.
		Preload("User").
		Order("month desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) MarkPaid(id string) (bool, error) {
	tx := i.db.
		Model(&dbmodels.Payroll{}).
		Where("id = ? AND status = ?", id, models.PayrollPending).
		Update("status", models.PayrollPaid)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
