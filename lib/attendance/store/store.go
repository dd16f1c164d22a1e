package attendancestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"hrms-backend/models"
	dbmodels "hrms-backend/models/db"
)

type ListFilter struct {
	UserID string
	Date   string
	From   string
	To     string
}

type Provider interface {
	Create(rec dbmodels.Attendance) (string, error)
	Update(id string, updMap map[string]interface{}) error
	GetByID(id string) (rec *dbmodels.Attendance, err error)
	GetByUserDate(userID, date string) (rec *dbmodels.Attendance, err error)
	List(filter ListFilter) (list []dbmodels.Attendance, err error)
	ListOpenBefore(date string) (list []dbmodels.Attendance, err error)
	CountByStatus(date string, status models.AttendanceStatus) (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Attendance) (string, error) {
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.Attendance{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

func (i impl) GetByID(id string) (rec *dbmodels.Attendance, err error) {
	err = i.db.
		Model(dbmodels.Attendance{}).
		Where("id = ?", id).
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

func (i impl) GetByUserDate(userID, date string) (rec *dbmodels.Attendance, err error) {
	err = i.db.
		Model(dbmodels.Attendance{}).
		Where("user_id = ? AND date = ?", userID, date).
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

func (i impl) List(filter ListFilter) (list []dbmodels.Attendance, err error) {
	tx := i.db.Model(dbmodels.Attendance{})
	if filter.UserID != "" {
		tx = tx.Where("user_id = ?", filter.UserID)
	}
	if filter.Date != "" {
		tx = tx.Where("date = ?", filter.Date)
	}
	if filter.From != "" {
		tx = tx.Where("date >= ?", filter.From)
	}
	if filter.To != "" {
		tx = tx.Where("date <= ?", filter.To)
	}
	err = tx.
		Preload("User").
		Order("date desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListOpenBefore(date string) (list []dbmodels.Attendance, err error) {
	err = i.db.
		Model(dbmodels.Attendance{}).
		Where("date < ? AND check_in IS NOT NULL AND check_out IS NULL AND status = ?", date, models.AttendancePresent).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CountByStatus(date string, status models.AttendanceStatus) (count int64, err error) {
	err = i.db.
		Model(dbmodels.Attendance{}).
		Where("date = ? AND status = ?", date, status).
		Count(&count).
		Error
	return count, err
}
