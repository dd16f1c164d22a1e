package leavestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"hrms-backend/models"
	dbmodels "hrms-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Leave) (string, error)
	GetByID(id string) (rec *dbmodels.Leave, err error)
	List(userID string) (list []dbmodels.Leave, err error)
	ListApprovedOn(date string) (list []dbmodels.Leave, err error)
	CountByStatus(status models.LeaveStatus) (int64, error)
	// SetStatus moves a PENDING request to status, updated is false when the request was not PENDING.
	SetStatus(id string, status models.LeaveStatus, comment *string) (updated bool, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Leave) (string, error) {
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (rec *dbmodels.Leave, err error) {
	err = i.db.
		Model(dbmodels.Leave{}).
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

func (i impl) List(userID string) (list []dbmodels.Leave, err error) {
	tx := i.db.Model(dbmodels.Leave{})
	if userID != "" {
		tx = tx.Where("user_id = ?", userID)
	}
	err = tx.
		Preload("User").
		Order("start_date desc").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListApprovedOn(date string) (list []dbmodels.Leave, err error) {
	err = i.db.
		Model(dbmodels.Leave{}).
		Where("status = ? AND start_date <= ? AND end_date >= ?", models.LeaveApproved, date, date).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) CountByStatus(status models.LeaveStatus) (count int64, err error) {
	err = i.db.
		Model(dbmodels.Leave{}).
		Where("status = ?", status).
		Count(&count).
		Error
	return count, err
}

func (i impl) SetStatus(id string, status models.LeaveStatus, comment *string) (bool, error) {
	updMap := map[string]interface{}{
		"status": status,
	}
	if comment != nil {
		updMap["admin_comment"] = *comment
	}
	tx := i.db.
		Model(&dbmodels.Leave{}).
		Where("id = ? AND status = ?", id, models.LeavePending).
		Updates(updMap)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
