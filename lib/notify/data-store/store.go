package pushdatastore

import (
	"gorm.io/gorm"
	dbmodels "hrms-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.PushData) error
	List(userID string) ([]dbmodels.PushData, error)
	Delete(ids []string) error
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.PushData) error {
	return i.db.
		Create(&rec).
		Error
}

func (i impl) List(userID string) (list []dbmodels.PushData, err error) {
	err = i.db.
		Model(dbmodels.PushData{}).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) Delete(ids []string) error {
	return i.db.Delete(&dbmodels.PushData{}, "id IN ?", ids).Error
}
