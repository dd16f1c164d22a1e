package usersstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "hrms-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.User) (string, error)
	Update(userID string, updMap map[string]interface{}) error
	Delete(userID string) error
	List() (userList []dbmodels.User, err error)
	GetByID(userID string) (rec *dbmodels.User, err error)
	FindByEmail(email string) (rec *dbmodels.User, err error)
	ExistByEmail(email string) (bool, error)
	Count() (int64, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.User) (string, error) {
	err := i.db.
		Create(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) Update(userID string, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.User{}).
		Where("id = ?", userID).
		Updates(updMap).
		Error
}

func (i impl) Delete(userID string) error {
	return i.db.
		Where("id = ?", userID).
		Delete(&dbmodels.User{}).
		Error
}

func (i impl) List() (userList []dbmodels.User, err error) {
	err = i.db.
		Model(dbmodels.User{}).
		Order("name").
		Find(&userList).
		Error
	if err != nil {
		return nil, err
	}
	return userList, nil
}

func (i impl) GetByID(userID string) (rec *dbmodels.User, err error) {
	err = i.db.
		Model(dbmodels.User{}).
		Where("id = ?", userID).
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

func (i impl) FindByEmail(email string) (rec *dbmodels.User, err error) {
	err = i.db.
		Model(dbmodels.User{}).
		Where("lower(email) = lower(?)", email).
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

func (i impl) ExistByEmail(email string) (bool, error) {
	rec, err := i.FindByEmail(email)
	if err != nil {
		return false, err
	}
	return rec != nil, nil
}

func (i impl) Count() (count int64, err error) {
	err = i.db.
		Model(dbmodels.User{}).
		Count(&count).
		Error
	return count, err
}
