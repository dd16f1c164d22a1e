package dbmodels

import (
	"hrms-backend/models"
	usersapimodels "hrms-backend/models/api/users"
)

type User struct {
	BaseModel
	Name         string          `gorm:"type:varchar(255)"`
	Email        string          `gorm:"type:varchar(255);uniqueIndex"`
	Password     string          `gorm:"type:varchar(128)"`
	Role         models.UserRole `gorm:"type:varchar(20)"`
	Position     string          `gorm:"type:varchar(255)"`
	Department   string          `gorm:"type:varchar(255)"`
	JoinDate     string          `gorm:"type:varchar(10)"`
	Phone        *string         `gorm:"type:varchar(50)"`
	Address      *string
	Salary       *float64
	AvatarURL    *string
	AvatarObject *string // object key in the avatar bucket
}

func (r User) ToModel() usersapimodels.User {
	return usersapimodels.User{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Role:       r.Role,
		Position:   r.Position,
		Department: r.Department,
		JoinDate:   r.JoinDate,
		Phone:      r.Phone,
		Address:    r.Address,
		Salary:     r.Salary,
		AvatarURL:  r.AvatarURL,
	}
}
