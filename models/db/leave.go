package dbmodels

import (
	"hrms-backend/models"
	leaveapimodels "hrms-backend/models/api/leave"
)

type Leave struct {
	BaseModel
	UserID       string           `gorm:"type:varchar(36);index"`
	User         *User            `gorm:"foreignKey:UserID"`
	Type         models.LeaveType `gorm:"type:varchar(20)"`
	StartDate    string           `gorm:"type:varchar(10);index"`
	EndDate      string           `gorm:"type:varchar(10)"`
	Reason       string
	Status       models.LeaveStatus `gorm:"type:varchar(20);index"`
	AdminComment *string
	AppliedOn    string `gorm:"type:varchar(10)"`
}

func (r Leave) ToModel() leaveapimodels.LeaveRequest {
	result := leaveapimodels.LeaveRequest{
		ID:           r.ID,
		UserID:       r.UserID,
		Type:         r.Type,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		Reason:       r.Reason,
		Status:       r.Status,
		AdminComment: r.AdminComment,
		AppliedOn:    r.AppliedOn,
	}
	if r.User != nil {
		result.UserName = r.User.Name
	}
	return result
}
