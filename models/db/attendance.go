package dbmodels

import (
	"time"

	"hrms-backend/models"
	attendanceapimodels "hrms-backend/models/api/attendance"
)

type Attendance struct {
	BaseModel
	UserID     string `gorm:"type:varchar(36);uniqueIndex:idx_attendance_user_date"`
	User       *User  `gorm:"foreignKey:UserID"`
	Date       string `gorm:"type:varchar(10);uniqueIndex:idx_attendance_user_date"`
	CheckIn    *time.Time
	CheckOut   *time.Time
	Status     models.AttendanceStatus `gorm:"type:varchar(20)"`
	TotalHours *float64
	Mood       *models.Mood `gorm:"type:varchar(20)"`
}

func (r Attendance) ToModel() attendanceapimodels.AttendanceRecord {
	return attendanceapimodels.AttendanceRecord{
		ID:         r.ID,
		UserID:     r.UserID,
		Date:       r.Date,
		CheckIn:    formatTime(r.CheckIn),
		CheckOut:   formatTime(r.CheckOut),
		Status:     r.Status,
		TotalHours: r.TotalHours,
		Mood:       r.Mood,
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
