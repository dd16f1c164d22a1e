package session

import (
	"sort"
	"strings"

	"hrms-backend/lib/utils/helpers"
	"hrms-backend/lib/utils/salary"
	"hrms-backend/models"
	attendanceapimodels "hrms-backend/models/api/attendance"
	leaveapimodels "hrms-backend/models/api/leave"
	payrollapimodels "hrms-backend/models/api/payroll"
	usersapimodels "hrms-backend/models/api/users"
)

// TodayRecord returns the record of userID for today, nil when there is none.
func TodayRecord(snap Snapshot, userID, today string) *attendanceapimodels.AttendanceRecord {
	for idx := range snap.Attendance {
		rec := snap.Attendance[idx]
		if rec.UserID == userID && rec.Date == today {
			return &rec
		}
	}
	return nil
}

type DashboardStats struct {
	TotalEmployees int
	PresentToday   int
	PendingLeaves  int
	OnLeaveToday   int
	AbsentToday    int
}

func BuildDashboardStats(snap Snapshot, today string) DashboardStats {
	stats := DashboardStats{TotalEmployees: len(snap.Users)}
	for _, rec := range snap.Attendance {
		if rec.Date == today && rec.Status == models.AttendancePresent {
			stats.PresentToday++
		}
	}
	for _, leave := range snap.Leaves {
		switch {
		case leave.Status == models.LeavePending:
			stats.PendingLeaves++
		case leave.Status == models.LeaveApproved && helpers.DateInRange(today, leave.StartDate, leave.EndDate):
			stats.OnLeaveToday++
		}
	}
	stats.AbsentToday = max(stats.TotalEmployees-stats.PresentToday, 0)
	return stats
}

// LeaveCounts counts the requests of userID per status.
func LeaveCounts(snap Snapshot, userID string) map[models.LeaveStatus]int {
	counts := map[models.LeaveStatus]int{
		models.LeavePending:  0,
		models.LeaveApproved: 0,
		models.LeaveRejected: 0,
	}
	for _, leave := range snap.Leaves {
		if leave.UserID == userID {
			counts[leave.Status]++
		}
	}
	return counts
}

// AttendanceRow is an attendance record joined with its owner.
type AttendanceRow struct {
	attendanceapimodels.AttendanceRecord
	UserName   string
	Department string
}

// VisibleAttendance lists the records of date for admins and the own history, newest first, for employees.
func VisibleAttendance(snap Snapshot, identity usersapimodels.User, date string) []AttendanceRow {
	users := usersByID(snap.Users)
	rows := []AttendanceRow{}
	for _, rec := range snap.Attendance {
		if identity.IsAdmin() {
			if rec.Date != date {
				continue
			}
		} else if rec.UserID != identity.ID {
			continue
		}
		row := AttendanceRow{AttendanceRecord: rec}
		if user, ok := users[rec.UserID]; ok {
			row.UserName = user.Name
			row.Department = user.Department
		}
		rows = append(rows, row)
	}
	if identity.IsAdmin() {
		sort.SliceStable(rows, func(a, b int) bool {
			return rows[a].UserName < rows[b].UserName
		})
	} else {
		sort.SliceStable(rows, func(a, b int) bool {
			return rows[a].Date > rows[b].Date
		})
	}
	return rows
}

// VisibleLeaves lists every request for admins and the own ones for employees, latest start first.
func VisibleLeaves(snap Snapshot, identity usersapimodels.User) []leaveapimodels.LeaveRequest {
	users := usersByID(snap.Users)
	result := []leaveapimodels.LeaveRequest{}
	for _, leave := range snap.Leaves {
		if !identity.IsAdmin() && leave.UserID != identity.ID {
			continue
		}
		if leave.UserName == "" {
			if user, ok := users[leave.UserID]; ok {
				leave.UserName = user.Name
			}
		}
		result = append(result, leave)
	}
	sort.SliceStable(result, func(a, b int) bool {
		return result[a].StartDate > result[b].StartDate
	})
	return result
}

// PayrollBreakdown computes the monthly figures of user, nil when the salary is unknown.
func PayrollBreakdown(user usersapimodels.User, month string) *payrollapimodels.PayrollRecord {
	if user.Salary == nil {
		return nil
	}
	breakdown := salary.MonthlyFromFloat(user.Salary)
	return &payrollapimodels.PayrollRecord{
		UserID:      user.ID,
		UserName:    user.Name,
		Month:       month,
		BasicSalary: breakdown.Basic.InexactFloat64(),
		Allowances:  breakdown.Allowances.InexactFloat64(),
		Deductions:  breakdown.Deductions.InexactFloat64(),
		NetSalary:   breakdown.Net.InexactFloat64(),
		Status:      models.PayrollPending,
	}
}

// FilterDirectory matches name, email or department case-insensitively.
func FilterDirectory(users []usersapimodels.User, query string) []usersapimodels.User {
	query = strings.ToLower(strings.TrimSpace(query))
	result := []usersapimodels.User{}
	for _, user := range users {
		if query == "" ||
			strings.Contains(strings.ToLower(user.Name), query) ||
			strings.Contains(strings.ToLower(user.Email), query) ||
			strings.Contains(strings.ToLower(user.Department), query) {
			result = append(result, user)
		}
	}
	return result
}

func usersByID(users []usersapimodels.User) map[string]usersapimodels.User {
	result := make(map[string]usersapimodels.User, len(users))
	for _, user := range users {
		result[user.ID] = user
	}
	return result
}
