package models

type RbacFunc func(userID string, role UserRole, path string) bool

type Module string

const (
	UsersModule      Module = "USERS"
	AttendanceModule Module = "ATTENDANCE"
	LeaveModule      Module = "LEAVE"
	PayrollModule    Module = "PAYROLL"
	AnalyticsModule  Module = "ANALYTICS"
	ProfileModule    Module = "PROFILE"
)

type Permission string

const (
	ViewPermission    Permission = "VIEW"
	ViewAllPermission Permission = "VIEW_ALL"
	CreatePermission  Permission = "CREATE"
	EditPermission    Permission = "EDIT"
	ManagePermission  Permission = "MANAGE"
	FlowPermission    Permission = "FLOW"
	ExportPermission  Permission = "EXPORT"
)
