package rbac

import "hrms-backend/models"

var (
	AdminRoleSet = []models.UserRole{models.AdminRole}
	AllRoles     = []models.UserRole{models.AdminRole, models.EmployeeRole}
)

func (i *impl) initRules() {
	i.profile()
	i.users()
	i.attendance()
	i.leaves()
	i.payroll()
	i.analytics()
}

func (i *impl) profile() {
	i.mustRegister(models.ProfileModule, models.ViewPermission, AllRoles, "/api/v1/me [get]", nil)
	i.mustRegister(models.ProfileModule, models.ViewPermission, AllRoles, "/api/v1/permissions [get]", nil)
}

func (i *impl) users() {
	self := SelfOrAdminFunc("/api/v1/users/")
	// VIEW
	i.mustRegister(models.UsersModule, models.ViewPermission, AllRoles, "/api/v1/users [get]", nil)
	i.mustRegister(models.UsersModule, models.ViewPermission, AllRoles, "/api/v1/users/{id}/avatar [get]", nil)
	// EDIT, employees only their own profile
	i.mustRegister(models.UsersModule, models.EditPermission, AllRoles, "/api/v1/users/{id} [put]", self)
	i.mustRegister(models.UsersModule, models.EditPermission, AllRoles, "/api/v1/users/{id}/avatar [post]", self)
	// MANAGE
	i.mustRegister(models.UsersModule, models.ManagePermission, AdminRoleSet, "/api/v1/users/{id} [delete]", nil)
}

func (i *impl) attendance() {
	// employee scoping of records is done by the handler
	i.mustRegister(models.AttendanceModule, models.ViewPermission, AllRoles, "/api/v1/attendance [get]", nil)
	i.mustRegister(models.AttendanceModule, models.CreatePermission, AllRoles, "/api/v1/attendance [post]", nil)
	i.mustRegister(models.AttendanceModule, models.CreatePermission, AllRoles, "/api/v1/attendance/checkin [post]", nil)
	i.mustRegister(models.AttendanceModule, models.CreatePermission, AllRoles, "/api/v1/attendance/checkout [post]", nil)
	i.mustRegister(models.AttendanceModule, models.ExportPermission, AdminRoleSet, "/api/v1/attendance/export [get]", nil)
}

func (i *impl) leaves() {
	i.mustRegister(models.LeaveModule, models.ViewPermission, AllRoles, "/api/v1/leaves [get]", nil)
	i.mustRegister(models.LeaveModule, models.CreatePermission, AllRoles, "/api/v1/leaves [post]", nil)
	// FLOW
	i.mustRegister(models.LeaveModule, models.FlowPermission, AdminRoleSet, "/api/v1/leaves/{id} [put]", nil)
	i.mustRegister(models.LeaveModule, models.FlowPermission, AdminRoleSet, "/api/v1/leaves/{id}/status [put]", nil)
}

func (i *impl) payroll() {
	i.mustRegister(models.PayrollModule, models.ViewPermission, AllRoles, "/api/v1/payroll [get]", nil)
	// ownership of a slip is checked by the handler
	i.mustRegister(models.PayrollModule, models.ViewPermission, AllRoles, "/api/v1/payroll/{id}/slip [get]", nil)
	i.mustRegister(models.PayrollModule, models.ManagePermission, AdminRoleSet, "/api/v1/payroll/generate [post]", nil)
	i.mustRegister(models.PayrollModule, models.ManagePermission, AdminRoleSet, "/api/v1/payroll/{id}/pay [put]", nil)
	i.mustRegister(models.PayrollModule, models.ExportPermission, AdminRoleSet, "/api/v1/payroll/export [get]", nil)
}

func (i *impl) analytics() {
	i.mustRegister(models.AnalyticsModule, models.ViewPermission, AdminRoleSet, "/api/v1/analytics/burnout [get]", nil)
	i.mustRegister(models.AnalyticsModule, models.ViewPermission, AdminRoleSet, "/api/v1/analytics/happiness [get]", nil)
	i.mustRegister(models.AnalyticsModule, models.ViewPermission, AdminRoleSet, "/api/v1/stats [get]", nil)
}
