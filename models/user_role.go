package models

type UserRole string

const (
	AdminRole    UserRole = "ADMIN"
	EmployeeRole UserRole = "EMPLOYEE"
)

var roleHumanName = map[UserRole]string{
	AdminRole:    "Administrator",
	EmployeeRole: "Employee",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == AdminRole
}

func (r UserRole) IsValid() bool {
	_, ok := roleHumanName[r]
	return ok
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Role   UserRole
}

// CanAccess is true for admins and for the owner of the record.
func (a Actor) CanAccess(ownerID string) bool {
	return a.Role.IsAdmin() || (a.UserID != "" && a.UserID == ownerID)
}
