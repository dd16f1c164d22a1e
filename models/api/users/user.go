package usersapimodels

import (
	"net/mail"
	"strings"

	"github.com/pkg/errors"
	"hrms-backend/models"
)

// User is the identity record shared by the API and the client session.
type User struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Role       models.UserRole `json:"role"`
	Position   string          `json:"position"`
	Department string          `json:"department"`
	JoinDate   string          `json:"joinDate"`
	Phone      *string         `json:"phone,omitempty"`
	Address    *string         `json:"address,omitempty"`
	Salary     *float64        `json:"salary,omitempty"`
	AvatarURL  *string         `json:"avatarUrl,omitempty"`
}

func (u User) IsAdmin() bool {
	return u.Role.IsAdmin()
}

// UpdateUser keeps the current value for every nil field.
type UpdateUser struct {
	Name       *string          `json:"name,omitempty"`
	Email      *string          `json:"email,omitempty"`
	Role       *models.UserRole `json:"role,omitempty"`
	Position   *string          `json:"position,omitempty"`
	Department *string          `json:"department,omitempty"`
	JoinDate   *string          `json:"joinDate,omitempty"`
	Phone      *string          `json:"phone,omitempty"`
	Address    *string          `json:"address,omitempty"`
	Salary     *float64         `json:"salary,omitempty"`
	AvatarURL  *string          `json:"avatarUrl,omitempty"`
	Password   *string          `json:"password,omitempty"`
}

func (r UpdateUser) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("name must not be empty")
	}
	if r.Email != nil {
		if _, err := mail.ParseAddress(*r.Email); err != nil {
			return errors.New("email has invalid format")
		}
	}
	if r.Role != nil && !r.Role.IsValid() {
		return errors.Errorf("unknown role: %v", *r.Role)
	}
	if r.Salary != nil && *r.Salary < 0 {
		return errors.New("salary must not be negative")
	}
	return nil
}

// UpdateFromUser builds a full update from an identity record.
func UpdateFromUser(u User) UpdateUser {
	role := u.Role
	return UpdateUser{
		Name:       &u.Name,
		Email:      &u.Email,
		Role:       &role,
		Position:   &u.Position,
		Department: &u.Department,
		JoinDate:   &u.JoinDate,
		Phone:      u.Phone,
		Address:    u.Address,
		Salary:     u.Salary,
		AvatarURL:  u.AvatarURL,
	}
}
