package authapimodels

import (
	"net/mail"
	"strings"

	"github.com/pkg/errors"
	usersapimodels "hrms-backend/models/api/users"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	_, err := mail.ParseAddress(r.Email)
	if err != nil {
		return errors.New("email has invalid format")
	}
	return nil
}

type LoginResponse struct {
	User  usersapimodels.User `json:"user"`
	Token string              `json:"token"`
}

type RegisterRequest struct {
	usersapimodels.User
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("email has invalid format")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	if r.Role != "" && !r.Role.IsValid() {
		return errors.Errorf("unknown role: %v", r.Role)
	}
	if r.Salary != nil && *r.Salary < 0 {
		return errors.New("salary must not be negative")
	}
	return nil
}
