package models

import "github.com/pkg/errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrForbidden          = errors.New("operation is not allowed")
	ErrConflict           = errors.New("record state conflict")
	ErrBadRequest         = errors.New("bad request")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
