package session

import "github.com/pkg/errors"

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrForbidden   = errors.New("operation requires an administrator")
	ErrValidation  = errors.New("validation failed")
)

func validationError(format string, args ...interface{}) error {
	return errors.Wrapf(ErrValidation, format, args...)
}
