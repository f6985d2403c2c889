// Package auth covers the mock registration step: password rules and the
// signed token handed back once a member exists.
package auth

import (
	"errors"
	"unicode/utf8"
)

const MinPasswordLength = 8

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// FieldError ties a registration failure to the form field that shows it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }
func (e *FieldError) Unwrap() error { return e.Err }

// ValidateRegistration checks the password pair entered on the registration
// step.
func ValidateRegistration(password, confirm string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return &FieldError{Field: "password", Err: ErrPasswordTooShort}
	}
	if password != confirm {
		return &FieldError{Field: "confirmPassword", Err: ErrPasswordMismatch}
	}
	return nil
}
