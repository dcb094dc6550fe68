package domain

import (
	"errors"
	"strings"
)

// Common domain errors
var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
)

// Registration errors
var (
	ErrDuplicateIdentity = errors.New("user with this email already exists")
	ErrInvalidRole       = errors.New("one or more provided roles are invalid")
	ErrIncompleteProfile = errors.New("profile is missing a required field")
)

// Session errors. Handlers answer all of them with the same 401 so clients
// cannot tell the reasons apart.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("no token provided")
	ErrMalformedToken     = errors.New("token is malformed")
	ErrExpiredToken       = errors.New("token has expired")
	ErrUnknownSigner      = errors.New("token signer is unknown")
	ErrUserNotFound       = errors.New("user not found")
	ErrRevokedToken       = errors.New("token has been revoked")
)

// Profile errors
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfileFields = errors.New("no valid profile fields provided for update")
)

// IsSessionError reports whether err is one of the uniform 401 session failures
func IsSessionError(err error) bool {
	switch {
	case errors.Is(err, ErrMissingToken),
		errors.Is(err, ErrMalformedToken),
		errors.Is(err, ErrExpiredToken),
		errors.Is(err, ErrUnknownSigner),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrRevokedToken):
		return true
	}
	return false
}

// FieldError describes one invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field level details and matches ErrValidation
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
