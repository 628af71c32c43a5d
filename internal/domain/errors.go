package domain

import "fmt"

// AuthError indicates a missing, invalid or expired credential. Maps to 401.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// ErrInvalidCredentials is returned on failed login without revealing which
// part of the credential was wrong.
var ErrInvalidCredentials = &AuthError{Message: "invalid credentials"}

// PermissionError indicates insufficient workspace permission. Maps to 403.
type PermissionError struct {
	Required Permission
	Actual   Permission
}

func (e *PermissionError) Error() string {
	if e.Actual == PermissionNone {
		return fmt.Sprintf("%s access required, none granted", e.Required)
	}
	return fmt.Sprintf("%s access required, have %s", e.Required, e.Actual)
}

// NotFoundError indicates a resource that is absent or not visible to the
// caller. Maps to 404.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// ValidationError indicates a rejected payload. Maps to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError indicates a uniqueness violation such as a duplicate share,
// link or username. Maps to 400 with a specific message.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }
