package apperror

import "fmt"

// AuthError is returned for authentication failures. Code carries the
// provider's native error code when one is available.
type AuthError struct {
	Message string
	Code    string
}

func (e *AuthError) Error() string { return e.Message }

// ProfileError is returned when a profile write fails.
type ProfileError struct {
	Message string
	Code    string
}

func (e *ProfileError) Error() string { return e.Message }

// RepositoryError is returned when reading profile or mood rows from the
// backend fails. Code carries the backend's error code for diagnostics.
type RepositoryError struct {
	Message string
	Code    string
}

func (e *RepositoryError) Error() string { return e.Message }

// ValidationError is returned for rejected user input.
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string { return e.Message }

func NewRepositoryError(code, format string, args ...interface{}) *RepositoryError {
	return &RepositoryError{Message: fmt.Sprintf(format, args...), Code: code}
}

func NewProfileError(code, format string, args ...interface{}) *ProfileError {
	return &ProfileError{Message: fmt.Sprintf(format, args...), Code: code}
}
