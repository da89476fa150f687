package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user id or key does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrRoleNotFound is returned when a role id or name does not resolve.
	ErrRoleNotFound = errors.New("role not found")
	// ErrUserExists is returned when a username or email is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrRoleExists is returned when a role name is already taken.
	ErrRoleExists = errors.New("role already exists")
	// ErrInvalidCredentials is returned on login with a bad username or password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserInactive is returned when a deactivated user tries to log in.
	ErrUserInactive = errors.New("user account is inactive")
	// ErrForbidden is returned when the authenticated user lacks permission.
	ErrForbidden = errors.New("operation not permitted")
	// ErrInvalidRole is returned when a role is outside the closed enumeration
	// or references a role that does not exist.
	ErrInvalidRole = errors.New("invalid role")
	// ErrRoleInUse is returned when deleting a role still assigned to users.
	ErrRoleInUse = errors.New("role is assigned to users")
)

// ErrorResponse represents a standardized error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrRoleNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ROLE_NOT_FOUND")
	case errors.Is(err, ErrUserExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrRoleExists):
		return NewHTTPError(http.StatusConflict, err.Error(), "ROLE_ALREADY_EXISTS")
	case errors.Is(err, ErrRoleInUse):
		return NewHTTPError(http.StatusConflict, err.Error(), "ROLE_IN_USE")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUserInactive):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "USER_INACTIVE")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusUnprocessableEntity, err.Error(), "INVALID_ROLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
