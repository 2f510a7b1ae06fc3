package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound        ErrorType = "NOT_FOUND"
	ErrorTypeUnauthenticated ErrorType = "UNAUTHENTICATED"
	ErrorTypeForbidden       ErrorType = "FORBIDDEN"
	ErrorTypeConflict        ErrorType = "CONFLICT"
	ErrorTypeInternal        ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	ErrCodeUserNotFound    ErrorCode = "USER_NOT_FOUND"

	ErrCodeMissingPermission ErrorCode = "MISSING_PERMISSION"
	ErrCodeInsufficientRole  ErrorCode = "INSUFFICIENT_ROLE"
	ErrCodeNotResourceOwner  ErrorCode = "NOT_RESOURCE_OWNER"
	ErrCodeNotTeamMember     ErrorCode = "NOT_TEAM_MEMBER"

	ErrCodeSessionNotFound     ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionRevokeDenied ErrorCode = "SESSION_REVOKE_DENIED"

	ErrCodeUserAlreadyExists      ErrorCode = "USER_ALREADY_EXISTS"
	ErrCodeInvitationNotFound     ErrorCode = "INVITATION_NOT_FOUND"
	ErrCodeInvitationAccepted     ErrorCode = "INVITATION_ALREADY_ACCEPTED"
	ErrCodeInvalidInvitationToken ErrorCode = "INVALID_INVITATION_TOKEN"

	ErrCodeProjectNotFound     ErrorCode = "PROJECT_NOT_FOUND"
	ErrCodeTransactionNotFound ErrorCode = "TRANSACTION_NOT_FOUND"
)

// AppError is the error envelope shared by every service and handler.
// StatusCode and Cause never leave the process as JSON.
type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthenticatedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthenticated,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrUnauthenticated = NewUnauthenticatedError("authentication required", ErrCodeUnauthenticated)
	ErrUserNotFound    = NewUnauthenticatedError("no user record for authenticated identity", ErrCodeUserNotFound)

	ErrSessionNotFound     = NewNotFoundError("session not found", ErrCodeSessionNotFound)
	ErrSessionRevokeDenied = NewForbiddenError("cannot revoke a session owned by another user", ErrCodeSessionRevokeDenied)

	ErrUserAlreadyExists      = NewConflictError("a user with this email already exists", ErrCodeUserAlreadyExists)
	ErrInvitationNotFound     = NewNotFoundError("invitation not found", ErrCodeInvitationNotFound)
	ErrInvitationAccepted     = NewConflictError("invitation already accepted", ErrCodeInvitationAccepted)
	ErrInvalidInvitationToken = NewValidationError("invalid invitation token", ErrCodeInvalidInvitationToken)

	ErrProjectNotFound     = NewNotFoundError("project not found", ErrCodeProjectNotFound)
	ErrTransactionNotFound = NewNotFoundError("transaction not found", ErrCodeTransactionNotFound)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
