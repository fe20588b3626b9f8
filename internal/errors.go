package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
	ErrorTypeRemote       ErrorType = "REMOTE_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"
	ErrCodeMissingField        ErrorCode = "MISSING_REQUIRED_FIELD"
	ErrCodeInvalidDate         ErrorCode = "INVALID_DATE"
	ErrCodeMissingCancellation ErrorCode = "MISSING_CANCELLATION_DETAILS"
	ErrCodeDuplicateIMEI       ErrorCode = "DUPLICATE_IMEI"
	ErrCodeTrackerInUse        ErrorCode = "TRACKER_IN_USE"

	ErrCodeServiceNotFound       ErrorCode = "SERVICE_NOT_FOUND"
	ErrCodeTrackerNotFound       ErrorCode = "TRACKER_NOT_FOUND"
	ErrCodeReimbursementNotFound ErrorCode = "REIMBURSEMENT_NOT_FOUND"
	ErrCodeUserNotFound          ErrorCode = "USER_NOT_FOUND"
	ErrCodeNotificationNotFound  ErrorCode = "NOTIFICATION_NOT_FOUND"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeForbiddenRole      ErrorCode = "FORBIDDEN_ROLE"
	ErrCodeNotRecordOwner     ErrorCode = "NOT_RECORD_OWNER"
	ErrCodeProtectedUser      ErrorCode = "PROTECTED_USER"

	ErrCodeRemoteWriteFailed ErrorCode = "REMOTE_WRITE_FAILED"
	ErrCodeSchemaMismatch    ErrorCode = "SCHEMA_MISMATCH"
	ErrCodeStoreUnavailable  ErrorCode = "STORE_UNAVAILABLE"
)

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

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// AsValidationError coerces a validation failure into an AppError,
// keeping the specific code when the validator already produced one.
func AsValidationError(err error) *AppError {
	if appErr, ok := IsAppError(err); ok {
		return appErr
	}
	return NewValidationError(err.Error(), ErrCodeValidationFailed)
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
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

func NewRemoteError(message string, code ErrorCode, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeRemote,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
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
	ErrMissingCancellation = NewValidationError("cancellation reason and cancelled-by are required for a cancelled service", ErrCodeMissingCancellation)
	ErrDuplicateIMEI       = NewConflictError("a tracker with this IMEI already exists", ErrCodeDuplicateIMEI)
	ErrTrackerInUse        = NewValidationError("only available trackers can be deleted", ErrCodeTrackerInUse)

	ErrServiceNotFound       = NewNotFoundError("service record not found", ErrCodeServiceNotFound)
	ErrTrackerNotFound       = NewNotFoundError("tracker not found", ErrCodeTrackerNotFound)
	ErrReimbursementNotFound = NewNotFoundError("reimbursement not found", ErrCodeReimbursementNotFound)
	ErrUserNotFound          = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrNotificationNotFound  = NewNotFoundError("notification not found", ErrCodeNotificationNotFound)

	ErrInvalidCredentials = NewUnauthorizedError("invalid phone or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("user account is suspended", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("invalid session token", ErrCodeInvalidToken)
	ErrForbiddenRole      = NewForbiddenError("this operation requires an administrator role", ErrCodeForbiddenRole)
	ErrNotRecordOwner     = NewForbiddenError("technicians may only change their own records", ErrCodeNotRecordOwner)
	ErrProtectedUser      = NewForbiddenError("this account is protected and cannot be suspended or deleted", ErrCodeProtectedUser)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// TranslateRemoteError converts a raw store error into an operator-facing
// AppError. Missing columns and tables get an actionable message because a
// misconfigured remote schema is the most common deployment failure; every
// other store error falls back to a generic remote-write notice.
func TranslateRemoteError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := IsAppError(err); ok {
		return appErr
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError("record not found in remote store", ErrCodeRemoteWriteFailed).WithCause(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UndefinedColumn:
			return NewRemoteError(
				fmt.Sprintf("the remote table is missing a column (%s); run the pending migrations", pgErr.Message),
				ErrCodeSchemaMismatch, err)
		case pgerrcode.UndefinedTable:
			return NewRemoteError(
				fmt.Sprintf("the remote table does not exist (%s); run the pending migrations", pgErr.Message),
				ErrCodeSchemaMismatch, err)
		case pgerrcode.UniqueViolation:
			return NewConflictError("the remote store rejected a duplicate value", ErrCodeRemoteWriteFailed).WithCause(err)
		}
	}

	return NewRemoteError("the change could not be saved to the remote store", ErrCodeRemoteWriteFailed, err)
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
