package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. The code doubles as the kind name reported in response headers.
const (
	CodeNotFound            = "NotFound"
	CodeDuplicateEntry      = "DuplicateEntry"
	CodeForeignKeyViolation = "ForeignKeyViolation"
	CodeCreateFailed        = "CreateFailed"
	CodeUpdateFailed        = "UpdateFailed"
	CodeDeleteFailed        = "DeleteFailed"
	CodeUnexpected          = "Unexpected"
	CodeUnknown             = "Unknown"
	CodeInvalidProperties   = "InvalidProperties"
	CodeTokenMissing        = "TokenMissing"
	CodeTokenExpired        = "TokenExpired"
	CodeTokenVerification   = "TokenVerification"
	CodeUnauthorized        = "Unauthorized"
	CodeForbidden           = "Forbidden"
	CodeInvalidCredentials  = "InvalidCredentials"
	CodeClassConflict       = "ClassConflict"
)

// StatusForeignKeyViolation is this API's status for referential-integrity violations.
const StatusForeignKeyViolation = 512

// FieldError describes one offending request field.
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Details interface{} `json:"data,omitempty"`
	Err     error       `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors of the same kind so errors.Is works against the sentinels.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

var (
	ErrNotFound            = New(CodeNotFound, http.StatusNotFound, "resource not found")
	ErrDuplicateEntry      = New(CodeDuplicateEntry, http.StatusConflict, "duplicate entry")
	ErrForeignKeyViolation = New(CodeForeignKeyViolation, StatusForeignKeyViolation, "referenced resource does not exist")
	ErrCreateFailed        = New(CodeCreateFailed, http.StatusInternalServerError, "create failed")
	ErrUpdateFailed        = New(CodeUpdateFailed, http.StatusInternalServerError, "update failed")
	ErrDeleteFailed        = New(CodeDeleteFailed, http.StatusInternalServerError, "delete failed")
	ErrUnexpected          = New(CodeUnexpected, http.StatusInternalServerError, "unexpected storage result")
	ErrUnknown             = New(CodeUnknown, http.StatusInternalServerError, "internal server error")
	ErrInvalidProperties   = New(CodeInvalidProperties, http.StatusUnprocessableEntity, "invalid properties")
	ErrTokenMissing        = New(CodeTokenMissing, http.StatusUnauthorized, "access denied: no token provided")
	ErrTokenExpired        = New(CodeTokenExpired, http.StatusUnauthorized, "token has expired")
	ErrTokenVerification   = New(CodeTokenVerification, http.StatusUnauthorized, "token verification failed")
	ErrUnauthorized        = New(CodeUnauthorized, http.StatusUnauthorized, "unauthorized")
	ErrForbidden           = New(CodeForbidden, http.StatusForbidden, "forbidden")
	ErrInvalidCredentials  = New(CodeInvalidCredentials, http.StatusUnauthorized, "invalid email or password")
	ErrClassConflict       = New(CodeClassConflict, http.StatusConflict, "class conflicts with the timetable")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrUnknown.Code, ErrUnknown.Status, ErrUnknown.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// WithDetails returns a copy of err carrying the structured payload.
func WithDetails(err *Error, message string, details interface{}) *Error {
	clone := Clone(err, message)
	if clone != nil {
		clone.Details = details
	}
	return clone
}

// Invalid builds an InvalidProperties error for the given fields.
func Invalid(fields ...FieldError) *Error {
	return WithDetails(ErrInvalidProperties, "", fields)
}
