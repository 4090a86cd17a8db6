package apperrors

import "errors"

// Common errors
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	ErrUnauthorized     = errors.New("authentication required")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("invalid token")
	ErrPermissionDenied = errors.New("permission denied")

	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Student errors
var (
	ErrStudentNotFound         = NewCustomError(ErrResourceNotFound, "student not found")
	ErrStudentVersionConflict  = NewCustomError(ErrConflict, "student was modified by another request")
	ErrInvalidRegistrationDate = NewCustomError(ErrValidationFailed, "registration_date must be a valid date")
	ErrResidentialCategory     = NewCustomError(ErrValidationFailed, "residential_category is required for residential students")
)

// Ledger errors
var (
	ErrLedgerEntryNotFound = NewCustomError(ErrResourceNotFound, "ledger entry not found")
	ErrInvalidLedgerType   = NewCustomError(ErrValidationFailed, "unknown category code for this ledger")
)

// Employee and admin errors
var (
	ErrEmployeeNotFound      = NewCustomError(ErrResourceNotFound, "employee not found")
	ErrEmployeeHasAdmin      = NewCustomError(ErrConflict, "employee is linked to an admin account")
	ErrAdminNotFound         = NewCustomError(ErrResourceNotFound, "admin not found")
	ErrAdminAlreadyExists    = NewCustomError(ErrResourceAlreadyExists, "employee is already an admin")
	ErrAdminPasswordTooShort = NewCustomError(ErrValidationFailed, "password must be at least 8 characters")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewValidationError creates a validation error with a message and optional per-field details.
func NewValidationError(message string, details map[string]interface{}) error {
	return &CustomError{Err: ErrValidationFailed, Message: message, Details: details}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{Err: ErrBadRequest, Message: message}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// Message returns the most specific user-facing message carried by err.
func Message(err error) string {
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom.Error()
	}
	return err.Error()
}

// Details returns the details map of the first CustomError in the chain, if any.
func Details(err error) map[string]interface{} {
	var custom *CustomError
	if errors.As(err, &custom) {
		return custom.Details
	}
	return nil
}
