package dto

import "time"

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	ErrorCodeUnauthorized ErrorCode = "AUTH_001"
	ErrorCodeInvalidToken ErrorCode = "AUTH_002"
	ErrorCodeExpiredToken ErrorCode = "AUTH_003"
	ErrorCodeForbidden    ErrorCode = "AUTH_004"

	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"
	ErrorCodeConflict              ErrorCode = "RES_003"

	ErrorCodeValidationFailed ErrorCode = "VAL_001"
	ErrorCodeInvalidRequest   ErrorCode = "VAL_002"

	ErrorCodeInternalServer ErrorCode = "SRV_001"
)

// ErrorResponse is the envelope of every failed API response.
type ErrorResponse struct {
	Success    bool        `json:"success" example:"false"`
	Message    string      `json:"message" example:"Validation failed"`
	Error      string      `json:"error" example:"registration_date must be a valid date"`
	Code       ErrorCode   `json:"code,omitempty" example:"VAL_001"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"statusCode,omitempty" example:"400"`
	Timestamp  time.Time   `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewErrorResponse creates an error envelope.
func NewErrorResponse(status int, code ErrorCode, message, errText string) *ErrorResponse {
	return &ErrorResponse{
		Success:    false,
		Message:    message,
		Error:      errText,
		Code:       code,
		StatusCode: status,
		Timestamp:  time.Now(),
	}
}

// WithDetails attaches structured details, e.g. per-field validation messages.
func (e *ErrorResponse) WithDetails(details interface{}) *ErrorResponse {
	e.Details = details
	return e
}
