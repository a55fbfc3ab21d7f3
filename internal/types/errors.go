package types

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Complete error code constants.
// All handlers MUST use these constants instead of hardcoded strings.
const (
	// Validation (400/422)
	ErrCodeValidationInvalidBody    ErrorCode = "validation_invalid_body"
	ErrCodeValidationMissingField   ErrorCode = "validation_missing_required_field"
	ErrCodeValidationInvalidEmail   ErrorCode = "validation_invalid_email"
	ErrCodeValidationUnknownVariant ErrorCode = "validation_unknown_template_variant"
	ErrCodeValidationPlaceholder    ErrorCode = "validation_unknown_placeholder"
	ErrCodeParseBody                ErrorCode = "parse_request_body"

	// Permission (403)
	ErrCodePermissionDenied ErrorCode = "permission_denied"

	// Not Found (404)
	ErrCodeNotFoundTemplate ErrorCode = "not_found_template"
	ErrCodeNotFoundRole     ErrorCode = "not_found_role"
	ErrCodeNotFoundRoute    ErrorCode = "not_found_route"

	// Conflict (409)
	ErrCodeConflictTemplate ErrorCode = "conflict_template_exists"

	// Internal (500)
	ErrCodeInternalDB         ErrorCode = "internal_database_error"
	ErrCodeInternalConnection ErrorCode = "internal_connection_error"
	ErrCodeInternalRender     ErrorCode = "internal_render_error"
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"

	// Upstream (502/429)
	ErrCodeUpstreamEmailProvider ErrorCode = "upstream_email_provider"
	ErrCodeUpstreamUnavailable   ErrorCode = "upstream_unavailable"
	ErrCodeUpstreamRateLimited   ErrorCode = "upstream_rate_limited"

	// Emarsys domain errors carry the provider's reply code/text in Details.
	ErrCodeEmarsysReply ErrorCode = "emarsys_reply_error"
)

// HTTPStatus maps an ErrorCode to its corresponding HTTP status code.
// Used by the API layer to translate AppErrors into HTTP responses.
// Returns 500 for unrecognized error codes as a safe default.
func (c ErrorCode) HTTPStatus() int {
	s := string(c)
	switch {
	case s == string(ErrCodeParseBody):
		return http.StatusUnprocessableEntity // 422
	case strings.HasPrefix(s, "validation_"):
		return http.StatusBadRequest // 400
	case strings.HasPrefix(s, "permission_"):
		return http.StatusForbidden // 403
	case strings.HasPrefix(s, "not_found_"):
		return http.StatusNotFound // 404
	case strings.HasPrefix(s, "conflict_"):
		return http.StatusConflict // 409
	case s == string(ErrCodeEmarsysReply):
		return http.StatusBadRequest // 400, provider diagnostics in Details
	case s == string(ErrCodeUpstreamRateLimited):
		return http.StatusTooManyRequests // 429
	case strings.HasPrefix(s, "upstream_"):
		return http.StatusBadGateway // 502
	case strings.HasPrefix(s, "internal_"):
		return http.StatusInternalServerError // 500
	default:
		return http.StatusInternalServerError // 500
	}
}

// AppError is the standard application error type used throughout the service.
// All domain and handler errors should be expressed as AppError to enable
// consistent error formatting, HTTP status mapping, and error chain support.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code corresponding to this error's code.
func (e *AppError) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// NewAppError creates a new AppError with the given code, message, and optional
// underlying error. This is the standard constructor for domain errors.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails creates a new AppError with the given code, message,
// underlying error, and structured details.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}

// WrapStage annotates err with dispatch-stage context while preserving the
// original AppError code for status mapping. Non-AppError causes are wrapped
// as internal_unexpected_error. Contexts compose into a single chain; the
// original error remains reachable via errors.As.
func WrapStage(stage string, subject string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: fmt.Sprintf("%s stage failed for %s: %s", stage, subject, appErr.Message),
			Err:     appErr,
			Details: appErr.Details,
		}
	}
	return &AppError{
		Code:    ErrCodeInternalUnexpected,
		Message: fmt.Sprintf("%s stage failed for %s", stage, subject),
		Err:     err,
	}
}
