// Package errors provides standardized error handling for the orchestrator API.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeBackendUnavailable   ErrorCode = "BACKEND_UNAVAILABLE"
	ErrCodeModelRequestFailed   ErrorCode = "MODEL_REQUEST_FAILED"
	ErrCodeModelTimeout         ErrorCode = "MODEL_TIMEOUT"
	ErrCodeModelResponseInvalid ErrorCode = "MODEL_RESPONSE_INVALID"
	ErrCodeResponseRejected     ErrorCode = "RESPONSE_REJECTED"

	ErrCodeStatusCheckFailed ErrorCode = "STATUS_CHECK_FAILED"

	ErrCodeInvalidRequest          ErrorCode = "INVALID_REQUEST"
	ErrCodeTemplateRegistryInvalid ErrorCode = "TEMPLATE_REGISTRY_INVALID"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns the error with an extra metadata entry.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewBackendUnavailableError creates a retryable error for an unreachable model backend.
func NewBackendUnavailableError(err error) *StandardError {
	return newError(ErrCodeBackendUnavailable, "Model backend unavailable", errDetails(err), true, err)
}

// NewModelRequestFailedError creates a retryable model call error.
func NewModelRequestFailedError(model string, err error) *StandardError {
	return newError(ErrCodeModelRequestFailed, "Model request failed",
		fmt.Sprintf("model: %s, error: %s", model, errDetails(err)), true, err).
		WithMetadata("model", model)
}

// NewModelTimeoutError creates a retryable model timeout error.
func NewModelTimeoutError(model string, timeout time.Duration) *StandardError {
	return newError(ErrCodeModelTimeout, "Model request timeout",
		fmt.Sprintf("model: %s, timeout: %s", model, timeout), true, nil).
		WithMetadata("model", model)
}

// NewModelResponseInvalidError creates an error for an undecodable model response.
func NewModelResponseInvalidError(model string, err error) *StandardError {
	return newError(ErrCodeModelResponseInvalid, "Model response could not be decoded",
		fmt.Sprintf("model: %s, error: %s", model, errDetails(err)), true, err).
		WithMetadata("model", model)
}

// NewResponseRejectedError creates a non-retryable content policy rejection.
func NewResponseRejectedError(model, reason string) *StandardError {
	return newError(ErrCodeResponseRejected, "Model response rejected",
		fmt.Sprintf("model: %s, reason: %s", model, reason), false, nil).
		WithMetadata("model", model)
}

// NewStatusCheckFailedError creates a retryable availability check error.
func NewStatusCheckFailedError(err error) *StandardError {
	return newError(ErrCodeStatusCheckFailed, "Backend status check failed", errDetails(err), true, err)
}

// NewInvalidRequestError creates a non-retryable request validation error.
func NewInvalidRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidRequest, "Invalid request", details, false, nil)
}

// NewTemplateRegistryInvalidError creates a non-retryable registry error.
func NewTemplateRegistryInvalidError(path string, err error) *StandardError {
	return newError(ErrCodeTemplateRegistryInvalid, "Template registry invalid",
		fmt.Sprintf("path: %s, error: %s", path, errDetails(err)), false, err)
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", errDetails(err), false, err)
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// AsStandardError extracts a StandardError from an error chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsRetryable reports whether an error chain carries a retryable StandardError.
func IsRetryable(err error) bool {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr.Retryable
	}
	return false
}

// HasCode reports whether an error chain carries a StandardError with the code.
func HasCode(err error, code ErrorCode) bool {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr.Code == code
	}
	return false
}

// HTTPStatus maps an error code to a response status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case ErrCodeBackendUnavailable, ErrCodeStatusCheckFailed:
		return http.StatusServiceUnavailable
	case ErrCodeModelTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeModelRequestFailed, ErrCodeModelResponseInvalid, ErrCodeResponseRejected:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "MODEL") || strings.HasPrefix(codeStr, "RESPONSE"):
		return "MODEL"
	case strings.Contains(codeStr, "BACKEND") || strings.Contains(codeStr, "STATUS"):
		return "BACKEND"
	case strings.Contains(codeStr, "TEMPLATE"):
		return "TEMPLATE"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
