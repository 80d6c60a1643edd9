// Package errors provides standardized error handling for the outings service.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeProviderUnavailable ErrorCode = "PROVIDER_UNAVAILABLE"
	ErrCodeProviderTimeout     ErrorCode = "PROVIDER_TIMEOUT"
	ErrCodeMalformedResponse   ErrorCode = "MALFORMED_PROVIDER_RESPONSE"
	ErrCodeProviderKeyMissing  ErrorCode = "PROVIDER_KEY_MISSING"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeStoreQueryFailed  ErrorCode = "STORE_QUERY_FAILED"
	ErrCodeStoreUpsertFailed ErrorCode = "STORE_UPSERT_FAILED"

	ErrCodeSuggestionNotFound ErrorCode = "SUGGESTION_NOT_FOUND"
	ErrCodeInvalidCommand     ErrorCode = "INVALID_COMMAND"
	ErrCodeInvalidGroupInput  ErrorCode = "INVALID_GROUP_INPUT"

	ErrCodeLLMTimeout         ErrorCode = "LLM_TIMEOUT"
	ErrCodeLLMGenerateFailed  ErrorCode = "LLM_GENERATE_FAILED"
	ErrCodeValidationFailed   ErrorCode = "SCHEMA_VALIDATION_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewProviderUnavailableError creates a retryable upstream provider error.
func NewProviderUnavailableError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderUnavailable,
		Message:   "Suggestion provider request failed",
		Details:   fmt.Sprintf("source: %s, error: %s", source, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderTimeoutError creates a retryable provider timeout error.
func NewProviderTimeoutError(source string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderTimeout,
		Message:   "Suggestion provider timeout",
		Details:   fmt.Sprintf("source: %s", source),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedResponseError creates a non-retryable malformed payload error.
func NewMalformedResponseError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedResponse,
		Message:   "Suggestion provider returned an unparseable payload",
		Details:   fmt.Sprintf("source: %s, error: %s", source, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderKeyMissingError creates a non-retryable missing credential error.
func NewProviderKeyMissingError(source string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderKeyMissing,
		Message:   "Suggestion provider API key not configured",
		Details:   fmt.Sprintf("source: %s", source),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheUnavailableError creates a retryable cache backend error.
func NewCacheUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheUnavailable,
		Message:   "Suggestion cache backend error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreQueryFailedError creates a retryable store read error.
func NewStoreQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreQueryFailed,
		Message:   "Suggestion store query failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreUpsertFailedError creates a retryable store write error.
func NewStoreUpsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreUpsertFailed,
		Message:   "Suggestion store upsert failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSuggestionNotFoundError creates a non-retryable lookup error.
func NewSuggestionNotFoundError(title string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSuggestionNotFound,
		Message:   "Suggestion not found for group",
		Details:   fmt.Sprintf("title: %s", title),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidCommandError creates a non-retryable bot command error.
func NewInvalidCommandError(command string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidCommand,
		Message:   "Unrecognized bot command",
		Details:   fmt.Sprintf("command: %s", command),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidGroupInputError creates a non-retryable group input error.
func NewInvalidGroupInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidGroupInput,
		Message:   "Group context validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable LLM timeout error.
func NewLLMTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "LLM generation timeout",
		Details:   "API call exceeded timeout threshold",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMGenerateFailedError creates a retryable LLM generation error.
func NewLLMGenerateFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMGenerateFailed,
		Message:   "LLM generation API error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a non-retryable schema validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Payload failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCacheUnavailable,
		ErrCodeStoreQueryFailed,
		ErrCodeStoreUpsertFailed,
		ErrCodeLLMGenerateFailed:
		return 3

	case ErrCodeProviderTimeout,
		ErrCodeLLMTimeout:
		return 2

	case ErrCodeProviderUnavailable:
		return 1

	default:
		return 0 // Business errors: no retry
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PROVIDER"):
		return "PROVIDER"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "STORE"):
		return "STORE"
	case strings.Contains(codeStr, "LLM"):
		return "AI"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "NOT_FOUND"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
