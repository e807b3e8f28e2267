// Package domain provides the canonical types and error taxonomy shared by
// the chat orchestrator, provider adapters, and collaborators.
package domain

import (
	"fmt"
	"net/http"
)

// ErrorType represents the category of an API error.
type ErrorType string

const (
	// ErrorTypeInvalidRequest indicates a malformed or invalid request.
	ErrorTypeInvalidRequest ErrorType = "invalid_request"

	// ErrorTypeUnsupportedProvider indicates a provider id that is not in
	// the registry or is disabled for this deployment mode.
	ErrorTypeUnsupportedProvider ErrorType = "unsupported_provider"

	// ErrorTypeProviderNotConfigured indicates a recognized provider whose
	// credential is missing or a placeholder.
	ErrorTypeProviderNotConfigured ErrorType = "provider_not_configured"

	// ErrorTypeUpstream indicates the provider call failed before or during
	// streaming.
	ErrorTypeUpstream ErrorType = "upstream"

	// ErrorTypeServer indicates an internal server error.
	ErrorTypeServer ErrorType = "server"
)

// APIError is the canonical error returned by validation and provider
// layers and translated to HTTP responses by the orchestrator.
type APIError struct {
	// Type is the category of error.
	Type ErrorType `json:"type"`

	// Message is the human-readable error message.
	Message string `json:"error"`

	// Details carries supporting context, e.g. the list of valid provider
	// ids or the name of the expected credential variable.
	Details string `json:"details,omitempty"`

	// StatusCode is the suggested HTTP status code.
	StatusCode int `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// HTTPStatusCode returns the appropriate HTTP status code for this error.
func (e *APIError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}

	switch e.Type {
	case ErrorTypeInvalidRequest, ErrorTypeUnsupportedProvider, ErrorTypeProviderNotConfigured:
		return http.StatusBadRequest
	case ErrorTypeUpstream, ErrorTypeServer:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WithDetails adds supporting context to the error.
func (e *APIError) WithDetails(details string) *APIError {
	e.Details = details
	return e
}

// NewAPIError creates a new API error.
func NewAPIError(errType ErrorType, message string) *APIError {
	return &APIError{Type: errType, Message: message}
}

// ErrInvalidRequest creates an invalid request error.
func ErrInvalidRequest(message string) *APIError {
	return NewAPIError(ErrorTypeInvalidRequest, message)
}

// ErrUnsupportedProvider creates an unsupported provider error.
func ErrUnsupportedProvider(message string) *APIError {
	return NewAPIError(ErrorTypeUnsupportedProvider, message)
}

// ErrProviderNotConfigured creates a provider-not-configured error.
func ErrProviderNotConfigured(message string) *APIError {
	return NewAPIError(ErrorTypeProviderNotConfigured, message)
}

// ErrUpstream creates an upstream failure error.
func ErrUpstream(message string) *APIError {
	return NewAPIError(ErrorTypeUpstream, message)
}
