package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spec-kit/jobit-client/internal/gateway"
	"github.com/spec-kit/jobit-client/internal/navigation"
	"github.com/spec-kit/jobit-client/internal/session"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts gateway, session and generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var credsErr *session.InvalidCredentialsError
	if errors.As(err, &credsErr) {
		return &DomainError{Code: "INVALID_CREDENTIALS", Message: credsErr.Message, HTTPStatus: http.StatusUnauthorized, Err: err}
	}
	if apiErr, ok := gateway.AsError(err); ok {
		return fromGateway(apiErr)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &DomainError{Code: "UPSTREAM_TIMEOUT", Message: "the job board API did not answer in time", HTTPStatus: http.StatusGatewayTimeout, Err: err}
	case errors.Is(err, navigation.ErrRedirectLoop):
		return &DomainError{Code: "REDIRECT_LOOP", Message: "navigation kept redirecting", HTTPStatus: http.StatusLoopDetected, Err: err}
	}
	de, _ := NewInternalError(err).(*DomainError)
	return de
}

// fromGateway keeps client-side statuses and reports upstream failures as 502.
func fromGateway(apiErr *gateway.Error) *DomainError {
	status := apiErr.Status
	if status >= http.StatusInternalServerError {
		status = http.StatusBadGateway
	}
	details := map[string]any{"upstream_status": apiErr.Status}
	if apiErr.Code != "" {
		details["error_code"] = apiErr.Code
	}
	if apiErr.RequestID != "" {
		details["request_id"] = apiErr.RequestID
	}
	return &DomainError{
		Code:       strings.ToUpper(string(apiErr.Kind)),
		Message:    apiErr.Error(),
		HTTPStatus: status,
		Details:    details,
		Err:        apiErr,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
