package api

import (
	"context"
	"errors"
	"fmt"
)

// Error kinds reported by the client. Every error returned by an endpoint
// method wraps exactly one of these, or a context error.
var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrAuthorizationExpired = errors.New("authorization expired")
	ErrOperationRejected    = errors.New("operation rejected")
	ErrNetworkFailure       = errors.New("network failure")
)

// Messages shown when the backend supplied none
const (
	GenericRetryMessage   = "操作失败，请稍后重试"
	NetworkRetryMessage   = "网络异常，请稍后重试"
	SessionExpiredMessage = "登录已过期，请重新登录"
)

// RejectedError is a non-success envelope from the backend
type RejectedError struct {
	Kind    error
	Code    int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v (code %d)", e.Kind, e.Code)
	}
	return fmt.Sprintf("%v (code %d): %s", e.Kind, e.Code, e.Message)
}

func (e *RejectedError) Unwrap() error {
	return e.Kind
}

// ErrorType categorizes client errors for logging and display
type ErrorType string

const (
	ErrorTypeAuth      ErrorType = "auth"
	ErrorTypeExpired   ErrorType = "expired"
	ErrorTypeRejected  ErrorType = "rejected"
	ErrorTypeNetwork   ErrorType = "network"
	ErrorTypeCancelled ErrorType = "cancelled"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// ClassifyError maps an error returned by the client onto its ErrorType
func ClassifyError(err error) ErrorType {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return ErrorTypeCancelled
	case errors.Is(err, ErrAuthenticationFailed):
		return ErrorTypeAuth
	case errors.Is(err, ErrAuthorizationExpired):
		return ErrorTypeExpired
	case errors.Is(err, ErrOperationRejected):
		return ErrorTypeRejected
	case errors.Is(err, ErrNetworkFailure), errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeNetwork
	default:
		return ErrorTypeUnknown
	}
}

// UserMessage returns the text to show for err: the backend's message verbatim
// when it sent one, a generic retry message otherwise.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var rejected *RejectedError
	if errors.As(err, &rejected) && rejected.Message != "" {
		return rejected.Message
	}
	switch ClassifyError(err) {
	case ErrorTypeExpired:
		return SessionExpiredMessage
	case ErrorTypeNetwork:
		return NetworkRetryMessage
	default:
		return GenericRetryMessage
	}
}
