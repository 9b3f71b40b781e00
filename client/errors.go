package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// APIError represents a structured error response from the countledger API.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("countledger: %d %s: %s (request_id=%s)", e.StatusCode, e.Code, e.Message, e.RequestID)
	}
	return fmt.Sprintf("countledger: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// parseAPIError attempts to decode a JSON error body; falls back to raw text.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "unknown"
		apiErr.Message = string(body)
	}
	return apiErr
}

// ErrorKind is the closed set of failure categories the SDK surfaces.
// Kinds are derived from the server's stable error codes, never from
// message prose, so message wording can change without breaking callers.
type ErrorKind string

const (
	KindUnknown              ErrorKind = "unknown"
	KindNetwork              ErrorKind = "network"
	KindValidation           ErrorKind = "validation"
	KindInvalidCredentials   ErrorKind = "invalid_credentials"
	KindEmailUnconfirmed     ErrorKind = "email_unconfirmed"
	KindRateLimited          ErrorKind = "rate_limited"
	KindDuplicateEmail       ErrorKind = "duplicate_email"
	KindProfileIncomplete    ErrorKind = "profile_incomplete"
	KindDeactivated          ErrorKind = "deactivated"
	KindSubscriptionInactive ErrorKind = "subscription_inactive"
)

// codeKinds maps server error codes to client error kinds.
var codeKinds = map[string]ErrorKind{
	"validation_error":    KindValidation,
	"invalid_credentials": KindInvalidCredentials,
	"email_unconfirmed":   KindEmailUnconfirmed,
	"rate_limited":        KindRateLimited,
	"duplicate_email":     KindDuplicateEmail,
}

// FlowError is a classified failure from one of the SDK flows.
type FlowError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *FlowError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

// Unwrap returns the underlying cause, if any.
func (e *FlowError) Unwrap() error { return e.Err }

// Classify maps any SDK error to its ErrorKind. API errors map by code;
// transport errors map to KindNetwork; everything else is KindUnknown.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var flowErr *FlowError
	if errors.As(err, &flowErr) {
		return flowErr.Kind
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if kind, ok := codeKinds[apiErr.Code]; ok {
			return kind
		}
		return KindUnknown
	}

	return KindNetwork
}

// flowError wraps err with a kind and user-facing message.
func flowError(kind ErrorKind, message string, err error) *FlowError {
	return &FlowError{Kind: kind, Message: message, Err: err}
}
