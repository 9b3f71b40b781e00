package api

import (
	"github.com/gin-gonic/gin"

	"github.com/countledger/countledger/internal/httputil"
	"github.com/countledger/countledger/internal/metrics"
)

// Error code constants for standardized API responses. Codes are part of
// the wire contract: clients map them to typed error kinds, so they must
// stay stable even when messages change.
const (
	ErrCodeInvalidRequest     = "invalid_request"
	ErrCodeNotFound           = "not_found"
	ErrCodeInternalError      = "internal_error"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeRateLimited        = "rate_limited"
	ErrCodeValidationError    = "validation_error"
	ErrCodeInvalidCredentials = "invalid_credentials"
	ErrCodeEmailUnconfirmed   = "email_unconfirmed"
	ErrCodeDuplicateEmail     = "duplicate_email"
)

// respondError writes a standardized JSON error response, pulling the request
// ID from the Gin context (set by the request ID middleware).
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}
