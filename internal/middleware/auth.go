package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/countledger/countledger/internal/domain"
)

// authTimingFloor is the minimum response time for auth endpoints to prevent
// timing oracle attacks that could distinguish valid from invalid tokens.
const authTimingFloor = 50 * time.Millisecond

// SessionLookup resolves a raw bearer session token to an identity.
type SessionLookup interface {
	ResolveToken(ctx context.Context, token string) (domain.Identity, error)
}

// truncateToken returns at most the first 4 characters of token followed by "...".
func truncateToken(token string) string {
	if len(token) > 4 {
		return token[:4] + "..."
	}
	return token
}

// enforceTimingFloor sleeps if needed so the response takes at least authTimingFloor.
func enforceTimingFloor(start time.Time) {
	if elapsed := time.Since(start); elapsed < authTimingFloor {
		time.Sleep(authTimingFloor - elapsed)
	}
}

// AuthMiddleware returns Gin middleware that authenticates requests via Bearer
// session token. If a BruteForceGuard is provided, failed attempts are tracked
// per token hash.
func AuthMiddleware(lookup SessionLookup, log *logrus.Logger, guards ...*BruteForceGuard) gin.HandlerFunc {
	var guard *BruteForceGuard
	if len(guards) > 0 {
		guard = guards[0]
	}

	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if c.Writer.Status() == http.StatusUnauthorized {
				enforceTimingFloor(start)
			}
		}()

		token := ExtractBearerToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid authorization header")
			return
		}

		id, err := lookup.ResolveToken(c.Request.Context(), token)
		if err != nil {
			logAuthFailure(log, c, token)

			if guard != nil {
				guard.RecordFailure(token)
			}

			respondError(c, http.StatusUnauthorized, "unauthorized", "invalid or expired session token")
			return
		}

		if guard != nil {
			guard.ResetKey(token)
		}

		c.Set("account_id", id.AccountID)
		c.Set("tenant_id", id.TenantID)
		c.Next()
	}
}

// ExtractBearerToken extracts the session token from the Authorization header.
func ExtractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// logAuthFailure logs a failed authentication attempt.
func logAuthFailure(log *logrus.Logger, c *gin.Context, token string) {
	log.WithFields(logrus.Fields{
		"client_ip":    c.ClientIP(),
		"method":       c.Request.Method,
		"path":         c.Request.URL.Path,
		"user_agent":   c.Request.UserAgent(),
		"request_id":   c.GetString("request_id"),
		"token_prefix": truncateToken(token),
	}).Warn("authentication failed: invalid session token")
}
