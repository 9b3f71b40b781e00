// Package domain defines the canonical service interfaces shared across
// API layers. Consumers should depend on these interfaces rather than
// re-declaring equivalent ones.
package domain

import (
	"context"
	"time"

	"github.com/countledger/countledger/internal/models"
)

// AuthService defines sign-in and session operations.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	SignOut(ctx context.Context, token string) error
	ProfilesForAccount(ctx context.Context, accountID string) ([]models.Profile, error)
}

// RegistrationService provisions new tenants.
type RegistrationService interface {
	Register(ctx context.Context, req *models.RegistrationRequest) (*models.Profile, error)
}

// AuditService defines audit event recording, trail query, and
// maintenance operations.
type AuditService interface {
	Recorder
	QueryTrail(ctx context.Context, tenantID string, opts models.TrailQueryOpts) ([]models.AuditEvent, bool, error)
	PurgeOldEvents(ctx context.Context, tenantID string, retentionDays int) (int, error)
}

// Recorder is the minimal interface for recording audit events.
// Used by services and handlers for fire-and-forget audit logging.
type Recorder interface {
	RecordEvent(ctx context.Context, tenantID string, req *models.RecordEventRequest) (*models.AuditEvent, error)
}

// Identity is the resolution of a bearer token: the owning account and
// the tenant of its profile.
type Identity struct {
	AccountID string
	TenantID  string
}

// SessionIssuer issues and revokes bearer session tokens.
type SessionIssuer interface {
	IssueSession(ctx context.Context, token, accountID string, ttl time.Duration) error
	RevokeSession(ctx context.Context, token string) error
}
