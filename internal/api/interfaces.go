package api

import (
	"context"

	"github.com/countledger/countledger/internal/domain"
	"github.com/countledger/countledger/internal/models"
)

// AuthProvider defines the authentication operations used by AuthHandler.
type AuthProvider = domain.AuthService

// Registrar provisions new tenants for RegistrationHandler.
type Registrar = domain.RegistrationService

// AuditRepository defines audit trail operations used by AuditHandler.
type AuditRepository = domain.AuditService

// SettingsReader loads per-tenant settings.
type SettingsReader interface {
	GetSettings(ctx context.Context, tenantID string) (*models.TenantSettings, error)
}
