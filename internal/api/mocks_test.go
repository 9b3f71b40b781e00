package api_test

import (
	"context"

	"github.com/countledger/countledger/internal/models"
)

// mockAuth implements api.AuthProvider with function fields.
type mockAuth struct {
	signInFn   func(ctx context.Context, email, password string) (string, error)
	signOutFn  func(ctx context.Context, token string) error
	profilesFn func(ctx context.Context, accountID string) ([]models.Profile, error)
}

func (m *mockAuth) SignIn(ctx context.Context, email, password string) (string, error) {
	return m.signInFn(ctx, email, password)
}

func (m *mockAuth) SignOut(ctx context.Context, token string) error {
	if m.signOutFn == nil {
		return nil
	}
	return m.signOutFn(ctx, token)
}

func (m *mockAuth) ProfilesForAccount(ctx context.Context, accountID string) ([]models.Profile, error) {
	return m.profilesFn(ctx, accountID)
}

// mockRegistrar implements api.Registrar.
type mockRegistrar struct {
	registerFn func(ctx context.Context, req *models.RegistrationRequest) (*models.Profile, error)
}

func (m *mockRegistrar) Register(ctx context.Context, req *models.RegistrationRequest) (*models.Profile, error) {
	return m.registerFn(ctx, req)
}

// mockAudit implements api.AuditRepository.
type mockAudit struct {
	recordFn func(ctx context.Context, tenantID string, req *models.RecordEventRequest) (*models.AuditEvent, error)
	queryFn  func(ctx context.Context, tenantID string, opts models.TrailQueryOpts) ([]models.AuditEvent, bool, error)
	purgeFn  func(ctx context.Context, tenantID string, retentionDays int) (int, error)
}

func (m *mockAudit) RecordEvent(ctx context.Context, tenantID string, req *models.RecordEventRequest) (*models.AuditEvent, error) {
	return m.recordFn(ctx, tenantID, req)
}

func (m *mockAudit) QueryTrail(ctx context.Context, tenantID string, opts models.TrailQueryOpts) ([]models.AuditEvent, bool, error) {
	return m.queryFn(ctx, tenantID, opts)
}

func (m *mockAudit) PurgeOldEvents(ctx context.Context, tenantID string, retentionDays int) (int, error) {
	return m.purgeFn(ctx, tenantID, retentionDays)
}
