package service

import (
	"context"
	"sync"
	"time"

	"github.com/countledger/countledger/internal/models"
)

// mockRecorder captures recorded audit events.
type mockRecorder struct {
	mu    sync.Mutex
	calls []AuditJob
	err   error
}

func (m *mockRecorder) RecordEvent(_ context.Context, tenantID string, req *models.RecordEventRequest) (*models.AuditEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, AuditJob{TenantID: tenantID, Event: *req})
	if m.err != nil {
		return nil, m.err
	}
	return &models.AuditEvent{ID: int64(len(m.calls)), SKU: req.SKU, Timestamp: time.Now()}, nil
}

func (m *mockRecorder) getCalls() []AuditJob {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]AuditJob, len(m.calls))
	copy(out, m.calls)
	return out
}

// mockAccounts returns a fixed account or error.
type mockAccounts struct {
	account *models.Account
	err     error
}

func (m *mockAccounts) GetAccountByEmail(_ context.Context, _ string) (*models.Account, error) {
	return m.account, m.err
}

// mockSessions records issued and revoked tokens.
type mockSessions struct {
	issued  []string
	revoked []string
	err     error
}

func (m *mockSessions) IssueSession(_ context.Context, token, _ string, _ time.Duration) error {
	m.issued = append(m.issued, token)
	return m.err
}

func (m *mockSessions) RevokeSession(_ context.Context, token string) error {
	m.revoked = append(m.revoked, token)
	return nil
}

// mockProfiles returns fixed profile rows.
type mockProfiles struct {
	profiles []models.Profile
	err      error
}

func (m *mockProfiles) GetProfilesByAccount(_ context.Context, _ string) ([]models.Profile, error) {
	return m.profiles, m.err
}

// mockProvisioner records provision calls.
type mockProvisioner struct {
	profile *models.Profile
	err     error
	calls   int
	hashes  []string
}

func (m *mockProvisioner) Provision(_ context.Context, _ *models.RegistrationRequest, passwordHash string) (*models.Profile, error) {
	m.calls++
	m.hashes = append(m.hashes, passwordHash)
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}
