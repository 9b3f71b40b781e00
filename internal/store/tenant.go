package store

import (
	"context"
	"fmt"

	"github.com/countledger/countledger/internal/models"
)

// TenantStore handles tenant provisioning and lookups.
type TenantStore struct {
	Base
}

// NewTenantStore creates a TenantStore.
func NewTenantStore(base Base) *TenantStore {
	return &TenantStore{Base: base}
}

// Provision creates the account, tenant, admin profile, and default
// settings rows in a single transaction. A failure at any step rolls
// back the whole registration, so no orphaned rows are left behind.
func (s *TenantStore) Provision(
	ctx context.Context, req *models.RegistrationRequest, passwordHash string,
) (*models.Profile, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	email := req.NormalizedEmail()

	var accountID string
	err = tx.QueryRow(ctx,
		`INSERT INTO accounts (email, password_hash) VALUES ($1, $2) RETURNING id`,
		email, passwordHash,
	).Scan(&accountID)
	if isUniqueViolation(err) {
		return nil, models.ErrDuplicateEmail
	}
	if err != nil {
		return nil, fmt.Errorf("inserting account: %w", err)
	}

	p := models.Profile{
		Email:       email,
		Name:        req.ContactName,
		Role:        "admin",
		CompanyName: req.CompanyName,
		Plan:        req.PlanOrDefault(),
		IsActive:    true,
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO tenants (company_name, contact_email, contact_name, plan_name)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, subscription_status`,
		req.CompanyName, email, req.ContactName, p.Plan,
	).Scan(&p.TenantID, &p.SubscriptionStatus)
	if err != nil {
		return nil, fmt.Errorf("inserting tenant: %w", err)
	}

	if err := setTenant(ctx, tx, p.TenantID); err != nil {
		return nil, err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO profiles (account_id, tenant_id, email, name, role, is_active)
		 VALUES ($1, $2, $3, $4, $5, TRUE)
		 RETURNING id, created_at`,
		accountID, p.TenantID, email, p.Name, p.Role,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting profile: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO tenant_settings (tenant_id, locations) VALUES ($1, $2)`,
		p.TenantID, []string{models.DefaultLocation},
	)
	if err != nil {
		return nil, fmt.Errorf("inserting tenant settings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing registration: %w", err)
	}

	return &p, nil
}

// GetSettings returns the settings row for a tenant.
func (s *TenantStore) GetSettings(ctx context.Context, tenantID string) (*models.TenantSettings, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	settings := models.TenantSettings{TenantID: tenantID}

	err = tx.QueryRow(ctx,
		`SELECT locations, updated_at FROM tenant_settings WHERE tenant_id = $1`,
		tenantID,
	).Scan(&settings.Locations, &settings.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying tenant settings: %w", err)
	}

	return &settings, nil
}
