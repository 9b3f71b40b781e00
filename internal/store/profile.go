package store

import (
	"context"
	"fmt"

	"github.com/countledger/countledger/internal/models"
)

// ProfileStore provides data access for the profiles table.
type ProfileStore struct {
	Base
}

// NewProfileStore creates a ProfileStore.
func NewProfileStore(base Base) *ProfileStore {
	return &ProfileStore{Base: base}
}

// GetProfilesByAccount returns the profiles owned by an account, oldest
// first, joined with tenant data for company, plan, and subscription
// fields. The caller's identity comes from the session token, so no
// tenant scoping is applied here.
func (s *ProfileStore) GetProfilesByAccount(ctx context.Context, accountID string) ([]models.Profile, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		`SELECT p.id, p.email, p.name, p.role, p.tenant_id, p.is_active, p.created_at,
		        t.company_name, t.plan_name, t.subscription_status
		 FROM profiles p
		 JOIN tenants t ON t.id = p.tenant_id
		 WHERE p.account_id = $1
		 ORDER BY p.created_at`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		var p models.Profile

		if err := rows.Scan(
			&p.ID, &p.Email, &p.Name, &p.Role, &p.TenantID, &p.IsActive, &p.CreatedAt,
			&p.CompanyName, &p.Plan, &p.SubscriptionStatus,
		); err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}

		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating profiles: %w", err)
	}

	return profiles, nil
}
