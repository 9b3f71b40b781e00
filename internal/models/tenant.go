// Package models defines the data types shared by the API, service,
// and store layers.
package models

import (
	"regexp"
	"strings"
	"time"
)

// Tenant is an isolated customer organization. Created once at
// registration; there is no update or delete path.
type Tenant struct {
	ID                 string    `json:"id"`
	CompanyName        string    `json:"company_name"`
	ContactEmail       string    `json:"contact_email"`
	ContactName        string    `json:"contact_name"`
	PlanName           string    `json:"plan_name"`
	SubscriptionStatus string    `json:"subscription_status"`
	CreatedAt          time.Time `json:"created_at"`
}

// TenantSettings holds per-tenant configuration. A default row is
// seeded at registration with a single location entry.
type TenantSettings struct {
	TenantID  string    `json:"tenant_id"`
	Locations []string  `json:"locations"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultLocation seeds the settings row created during registration.
const DefaultLocation = "MAIN"

// RegistrationRequest is the signup payload. Validation is local and
// pre-flight: no store call is issued until Validate passes.
type RegistrationRequest struct {
	CompanyName     string `json:"company_name"`
	ContactName     string `json:"contact_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Plan            string `json:"plan"`
}

// emailPattern is deliberately loose: one @, at least one dot in the
// domain, no whitespace. Real validation happens at delivery time.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 6

// Validate checks the registration payload. The first violation wins;
// the returned error message is user-facing.
func (r *RegistrationRequest) Validate() error {
	if strings.TrimSpace(r.CompanyName) == "" {
		return ErrMissingCompanyName
	}
	if strings.TrimSpace(r.ContactName) == "" {
		return ErrMissingContactName
	}
	if strings.TrimSpace(r.Email) == "" {
		return ErrMissingEmail
	}
	if !emailPattern.MatchString(strings.TrimSpace(r.Email)) {
		return ErrInvalidEmail
	}
	if r.Password == "" {
		return ErrMissingPassword
	}
	if len(r.Password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if r.Password != r.PasswordConfirm {
		return ErrPasswordMismatch
	}

	return nil
}

// NormalizeEmail trims and lowercases an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizedEmail returns the email trimmed and lowercased for storage.
func (r *RegistrationRequest) NormalizedEmail() string {
	return NormalizeEmail(r.Email)
}

// PlanOrDefault returns the selected plan, defaulting to "trial".
func (r *RegistrationRequest) PlanOrDefault() string {
	if r.Plan == "" {
		return "trial"
	}

	return r.Plan
}
