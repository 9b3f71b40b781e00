package models

import "time"

// Account is the bare credential record, distinct from the
// application-level Profile it backs.
type Account struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	EmailConfirmed bool      `json:"email_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
}

// Profile is the application-level user record, linked one-to-one
// with a tenant. A profile with an empty TenantID is never treated as
// fully authenticated.
type Profile struct {
	ID                 string    `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Role               string    `json:"role"`
	TenantID           string    `json:"tenant_id"`
	CompanyName        string    `json:"company_name"`
	Plan               string    `json:"plan"`
	SubscriptionStatus string    `json:"subscription_status"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
}

// Session is an issued bearer token. Only the SHA-256 hash of the
// token is stored; the raw token is returned to the caller once.
type Session struct {
	TokenHash string
	AccountID string
	ExpiresAt time.Time
	CreatedAt time.Time
}
