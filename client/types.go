package client

import "time"

// Profile is the application-level user record, linked one-to-one with
// a tenant. Created server-side during registration.
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

// User is the client-facing record assembled by the login flow and
// persisted as user_data. Absent profile fields are defaulted.
type User struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	Name               string `json:"name"`
	Role               string `json:"role"`
	TenantID           string `json:"tenant_id"`
	CompanyName        string `json:"company_name"`
	Plan               string `json:"plan"`
	SubscriptionStatus string `json:"subscription_status"`
}

// RegistrationRequest is the signup payload.
type RegistrationRequest struct {
	CompanyName     string `json:"company_name"`
	ContactName     string `json:"contact_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Plan            string `json:"plan"`
}

// AuditEvent is an immutable audit trail record as returned by the API.
type AuditEvent struct {
	ID        int64          `json:"id"`
	SKU       string         `json:"sku"`
	Quantity  int            `json:"quantity"`
	Location  string         `json:"location"`
	Source    string         `json:"source"`
	UserName  string         `json:"user_name"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// metadataKindKey is the metadata key carrying the event-kind tag the
// shipper attaches at write time.
const metadataKindKey = "event_kind"

// Kind returns the explicit event-kind tag, or "" for untagged events.
func (e *AuditEvent) Kind() string {
	if e.Metadata == nil {
		return ""
	}
	if k, ok := e.Metadata[metadataKindKey].(string); ok {
		return k
	}
	return ""
}

// RecordEventRequest is the POST /audit/log payload.
type RecordEventRequest struct {
	SKU      string         `json:"sku"`
	Quantity int            `json:"quantity"`
	Location string         `json:"location"`
	Source   string         `json:"source"`
	UserName string         `json:"user_name"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// HealthResponse is the GET /health payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Schema        int     `json:"schema_version"`
	Database      string  `json:"database"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}
