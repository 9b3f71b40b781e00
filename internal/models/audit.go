package models

import "time"

// AuditEvent is an immutable record of a user or system action,
// consumed by the trail viewer. Append-only.
type AuditEvent struct {
	ID        int64          `json:"id"`
	TenantID  string         `json:"-"`
	SKU       string         `json:"sku"`
	Quantity  int            `json:"quantity"`
	Location  string         `json:"location"`
	Source    string         `json:"source"`
	UserName  string         `json:"user_name"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// MetadataKindKey is the metadata key carrying the explicit event-kind
// tag attached by the shipper at write time.
const MetadataKindKey = "event_kind"

// Kind returns the explicit event-kind tag, or "" when the producer
// did not attach one.
func (e *AuditEvent) Kind() string {
	if e.Metadata == nil {
		return ""
	}
	if k, ok := e.Metadata[MetadataKindKey].(string); ok {
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

// TrailQueryOpts holds server-side filters for the audit trail.
// Client-side filters (free text, date ranges) are applied by the
// trail viewer on top of this.
type TrailQueryOpts struct {
	SKU      string
	Location string
	Source   string
	Limit    int
	Offset   int
}
