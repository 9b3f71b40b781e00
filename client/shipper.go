package client

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// EventKind tags an audit event with its producer category at write
// time, so the trail viewer never has to infer it.
type EventKind string

const (
	EventScan   EventKind = "scan"
	EventAuth   EventKind = "auth"
	EventCount  EventKind = "count_action"
	EventConfig EventKind = "config_change"
)

// Event is a loosely-typed event description accepted by the shipper.
// Zero-valued fields are filled in during normalization.
type Event struct {
	Kind     EventKind
	SKU      string
	Quantity int
	Location string
	Source   string
	UserName string
	Metadata map[string]any
}

// Normalization defaults.
const (
	defaultSKU      = "UNKNOWN"
	defaultLocation = "SYSTEM"
	defaultSource   = "mobile_app"
)

// Shipper normalizes audit events and attempts exactly one delivery
// each: no retry, no queue, no offline buffering. It is an explicit
// dependency, constructed once and injected — never a process global.
type Shipper struct {
	client *Client
	log    *logrus.Logger
	now    func() time.Time
}

// NewShipper creates a Shipper using the client's session store for
// identity resolution.
func NewShipper(c *Client, log *logrus.Logger) *Shipper {
	if log == nil {
		log = logrus.New()
	}
	return &Shipper{client: c, log: log, now: time.Now}
}

// normalize fills defaults and injects the event-kind tag and a client
// timestamp into the metadata.
func (s *Shipper) normalize(event Event, user *User) RecordEventRequest {
	req := RecordEventRequest{
		SKU:      event.SKU,
		Quantity: event.Quantity,
		Location: event.Location,
		Source:   event.Source,
		UserName: event.UserName,
	}

	if req.SKU == "" {
		req.SKU = defaultSKU
	}
	if req.Quantity == 0 && event.Kind == EventScan {
		// A scan with no explicit quantity means one unit counted.
		req.Quantity = 1
	}
	if req.Location == "" {
		req.Location = defaultLocation
	}
	if req.Source == "" {
		req.Source = defaultSource
	}
	if req.UserName == "" && user != nil {
		req.UserName = user.Name
	}

	req.Metadata = make(map[string]any, len(event.Metadata)+2)
	for k, v := range event.Metadata {
		req.Metadata[k] = v
	}
	req.Metadata[metadataKindKey] = string(event.Kind)
	req.Metadata["client_ts"] = s.now().UTC().Format(time.RFC3339)

	return req
}

// Ship normalizes and posts one audit event. It refuses immediately —
// no HTTP call — unless both a tenant id and a token are resolvable
// from the session store. Any delivery failure is logged and reported
// as false; callers are expected to tolerate loss.
func (s *Shipper) Ship(ctx context.Context, event Event) bool {
	sess, err := s.client.sessions.Load()
	if err != nil || sess == nil || sess.Token == "" || sess.User == nil || sess.User.TenantID == "" {
		s.log.WithField("kind", event.Kind).Debug("audit event dropped: no resolvable session")
		return false
	}

	req := s.normalize(event, sess.User)

	if err := s.client.post(ctx, "/api/v1/audit/log", req, nil); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"kind": event.Kind,
			"sku":  req.SKU,
		}).Warn("audit event delivery failed")
		return false
	}

	return true
}
