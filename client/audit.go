package client

import (
	"context"
	"net/url"
	"strconv"
)

// AuditService wraps the raw audit trail endpoints. Most callers use
// the Shipper and TrailViewer instead.
type AuditService struct {
	c *Client
}

// TrailOptions are the server-side filters for Trail. All matches are
// exact; free-text and date filtering happen in the TrailViewer.
type TrailOptions struct {
	SKU      string
	Location string
	Source   string
	Limit    int
	Offset   int
}

// trailResponse wraps the paginated trail response.
type trailResponse struct {
	Events  []AuditEvent `json:"events"`
	HasMore bool         `json:"has_more"`
}

// Record posts a single pre-normalized audit event.
func (s *AuditService) Record(ctx context.Context, req *RecordEventRequest) (*AuditEvent, error) {
	var resp AuditEvent
	if err := s.c.post(ctx, "/api/v1/audit/log", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Trail returns audit events matching the given options, newest first.
func (s *AuditService) Trail(ctx context.Context, opts *TrailOptions) ([]AuditEvent, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.SKU != "" {
			params.Set("sku", opts.SKU)
		}
		if opts.Location != "" {
			params.Set("location", opts.Location)
		}
		if opts.Source != "" {
			params.Set("source", opts.Source)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp trailResponse
	if err := s.c.get(ctx, "/api/v1/audit/trail", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Events, resp.HasMore, nil
}

// Purge deletes audit events older than retentionDays. Returns count deleted.
func (s *AuditService) Purge(ctx context.Context, retentionDays int) (int, error) {
	params := url.Values{}
	if retentionDays > 0 {
		params.Set("retention_days", strconv.Itoa(retentionDays))
	}
	var resp struct {
		Deleted       int `json:"deleted"`
		RetentionDays int `json:"retention_days"`
	}
	if err := s.c.del(ctx, "/api/v1/audit", params, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}
