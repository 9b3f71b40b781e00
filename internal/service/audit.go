package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/countledger/countledger/internal/domain"
	"github.com/countledger/countledger/internal/models"
)

// AuditEventStore is the data-access interface AuditService depends on.
// It reuses domain.AuditService since the method sets are identical.
type AuditEventStore = domain.AuditService

// Compile-time check: *AuditService must satisfy domain.AuditService.
var _ domain.AuditService = (*AuditService)(nil)

// AuditService wraps AuditEventStore with logging for destructive operations.
type AuditService struct {
	store AuditEventStore
	log   *logrus.Logger
}

// NewAuditService creates an AuditService.
func NewAuditService(store AuditEventStore, log *logrus.Logger) *AuditService {
	return &AuditService{store: store, log: log}
}

// RecordEvent inserts an audit event (pass-through to store).
func (s *AuditService) RecordEvent(
	ctx context.Context, tenantID string, req *models.RecordEventRequest,
) (*models.AuditEvent, error) {
	return s.store.RecordEvent(ctx, tenantID, req)
}

// QueryTrail returns audit events matching the given filters (pass-through).
func (s *AuditService) QueryTrail(
	ctx context.Context, tenantID string, opts models.TrailQueryOpts,
) ([]models.AuditEvent, bool, error) {
	return s.store.QueryTrail(ctx, tenantID, opts)
}

// PurgeOldEvents deletes audit events older than retentionDays and logs the result.
func (s *AuditService) PurgeOldEvents(ctx context.Context, tenantID string, retentionDays int) (int, error) {
	deleted, err := s.store.PurgeOldEvents(ctx, tenantID, retentionDays)
	if err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"tenant_id":      tenantID,
		"retention_days": retentionDays,
		"deleted":        deleted,
	}).Info("audit.purge")

	return deleted, nil
}
