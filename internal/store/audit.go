package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/countledger/countledger/internal/models"
)

// AuditStore provides data access for the audit_events table.
type AuditStore struct {
	Base
}

// NewAuditStore creates an AuditStore.
func NewAuditStore(base Base) *AuditStore {
	return &AuditStore{Base: base}
}

// RecordEvent inserts an audit event and returns it with the
// server-assigned id and timestamp. A best-effort pg_notify follows the
// commit so live trail viewers pick the event up without polling.
func (s *AuditStore) RecordEvent(
	ctx context.Context, tenantID string, req *models.RecordEventRequest,
) (*models.AuditEvent, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	var metadataJSON []byte
	if req.Metadata != nil {
		metadataJSON, err = json.Marshal(req.Metadata)
		if err != nil {
			return nil, fmt.Errorf("marshaling event metadata: %w", err)
		}
	}

	e := models.AuditEvent{
		TenantID: tenantID,
		SKU:      req.SKU,
		Quantity: req.Quantity,
		Location: req.Location,
		Source:   req.Source,
		UserName: req.UserName,
		Metadata: req.Metadata,
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO audit_events (tenant_id, sku, quantity, location, source, user_name, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		tenantID, req.SKU, req.Quantity, req.Location, req.Source, req.UserName, metadataJSON,
	).Scan(&e.ID, &e.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("inserting audit event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing audit event: %w", err)
	}

	s.notify(tenantID, map[string]any{
		"type":     "audit.recorded",
		"id":       e.ID,
		"sku":      e.SKU,
		"location": e.Location,
	})

	return &e, nil
}

// buildTrailFilter builds WHERE conditions and args from TrailQueryOpts.
// tenant scoping is handled by the RLS transaction, not here.
func buildTrailFilter(opts models.TrailQueryOpts) (where string, args []any, nextArg int) {
	var conditions []string
	argIdx := 1

	if opts.SKU != "" {
		conditions = append(conditions, "sku = $"+strconv.Itoa(argIdx))
		args = append(args, opts.SKU)
		argIdx++
	}
	if opts.Location != "" {
		conditions = append(conditions, "location = $"+strconv.Itoa(argIdx))
		args = append(args, opts.Location)
		argIdx++
	}
	if opts.Source != "" {
		conditions = append(conditions, "source = $"+strconv.Itoa(argIdx))
		args = append(args, opts.Source)
		argIdx++
	}

	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	return where, args, argIdx
}

// defaultTrailLimit bounds trail queries when the caller passes none.
const defaultTrailLimit = 100

// QueryTrail returns recent audit events matching the given filters,
// newest first with id as tiebreak. Returns events, hasMore flag, and
// any error.
func (s *AuditStore) QueryTrail(
	ctx context.Context, tenantID string, opts models.TrailQueryOpts,
) ([]models.AuditEvent, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, tenantID)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	where, args, argIdx := buildTrailFilter(opts)

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultTrailLimit
	}

	query := fmt.Sprintf(
		`SELECT id, tenant_id, sku, quantity, location, source, user_name, metadata, created_at
		 FROM audit_events %s
		 ORDER BY created_at DESC, id DESC
		 LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1,
	)
	args = append(args, limit+1, opts.Offset)

	events, err := scanEventRows(ctx, tx, query, args, s.Log)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(events) > limit
	if hasMore {
		events = events[:limit]
	}

	return events, hasMore, nil
}

// scanEventRows executes a query and scans audit events from the result.
func scanEventRows(ctx context.Context, tx pgx.Tx, query string, args []any, log *logrus.Logger) ([]models.AuditEvent, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit trail: %w", err)
	}
	defer rows.Close()

	var events []models.AuditEvent
	for rows.Next() {
		var e models.AuditEvent
		var metadataJSON []byte

		if err := rows.Scan(&e.ID, &e.TenantID, &e.SKU, &e.Quantity, &e.Location, &e.Source, &e.UserName, &metadataJSON, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning audit event: %w", err)
		}
		if metadataJSON != nil {
			if err := json.Unmarshal(metadataJSON, &e.Metadata); err != nil {
				log.WithError(err).Warn("failed to unmarshal event metadata")
			}
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// purgeBatchSize limits the number of rows deleted per transaction to
// avoid holding long locks on audit_events.
const purgeBatchSize = 5000

// PurgeOldEvents deletes audit events older than retentionDays in
// batches. Returns the number of deleted events.
func (s *AuditStore) PurgeOldEvents(
	ctx context.Context, tenantID string, retentionDays int,
) (int, error) {
	var totalDeleted int

	for {
		batchCtx, cancel := withTimeout(ctx)

		deleted, err := s.purgeOldEventsBatch(batchCtx, tenantID, retentionDays)
		cancel()

		if err != nil {
			return totalDeleted, err
		}

		totalDeleted += deleted
		if deleted < purgeBatchSize {
			break
		}
	}

	return totalDeleted, nil
}

// purgeOldEventsBatch deletes a single batch of expired audit events.
func (s *AuditStore) purgeOldEventsBatch(
	ctx context.Context, tenantID string, retentionDays int,
) (int, error) {
	tx, err := s.beginTx(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	tag, err := tx.Exec(ctx,
		`DELETE FROM audit_events WHERE ctid IN (
			SELECT ctid FROM audit_events
			WHERE created_at < NOW() - make_interval(days => $1)
			LIMIT $2
		)`,
		retentionDays, purgeBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("purging audit events: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}
