package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/countledger/countledger/internal/models"
)

// AuditHandler serves audit trail endpoints.
type AuditHandler struct {
	repo     AuditRepository
	log      *logrus.Logger
	maxLimit int
}

// NewAuditHandler creates an AuditHandler. maxLimit caps the trail page
// size; values <= 0 fall back to the router default.
func NewAuditHandler(repo AuditRepository, log *logrus.Logger, maxLimit int) *AuditHandler {
	if maxLimit <= 0 {
		maxLimit = maxPaginationLimit
	}
	return &AuditHandler{repo: repo, log: log, maxLimit: maxLimit}
}

// Record handles POST /api/v1/audit/log. Events are immutable once
// written; the server assigns id and timestamp.
func (h *AuditHandler) Record(c *gin.Context) {
	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	var req models.RecordEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if req.SKU == "" {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, "sku is required")

		return
	}

	event, err := h.repo.RecordEvent(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.log.WithError(err).Error("recording audit event")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusCreated, event)
}

// Trail handles GET /api/v1/audit/trail. Server-side filters are exact
// matches; free-text and date filtering happen in the viewer.
func (h *AuditHandler) Trail(c *gin.Context) {
	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	opts := models.TrailQueryOpts{
		SKU:      c.Query("sku"),
		Location: c.Query("location"),
		Source:   c.Query("source"),
		Limit:    parseLimit(c.Query("limit"), 100, h.maxLimit),
		Offset:   parseOffset(c.Query("offset")),
	}

	events, hasMore, err := h.repo.QueryTrail(c.Request.Context(), tenantID, opts)
	if err != nil {
		h.log.WithError(err).Error("querying audit trail")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	if events == nil {
		events = []models.AuditEvent{}
	}

	c.JSON(http.StatusOK, gin.H{
		"events":   events,
		"has_more": hasMore,
	})
}

// Purge handles DELETE /api/v1/audit.
func (h *AuditHandler) Purge(c *gin.Context) {
	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	retentionDays := 90
	if rd := c.Query("retention_days"); rd != "" {
		v, err := strconv.Atoi(rd)
		if err != nil || v < 1 {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "retention_days must be a positive integer")
			return
		}
		retentionDays = v
	}

	deleted, err := h.repo.PurgeOldEvents(c.Request.Context(), tenantID, retentionDays)
	if err != nil {
		h.log.WithError(err).Error("failed to purge audit events")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "failed to purge audit events")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deleted":        deleted,
		"retention_days": retentionDays,
	})
}
