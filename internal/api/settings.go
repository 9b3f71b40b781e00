package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SettingsHandler serves tenant settings endpoints.
type SettingsHandler struct {
	repo SettingsReader
	log  *logrus.Logger
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(repo SettingsReader, log *logrus.Logger) *SettingsHandler {
	return &SettingsHandler{repo: repo, log: log}
}

// Get handles GET /api/v1/settings. Returns the tenant's configured
// count locations.
func (h *SettingsHandler) Get(c *gin.Context) {
	tenantID := getTenantID(c)
	if tenantID == "" {
		return
	}

	settings, err := h.repo.GetSettings(c.Request.Context(), tenantID)
	if err != nil {
		h.log.WithError(err).Error("loading tenant settings")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, settings)
}
