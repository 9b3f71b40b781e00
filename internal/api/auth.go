package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/countledger/countledger/internal/metrics"
	"github.com/countledger/countledger/internal/middleware"
	"github.com/countledger/countledger/internal/models"
)

// AuthHandler serves registration, sign-in, and profile endpoints.
type AuthHandler struct {
	auth      AuthProvider
	registrar Registrar
	log       *logrus.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth AuthProvider, registrar Registrar, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, registrar: registrar, log: log}
}

// Register handles POST /api/v1/auth/register. The whole tenant bundle
// (account, tenant, admin profile, default settings) is provisioned in a
// single transaction; a failed registration leaves nothing behind.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	profile, err := h.registrar.Register(c.Request.Context(), &req)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()

		if errors.Is(err, models.ErrDuplicateEmail) {
			respondError(c, http.StatusConflict, ErrCodeDuplicateEmail, err.Error())

			return
		}
		if isValidationError(err) {
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

			return
		}

		h.log.WithError(err).Error("registering tenant")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	h.log.WithFields(logrus.Fields{"action": "auth.register", "tenant_id": profile.TenantID}).Info("audit")

	c.JSON(http.StatusCreated, profile)
}

// signInRequest is the POST /api/v1/auth/signin payload.
type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn handles POST /api/v1/auth/signin. Unknown emails and wrong
// passwords are indistinguishable in the response.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	token, err := h.auth.SignIn(c.Request.Context(), models.NormalizeEmail(req.Email), req.Password)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues("failure").Inc()

		switch {
		case errors.Is(err, models.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid email or password")
		case errors.Is(err, models.ErrEmailUnconfirmed):
			respondError(c, http.StatusForbidden, ErrCodeEmailUnconfirmed, "email address not confirmed")
		default:
			h.log.WithError(err).Error("signing in")
			respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		}

		return
	}

	metrics.SignInsTotal.WithLabelValues("success").Inc()

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// SignOut handles POST /api/v1/auth/signout. Revokes the presented token.
func (h *AuthHandler) SignOut(c *gin.Context) {
	token := middleware.ExtractBearerToken(c)

	if err := h.auth.SignOut(c.Request.Context(), token); err != nil {
		h.log.WithError(err).Error("signing out")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "signed_out"})
}

// Profiles handles GET /api/v1/auth/profile. Returns the profiles of the
// authenticated account joined with their tenant subscription state,
// oldest first. An empty list means provisioning has not finished yet;
// clients are expected to retry.
func (h *AuthHandler) Profiles(c *gin.Context) {
	accountID := c.GetString("account_id")
	if accountID == "" {
		respondError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing account")

		return
	}

	profiles, err := h.auth.ProfilesForAccount(c.Request.Context(), accountID)
	if err != nil {
		h.log.WithError(err).Error("loading profiles")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	if profiles == nil {
		profiles = []models.Profile{}
	}

	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

// isValidationError reports whether err is one of the registration
// validation sentinels.
func isValidationError(err error) bool {
	for _, sentinel := range []error{
		models.ErrMissingCompanyName,
		models.ErrMissingContactName,
		models.ErrMissingEmail,
		models.ErrInvalidEmail,
		models.ErrMissingPassword,
		models.ErrPasswordTooShort,
		models.ErrPasswordMismatch,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}

	return false
}
