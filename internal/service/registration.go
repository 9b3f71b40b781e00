package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/countledger/countledger/internal/models"
)

// Provisioner creates the full tenant bundle in one transaction.
type Provisioner interface {
	Provision(ctx context.Context, req *models.RegistrationRequest, passwordHash string) (*models.Profile, error)
}

// RegistrationService validates signup requests and provisions tenants.
type RegistrationService struct {
	tenants Provisioner
	audit   *AuditWorker
	log     *logrus.Logger
}

// NewRegistrationService creates a RegistrationService. The audit worker
// may be nil in tests; registration outcomes are then not audited.
func NewRegistrationService(tenants Provisioner, audit *AuditWorker, log *logrus.Logger) *RegistrationService {
	return &RegistrationService{tenants: tenants, audit: audit, log: log}
}

// Register validates the payload and provisions account, tenant, admin
// profile, and default settings atomically. Validation failures return
// before any store call. Every terminal outcome enqueues one audit
// event; audit failures never affect the caller-visible result.
func (s *RegistrationService) Register(ctx context.Context, req *models.RegistrationRequest) (*models.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profile, err := s.tenants.Provision(ctx, req, string(hash))
	if err != nil {
		s.log.WithError(err).WithField("company", req.CompanyName).Warn("registration failed")
		s.enqueueOutcome(req, "", "registration_failed", err.Error())

		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"tenant_id":  profile.TenantID,
		"profile_id": profile.ID,
	}).Info("registration.complete")
	s.enqueueOutcome(req, profile.TenantID, "registration_complete", "")

	return profile, nil
}

// enqueueOutcome records a registration outcome as an audit event.
// Failed registrations have no tenant yet and are only logged.
func (s *RegistrationService) enqueueOutcome(req *models.RegistrationRequest, tenantID, kind, failure string) {
	if s.audit == nil || tenantID == "" {
		return
	}

	metadata := map[string]any{
		models.MetadataKindKey: "auth",
		"action":               kind,
	}
	if failure != "" {
		metadata["failure"] = failure
	}

	s.audit.Enqueue(&AuditJob{
		TenantID: tenantID,
		Event: models.RecordEventRequest{
			SKU:      "AUTH_REGISTER",
			Quantity: 0,
			Location: "SYSTEM",
			Source:   "registration",
			UserName: req.ContactName,
			Metadata: metadata,
		},
	})
}
