package client

import (
	"context"
	"regexp"
	"strings"
)

// Registration validation messages. Returned verbatim to the user and
// matched by tests, so the wording is part of the contract.
const (
	msgMissingCompanyName = "Company name is required"
	msgMissingContactName = "Contact name is required"
	msgMissingEmail       = "Email is required"
	msgInvalidEmail       = "Email address is not valid"
	msgMissingPassword    = "Password is required"
	msgPasswordTooShort   = "Password must be at least 6 characters"
	msgPasswordMismatch   = "Passwords do not match"
)

// emailPattern mirrors the server's loose check: one @, a dot in the
// domain, no whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 6

// RegisterFlow sequences local validation, the signup call, and the
// audit emit. Validation failures never reach the network.
type RegisterFlow struct {
	client  *Client
	shipper *Shipper
}

// NewRegisterFlow creates a RegisterFlow. The shipper may be nil, in
// which case registration outcomes are not audited client-side.
func NewRegisterFlow(c *Client, shipper *Shipper) *RegisterFlow {
	return &RegisterFlow{client: c, shipper: shipper}
}

// validate checks the payload locally. The first violation wins.
func validate(req *RegistrationRequest) *FlowError {
	switch {
	case strings.TrimSpace(req.CompanyName) == "":
		return flowError(KindValidation, msgMissingCompanyName, nil)
	case strings.TrimSpace(req.ContactName) == "":
		return flowError(KindValidation, msgMissingContactName, nil)
	case strings.TrimSpace(req.Email) == "":
		return flowError(KindValidation, msgMissingEmail, nil)
	case !emailPattern.MatchString(strings.TrimSpace(req.Email)):
		return flowError(KindValidation, msgInvalidEmail, nil)
	case req.Password == "":
		return flowError(KindValidation, msgMissingPassword, nil)
	case len(req.Password) < minPasswordLength:
		return flowError(KindValidation, msgPasswordTooShort, nil)
	case req.Password != req.PasswordConfirm:
		return flowError(KindValidation, msgPasswordMismatch, nil)
	}
	return nil
}

// Register validates locally and provisions the tenant. A validation
// failure returns before any network call. Every terminal outcome
// emits one audit event; the emit never affects the returned result.
func (f *RegisterFlow) Register(ctx context.Context, req *RegistrationRequest) (*Profile, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	profile, err := f.client.Auth.SignUp(ctx, req)

	f.emitOutcome(ctx, req, err)

	if err != nil {
		return nil, err
	}
	return profile, nil
}

// emitOutcome ships a registration outcome event. The shipper refuses
// without a resolvable session, and failures are swallowed: audit
// delivery is never part of the user-visible result.
func (f *RegisterFlow) emitOutcome(ctx context.Context, req *RegistrationRequest, regErr error) {
	if f.shipper == nil {
		return
	}

	event := Event{
		Kind:     EventAuth,
		SKU:      "AUTH_REGISTER",
		Source:   "registration",
		UserName: req.ContactName,
		Metadata: map[string]any{"company": req.CompanyName},
	}
	if regErr != nil {
		event.Metadata["failure"] = regErr.Error()
	}

	f.shipper.Ship(ctx, event)
}
