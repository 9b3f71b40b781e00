package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// Profile-fetch backoff defaults. Profile rows appear almost
// immediately after sign-in, but replication lag can delay them; the
// first retry fires after initialProfileDelay and subsequent waits
// double up to maxProfileDelay.
const (
	initialProfileDelay = 2 * time.Second
	maxProfileDelay     = 8 * time.Second
	defaultMaxRetries   = 3
)

// errProfilePending drives the retry loop while the profile row has
// not appeared yet.
var errProfilePending = errors.New("profile not yet available")

// LoginFlow sequences sign-in, profile fetch with bounded backoff, and
// session persistence. Construct with NewLoginFlow; the zero value is
// not usable.
type LoginFlow struct {
	client       *Client
	maxRetries   uint64
	initialDelay time.Duration
	maxDelay     time.Duration
}

// LoginOption configures a LoginFlow.
type LoginOption func(*LoginFlow)

// WithMaxProfileRetries overrides how many times the profile fetch is
// retried before the flow fails with KindProfileIncomplete.
func WithMaxProfileRetries(n uint64) LoginOption {
	return func(f *LoginFlow) { f.maxRetries = n }
}

// WithProfileBackoff overrides the initial and maximum wait between
// profile fetch attempts.
func WithProfileBackoff(initial, maxWait time.Duration) LoginOption {
	return func(f *LoginFlow) {
		f.initialDelay = initial
		f.maxDelay = maxWait
	}
}

// NewLoginFlow creates a LoginFlow using the client's session store.
func NewLoginFlow(c *Client, opts ...LoginOption) *LoginFlow {
	f := &LoginFlow{
		client:       c,
		maxRetries:   defaultMaxRetries,
		initialDelay: initialProfileDelay,
		maxDelay:     maxProfileDelay,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Login authenticates and returns the assembled user record. On
// success the session (token plus user record) has been durably saved;
// a save failure fails the login. Deactivated profiles terminate the
// flow: the fresh session is revoked and nothing is persisted.
func (f *LoginFlow) Login(ctx context.Context, email, password string) (*User, error) {
	token, err := f.client.Auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	// The profile fetch needs the fresh token before the session is
	// persisted, so stash it directly on the client.
	f.client.token = token
	defer func() { f.client.token = "" }()

	profile, err := f.fetchProfile(ctx)
	if err != nil {
		return nil, err
	}

	if !profile.IsActive {
		// Terminal: revoke the session we just created.
		if err := f.client.Auth.SignOut(ctx); err != nil {
			return nil, fmt.Errorf("signing out deactivated account: %w", err)
		}
		return nil, flowError(KindDeactivated, "This account has been deactivated", nil)
	}

	user := buildUser(profile)

	if err := f.client.sessions.Save(&Session{Token: token, User: user}); err != nil {
		return nil, fmt.Errorf("persisting session: %w", err)
	}

	return user, nil
}

// fetchProfile polls the profile endpoint with capped exponential
// backoff until a row appears or retries are exhausted.
func (f *LoginFlow) fetchProfile(ctx context.Context) (*Profile, error) {
	var profile *Profile

	backoff := retry.NewExponential(f.initialDelay)
	backoff = retry.WithCappedDuration(f.maxDelay, backoff)
	backoff = retry.WithMaxRetries(f.maxRetries, backoff)

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		profiles, err := f.client.Auth.Profiles(ctx)
		if err != nil {
			return err // API errors are not retryable
		}
		if len(profiles) == 0 {
			return retry.RetryableError(errProfilePending)
		}
		profile = &profiles[0]
		return nil
	})
	if err != nil {
		if errors.Is(err, errProfilePending) {
			return nil, flowError(KindProfileIncomplete,
				"Your profile setup is incomplete. Please contact support.", err)
		}
		return nil, err
	}

	return profile, nil
}

// buildUser assembles the client-facing user record, defaulting absent
// name to the email local part, role to "user", and plan to "trial".
func buildUser(p *Profile) *User {
	name := p.Name
	if name == "" {
		name = emailLocalPart(p.Email)
	}
	role := p.Role
	if role == "" {
		role = "user"
	}
	plan := p.Plan
	if plan == "" {
		plan = "trial"
	}

	return &User{
		ID:                 p.ID,
		Email:              p.Email,
		Name:               name,
		Role:               role,
		TenantID:           p.TenantID,
		CompanyName:        p.CompanyName,
		Plan:               plan,
		SubscriptionStatus: p.SubscriptionStatus,
	}
}

// emailLocalPart returns everything before the first "@".
func emailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
