package client

import (
	"context"
	"net/http"
	"strings"
)

// AuthService wraps the authentication endpoints: sign-in, sign-up,
// sign-out, and the profile lookup scoped by the bearer token.
type AuthService struct {
	c *Client
}

// signInResponse is the POST /auth/signin response.
type signInResponse struct {
	Token string `json:"token"`
}

// SignIn exchanges credentials for a bearer session token. The email is
// trimmed before sending; the password is passed through raw.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{
		"email":    strings.TrimSpace(email),
		"password": password,
	}
	var resp signInResponse
	if err := s.c.post(ctx, "/api/v1/auth/signin", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// SignUp registers a new tenant. Provisioning is atomic server-side: a
// failure leaves no partial tenant behind.
func (s *AuthService) SignUp(ctx context.Context, req *RegistrationRequest) (*Profile, error) {
	var resp Profile
	if err := s.c.post(ctx, "/api/v1/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SignOut revokes the current session token.
func (s *AuthService) SignOut(ctx context.Context) error {
	return s.c.do(ctx, http.MethodPost, "/api/v1/auth/signout", nil, nil)
}

// profilesResponse is the GET /auth/profile response.
type profilesResponse struct {
	Profiles []Profile `json:"profiles"`
}

// Profiles returns the profile rows for the authenticated account,
// oldest first. No explicit user id is passed; identity comes from the
// bearer token. An empty result means provisioning has not finished.
func (s *AuthService) Profiles(ctx context.Context) ([]Profile, error) {
	var resp profilesResponse
	if err := s.c.get(ctx, "/api/v1/auth/profile", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Profiles, nil
}
