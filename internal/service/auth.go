// Package service contains the application services sitting between the
// HTTP handlers and the stores.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/countledger/countledger/internal/models"
)

// AccountReader looks up credential records.
type AccountReader interface {
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
}

// SessionWriter issues and revokes session tokens.
type SessionWriter interface {
	IssueSession(ctx context.Context, token, accountID string, ttl time.Duration) error
	RevokeSession(ctx context.Context, token string) error
}

// ProfileReader loads profiles for the authenticated account.
type ProfileReader interface {
	GetProfilesByAccount(ctx context.Context, accountID string) ([]models.Profile, error)
}

// AuthService verifies credentials and manages sessions.
type AuthService struct {
	accounts   AccountReader
	sessions   SessionWriter
	profiles   ProfileReader
	log        *logrus.Logger
	sessionTTL time.Duration
}

// NewAuthService creates an AuthService.
func NewAuthService(accounts AccountReader, sessions SessionWriter, profiles ProfileReader, log *logrus.Logger, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		accounts:   accounts,
		sessions:   sessions,
		profiles:   profiles,
		log:        log,
		sessionTTL: sessionTTL,
	}
}

// sessionTokenBytes is the entropy of a raw session token (hex doubles it).
const sessionTokenBytes = 32

// newSessionToken generates a random bearer token.
func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// SignIn verifies the credentials and issues a session token.
// Unknown emails and wrong passwords both return
// models.ErrInvalidCredentials; unconfirmed emails return
// models.ErrEmailUnconfirmed.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", models.ErrInvalidCredentials
	}

	if !account.EmailConfirmed {
		return "", models.ErrEmailUnconfirmed
	}

	token, err := newSessionToken()
	if err != nil {
		return "", err
	}

	if err := s.sessions.IssueSession(ctx, token, account.ID, s.sessionTTL); err != nil {
		return "", err
	}

	s.log.WithField("account_id", account.ID).Info("auth.signin")

	return token, nil
}

// SignOut revokes the session for the given token.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	return s.sessions.RevokeSession(ctx, token)
}

// ProfilesForAccount returns the profiles scoped to the authenticated
// account, oldest first. An empty result means provisioning has not
// completed; callers decide whether to retry.
func (s *AuthService) ProfilesForAccount(ctx context.Context, accountID string) ([]models.Profile, error) {
	return s.profiles.GetProfilesByAccount(ctx, accountID)
}
