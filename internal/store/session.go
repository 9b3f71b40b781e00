package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/countledger/countledger/internal/domain"
	"github.com/countledger/countledger/internal/models"
)

// SessionStore provides data access for the sessions table.
type SessionStore struct {
	Base
}

// NewSessionStore creates a SessionStore.
func NewSessionStore(base Base) *SessionStore {
	return &SessionStore{Base: base}
}

// hashToken returns the hex-encoded SHA-256 hash of a raw session token.
// Only hashes are ever stored or compared.
func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))

	return hex.EncodeToString(h[:])
}

// IssueSession stores a session for the given account. The raw token is
// hashed before insert; the caller keeps the only copy of the raw token.
func (s *SessionStore) IssueSession(ctx context.Context, token, accountID string, ttl time.Duration) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.Pool.Exec(ctx,
		`INSERT INTO sessions (token_hash, account_id, expires_at) VALUES ($1, $2, $3)`,
		hashToken(token), accountID, time.Now().Add(ttl),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	return nil
}

// ResolveToken maps a raw bearer token to the owning account and tenant.
// Expired or unknown tokens return models.ErrSessionNotFound.
func (s *SessionStore) ResolveToken(ctx context.Context, token string) (domain.Identity, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var id domain.Identity

	err := s.Pool.QueryRow(ctx,
		`SELECT s.account_id, p.tenant_id
		 FROM sessions s
		 JOIN profiles p ON p.account_id = s.account_id
		 WHERE s.token_hash = $1 AND s.expires_at > now()
		 ORDER BY p.created_at
		 LIMIT 1`,
		hashToken(token),
	).Scan(&id.AccountID, &id.TenantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Identity{}, models.ErrSessionNotFound
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("resolving session token: %w", err)
	}

	return id, nil
}

// RevokeSession deletes the session for the given raw token. Revoking a
// token that does not exist is not an error.
func (s *SessionStore) RevokeSession(ctx context.Context, token string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := s.Pool.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, hashToken(token)); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}

	return nil
}

// PurgeExpired deletes expired sessions. Returns the number removed.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("purging expired sessions: %w", err)
	}

	return int(tag.RowsAffected()), nil
}
