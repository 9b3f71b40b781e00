package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/countledger/countledger/internal/models"
)

// AccountStore provides data access for the accounts table.
type AccountStore struct {
	Base
}

// NewAccountStore creates an AccountStore.
func NewAccountStore(base Base) *AccountStore {
	return &AccountStore{Base: base}
}

// GetAccountByEmail returns the account for the given (normalized) email.
// Returns models.ErrInvalidCredentials when no account exists, so callers
// cannot distinguish unknown emails from wrong passwords.
func (s *AccountStore) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var a models.Account

	err := s.Pool.QueryRow(ctx,
		`SELECT id, email, password_hash, email_confirmed, created_at
		 FROM accounts WHERE email = $1`,
		email,
	).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.EmailConfirmed, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("querying account: %w", err)
	}

	return &a, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
