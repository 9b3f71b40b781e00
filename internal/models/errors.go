package models

import "errors"

// Sentinel errors for registration validation. Messages are
// user-facing and returned verbatim by the API.
var (
	ErrMissingCompanyName = errors.New("Company name is required")
	ErrMissingContactName = errors.New("Contact name is required")
	ErrMissingEmail       = errors.New("Email is required")
	ErrInvalidEmail       = errors.New("Email address is not valid")
	ErrMissingPassword    = errors.New("Password is required")
	ErrPasswordTooShort   = errors.New("Password must be at least 6 characters")
	ErrPasswordMismatch   = errors.New("Passwords do not match")
)

// Sentinel errors for authentication and lookups.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailUnconfirmed    = errors.New("email not confirmed")
	ErrAccountDeactivated  = errors.New("account deactivated")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrSessionNotFound     = errors.New("session not found or expired")
	ErrSubscriptionExpired = errors.New("subscription inactive")
)

// ErrDuplicateEmail indicates the email is already registered
// (maps to HTTP 409 Conflict).
var ErrDuplicateEmail = errors.New("email already registered")
