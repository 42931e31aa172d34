package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CredentialStore persists accounts and their credentials.
type CredentialStore interface {
	// CreateAccount inserts a new account. It returns ErrEmailTaken when
	// the email is already registered.
	CreateAccount(ctx context.Context, account *Account) error
	// GetAccountByID returns the account with the given id or
	// ErrAccountNotFound.
	GetAccountByID(ctx context.Context, id uuid.UUID) (*Account, error)
	// GetAccountByEmail returns the account with the given email or
	// ErrAccountNotFound.
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	// UpdateConfirmed sets the account's confirmation flag.
	UpdateConfirmed(ctx context.Context, id uuid.UUID, confirmed bool) error
	// UpdatePasswordHash replaces the password hash of a password account.
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error
}

// RevocationStore tracks refresh token IDs that must no longer be accepted.
// Entries only need to live as long as the token they invalidate.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
