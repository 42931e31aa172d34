// Package postgres implements auth.CredentialStore on a pgx connection pool.
//
// The accounts table flattens the credential variant into a discriminator
// column plus nullable per-variant columns; a check constraint keeps the
// combinations legal so a row can never hold both a password hash and a
// federated identity.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kreasihub/auth/auth"
	"github.com/kreasihub/auth/pkg/pg"
)

const (
	credentialPassword  = "password"
	credentialFederated = "federated"
)

// Store persists accounts in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store backed by the given pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const accountColumns = `id, email, name, picture, role, is_confirmed,
	credential_type, password_hash, provider, provider_subject_id,
	created_at, updated_at`

func (s *Store) CreateAccount(ctx context.Context, account *auth.Account) error {
	var (
		credType string
		hash     []byte
		provider *string
		subject  *string
	)
	switch c := account.Credential.(type) {
	case auth.PasswordCredential:
		credType = credentialPassword
		hash = c.Hash
	case auth.FederatedCredential:
		credType = credentialFederated
		provider = &c.Provider
		subject = &c.SubjectID
	default:
		return fmt.Errorf("unsupported credential type %T", account.Credential)
	}

	query := `INSERT INTO accounts
		(id, email, name, picture, role, is_confirmed, credential_type, password_hash, provider, provider_subject_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := s.pool.QueryRow(ctx, query,
		account.ID, strings.TrimSpace(account.Email), account.Name, account.Picture,
		string(account.Role), account.IsConfirmed, credType, hash, provider, subject,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return auth.ErrEmailTaken
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *Store) GetAccountByID(ctx context.Context, id uuid.UUID) (*auth.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return s.scanAccount(s.pool.QueryRow(ctx, query, id))
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*auth.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return s.scanAccount(s.pool.QueryRow(ctx, query, strings.TrimSpace(email)))
}

func (s *Store) UpdateConfirmed(ctx context.Context, id uuid.UUID, confirmed bool) error {
	query := `UPDATE accounts SET is_confirmed = $1, updated_at = now() WHERE id = $2 RETURNING updated_at`
	var updatedAt time.Time
	if err := s.pool.QueryRow(ctx, query, confirmed, id).Scan(&updatedAt); err != nil {
		if pg.IsNotFoundError(err) {
			return auth.ErrAccountNotFound
		}
		return fmt.Errorf("update confirmed: %w", err)
	}
	return nil
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash []byte) error {
	query := `UPDATE accounts SET password_hash = $1, updated_at = now()
		WHERE id = $2 AND credential_type = $3 RETURNING updated_at`
	var updatedAt time.Time
	if err := s.pool.QueryRow(ctx, query, hash, id, credentialPassword).Scan(&updatedAt); err != nil {
		if pg.IsNotFoundError(err) {
			return auth.ErrAccountNotFound
		}
		return fmt.Errorf("update password hash: %w", err)
	}
	return nil
}

// rowScanner covers pgx.Row for single-row scans.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanAccount(row rowScanner) (*auth.Account, error) {
	var (
		account  auth.Account
		role     string
		credType string
		hash     []byte
		picture  *string
		provider *string
		subject  *string
	)
	err := row.Scan(
		&account.ID, &account.Email, &account.Name, &picture, &role, &account.IsConfirmed,
		&credType, &hash, &provider, &subject,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}

	account.Role = auth.Role(role)
	if picture != nil {
		account.Picture = *picture
	}
	switch credType {
	case credentialPassword:
		account.Credential = auth.PasswordCredential{Hash: hash}
	case credentialFederated:
		cred := auth.FederatedCredential{}
		if provider != nil {
			cred.Provider = *provider
		}
		if subject != nil {
			cred.SubjectID = *subject
		}
		account.Credential = cred
	default:
		return nil, fmt.Errorf("unknown credential type %q", credType)
	}
	return &account, nil
}

var _ auth.CredentialStore = (*Store)(nil)
