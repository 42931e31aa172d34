package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreasihub/auth/auth"
)

func TestMemoryCredentialStore(t *testing.T) {
	t.Parallel()

	newAccount := func(email string) *auth.Account {
		return &auth.Account{
			ID:         uuid.New(),
			Email:      email,
			Name:       "Jane",
			Role:       auth.RoleUser,
			Credential: auth.PasswordCredential{Hash: []byte("hash")},
		}
	}

	t.Run("create and fetch", func(t *testing.T) {
		t.Parallel()
		store := auth.NewMemoryCredentialStore()
		account := newAccount("jane@example.com")
		require.NoError(t, store.CreateAccount(context.Background(), account))
		assert.False(t, account.CreatedAt.IsZero())

		byID, err := store.GetAccountByID(context.Background(), account.ID)
		require.NoError(t, err)
		assert.Equal(t, account.Email, byID.Email)

		byEmail, err := store.GetAccountByEmail(context.Background(), "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, account.ID, byEmail.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		store := auth.NewMemoryCredentialStore()
		require.NoError(t, store.CreateAccount(context.Background(), newAccount("jane@example.com")))
		err := store.CreateAccount(context.Background(), newAccount("jane@example.com"))
		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})

	t.Run("missing lookups", func(t *testing.T) {
		t.Parallel()
		store := auth.NewMemoryCredentialStore()
		_, err := store.GetAccountByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, auth.ErrAccountNotFound)
		_, err = store.GetAccountByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, auth.ErrAccountNotFound)
	})

	t.Run("update confirmed", func(t *testing.T) {
		t.Parallel()
		store := auth.NewMemoryCredentialStore()
		account := newAccount("jane@example.com")
		require.NoError(t, store.CreateAccount(context.Background(), account))
		require.NoError(t, store.UpdateConfirmed(context.Background(), account.ID, true))

		stored, err := store.GetAccountByID(context.Background(), account.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsConfirmed)
	})

	t.Run("update password hash", func(t *testing.T) {
		t.Parallel()
		store := auth.NewMemoryCredentialStore()
		account := newAccount("jane@example.com")
		require.NoError(t, store.CreateAccount(context.Background(), account))
		require.NoError(t, store.UpdatePasswordHash(context.Background(), account.ID, []byte("new-hash")))

		stored, err := store.GetAccountByID(context.Background(), account.ID)
		require.NoError(t, err)
		hash, ok := stored.PasswordHash()
		require.True(t, ok)
		assert.Equal(t, []byte("new-hash"), hash)
	})

	t.Run("password hash update skips federated accounts", func(t *testing.T) {
		t.Parallel()
		store := auth.NewMemoryCredentialStore()
		account := newAccount("jane@example.com")
		account.Credential = auth.FederatedCredential{Provider: auth.ProviderGoogle, SubjectID: "sub-1"}
		require.NoError(t, store.CreateAccount(context.Background(), account))

		err := store.UpdatePasswordHash(context.Background(), account.ID, []byte("new-hash"))
		assert.ErrorIs(t, err, auth.ErrAccountNotFound)

		stored, err := store.GetAccountByID(context.Background(), account.ID)
		require.NoError(t, err)
		_, ok := stored.Federation()
		assert.True(t, ok)
	})

	t.Run("returned accounts are copies", func(t *testing.T) {
		t.Parallel()
		store := auth.NewMemoryCredentialStore()
		account := newAccount("jane@example.com")
		require.NoError(t, store.CreateAccount(context.Background(), account))

		first, err := store.GetAccountByID(context.Background(), account.ID)
		require.NoError(t, err)
		first.Name = "mutated"

		second, err := store.GetAccountByID(context.Background(), account.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jane", second.Name)
	})
}

func TestMemoryRevocationStore(t *testing.T) {
	t.Parallel()

	t.Run("revoked within ttl", func(t *testing.T) {
		t.Parallel()
		store := auth.NewMemoryRevocationStore()
		require.NoError(t, store.Revoke(context.Background(), "jti-1", time.Minute))

		revoked, err := store.IsRevoked(context.Background(), "jti-1")
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()
		store := auth.NewMemoryRevocationStore()
		revoked, err := store.IsRevoked(context.Background(), "unknown")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("entry expires with the token", func(t *testing.T) {
		t.Parallel()
		store := auth.NewMemoryRevocationStore()
		require.NoError(t, store.Revoke(context.Background(), "jti-1", -time.Second))

		revoked, err := store.IsRevoked(context.Background(), "jti-1")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
