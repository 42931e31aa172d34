package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryCredentialStore is an in-memory CredentialStore for tests and
// local development. Email lookups are exact after whitespace trimming,
// matching the persistent store.
type MemoryCredentialStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*Account
	byEmail map[string]uuid.UUID
}

// NewMemoryCredentialStore creates an empty in-memory store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{
		byID:    make(map[uuid.UUID]*Account),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (s *MemoryCredentialStore) CreateAccount(_ context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(account.Email)
	if _, exists := s.byEmail[key]; exists {
		return ErrEmailTaken
	}
	now := time.Now()
	stored := *account
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.byID[stored.ID] = &stored
	s.byEmail[key] = stored.ID

	account.CreatedAt = now
	account.UpdatedAt = now
	return nil
}

func (s *MemoryCredentialStore) GetAccountByID(_ context.Context, id uuid.UUID) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.byID[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (s *MemoryCredentialStore) GetAccountByEmail(_ context.Context, email string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.TrimSpace(email)]
	if !ok {
		return nil, ErrAccountNotFound
	}
	copied := *s.byID[id]
	return &copied, nil
}

func (s *MemoryCredentialStore) UpdateConfirmed(_ context.Context, id uuid.UUID, confirmed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.byID[id]
	if !ok {
		return ErrAccountNotFound
	}
	account.IsConfirmed = confirmed
	account.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryCredentialStore) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.byID[id]
	if !ok {
		return ErrAccountNotFound
	}
	// Matches the postgres store, which updates only password rows.
	if _, ok := account.Credential.(PasswordCredential); !ok {
		return ErrAccountNotFound
	}
	account.Credential = PasswordCredential{Hash: hash}
	account.UpdatedAt = time.Now()
	return nil
}

// MemoryRevocationStore is an in-memory RevocationStore. Expired entries
// are dropped lazily on lookup.
type MemoryRevocationStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewMemoryRevocationStore creates an empty in-memory revocation store.
func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{revoked: make(map[string]time.Time)}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if time.Now().After(expiry) {
		delete(s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

var (
	_ CredentialStore = (*MemoryCredentialStore)(nil)
	_ RevocationStore = (*MemoryRevocationStore)(nil)
)
