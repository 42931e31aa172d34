package auth

import (
	"time"

	"github.com/google/uuid"
)

// Role is the coarse authorization level attached to an account.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleUser    Role = "USER"
	RoleSubUser Role = "SUB_USER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleSubUser:
		return true
	}
	return false
}

// Credential is the single authentication method attached to an account.
// An account holds exactly one variant: a password hash or a federated
// identity, never both.
type Credential interface {
	credential()
}

// PasswordCredential authenticates with a locally stored password hash.
type PasswordCredential struct {
	Hash []byte
}

func (PasswordCredential) credential() {}

// FederatedCredential authenticates through an external identity provider.
type FederatedCredential struct {
	Provider  string
	SubjectID string
}

func (FederatedCredential) credential() {}

// Account is a registered identity with its credential and confirmation state.
type Account struct {
	ID          uuid.UUID
	Email       string
	Name        string
	Picture     string
	Role        Role
	IsConfirmed bool
	Credential  Credential
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PasswordHash returns the stored hash when the account authenticates
// with a password.
func (a *Account) PasswordHash() ([]byte, bool) {
	c, ok := a.Credential.(PasswordCredential)
	if !ok {
		return nil, false
	}
	return c.Hash, true
}

// Federation returns the external identity when the account authenticates
// through a provider.
func (a *Account) Federation() (FederatedCredential, bool) {
	c, ok := a.Credential.(FederatedCredential)
	return c, ok
}

// TokenPair is the result of a successful sign-in or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Principal is the authenticated caller attached to a request after
// the access token has been verified and the account loaded.
type Principal struct {
	ID    uuid.UUID
	Email string
	Role  Role
}
