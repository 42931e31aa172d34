package auth

import "errors"

var (
	// ErrAccountNotFound is returned when no account matches the lookup key.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailTaken is returned when registration collides with an
	// existing account's email.
	ErrEmailTaken = errors.New("email already taken")
	// ErrInvalidCredentials is returned when the password does not match
	// or the account does not authenticate with a password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotConfirmed is returned when an unconfirmed account attempts
	// to sign in or act on a protected resource.
	ErrNotConfirmed = errors.New("account not confirmed")
	// ErrAlreadyConfirmed is returned when a confirmation email is
	// requested for an account that is already confirmed.
	ErrAlreadyConfirmed = errors.New("account already confirmed")
	// ErrTokenInvalid is returned for tokens that are malformed, carry a
	// bad signature, reference a missing account, or have been revoked.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned for tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrPasswordAccount is returned when a federated sign-in targets an
	// email registered with a password credential.
	ErrPasswordAccount = errors.New("account uses password sign-in")
	// ErrFederatedAccount is returned when a password operation targets
	// an account that authenticates through an external provider.
	ErrFederatedAccount = errors.New("account uses federated sign-in")
	// ErrSamePassword is returned when a password reset submits the
	// password already in use.
	ErrSamePassword = errors.New("new password matches the current one")
)
