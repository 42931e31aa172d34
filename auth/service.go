package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kreasihub/auth/email"
	"github.com/kreasihub/auth/pkg/logger"
	"github.com/kreasihub/auth/pkg/username"
)

// EmailNotifier delivers templated lifecycle messages. Satisfied by
// email.Notifier.
type EmailNotifier interface {
	Send(ctx context.Context, msgType, recipient, name, actionURL string) error
}

// Service implements the account and session lifecycle on top of a
// credential store, a refresh revocation store, and a token issuer.
type Service struct {
	store       CredentialStore
	revoked     RevocationStore
	issuer      *TokenIssuer
	notifier    EmailNotifier
	hasher      Hasher
	frontendURL string
	log         *slog.Logger
}

// ServiceOption configures optional Service dependencies.
type ServiceOption func(*Service)

// WithHasher overrides the default bcrypt hasher, mainly to lower the
// cost in tests.
func WithHasher(h Hasher) ServiceOption {
	return func(s *Service) { s.hasher = h }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.log = l }
}

// NewService wires the account lifecycle service. frontendURL is the base
// of the web app that email links and OAuth redirects point at.
func NewService(
	store CredentialStore,
	revoked RevocationStore,
	issuer *TokenIssuer,
	notifier EmailNotifier,
	frontendURL string,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		store:       store,
		revoked:     revoked,
		issuer:      issuer,
		notifier:    notifier,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		hasher:      NewHasher(0),
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an unconfirmed password account and sends the
// confirmation email. A delivery failure does not undo the registration;
// the confirmation email can be re-requested.
func (s *Service) Register(ctx context.Context, emailAddr, name, password string) (*Account, error) {
	emailAddr = strings.TrimSpace(emailAddr)
	name = strings.TrimSpace(name)

	if _, err := s.store.GetAccountByEmail(ctx, emailAddr); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("look up email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	account := &Account{
		ID:         uuid.New(),
		Email:      emailAddr,
		Name:       name,
		Role:       RoleUser,
		Credential: PasswordCredential{Hash: hash},
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	if err := s.SendVerificationEmail(ctx, account); err != nil {
		s.log.ErrorContext(ctx, "confirmation email not sent",
			logger.Email(account.Email), logger.Error(err))
	}
	return account, nil
}

// SendVerificationEmail issues a fresh confirmation token and mails the
// confirmation link. Already-confirmed accounts get ErrAlreadyConfirmed.
func (s *Service) SendVerificationEmail(ctx context.Context, account *Account) error {
	if account.IsConfirmed {
		return ErrAlreadyConfirmed
	}
	tok, err := s.issuer.IssueConfirmation(account.Email)
	if err != nil {
		return fmt.Errorf("issue confirmation token: %w", err)
	}
	link := s.frontendURL + "/auth/confirm?code=" + tok
	if err := s.notifier.Send(ctx, email.MessageVerification, account.Email, account.Name, link); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	return nil
}

// ResendVerification loads the account and re-sends the confirmation email.
func (s *Service) ResendVerification(ctx context.Context, id uuid.UUID) error {
	account, err := s.store.GetAccountByID(ctx, id)
	if err != nil {
		return err
	}
	return s.SendVerificationEmail(ctx, account)
}

// VerifyEmail confirms the account a confirmation token was issued for.
// Re-verifying an already-confirmed account succeeds without effect.
func (s *Service) VerifyEmail(ctx context.Context, tokenString string) error {
	emailAddr, err := s.issuer.VerifyConfirmation(tokenString)
	if err != nil {
		return err
	}
	account, err := s.store.GetAccountByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrTokenInvalid
		}
		return fmt.Errorf("look up email: %w", err)
	}
	if account.IsConfirmed {
		return nil
	}
	return s.store.UpdateConfirmed(ctx, account.ID, true)
}

// Login authenticates a password account and issues a token pair.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (*Account, TokenPair, error) {
	account, err := s.store.GetAccountByEmail(ctx, strings.TrimSpace(emailAddr))
	if err != nil {
		return nil, TokenPair{}, err
	}
	if !account.IsConfirmed {
		return nil, TokenPair{}, ErrNotConfirmed
	}
	hash, ok := account.PasswordHash()
	if !ok || !s.hasher.Verify(password, hash) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	pair, err := s.issuer.IssuePair(account)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return account, pair, nil
}

// SignIn authenticates through an external identity provider, provisioning
// a confirmed account on first contact. An email already registered with a
// password credential is rejected so federation can never shadow it.
func (s *Service) SignIn(ctx context.Context, identity ExternalIdentity) (*Account, TokenPair, error) {
	account, err := s.store.GetAccountByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		// fall through to the credential check
	case errors.Is(err, ErrAccountNotFound):
		account, err = s.provision(ctx, identity)
		if err != nil {
			return nil, TokenPair{}, err
		}
	default:
		return nil, TokenPair{}, fmt.Errorf("look up email: %w", err)
	}

	if _, ok := account.Federation(); !ok {
		return nil, TokenPair{}, ErrPasswordAccount
	}
	pair, err := s.issuer.IssuePair(account)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return account, pair, nil
}

// provision creates a confirmed federated account. A unique violation means
// another request won the race; the freshly stored account is re-read and
// used as-is.
func (s *Service) provision(ctx context.Context, identity ExternalIdentity) (*Account, error) {
	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = username.FromEmail(identity.Email, 4)
	}
	account := &Account{
		ID:          uuid.New(),
		Email:       identity.Email,
		Name:        name,
		Picture:     identity.Picture,
		Role:        RoleUser,
		IsConfirmed: true,
		Credential: FederatedCredential{
			Provider:  identity.Provider,
			SubjectID: identity.SubjectID,
		},
	}
	err := s.store.CreateAccount(ctx, account)
	if err == nil {
		s.log.InfoContext(ctx, "federated account provisioned",
			logger.AccountID(account.ID.String()), logger.Email(account.Email))
		return account, nil
	}
	if errors.Is(err, ErrEmailTaken) {
		return s.store.GetAccountByEmail(ctx, identity.Email)
	}
	return nil, err
}

// RefreshTokens rotates a refresh token: the presented token is verified,
// checked against the revocation store, retired, and a new pair is issued
// from the current account record.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (*Account, TokenPair, error) {
	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, TokenPair{}, err
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, TokenPair{}, ErrTokenInvalid
	}

	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, TokenPair{}, ErrTokenInvalid
	}
	account, err := s.store.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, TokenPair{}, ErrTokenInvalid
		}
		return nil, TokenPair{}, fmt.Errorf("look up account: %w", err)
	}

	if err := s.retire(ctx, claims); err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.issuer.IssuePair(account)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return account, pair, nil
}

// Logout retires the presented refresh token. Invalid or expired tokens
// are ignored so logout is always safe to call.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil
	}
	return s.retire(ctx, claims)
}

// retire marks a refresh token ID revoked for the remainder of its life.
func (s *Service) retire(ctx context.Context, claims Claims) error {
	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// ForgotPassword mails a reset link to the address when an account exists.
// Unknown addresses succeed silently so the endpoint does not reveal which
// emails are registered.
func (s *Service) ForgotPassword(ctx context.Context, emailAddr string) error {
	account, err := s.store.GetAccountByEmail(ctx, strings.TrimSpace(emailAddr))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			s.log.DebugContext(ctx, "reset requested for unknown email", logger.Email(emailAddr))
			return nil
		}
		return fmt.Errorf("look up email: %w", err)
	}
	tok, err := s.issuer.IssueReset(account.Email)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}
	link := s.frontendURL + "/auth/reset-password?code=" + tok
	if err := s.notifier.Send(ctx, email.MessageForgotPassword, account.Email, account.Name, link); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

// ResetPassword replaces the password of the account a reset token was
// issued for. The new password must differ from the current one; the token
// is single-purpose and bound to the email inside it.
func (s *Service) ResetPassword(ctx context.Context, tokenString, newPassword string) error {
	emailAddr, err := s.issuer.VerifyReset(tokenString)
	if err != nil {
		return err
	}
	account, err := s.store.GetAccountByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrTokenInvalid
		}
		return fmt.Errorf("look up email: %w", err)
	}
	hash, ok := account.PasswordHash()
	if !ok {
		return ErrFederatedAccount
	}
	if s.hasher.Verify(newPassword, hash) {
		return ErrSamePassword
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.store.UpdatePasswordHash(ctx, account.ID, newHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	link := s.frontendURL + "/auth/signin"
	if err := s.notifier.Send(ctx, email.MessagePasswordChanged, account.Email, account.Name, link); err != nil {
		s.log.ErrorContext(ctx, "password change notice not sent",
			logger.Email(account.Email), logger.Error(err))
	}
	return nil
}
