package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kreasihub/auth/pkg/jwt"
	"github.com/kreasihub/auth/pkg/token"
)

// TokenConfig carries the signing secrets and lifetimes for every token
// the service issues. Each purpose signs with its own secret so a token
// can never be replayed against a different verifier.
type TokenConfig struct {
	AccessSecret       string        `env:"JWT_ACCESS_SECRET,required"`
	RefreshSecret      string        `env:"JWT_REFRESH_SECRET,required"`
	ConfirmationSecret string        `env:"JWT_CONFIRMATION_SECRET,required"`
	ResetSecret        string        `env:"JWT_RESET_SECRET,required"`
	AccessTTL          time.Duration `env:"JWT_ACCESS_TTL" envDefault:"1h"`
	RefreshTTL         time.Duration `env:"JWT_REFRESH_TTL" envDefault:"72h"`
	ConfirmationTTL    time.Duration `env:"JWT_CONFIRMATION_TTL" envDefault:"24h"`
	ResetTTL           time.Duration `env:"JWT_RESET_TTL" envDefault:"6h"`
}

// Validate checks that every secret is set and no two purposes share one.
func (c TokenConfig) Validate() error {
	secrets := map[string]string{
		"access":       c.AccessSecret,
		"refresh":      c.RefreshSecret,
		"confirmation": c.ConfirmationSecret,
		"reset":        c.ResetSecret,
	}
	seen := make(map[string]string, len(secrets))
	for purpose, secret := range secrets {
		if secret == "" {
			return fmt.Errorf("%s secret is empty", purpose)
		}
		if other, ok := seen[secret]; ok {
			return fmt.Errorf("%s and %s share a signing secret", purpose, other)
		}
		seen[secret] = purpose
	}
	return nil
}

// Claims is the session token payload for both access and refresh tokens.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// actionToken is the payload of single-purpose email tokens (address
// confirmation, password reset).
type actionToken struct {
	Email     string `json:"email"`
	ExpiresAt int64  `json:"exp"`
}

// TokenIssuer mints and verifies every token family the service uses.
type TokenIssuer struct {
	access  *jwt.Service
	refresh *jwt.Service
	cfg     TokenConfig
}

// NewTokenIssuer validates the config and constructs the per-purpose signers.
func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("token config: %w", err)
	}
	access, err := jwt.NewFromString(cfg.AccessSecret)
	if err != nil {
		return nil, err
	}
	refresh, err := jwt.NewFromString(cfg.RefreshSecret)
	if err != nil {
		return nil, err
	}
	return &TokenIssuer{access: access, refresh: refresh, cfg: cfg}, nil
}

// IssuePair mints a fresh access/refresh token pair for the account. Both
// tokens carry the email and role from the account record as it is now.
func (i *TokenIssuer) IssuePair(account *Account) (TokenPair, error) {
	access, err := i.issueSession(i.access, account, i.cfg.AccessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := i.issueSession(i.refresh, account, i.cfg.RefreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *TokenIssuer) issueSession(svc *jwt.Service, account *Account, ttl time.Duration) (string, error) {
	now := time.Now()
	return svc.Generate(Claims{
		StandardClaims: jwt.StandardClaims{
			ID:        uuid.NewString(),
			Subject:   account.ID.String(),
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email: account.Email,
		Role:  account.Role,
	})
}

// VerifyAccess checks an access token and returns its claims. Expired
// tokens map to ErrTokenExpired, everything else to ErrTokenInvalid.
func (i *TokenIssuer) VerifyAccess(tokenString string) (Claims, error) {
	return verifySession(i.access, tokenString)
}

// VerifyRefresh checks a refresh token and returns its claims.
func (i *TokenIssuer) VerifyRefresh(tokenString string) (Claims, error) {
	return verifySession(i.refresh, tokenString)
}

func verifySession(svc *jwt.Service, tokenString string) (Claims, error) {
	var claims Claims
	if err := svc.Parse(tokenString, &claims); err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

// IssueConfirmation mints an email confirmation token for the address.
func (i *TokenIssuer) IssueConfirmation(email string) (string, error) {
	return issueAction(email, i.cfg.ConfirmationSecret, i.cfg.ConfirmationTTL)
}

// VerifyConfirmation checks a confirmation token and returns the email it
// was issued for.
func (i *TokenIssuer) VerifyConfirmation(tokenString string) (string, error) {
	return verifyAction(tokenString, i.cfg.ConfirmationSecret)
}

// IssueReset mints a password reset token for the address.
func (i *TokenIssuer) IssueReset(email string) (string, error) {
	return issueAction(email, i.cfg.ResetSecret, i.cfg.ResetTTL)
}

// VerifyReset checks a reset token and returns the email it was issued for.
func (i *TokenIssuer) VerifyReset(tokenString string) (string, error) {
	return verifyAction(tokenString, i.cfg.ResetSecret)
}

func issueAction(email, secret string, ttl time.Duration) (string, error) {
	return token.Generate(actionToken{
		Email:     email,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}, secret)
}

func verifyAction(tokenString, secret string) (string, error) {
	payload, err := token.Parse[actionToken](tokenString, secret)
	if err != nil {
		return "", ErrTokenInvalid
	}
	if time.Now().Unix() > payload.ExpiresAt {
		return "", ErrTokenExpired
	}
	return payload.Email, nil
}
