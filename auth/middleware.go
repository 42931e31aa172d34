package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kreasihub/auth/core"
	"github.com/kreasihub/auth/pkg/logger"
)

type principalContextKey struct{}

// ContextWithPrincipal attaches the authenticated principal to the context.
func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext returns the principal attached by Authorize.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}

// Middleware authorizes requests: it verifies the access token, loads the
// current account record, and attaches a Principal to the request context.
type Middleware struct {
	issuer *TokenIssuer
	store  CredentialStore
	log    *slog.Logger
}

// MiddlewareOption configures optional Middleware dependencies.
type MiddlewareOption func(*Middleware)

// WithMiddlewareLogger attaches a logger; the default discards everything.
func WithMiddlewareLogger(l *slog.Logger) MiddlewareOption {
	return func(m *Middleware) { m.log = l }
}

// NewMiddleware builds the authorization middleware.
func NewMiddleware(issuer *TokenIssuer, store CredentialStore, opts ...MiddlewareOption) *Middleware {
	m := &Middleware{
		issuer: issuer,
		store:  store,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Authenticate extracts the access token from the request, verifies it, and
// resolves the principal from the current account record. The cookie is
// consulted first, then the Authorization header. Confirmation is enforced
// by Authorize, not here.
func (m *Middleware) Authenticate(r *http.Request) (Principal, error) {
	p, _, err := m.authenticate(r)
	if err != nil {
		return Principal{}, err
	}
	return p, nil
}

func (m *Middleware) authenticate(r *http.Request) (Principal, *Account, error) {
	tokenString := tokenFromRequest(r)
	if tokenString == "" {
		return Principal{}, nil, ErrTokenInvalid
	}
	claims, err := m.issuer.VerifyAccess(tokenString)
	if err != nil {
		return Principal{}, nil, err
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Principal{}, nil, ErrTokenInvalid
	}
	account, err := m.store.GetAccountByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return Principal{}, nil, ErrTokenInvalid
		}
		return Principal{}, nil, err
	}
	// Role comes from the stored record so a role change takes effect
	// before the token expires.
	return Principal{ID: account.ID, Email: account.Email, Role: account.Role}, account, nil
}

// Authorize rejects unauthenticated requests and attaches the principal to
// the context for downstream handlers. Unconfirmed accounts are rejected;
// routes that must serve them use AuthorizeUnconfirmed.
func (m *Middleware) Authorize(next http.Handler) http.Handler {
	return m.authorize(next, true)
}

// AuthorizeUnconfirmed is Authorize without the confirmation requirement,
// for routes an account needs before it is confirmed, like re-requesting
// the confirmation email.
func (m *Middleware) AuthorizeUnconfirmed(next http.Handler) http.Handler {
	return m.authorize(next, false)
}

func (m *Middleware) authorize(next http.Handler, requireConfirmed bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, account, err := m.authenticate(r)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrTokenExpired):
				core.JSONError(w, core.ErrUnauthorized)
			default:
				m.log.ErrorContext(r.Context(), "authorization failed", logger.Error(err))
				core.JSONError(w, core.ErrInternalServerError)
			}
			return
		}
		if requireConfirmed && !account.IsConfirmed {
			core.JSONError(w, core.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), p)))
	})
}

// RequireRole allows only principals holding one of the given roles. It
// must run after Authorize.
func RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				core.JSONError(w, core.ErrUnauthorized)
				return
			}
			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			core.JSONError(w, core.ErrForbidden)
		})
	}
}

// tokenFromRequest reads the access token from the session cookie, falling
// back to a bearer Authorization header.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
