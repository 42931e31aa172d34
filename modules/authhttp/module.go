// Package authhttp exposes the account lifecycle over HTTP: registration,
// password and Google sign-in, token refresh, logout, email confirmation,
// and password reset. Responses use the shared JSON envelope; sessions
// travel in the access/refresh cookie pair.
package authhttp

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kreasihub/auth/auth"
	"github.com/kreasihub/auth/pkg/cookie"
)

// Config carries the module's HTTP-facing settings.
type Config struct {
	// FrontendURL is the base URL of the web app that OAuth callbacks
	// redirect to.
	FrontendURL string `env:"FRONTEND_URL,required"`
}

// Module wires the lifecycle service to its HTTP surface.
type Module struct {
	svc         *auth.Service
	mw          *auth.Middleware
	cookies     *auth.SessionCookies
	provider    auth.IdentityProvider
	state       *cookie.Manager
	frontendURL string
	log         *slog.Logger
}

// Option configures optional Module dependencies.
type Option func(*Module)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(m *Module) { m.log = l }
}

// New builds the HTTP module. provider may be nil when federated sign-in
// is not configured; the Google routes then answer 404.
func New(
	cfg Config,
	svc *auth.Service,
	mw *auth.Middleware,
	cookies *auth.SessionCookies,
	provider auth.IdentityProvider,
	opts ...Option,
) *Module {
	m := &Module{
		svc:      svc,
		mw:       mw,
		cookies:  cookies,
		provider: provider,
		// The state cookie only has to survive the trip to the provider
		// and back.
		state: cookie.New(
			cookie.WithPath("/auth"),
			cookie.WithMaxAge(600),
		),
		frontendURL: cfg.FrontendURL,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Handle returns the router for mounting under /auth.
func (m *Module) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/register", m.register)
	r.Post("/login", m.login)
	r.Post("/refresh", m.refresh)
	r.Post("/logout", m.logout)

	r.Post("/verify/email", m.verifyEmail)
	r.Post("/request/reset-password", m.requestResetPassword)
	r.Post("/verify/reset-password", m.resetPassword)

	r.With(m.mw.AuthorizeUnconfirmed).Post("/request/verify", m.requestVerify)

	if m.provider != nil {
		r.Get("/google", m.googleRedirect)
		r.Get("/google/callback", m.googleCallback)
	}

	return r
}
