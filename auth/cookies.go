package auth

import (
	"net/http"
	"time"

	"github.com/kreasihub/auth/pkg/cookie"
)

// Cookie names used for session transport.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// CookieConfig carries the transport attributes shared by both session
// cookies.
type CookieConfig struct {
	Domain string `env:"COOKIE_DOMAIN"`
	Secure bool   `env:"COOKIE_SECURE" envDefault:"true"`
}

// SessionCookies writes and clears the access/refresh cookie pair. The
// refresh cookie is scoped to the auth routes so it never travels with
// ordinary API requests.
type SessionCookies struct {
	access     *cookie.Manager
	refresh    *cookie.Manager
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewSessionCookies builds the cookie managers. The TTLs should match the
// lifetimes of the tokens stored in them.
func NewSessionCookies(cfg CookieConfig, accessTTL, refreshTTL time.Duration) *SessionCookies {
	return &SessionCookies{
		access: cookie.New(
			cookie.WithPath("/"),
			cookie.WithDomain(cfg.Domain),
			cookie.WithSecure(cfg.Secure),
		),
		refresh: cookie.New(
			cookie.WithPath("/auth"),
			cookie.WithDomain(cfg.Domain),
			cookie.WithSecure(cfg.Secure),
		),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Set writes both session cookies for the pair.
func (c *SessionCookies) Set(w http.ResponseWriter, pair TokenPair) {
	c.access.Set(w, AccessTokenCookie, pair.AccessToken,
		cookie.WithMaxAge(int(c.accessTTL.Seconds())))
	c.refresh.Set(w, RefreshTokenCookie, pair.RefreshToken,
		cookie.WithMaxAge(int(c.refreshTTL.Seconds())))
}

// Clear expires both session cookies.
func (c *SessionCookies) Clear(w http.ResponseWriter) {
	c.access.Delete(w, AccessTokenCookie)
	c.refresh.Delete(w, RefreshTokenCookie)
}

// AccessToken reads the access token cookie from the request.
func (c *SessionCookies) AccessToken(r *http.Request) (string, error) {
	return c.access.Get(r, AccessTokenCookie)
}

// RefreshToken reads the refresh token cookie from the request.
func (c *SessionCookies) RefreshToken(r *http.Request) (string, error) {
	return c.refresh.Get(r, RefreshTokenCookie)
}
