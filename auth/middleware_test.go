package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreasihub/auth/auth"
)

func okHandler(captured *auth.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p, ok := auth.PrincipalFromContext(r.Context()); ok {
			*captured = p
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareAuthorize(t *testing.T) {
	t.Parallel()

	t.Run("accepts token from cookie", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		account := env.register(t, "jane@example.com", "passw0rd")
		_, pair, err := env.service.Login(context.Background(), "jane@example.com", "passw0rd")
		require.NoError(t, err)

		var principal auth.Principal
		mw := auth.NewMiddleware(env.issuer, env.store)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: pair.AccessToken})
		rec := httptest.NewRecorder()
		mw.Authorize(okHandler(&principal)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, account.ID, principal.ID)
		assert.Equal(t, "jane@example.com", principal.Email)
		assert.Equal(t, auth.RoleUser, principal.Role)
	})

	t.Run("accepts bearer header", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		env.register(t, "jane@example.com", "passw0rd")
		_, pair, err := env.service.Login(context.Background(), "jane@example.com", "passw0rd")
		require.NoError(t, err)

		var principal auth.Principal
		mw := auth.NewMiddleware(env.issuer, env.store)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()
		mw.Authorize(okHandler(&principal)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "jane@example.com", principal.Email)
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		var principal auth.Principal
		mw := auth.NewMiddleware(env.issuer, env.store)
		rec := httptest.NewRecorder()
		mw.Authorize(okHandler(&principal)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		account := env.register(t, "jane@example.com", "passw0rd")

		cfg := testTokenConfig()
		cfg.AccessTTL = -time.Minute
		expiredIssuer, err := auth.NewTokenIssuer(cfg)
		require.NoError(t, err)
		pair, err := expiredIssuer.IssuePair(account)
		require.NoError(t, err)

		var principal auth.Principal
		mw := auth.NewMiddleware(expiredIssuer, env.store)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()
		mw.Authorize(okHandler(&principal)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token for deleted account", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)

		ghost := &auth.Account{
			ID: uuid.New(), Email: "ghost@example.com", Role: auth.RoleUser, IsConfirmed: true,
		}
		pair, err := env.issuer.IssuePair(ghost)
		require.NoError(t, err)

		var principal auth.Principal
		mw := auth.NewMiddleware(env.issuer, env.store)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()
		mw.Authorize(okHandler(&principal)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unconfirmed account is forbidden", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t)
		account, err := env.service.Register(context.Background(), "jane@example.com", "Jane", "passw0rd")
		require.NoError(t, err)
		pair, err := env.issuer.IssuePair(account)
		require.NoError(t, err)

		var principal auth.Principal
		mw := auth.NewMiddleware(env.issuer, env.store)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec := httptest.NewRecorder()
		mw.Authorize(okHandler(&principal)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	serve := func(p auth.Principal, roles ...auth.Role) *httptest.ResponseRecorder {
		var captured auth.Principal
		handler := auth.RequireRole(roles...)(okHandler(&captured))
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req = req.WithContext(auth.ContextWithPrincipal(req.Context(), p))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("allows matching role", func(t *testing.T) {
		t.Parallel()
		rec := serve(auth.Principal{ID: uuid.New(), Role: auth.RoleAdmin}, auth.RoleAdmin)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("allows any of several roles", func(t *testing.T) {
		t.Parallel()
		rec := serve(auth.Principal{ID: uuid.New(), Role: auth.RoleSubUser}, auth.RoleAdmin, auth.RoleSubUser)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects other roles", func(t *testing.T) {
		t.Parallel()
		rec := serve(auth.Principal{ID: uuid.New(), Role: auth.RoleUser}, auth.RoleAdmin)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("rejects missing principal", func(t *testing.T) {
		t.Parallel()
		var captured auth.Principal
		handler := auth.RequireRole(auth.RoleAdmin)(okHandler(&captured))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
