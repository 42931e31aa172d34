package authhttp

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/kreasihub/auth/auth"
	"github.com/kreasihub/auth/pkg/logger"
)

const stateCookie = "oauth_state"

// googleRedirect starts the authorization code flow. The anti-forgery
// state is a random value pinned to the browser in a short-lived cookie.
func (m *Module) googleRedirect(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	m.state.Set(w, stateCookie, state)
	http.Redirect(w, r, m.provider.AuthURL(state), http.StatusTemporaryRedirect)
}

// googleCallback finishes the flow: the state is checked against the
// cookie, the code exchanged, the account signed in or provisioned, and
// the browser sent back to the frontend carrying the access token.
func (m *Module) googleCallback(w http.ResponseWriter, r *http.Request) {
	expected, err := m.state.Get(r, stateCookie)
	m.state.Delete(w, stateCookie)
	if err != nil || expected == "" || r.URL.Query().Get("state") != expected {
		m.writeError(w, r, auth.ErrInvalidAuthCode)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		m.writeError(w, r, auth.ErrInvalidAuthCode)
		return
	}
	identity, err := m.provider.Exchange(r.Context(), code)
	if err != nil {
		m.writeError(w, r, err)
		return
	}

	account, pair, err := m.svc.SignIn(r.Context(), identity)
	if err != nil {
		m.writeError(w, r, err)
		return
	}
	m.cookies.Set(w, pair)
	m.log.InfoContext(r.Context(), "federated sign-in",
		logger.AccountID(account.ID.String()), logger.Email(account.Email))

	target := m.frontendURL + "/auth/callback?access_token=" + url.QueryEscape(pair.AccessToken)
	http.Redirect(w, r, target, http.StatusFound)
}
