package authhttp

import (
	"errors"
	"net/http"

	"github.com/kreasihub/auth/auth"
	"github.com/kreasihub/auth/core"
	"github.com/kreasihub/auth/pkg/logger"
)

// accountResponse is the public projection of an account.
type accountResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	Picture     string `json:"picture,omitempty"`
	Role        string `json:"role"`
	IsConfirmed bool   `json:"isConfirmed"`
}

func newAccountResponse(account *auth.Account) accountResponse {
	return accountResponse{
		ID:          account.ID.String(),
		Email:       account.Email,
		Username:    account.Name,
		Picture:     account.Picture,
		Role:        string(account.Role),
		IsConfirmed: account.IsConfirmed,
	}
}

// sessionResponse carries the access token for clients that prefer the
// Authorization header over the cookie.
type sessionResponse struct {
	AccessToken string `json:"accessToken"`
}

func (m *Module) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	account, err := m.svc.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		m.writeError(w, r, err)
		return
	}
	core.JSON(w, "registered, confirmation email sent", newAccountResponse(account))
}

func (m *Module) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	account, pair, err := m.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		m.writeError(w, r, err)
		return
	}
	m.cookies.Set(w, pair)
	core.JSON(w, "signed in as "+account.Email, sessionResponse{AccessToken: pair.AccessToken})
}

func (m *Module) refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken, err := m.cookies.RefreshToken(r)
	if err != nil {
		core.JSONError(w, core.ErrUnauthorized)
		return
	}

	_, pair, err := m.svc.RefreshTokens(r.Context(), refreshToken)
	if err != nil {
		m.cookies.Clear(w)
		m.writeError(w, r, err)
		return
	}
	m.cookies.Set(w, pair)
	core.JSON(w, "session refreshed", sessionResponse{AccessToken: pair.AccessToken})
}

func (m *Module) logout(w http.ResponseWriter, r *http.Request) {
	if refreshToken, err := m.cookies.RefreshToken(r); err == nil {
		if err := m.svc.Logout(r.Context(), refreshToken); err != nil {
			m.log.ErrorContext(r.Context(), "retire refresh token", logger.Error(err))
		}
	}
	m.cookies.Clear(w)
	core.JSON(w, "signed out", nil)
}

func (m *Module) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := decode(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := m.svc.VerifyEmail(r.Context(), req.Token); err != nil {
		m.writeError(w, r, err)
		return
	}
	core.JSON(w, "email verified", nil)
}

// requestVerify re-sends the confirmation email for the signed-in account.
// It sits behind AuthorizeUnconfirmed since the accounts that need it are
// exactly the unconfirmed ones.
func (m *Module) requestVerify(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		core.JSONError(w, core.ErrUnauthorized)
		return
	}
	if err := m.svc.ResendVerification(r.Context(), principal.ID); err != nil {
		m.writeError(w, r, err)
		return
	}
	core.JSON(w, "confirmation email sent", nil)
}

func (m *Module) requestResetPassword(w http.ResponseWriter, r *http.Request) {
	var req requestResetRequest
	if err := decode(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := m.svc.ForgotPassword(r.Context(), req.Email); err != nil {
		m.writeError(w, r, err)
		return
	}
	core.JSON(w, "reset email sent if the account exists", nil)
}

func (m *Module) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decode(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	if err := m.svc.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		m.writeError(w, r, err)
		return
	}
	core.JSON(w, "password updated", nil)
}

// writeError translates domain errors into envelope responses. Anything
// unmapped is logged and hidden behind a generic 500.
func (m *Module) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrPasswordAccount),
		errors.Is(err, auth.ErrAlreadyConfirmed):
		core.JSONError(w, core.ErrConflict)
	case errors.Is(err, auth.ErrAccountNotFound):
		core.JSONError(w, core.ErrNotFound)
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrTokenInvalid),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrInvalidAuthCode),
		errors.Is(err, auth.ErrNoVerifiedEmail):
		core.JSONError(w, core.ErrUnauthorized)
	case errors.Is(err, auth.ErrNotConfirmed),
		errors.Is(err, auth.ErrSamePassword),
		errors.Is(err, auth.ErrFederatedAccount):
		core.JSONError(w, core.ErrForbidden)
	default:
		m.log.ErrorContext(r.Context(), "request failed", logger.Error(err))
		core.JSONError(w, core.ErrInternalServerError)
	}
}
