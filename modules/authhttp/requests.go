package authhttp

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kreasihub/auth/core"
)

const minPasswordLength = 8

type registerRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (r registerRequest) validate() error {
	if err := validEmail(r.Email); err != nil {
		return err
	}
	if strings.TrimSpace(r.Username) == "" {
		return core.NewHTTPError(http.StatusUnprocessableEntity, "username is required")
	}
	if err := validPassword(r.Password); err != nil {
		return err
	}
	if r.Password != r.ConfirmPassword {
		return core.NewHTTPError(http.StatusUnprocessableEntity, "passwords do not match")
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) validate() error {
	if err := validEmail(r.Email); err != nil {
		return err
	}
	if r.Password == "" {
		return core.NewHTTPError(http.StatusUnprocessableEntity, "password is required")
	}
	return nil
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

func (r verifyEmailRequest) validate() error {
	if r.Token == "" {
		return core.NewHTTPError(http.StatusUnprocessableEntity, "token is required")
	}
	return nil
}

type requestResetRequest struct {
	Email string `json:"email"`
}

func (r requestResetRequest) validate() error {
	return validEmail(r.Email)
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (r resetPasswordRequest) validate() error {
	if r.Token == "" {
		return core.NewHTTPError(http.StatusUnprocessableEntity, "token is required")
	}
	if err := validPassword(r.Password); err != nil {
		return err
	}
	if r.Password != r.ConfirmPassword {
		return core.NewHTTPError(http.StatusUnprocessableEntity, "passwords do not match")
	}
	return nil
}

func validEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return core.NewHTTPError(http.StatusUnprocessableEntity, "email is required")
	}
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return core.NewHTTPError(http.StatusUnprocessableEntity, "email is invalid")
	}
	return nil
}

func validPassword(password string) error {
	if len(password) < minPasswordLength {
		return core.NewHTTPError(http.StatusUnprocessableEntity, "password must be at least 8 characters")
	}
	return nil
}

// decode unmarshals the request body into dst and validates it.
func decode(r *http.Request, dst interface{ validate() error }) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return core.ErrBadRequest
	}
	return dst.validate()
}
