package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ProviderGoogle is the provider identifier stored on accounts
// provisioned through Google federation.
const ProviderGoogle = "google"

var (
	// ErrInvalidAuthCode is returned when the authorization code exchange
	// is rejected by the provider.
	ErrInvalidAuthCode = errors.New("invalid authorization code")
	// ErrNoVerifiedEmail is returned when the provider profile lacks a
	// verified email address to key the account on.
	ErrNoVerifiedEmail = errors.New("provider returned no verified email")
)

// GoogleConfig holds the OAuth2 client registration for Google sign-in.
type GoogleConfig struct {
	ClientID     string   `env:"GOOGLE_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"GOOGLE_OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"GOOGLE_OAUTH_REDIRECT_URL,required"`
	Scopes       []string `env:"GOOGLE_OAUTH_SCOPES" envSeparator:"," envDefault:"https://www.googleapis.com/auth/userinfo.email,https://www.googleapis.com/auth/userinfo.profile"`
}

type googleProvider struct {
	conf       *oauth2.Config
	httpClient *http.Client
}

// NewGoogleProvider creates the Google identity provider.
func NewGoogleProvider(cfg GoogleConfig) IdentityProvider {
	return &googleProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     google.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *googleProvider) Name() string {
	return ProviderGoogle
}

// AuthURL builds the Google consent URL carrying the anti-forgery state.
func (p *googleProvider) AuthURL(state string) string {
	return p.conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange redeems the authorization code and reads the userinfo profile.
// Unverified emails are rejected: the account key must be an address the
// provider has actually confirmed.
func (p *googleProvider) Exchange(ctx context.Context, code string) (ExternalIdentity, error) {
	tok, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return ExternalIdentity{}, ErrInvalidAuthCode
	}

	u, err := p.fetchUser(ctx, tok.AccessToken)
	if err != nil {
		return ExternalIdentity{}, fmt.Errorf("fetch google user: %w", err)
	}
	if u.Email == "" || !u.VerifiedEmail {
		return ExternalIdentity{}, ErrNoVerifiedEmail
	}

	return ExternalIdentity{
		Provider:  ProviderGoogle,
		SubjectID: u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Picture:   u.Picture,
	}, nil
}

func (p *googleProvider) fetchUser(ctx context.Context, accessToken string) (*googleUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google api returned status %d", resp.StatusCode)
	}

	var user googleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

var _ IdentityProvider = (*googleProvider)(nil)
