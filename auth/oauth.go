package auth

import "context"

// ExternalIdentity is a verified identity assertion from a federation
// provider, normalized to the fields the service provisions from.
type ExternalIdentity struct {
	Provider  string
	SubjectID string
	Email     string
	Name      string
	Picture   string
}

// IdentityProvider runs the provider side of an OAuth2 authorization code
// flow and resolves the resulting code to an ExternalIdentity.
type IdentityProvider interface {
	// Name identifies the provider, e.g. "google".
	Name() string
	// AuthURL builds the provider consent URL for the given anti-forgery
	// state value.
	AuthURL(state string) string
	// Exchange redeems an authorization code and fetches the identity
	// behind it.
	Exchange(ctx context.Context, code string) (ExternalIdentity, error)
}
