// Package jwt implements HMAC-SHA256 signed JWTs (RFC 7519) without external
// dependencies.
//
// A Service wraps a single signing key. Callers that maintain independent
// token families (for example access and refresh tokens) construct one
// Service per key so a compromised key never signs for the other family.
//
// Parse distinguishes ErrExpiredToken from ErrInvalidSignature so callers can
// log the two cases separately, even when they surface identically to users.
package jwt
