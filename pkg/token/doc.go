// Package token provides compact, signed tokens for embedding JSON payloads.
//
// Tokens use HMAC-SHA256 and are intended for single-purpose, short-lived
// proofs such as email confirmation and password reset links. They are bearer
// proofs of "the requester controls this email", not API credentials: the
// signing secret must be distinct from any access or refresh token secret so
// a leaked action token can never be replayed against protected routes.
//
// Token format: base64url(payload).base64url(signature)
//
// Expiry is carried inside the payload and enforced by the caller at parse
// time; nothing is stored server-side.
//
// # Usage
//
//	type Payload struct {
//	    Email string `json:"email"`
//	    Exp   int64  `json:"exp"`
//	}
//
//	tok, err := token.Generate(Payload{"a@x.com", time.Now().Add(time.Hour).Unix()}, secret)
//
//	p, err := token.Parse[Payload](tok, secret)
//
// Returns ErrInvalidToken for malformed tokens and ErrSignatureInvalid for
// signature mismatches.
package token
