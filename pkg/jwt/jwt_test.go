package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreasihub/auth/pkg/jwt"
)

type claims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty key", func(t *testing.T) {
		t.Parallel()

		_, err := jwt.New(nil)
		assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)

		_, err = jwt.NewFromString("")
		assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)
	})
}

func TestGenerateParse(t *testing.T) {
	t.Parallel()

	svc, err := jwt.NewFromString("access-signing-key-32-bytes-long")
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		in := claims{
			StandardClaims: jwt.StandardClaims{
				Subject:   "user-1",
				ExpiresAt: time.Now().Add(time.Hour).Unix(),
				IssuedAt:  time.Now().Unix(),
			},
			Email: "a@x.com",
		}

		tok, err := svc.Generate(in)
		require.NoError(t, err)

		var out claims
		require.NoError(t, svc.Parse(tok, &out))
		assert.Equal(t, in, out)
	})

	t.Run("expired token fails", func(t *testing.T) {
		t.Parallel()

		tok, err := svc.Generate(claims{
			StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(-time.Second).Unix()},
		})
		require.NoError(t, err)

		var out claims
		assert.ErrorIs(t, svc.Parse(tok, &out), jwt.ErrExpiredToken)
	})

	t.Run("key isolation", func(t *testing.T) {
		t.Parallel()

		other, err := jwt.NewFromString("refresh-signing-key-32-bytes-lng")
		require.NoError(t, err)

		tok, err := other.Generate(claims{Email: "a@x.com"})
		require.NoError(t, err)

		var out claims
		assert.ErrorIs(t, svc.Parse(tok, &out), jwt.ErrInvalidSignature)
	})

	t.Run("malformed token fails", func(t *testing.T) {
		t.Parallel()

		var out claims
		assert.ErrorIs(t, svc.Parse("not-a-jwt", &out), jwt.ErrInvalidToken)
		assert.ErrorIs(t, svc.Parse("a.b", &out), jwt.ErrInvalidToken)
	})

	t.Run("tampered claims fail signature check", func(t *testing.T) {
		t.Parallel()

		tok, err := svc.Generate(claims{Email: "a@x.com"})
		require.NoError(t, err)

		forged, err := svc.Generate(claims{Email: "b@x.com"})
		require.NoError(t, err)

		// Original payload with the other token's signature tail.
		mixed := tok[:len(tok)-10] + forged[len(forged)-10:]

		var out claims
		assert.Error(t, svc.Parse(mixed, &out))
	})
}
