package token_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreasihub/auth/pkg/token"
)

type testPayload struct {
	Email string `json:"email"`
	Exp   int64  `json:"exp"`
}

func TestGenerateAndParse(t *testing.T) {
	t.Parallel()

	const secret = "confirmation-secret"

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		in := testPayload{Email: "a@x.com", Exp: 1700000000}
		tok, err := token.Generate(in, secret)
		require.NoError(t, err)
		assert.Len(t, strings.Split(tok, "."), 2)

		out, err := token.Parse[testPayload](tok, secret)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		t.Parallel()

		tok, err := token.Generate(testPayload{Email: "a@x.com"}, secret)
		require.NoError(t, err)

		_, err = token.Parse[testPayload](tok, "other-secret")
		assert.ErrorIs(t, err, token.ErrSignatureInvalid)
	})

	t.Run("tampered payload rejected", func(t *testing.T) {
		t.Parallel()

		tok, err := token.Generate(testPayload{Email: "a@x.com"}, secret)
		require.NoError(t, err)

		parts := strings.Split(tok, ".")
		forged, err := token.Generate(testPayload{Email: "b@x.com"}, secret)
		require.NoError(t, err)
		forgedParts := strings.Split(forged, ".")

		_, err = token.Parse[testPayload](forgedParts[0]+"."+parts[1], secret)
		assert.ErrorIs(t, err, token.ErrSignatureInvalid)
	})

	t.Run("malformed token rejected", func(t *testing.T) {
		t.Parallel()

		for _, tok := range []string{"", "onlyonepart", "a.b.c", "!!!.???"} {
			_, err := token.Parse[testPayload](tok, secret)
			assert.Error(t, err, "token %q", tok)
		}
	})
}
