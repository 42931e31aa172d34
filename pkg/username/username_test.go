package username_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kreasihub/auth/pkg/username"
)

func TestFromEmail(t *testing.T) {
	t.Parallel()

	t.Run("uses local part with digit suffix", func(t *testing.T) {
		t.Parallel()

		name := username.FromEmail("Jane.Doe@example.com", 5)
		assert.True(t, strings.HasPrefix(name, "janedoe"), name)
		assert.Len(t, name, len("janedoe")+5)
	})

	t.Run("strips plus tag", func(t *testing.T) {
		t.Parallel()

		name := username.FromEmail("jane+news@example.com", 3)
		assert.True(t, strings.HasPrefix(name, "jane"), name)
		assert.NotContains(t, name, "news")
	})

	t.Run("falls back for empty local part", func(t *testing.T) {
		t.Parallel()

		name := username.FromEmail("@example.com", 4)
		assert.True(t, strings.HasPrefix(name, "user"), name)
	})

	t.Run("zero digits returns bare name", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "jane", username.FromEmail("jane@example.com", 0))
	})
}
