package email_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kreasihub/auth/email"
)

type captureSender struct {
	params []email.SendEmailParams
	err    error
}

func (c *captureSender) SendEmail(_ context.Context, p email.SendEmailParams) error {
	if c.err != nil {
		return c.err
	}
	c.params = append(c.params, p)
	return nil
}

func TestNotifierSend(t *testing.T) {
	t.Parallel()

	t.Run("renders verification message", func(t *testing.T) {
		t.Parallel()

		sender := &captureSender{}
		n := email.NewNotifier(sender)

		err := n.Send(context.Background(), email.MessageVerification,
			"a@x.com", "Jane", "https://app.example.com/auth/confirm?code=tok")
		require.NoError(t, err)
		require.Len(t, sender.params, 1)

		p := sender.params[0]
		assert.Equal(t, "a@x.com", p.SendTo)
		assert.Equal(t, "Email Verification", p.Subject)
		assert.Equal(t, "emailVerification", p.Tag)
		assert.Contains(t, p.BodyHTML, "Hi Jane")
		assert.Contains(t, p.BodyHTML, "https://app.example.com/auth/confirm?code=tok")
	})

	t.Run("escapes html in name and url", func(t *testing.T) {
		t.Parallel()

		sender := &captureSender{}
		n := email.NewNotifier(sender)

		err := n.Send(context.Background(), email.MessageForgotPassword,
			"a@x.com", "<script>x</script>", "https://x?a=1&b=2")
		require.NoError(t, err)
		assert.NotContains(t, sender.params[0].BodyHTML, "<script>")
	})

	t.Run("unknown type fails", func(t *testing.T) {
		t.Parallel()

		n := email.NewNotifier(&captureSender{})
		err := n.Send(context.Background(), "nope", "a@x.com", "", "https://x")
		assert.ErrorIs(t, err, email.ErrInvalidParams)
	})

	t.Run("each known type has a subject", func(t *testing.T) {
		t.Parallel()

		sender := &captureSender{}
		n := email.NewNotifier(sender)
		for _, mt := range []email.MessageType{
			email.MessageVerification,
			email.MessageForgotPassword,
			email.MessagePasswordChanged,
		} {
			require.NoError(t, n.Send(context.Background(), mt, "a@x.com", "J", "https://x"))
		}
		require.Len(t, sender.params, 3)
		for _, p := range sender.params {
			assert.NotEmpty(t, p.Subject)
			assert.NotEmpty(t, p.BodyHTML)
		}
	})
}

func TestSendEmailParamsValidate(t *testing.T) {
	t.Parallel()

	valid := email.SendEmailParams{SendTo: "a@x.com", Subject: "s", BodyHTML: "<p>b</p>"}
	assert.NoError(t, valid.Validate())

	for name, mutate := range map[string]func(*email.SendEmailParams){
		"missing recipient": func(p *email.SendEmailParams) { p.SendTo = "" },
		"bad recipient":     func(p *email.SendEmailParams) { p.SendTo = "not-an-email" },
		"missing subject":   func(p *email.SendEmailParams) { p.Subject = "" },
		"missing body":      func(p *email.SendEmailParams) { p.BodyHTML = "" },
	} {
		name, mutate := name, mutate
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			p := valid
			mutate(&p)
			assert.ErrorIs(t, p.Validate(), email.ErrInvalidParams)
		})
	}
}
