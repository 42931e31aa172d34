package email

import (
	"context"
	"fmt"
	"html"
)

// MessageType selects the subject and body of a notification.
type MessageType = string

const (
	MessageVerification    MessageType = "emailVerification"
	MessageForgotPassword  MessageType = "forgotPassword"
	MessagePasswordChanged MessageType = "passwordResetConfirmation"
)

type message struct {
	subject string
	heading string
	lead    string
	action  string
}

// One entry per message type; unknown types are a programming error and
// fail loudly.
var catalogue = map[MessageType]message{
	MessageVerification: {
		subject: "Email Verification",
		heading: "Verify your email",
		lead:    "Thanks for signing up. Confirm your email address to activate your account.",
		action:  "Verify email",
	},
	MessageForgotPassword: {
		subject: "Reset Password",
		heading: "Reset your password",
		lead:    "We received a request to reset your password. The link below is valid for a few hours and can be used once.",
		action:  "Reset password",
	},
	MessagePasswordChanged: {
		subject: "Your password has been changed",
		heading: "Password changed",
		lead:    "Your password was just changed. If this was you, sign in with your new password. If not, contact support immediately.",
		action:  "Sign in",
	},
}

// Notifier renders and sends templated notifications through a Sender.
type Notifier struct {
	sender Sender
}

// NewNotifier wraps a transport in the message catalogue.
func NewNotifier(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

// Send delivers the message of the given type to recipient, addressing them
// by name, with actionURL as the single call to action. msgType is accepted
// as a plain string so callers can depend on their own notifier interface.
func (n *Notifier) Send(ctx context.Context, msgType, recipient, name, actionURL string) error {
	m, ok := catalogue[msgType]
	if !ok {
		return fmt.Errorf("%w: unknown message type %q", ErrInvalidParams, msgType)
	}

	return n.sender.SendEmail(ctx, SendEmailParams{
		SendTo:   recipient,
		Subject:  m.subject,
		BodyHTML: renderBody(m, name, actionURL),
		Tag:      string(msgType),
	})
}

func renderBody(m message, name, actionURL string) string {
	greeting := "Hi"
	if name != "" {
		greeting = "Hi " + html.EscapeString(name)
	}

	return fmt.Sprintf(`<html><body>
<h2>%s</h2>
<p>%s,</p>
<p>%s</p>
<p><a href="%s">%s</a></p>
<p>If the button does not work, copy this link into your browser:<br>%s</p>
</body></html>`,
		html.EscapeString(m.heading),
		greeting,
		html.EscapeString(m.lead),
		html.EscapeString(actionURL),
		html.EscapeString(m.action),
		html.EscapeString(actionURL),
	)
}
