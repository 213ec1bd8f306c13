package utils

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer delivers account emails.
type Mailer interface {
	SendWelcome(ctx context.Context, email, username string) error
}

// SendGridMailer sends through the SendGrid v3 API.
type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewMailer returns a SendGrid mailer, or a no-op mailer when no API key is
// configured.
func NewMailer(apiKey, fromAddress string) Mailer {
	if apiKey == "" {
		return NoopMailer{}
	}
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("Noto", fromAddress),
	}
}

func (m *SendGridMailer) SendWelcome(ctx context.Context, email, username string) error {
	message := WelcomeMessage(m.from, email, username)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("send welcome email: sendgrid returned %d", response.StatusCode)
	}
	return nil
}

// WelcomeMessage builds the email sent after registration.
func WelcomeMessage(from *mail.Email, email, username string) *mail.SGMailV3 {
	to := mail.NewEmail(username, email)
	subject := "Welcome to Noto"
	plainTextContent := fmt.Sprintf("Hi %s, your account is ready. Start your first note whenever you like.", username)
	htmlContent := fmt.Sprintf("<p>Hi <strong>%s</strong>, your account is ready.</p>", html.EscapeString(username))

	return mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)
}

type NoopMailer struct{}

func (NoopMailer) SendWelcome(context.Context, string, string) error { return nil }
