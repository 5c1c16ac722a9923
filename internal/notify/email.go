package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/neuralhub/neuralhub-go/internal/config"
)

// mailSender is satisfied by *gomail.Dialer.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier sends account links over SMTP.
type EmailNotifier struct {
	cfg    config.SMTPConfig
	sender mailSender
	logger *slog.Logger
}

// NewEmailNotifier creates an EmailNotifier dialing the configured SMTP server.
func NewEmailNotifier(cfg config.SMTPConfig, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		logger: logger,
	}
}

func (n *EmailNotifier) SendVerification(ctx context.Context, to, name, link string) error {
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Welcome to Neural Hub, %s</h2>
    <p>Confirm your email address to start saving your AI conversations.</p>
    <p><a href="%s">Verify email</a></p>
    <p>This link expires in 24 hours.</p>
  </div>
</body>
</html>`, html.EscapeString(name), html.EscapeString(link))

	return n.send(ctx, to, "[Neural Hub] Verify your email", body)
}

func (n *EmailNotifier) SendPasswordReset(ctx context.Context, to, name, link string) error {
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Reset your password</h2>
    <p>Hi %s, we received a request to reset your Neural Hub password.</p>
    <p><a href="%s">Choose a new password</a></p>
    <p>This link expires in 1 hour. If you did not ask for it, ignore this email.</p>
  </div>
</body>
</html>`, html.EscapeString(name), html.EscapeString(link))

	return n.send(ctx, to, "[Neural Hub] Password reset", body)
}

func (n *EmailNotifier) send(ctx context.Context, to, subject, body string) error {
	if !n.cfg.Enabled() {
		return fmt.Errorf("email config missing")
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("empty recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	n.logger.InfoContext(ctx, "email sent", slog.String("to", to), slog.String("subject", subject))
	return nil
}
