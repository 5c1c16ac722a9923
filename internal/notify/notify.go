// Package notify delivers account links (email verification, password reset) to users.
package notify

import (
	"context"
	"log/slog"
)

// Notifier delivers account links to a user.
type Notifier interface {
	SendVerification(ctx context.Context, to, name, link string) error
	SendPasswordReset(ctx context.Context, to, name, link string) error
}

// LogNotifier writes links to the log instead of sending them. It is the
// delivery channel for development setups without SMTP.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendVerification(ctx context.Context, to, name, link string) error {
	n.logger.InfoContext(ctx, "verification link issued",
		slog.String("to", to), slog.String("name", name), slog.String("link", link))
	return nil
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, to, name, link string) error {
	n.logger.InfoContext(ctx, "password reset link issued",
		slog.String("to", to), slog.String("name", name), slog.String("link", link))
	return nil
}
