// Package mail delivers transactional email, one-time login codes in particular.
//
// Request handlers never talk to the mail server: they enqueue messages on a
// Dispatcher whose bounded worker pool delivers them through a Mailer.
package mail

import (
	"context"
	"log/slog"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the log instead of sending them. Codes are
// logged at debug level, so it is only suitable for development.
type LogMailer struct {
	logger *slog.Logger
}

// Send logs the message.
func (l *LogMailer) Send(ctx context.Context, msg Message) error {
	l.logger.DebugContext(ctx, "mail not sent, no smtp host configured",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body),
	)
	return nil
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}
