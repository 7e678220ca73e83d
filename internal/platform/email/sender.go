// Package email provides SMTP delivery for outgoing notifications.
package email

import (
	"context"
	"log/slog"

	"github.com/taskwell/taskwell-api/internal/config"
	gomail "gopkg.in/gomail.v2"
)

// SMTPSender delivers plain-text emails through an SMTP server.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	logger *slog.Logger
}

// New creates an SMTPSender from the email configuration.
func New(cfg config.EmailConfig, logger *slog.Logger) *SMTPSender {
	if logger == nil {
		logger = slog.Default()
	}

	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger.With(slog.String("component", "email_sender")),
	}
}

// Send delivers one plain-text email. The SMTP client has no context
// support, so cancellation is only checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("failed to send email",
			slog.String("to", to),
			slog.String("error", err.Error()))
		return err
	}

	s.logger.Debug("email sent", slog.String("to", to))
	return nil
}
