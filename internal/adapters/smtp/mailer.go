// Package smtp delivers email over SMTP with plain authentication.
// Messages are multipart/alternative so clients without HTML rendering
// still get the text body.
package smtp

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/google/uuid"

	"github.com/jsamuelsen/daily-reflections/internal/domain"
)

// Mailer implements ports.Mailer over net/smtp.
type Mailer struct {
	addr     string
	host     string
	username string
	password string
	logger   *slog.Logger
}

// Config contains SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Logger   *slog.Logger
}

// NewMailer creates an SMTP mailer.
func NewMailer(cfg Config) *Mailer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Mailer{
		addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		host:     cfg.Host,
		username: cfg.Username,
		password: cfg.Password,
		logger:   logger.With(slog.String("component", "smtp.Mailer")),
	}
}

// Send implements ports.Mailer. The context is checked before dialing;
// net/smtp itself does not support cancellation mid-transaction.
func (m *Mailer) Send(ctx context.Context, email domain.Email) error {
	if err := ctx.Err(); err != nil {
		return domain.NewDeliveryError(email.To, err)
	}

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	msg := buildMessage(email)

	if err := smtp.SendMail(m.addr, auth, email.From, []string{email.To}, msg); err != nil {
		return domain.NewDeliveryError(email.To, err)
	}

	m.logger.DebugContext(ctx, "email sent",
		slog.String("to", email.To),
		slog.String("subject", email.Subject),
	)

	return nil
}

// buildMessage assembles the multipart/alternative MIME message. The text
// part comes first so clients preferring the last alternative pick HTML.
// The boundary is random per message so body content can never collide
// with it.
func buildMessage(email domain.Email) []byte {
	boundary := "b-" + uuid.NewString()

	var msg strings.Builder

	fmt.Fprintf(&msg, "From: %s\r\n", email.From)
	fmt.Fprintf(&msg, "To: %s\r\n", email.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", email.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(email.TextBody)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(email.HTMLBody)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	return []byte(msg.String())
}
