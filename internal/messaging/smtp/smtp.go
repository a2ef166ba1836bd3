// Package smtp implements the email transport contract over SMTP.
package smtp

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/example/event-invitations/internal/messaging"
)

// Config carries the SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Sender delivers invitation emails through an SMTP relay.
type Sender struct {
	dialer *gomail.Dialer
	from   string
	logger *slog.Logger
}

// NewSender builds an SMTP-backed email sender.
func NewSender(cfg Config, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

var bodyTemplate = template.Must(template.New("invitation").Parse(`<html>
<body style="font-family: sans-serif; color: #222;">
  <h1>{{.Title}}</h1>
  {{if .Subtitle}}<h3>{{.Subtitle}}</h3>{{end}}
  {{if .Description}}<p>{{.Description}}</p>{{end}}
  {{if .ButtonURL}}<p><a href="{{.ButtonURL}}" style="display:inline-block;padding:12px 24px;background:#4f46e5;color:#fff;text-decoration:none;border-radius:6px;">{{.ButtonLabel}}</a></p>{{end}}
</body>
</html>`))

// SendEmail renders the structured content block into HTML and delivers it.
// The underlying dialer has no context support, so ctx is consulted before
// dialing only.
func (s *Sender) SendEmail(ctx context.Context, msg messaging.EmailMessage) error {
	if s == nil || s.dialer == nil {
		return fmt.Errorf("smtp sender not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := bodyTemplate.Execute(&body, msg.Content); err != nil {
		return fmt.Errorf("render email body: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", body.String())

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", msg.To, err)
	}

	s.logger.Debug("email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}
