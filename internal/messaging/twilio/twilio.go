// Package twilio implements the messaging transport contracts against the
// Twilio Programmable Messaging API, covering both SMS and WhatsApp sends.
package twilio

import (
	"context"
	"log/slog"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/example/event-invitations/internal/messaging"
)

// Config carries the Twilio account credentials and sender identities. An
// empty WhatsAppFrom disables the WhatsApp channel.
type Config struct {
	AccountSID   string
	AuthToken    string
	SMSFrom      string
	WhatsAppFrom string
}

// Sender delivers text messages through Twilio.
type Sender struct {
	client *twilio.RestClient
	cfg    Config
	logger *slog.Logger
}

// NewSender builds a Twilio-backed text sender.
func NewSender(cfg Config, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &Sender{client: client, cfg: cfg, logger: logger}
}

// Supports reports whether the sender has a from-identity for the channel.
func (s *Sender) Supports(channel messaging.Channel) bool {
	if s == nil {
		return false
	}
	switch channel {
	case messaging.ChannelWhatsApp:
		return s.cfg.WhatsAppFrom != ""
	case messaging.ChannelSMS:
		return s.cfg.SMSFrom != ""
	}
	return false
}

// Send submits one message over the requested channel and reports the
// provider's verdict. The Twilio client has no context-aware variant, so ctx
// is only consulted before the call.
func (s *Sender) Send(ctx context.Context, channel messaging.Channel, msg messaging.TextMessage) messaging.DeliveryOutcome {
	outcome := messaging.DeliveryOutcome{Channel: channel}

	if err := ctx.Err(); err != nil {
		outcome.Err = err
		return outcome
	}

	to := msg.To
	from := s.cfg.SMSFrom
	if channel == messaging.ChannelWhatsApp {
		to = "whatsapp:" + msg.To
		from = "whatsapp:" + s.cfg.WhatsAppFrom
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(msg.Body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		s.logger.Error("twilio send failed", "channel", string(channel), "error", err)
		outcome.Err = err
		return outcome
	}

	if resp.Sid != nil {
		outcome.MessageID = *resp.Sid
	}
	if resp.Status != nil {
		outcome.Status = *resp.Status
	}
	if resp.ErrorCode != nil {
		outcome.ErrorCode = *resp.ErrorCode
	}

	s.logger.Debug("twilio message submitted",
		"channel", string(channel),
		"sid", outcome.MessageID,
		"status", outcome.Status,
	)
	return outcome
}
