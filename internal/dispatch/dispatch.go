// Package dispatch implements invitation delivery: a per-guest sender that
// attempts email and phone channels independently with a single
// WhatsApp-to-SMS fallback, and a sequential rate-limited bulk orchestrator.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/event-invitations/internal/application"
	"github.com/example/event-invitations/internal/messaging"
)

// ErrNoContact is returned for guests that carry neither an email address nor
// a phone number.
var ErrNoContact = errors.New("No contact information available")

// MessageKind selects the wording of a dispatched message.
type MessageKind string

const (
	KindInvitation MessageKind = "invitation"
	KindReminder   MessageKind = "reminder"
)

// ParseMessageKind maps a wire value to a known kind.
func ParseMessageKind(value string) (MessageKind, bool) {
	switch MessageKind(value) {
	case KindInvitation, KindReminder:
		return MessageKind(value), true
	case "":
		return KindInvitation, true
	}
	return "", false
}

// OutcomeClassifier decides whether a provider outcome counts as a failed
// delivery. Implementations are provider specific; the pipeline never
// inspects provider statuses itself.
type OutcomeClassifier interface {
	DeliveryFailed(outcome messaging.DeliveryOutcome) bool
}

// PhoneValidator normalizes a raw phone number, rejecting invalid ones.
type PhoneValidator interface {
	Validate(raw string) (string, error)
}

// Result is the per-guest delivery outcome. Success is true when at least one
// channel delivered; a guest with a working email and a broken phone still
// counts as delivered.
type Result struct {
	GuestID   string
	GuestName string
	Success   bool
	EmailSent bool
	SMSSent   bool
	Channel   messaging.Channel
	Err       error
}

// Dispatcher sends one invitation or reminder to one guest.
type Dispatcher struct {
	email      messaging.EmailSender
	texts      messaging.TextSender
	classifier OutcomeClassifier
	phones     PhoneValidator
	logger     *slog.Logger
}

// NewDispatcher wires the transports consumed by the dispatch pipeline. Any
// transport may be nil, in which case its channel is simply never attempted.
func NewDispatcher(email messaging.EmailSender, texts messaging.TextSender, classifier OutcomeClassifier, phones PhoneValidator, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{email: email, texts: texts, classifier: classifier, phones: phones, logger: logger}
}

// SendEventInvitation dispatches an invitation to a single guest.
func (d *Dispatcher) SendEventInvitation(ctx context.Context, guest application.Guest, event application.Event, invitationURL string) Result {
	return d.send(ctx, guest, event, invitationURL, KindInvitation)
}

// SendEventReminder dispatches a reminder to a single guest.
func (d *Dispatcher) SendEventReminder(ctx context.Context, guest application.Guest, event application.Event, invitationURL string) Result {
	return d.send(ctx, guest, event, invitationURL, KindReminder)
}

func (d *Dispatcher) send(ctx context.Context, guest application.Guest, event application.Event, invitationURL string, kind MessageKind) Result {
	result := Result{GuestID: guest.ID, GuestName: guest.Name}

	if guest.Email == "" && guest.Phone == "" {
		result.Err = ErrNoContact
		return result
	}

	logger := d.logger.With("guest_id", guest.ID, "event_id", event.ID, "kind", string(kind))

	// Email is attempted independently of the phone channel; its failure is
	// logged but never blocks the phone attempt.
	if guest.Email != "" && d.email != nil {
		msg := buildEmail(guest, event, invitationURL, kind)
		if err := d.email.SendEmail(ctx, msg); err != nil {
			logger.ErrorContext(ctx, "email delivery failed", "error", err)
		} else {
			result.EmailSent = true
		}
	}

	if guest.Phone != "" && d.texts != nil {
		result.SMSSent, result.Channel = d.sendText(ctx, logger, guest, event, invitationURL, kind)
	}

	result.Success = result.EmailSent || result.SMSSent
	if !result.Success && result.Err == nil {
		result.Err = fmt.Errorf("no channel delivered")
	}
	return result
}

// sendText runs the channel-fallback policy: WhatsApp first when configured,
// then plain SMS exactly once. Invalid numbers are skipped without an error
// surfacing to the caller.
func (d *Dispatcher) sendText(ctx context.Context, logger *slog.Logger, guest application.Guest, event application.Event, invitationURL string, kind MessageKind) (bool, messaging.Channel) {
	to := guest.Phone
	if d.phones != nil {
		normalized, err := d.phones.Validate(guest.Phone)
		if err != nil {
			logger.WarnContext(ctx, "phone number invalid, skipping text channel", "error", err)
			return false, ""
		}
		to = normalized
	}

	msg := messaging.TextMessage{To: to, Body: buildTextBody(guest, event, invitationURL, kind)}

	if d.texts.Supports(messaging.ChannelWhatsApp) {
		outcome := d.texts.Send(ctx, messaging.ChannelWhatsApp, msg)
		if !d.failed(outcome) {
			return true, messaging.ChannelWhatsApp
		}
		logger.WarnContext(ctx, "whatsapp delivery failed, falling back to sms",
			"status", outcome.Status, "error_code", outcome.ErrorCode, "error", outcome.Err)
	}

	if !d.texts.Supports(messaging.ChannelSMS) {
		return false, ""
	}

	outcome := d.texts.Send(ctx, messaging.ChannelSMS, msg)
	if d.failed(outcome) {
		logger.ErrorContext(ctx, "sms delivery failed",
			"status", outcome.Status, "error_code", outcome.ErrorCode, "error", outcome.Err)
		return false, ""
	}
	return true, messaging.ChannelSMS
}

func (d *Dispatcher) failed(outcome messaging.DeliveryOutcome) bool {
	if outcome.Err != nil {
		return true
	}
	if d.classifier == nil {
		return false
	}
	return d.classifier.DeliveryFailed(outcome)
}

func buildEmail(guest application.Guest, event application.Event, invitationURL string, kind MessageKind) messaging.EmailMessage {
	subject := fmt.Sprintf("You're invited to %s", event.Title)
	subtitle := "You have been invited!"
	if kind == KindReminder {
		subject = fmt.Sprintf("Reminder: %s", event.Title)
		subtitle = "We are still waiting for your response."
	}

	return messaging.EmailMessage{
		To:      guest.Email,
		Subject: subject,
		Content: messaging.EmailContent{
			Title:       event.Title,
			Subtitle:    subtitle,
			Description: invitationDescription(guest, event),
			ButtonLabel: "View invitation & RSVP",
			ButtonURL:   invitationURL,
		},
	}
}

func buildTextBody(guest application.Guest, event application.Event, invitationURL string, kind MessageKind) string {
	if kind == KindReminder {
		return fmt.Sprintf(
			"Hi %s, a friendly reminder about %s on %s. Please RSVP here: %s",
			guest.Name, event.Title, event.Start.Format("Monday, January 2, 2006"), invitationURL,
		)
	}
	return fmt.Sprintf(
		"Hi %s! You are invited to %s on %s at %s. View your invitation and RSVP here: %s",
		guest.Name, event.Title, event.Start.Format("Monday, January 2, 2006"),
		event.Location.Address, invitationURL,
	)
}

func invitationDescription(guest application.Guest, event application.Event) string {
	desc := fmt.Sprintf("Dear %s, you are invited to %s on %s.",
		guest.Name, event.Title, event.Start.Format("Monday, January 2, 2006"))
	if event.Location.Address != "" {
		desc += fmt.Sprintf(" Location: %s.", event.Location.Address)
	}
	return desc
}
