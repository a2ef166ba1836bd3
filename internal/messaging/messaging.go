// Package messaging defines the transport contracts the dispatch pipeline
// consumes: email delivery, text (WhatsApp/SMS) delivery, and phone-number
// validation. Provider implementations live in subpackages.
package messaging

import "context"

// Channel identifies a text delivery channel.
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
)

// EmailContent is the structured body rendered into the invitation email.
type EmailContent struct {
	Title       string
	Subtitle    string
	Description string
	ButtonLabel string
	ButtonURL   string
}

// EmailMessage is a single outbound email.
type EmailMessage struct {
	To      string
	Subject string
	Content EmailContent
}

// EmailSender delivers an email, returning an error on transport failure.
type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
}

// TextMessage is a single outbound WhatsApp or SMS message.
type TextMessage struct {
	To   string
	Body string
}

// DeliveryOutcome reports what the text provider said about a send attempt.
// Err is set when the provider call itself failed; Status and ErrorCode carry
// the provider's own delivery verdict and are interpreted by a
// per-provider outcome classifier.
type DeliveryOutcome struct {
	Channel   Channel
	Status    string
	ErrorCode int
	MessageID string
	Err       error
}

// TextSender delivers a text message over the requested channel.
type TextSender interface {
	// Supports reports whether the sender is configured for the channel.
	Supports(channel Channel) bool
	Send(ctx context.Context, channel Channel, msg TextMessage) DeliveryOutcome
}
