package testfixtures

import (
	"context"
	"sync"

	"github.com/example/event-invitations/internal/messaging"
)

// FakeEmailSender records sent email messages and fails on demand.
type FakeEmailSender struct {
	mu   sync.Mutex
	sent []messaging.EmailMessage

	// Err, when set, is returned for every send attempt.
	Err error
}

// SendEmail records the message unless the sender is configured to fail.
func (f *FakeEmailSender) SendEmail(_ context.Context, msg messaging.EmailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.sent = append(f.sent, msg)
	return nil
}

// Sent returns a copy of the messages delivered so far.
func (f *FakeEmailSender) Sent() []messaging.EmailMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]messaging.EmailMessage(nil), f.sent...)
}

// FakeTextSender replays scripted delivery outcomes per channel and records
// every attempt.
type FakeTextSender struct {
	mu       sync.Mutex
	attempts []TextAttempt

	// Channels lists the channels the sender claims to support. A nil slice
	// supports nothing.
	Channels []messaging.Channel

	// Outcomes maps a channel to the outcome returned for its sends. Channels
	// without an entry succeed with a generated message id.
	Outcomes map[messaging.Channel]messaging.DeliveryOutcome
}

// TextAttempt records one Send call.
type TextAttempt struct {
	Channel messaging.Channel
	Message messaging.TextMessage
}

// Supports reports whether the channel was scripted as available.
func (f *FakeTextSender) Supports(channel messaging.Channel) bool {
	for _, c := range f.Channels {
		if c == channel {
			return true
		}
	}
	return false
}

// Send records the attempt and returns the scripted outcome.
func (f *FakeTextSender) Send(_ context.Context, channel messaging.Channel, msg messaging.TextMessage) messaging.DeliveryOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, TextAttempt{Channel: channel, Message: msg})

	if outcome, ok := f.Outcomes[channel]; ok {
		outcome.Channel = channel
		return outcome
	}
	return messaging.DeliveryOutcome{Channel: channel, Status: "sent", MessageID: "fake-message"}
}

// Attempts returns a copy of the recorded send attempts.
func (f *FakeTextSender) Attempts() []TextAttempt {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]TextAttempt(nil), f.attempts...)
}

// StatusClassifier marks an outcome failed when its status appears in the
// configured set. An empty set treats every outcome as delivered.
type StatusClassifier struct {
	FailedStatuses []string
}

// DeliveryFailed implements the dispatch classifier contract.
func (c StatusClassifier) DeliveryFailed(outcome messaging.DeliveryOutcome) bool {
	if outcome.Err != nil {
		return true
	}
	for _, status := range c.FailedStatuses {
		if outcome.Status == status {
			return true
		}
	}
	return false
}

// AcceptAllPhones validates any non-empty phone number unchanged.
type AcceptAllPhones struct{}

// Validate implements the dispatch phone validator contract.
func (AcceptAllPhones) Validate(raw string) (string, error) {
	return raw, nil
}
