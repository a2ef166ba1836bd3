package twilio

import (
	"strings"

	"github.com/example/event-invitations/internal/messaging"
)

// failureStatuses are the Twilio message statuses treated as delivery failure.
var failureStatuses = map[string]struct{}{
	"failed":        {},
	"undelivered":   {},
	"unknown":       {},
	"canceled":      {},
	"undeliverable": {},
	"rejected":      {},
	"blocked":       {},
	"invalid":       {},
	"unreachable":   {},
}

// failureErrorCodes are Twilio error codes that indicate the recipient cannot
// be reached on the attempted channel (bad number, no WhatsApp capability,
// carrier rejection).
var failureErrorCodes = map[int]struct{}{
	21211: {},
	21408: {},
	21610: {},
	30003: {},
	30004: {},
	30006: {},
	63007: {},
}

// OutcomeClassifier interprets Twilio delivery outcomes. It satisfies the
// dispatch pipeline's classifier contract so that swapping providers only
// requires a new classifier, not orchestrator changes.
type OutcomeClassifier struct{}

// NewOutcomeClassifier returns the Twilio outcome classifier.
func NewOutcomeClassifier() OutcomeClassifier {
	return OutcomeClassifier{}
}

// DeliveryFailed reports whether the outcome should be treated as a failed
// delivery on its channel.
func (OutcomeClassifier) DeliveryFailed(outcome messaging.DeliveryOutcome) bool {
	if outcome.Err != nil {
		return true
	}
	if _, ok := failureStatuses[strings.ToLower(outcome.Status)]; ok {
		return true
	}
	if _, ok := failureErrorCodes[outcome.ErrorCode]; ok {
		return true
	}
	return false
}
