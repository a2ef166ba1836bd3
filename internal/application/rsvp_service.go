package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// EventSource supplies event feature configuration to the RSVP engine. The
// public RSVP path reads through the event service so feature lookups share
// its cache.
type EventSource interface {
	GetPublicEvent(ctx context.Context, eventID string) (Event, error)
}

// RSVPService applies attendee responses against an event's feature
// configuration, producing a validated guest-state update or a rejection.
//
// State machine over Guest.Status: PENDING is the initial state, INVITED is
// entered only via the dispatch path, and a submission moves the guest to
// CONFIRMED, DECLINED, or MAYBE. Re-submission loops among those three; no
// transition leads back to PENDING or INVITED.
type RSVPService struct {
	events EventSource
	guests GuestRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewRSVPService wires dependencies for the RSVP engine.
func NewRSVPService(events EventSource, guests GuestRepository, now func() time.Time) *RSVPService {
	return NewRSVPServiceWithLogger(events, guests, now, nil)
}

// NewRSVPServiceWithLogger constructs an RSVPService with a specified logger.
func NewRSVPServiceWithLogger(events EventSource, guests GuestRepository, now func() time.Time, logger *slog.Logger) *RSVPService {
	if now == nil {
		now = time.Now
	}
	return &RSVPService{events: events, guests: guests, now: now, logger: defaultLogger(logger)}
}

func (s *RSVPService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RSVPService", operation, attrs...)
}

// SubmitResponse validates and applies an attendee's RSVP. The stored email
// is the guest's identity key and is never overwritten by the submission;
// name, phone, status, and headcounts are. Re-submission overwrites the prior
// answer and refreshes responded_at; no history is kept.
func (s *RSVPService) SubmitResponse(ctx context.Context, eventID, guestID string, input ResponseInput) (Guest, error) {
	if s == nil || s.events == nil || s.guests == nil {
		return Guest{}, fmt.Errorf("rsvp service not configured")
	}

	guest, err := s.guests.GetGuest(ctx, guestID)
	if err != nil {
		return Guest{}, err
	}
	if guest.EventID != eventID {
		return Guest{}, ErrNotFound
	}

	event, err := s.events.GetPublicEvent(ctx, eventID)
	if err != nil {
		return Guest{}, err
	}

	logger := s.loggerWith(ctx, "SubmitResponse", "event_id", eventID, "guest_id", guestID)

	normalized := normalizeResponseInput(input)
	if vErr := s.validateResponse(ctx, guest, event, normalized); vErr.HasErrors() {
		logger.InfoContext(ctx, "response rejected", "errors", vErr.FieldErrors)
		return Guest{}, vErr
	}

	respondedAt := s.now()
	updated := guest
	updated.Name = normalized.Name
	updated.Phone = normalized.Phone
	updated.Status = normalized.Status
	updated.Response = string(normalized.Status)
	updated.PlusOnes = 0
	updated.Adults = 1
	updated.Children = 0
	if event.Features.AllowPlusOnes {
		updated.PlusOnes = normalized.PlusOnes
	}
	if event.Features.AllowFamilyHeadcount {
		updated.Adults = normalized.Adults
		updated.Children = normalized.Children
	}
	updated.RespondedAt = &respondedAt
	updated.UpdatedAt = respondedAt

	persisted, err := s.guests.UpdateGuest(ctx, updated)
	if err != nil {
		logger.ErrorContext(ctx, "response persist failed", "error", err, "error_kind", ErrorKind(err))
		return Guest{}, err
	}

	logger.With("status", string(persisted.Status)).InfoContext(ctx, "response recorded")
	return persisted, nil
}

// ResponseOptions returns the statuses an attendee may select for the event.
// MAYBE is offered only while the event allows it.
func ResponseOptions(features FeatureSet) []GuestStatus {
	options := []GuestStatus{GuestStatusConfirmed, GuestStatusDeclined}
	if features.AllowMaybeRSVP {
		options = append(options, GuestStatusMaybe)
	}
	return options
}

func (s *RSVPService) validateResponse(ctx context.Context, guest Guest, event Event, input ResponseInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.Email == "" {
		vErr.add("email", "email is required")
	}

	switch {
	case input.Status == GuestStatusPending || input.Status == "":
		vErr.add("status", "please select your response")
	case !input.Status.IsResponse():
		vErr.add("status", "invalid response status")
	case input.Status == GuestStatusMaybe && !event.Features.AllowMaybeRSVP:
		vErr.add("status", "maybe responses are not enabled for this event")
	}

	vErr.merge(validateHeadcounts(input.PlusOnes, input.Adults, input.Children, event.Features))

	if !vErr.HasErrors() && input.Status == GuestStatusConfirmed && event.Features.LimitEventCapacity {
		vErr.merge(s.validateCapacity(ctx, guest, event, input))
	}

	return vErr
}

// validateCapacity rejects a confirmation that would push the summed
// headcount of confirmed guests past the event's capacity limit.
func (s *RSVPService) validateCapacity(ctx context.Context, guest Guest, event Event, input ResponseInput) *ValidationError {
	vErr := &ValidationError{}

	guests, err := s.guests.ListGuestsByEvent(ctx, event.ID)
	if err != nil {
		// Capacity accounting is best effort; a read failure must not block
		// an otherwise valid response.
		s.loggerWith(ctx, "SubmitResponse", "event_id", event.ID).
			WarnContext(ctx, "capacity check skipped", "error", err)
		return vErr
	}

	confirmed := 0
	for _, g := range guests {
		if g.ID == guest.ID || g.Status != GuestStatusConfirmed {
			continue
		}
		confirmed += PartySize(g, event.Features)
	}

	party := PartySize(Guest{
		PlusOnes: input.PlusOnes,
		Adults:   input.Adults,
		Children: input.Children,
	}, event.Features)

	if confirmed+party > event.Features.MaxEventCapacity {
		vErr.add("capacity", fmt.Sprintf("event capacity of %d has been reached", event.Features.MaxEventCapacity))
	}

	return vErr
}

func normalizeResponseInput(input ResponseInput) ResponseInput {
	normalized := input
	normalized.Name = strings.TrimSpace(input.Name)
	normalized.Email = strings.ToLower(strings.TrimSpace(input.Email))
	normalized.Phone = strings.TrimSpace(input.Phone)
	return normalized
}
