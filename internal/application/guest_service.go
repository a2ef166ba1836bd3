package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
)

// GuestRepository captures the persistence operations needed by the guest
// service and the RSVP engine.
type GuestRepository interface {
	CreateGuest(ctx context.Context, guest Guest) (Guest, error)
	GetGuest(ctx context.Context, id string) (Guest, error)
	UpdateGuest(ctx context.Context, guest Guest) (Guest, error)
	DeleteGuest(ctx context.Context, id string) error
	ListGuestsByEvent(ctx context.Context, eventID string) ([]Guest, error)
	// MarkGuestsInvited flips status to INVITED and stamps invited_at for the
	// given guests in a single batch update.
	MarkGuestsInvited(ctx context.Context, eventID string, guestIDs []string, invitedAt time.Time) error
}

// GuestService orchestrates host-side guest list management.
type GuestService struct {
	guests      GuestRepository
	events      EventRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewGuestService wires dependencies for the guest service.
func NewGuestService(guests GuestRepository, events EventRepository, idGenerator func() string, now func() time.Time) *GuestService {
	return NewGuestServiceWithLogger(guests, events, idGenerator, now, nil)
}

// NewGuestServiceWithLogger constructs a GuestService with a specified logger.
func NewGuestServiceWithLogger(guests GuestRepository, events EventRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *GuestService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &GuestService{
		guests:      guests,
		events:      events,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *GuestService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "GuestService", operation, attrs...)
}

func (s *GuestService) ownedEvent(ctx context.Context, principal Principal, eventID string) (Event, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return Event{}, err
	}
	if event.HostID != principal.HostID {
		return Event{}, ErrUnauthorized
	}
	return event, nil
}

// AddGuest validates input against the event's feature flags and persists a
// new guest in the PENDING state.
func (s *GuestService) AddGuest(ctx context.Context, params CreateGuestParams) (Guest, error) {
	if s == nil || s.guests == nil || s.events == nil {
		return Guest{}, fmt.Errorf("guest service not configured")
	}

	event, err := s.ownedEvent(ctx, params.Principal, params.EventID)
	if err != nil {
		return Guest{}, err
	}

	normalized := normalizeGuestInput(params.Input)
	if vErr := validateGuestInput(normalized, event.Features); vErr.HasErrors() {
		return Guest{}, vErr
	}

	now := s.now()
	guest := Guest{
		ID:        s.idGenerator(),
		EventID:   event.ID,
		Name:      normalized.Name,
		Email:     normalized.Email,
		Phone:     normalized.Phone,
		Status:    GuestStatusPending,
		Adults:    1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if event.Features.AllowPlusOnes {
		guest.PlusOnes = normalized.PlusOnes
	}
	if event.Features.AllowFamilyHeadcount {
		guest.Adults = normalized.Adults
		guest.Children = normalized.Children
	}

	persisted, err := s.guests.CreateGuest(ctx, guest)
	if err != nil {
		s.loggerWith(ctx, "AddGuest", "event_id", event.ID).
			ErrorContext(ctx, "guest creation failed", "error", err, "error_kind", ErrorKind(err))
		return Guest{}, err
	}

	s.loggerWith(ctx, "AddGuest", "event_id", event.ID, "guest_id", persisted.ID).
		InfoContext(ctx, "guest added")
	return persisted, nil
}

// UpdateGuest updates the host-editable fields of an existing guest. The RSVP
// state is owned by the RSVP engine and the invitation path and is left alone.
func (s *GuestService) UpdateGuest(ctx context.Context, params UpdateGuestParams) (Guest, error) {
	if s == nil || s.guests == nil || s.events == nil {
		return Guest{}, fmt.Errorf("guest service not configured")
	}

	event, err := s.ownedEvent(ctx, params.Principal, params.EventID)
	if err != nil {
		return Guest{}, err
	}

	existing, err := s.guests.GetGuest(ctx, params.GuestID)
	if err != nil {
		return Guest{}, err
	}
	if existing.EventID != event.ID {
		return Guest{}, ErrNotFound
	}

	normalized := normalizeGuestInput(params.Input)
	if vErr := validateGuestInput(normalized, event.Features); vErr.HasErrors() {
		return Guest{}, vErr
	}

	updated := existing
	updated.Name = normalized.Name
	updated.Email = normalized.Email
	updated.Phone = normalized.Phone
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
	updated.UpdatedAt = s.now()

	persisted, err := s.guests.UpdateGuest(ctx, updated)
	if err != nil {
		return Guest{}, err
	}

	s.loggerWith(ctx, "UpdateGuest", "event_id", event.ID, "guest_id", persisted.ID).
		InfoContext(ctx, "guest updated")
	return persisted, nil
}

// DeleteGuest removes a guest from an event owned by the principal.
func (s *GuestService) DeleteGuest(ctx context.Context, principal Principal, eventID, guestID string) error {
	if s == nil || s.guests == nil || s.events == nil {
		return fmt.Errorf("guest service not configured")
	}

	event, err := s.ownedEvent(ctx, principal, eventID)
	if err != nil {
		return err
	}

	existing, err := s.guests.GetGuest(ctx, guestID)
	if err != nil {
		return err
	}
	if existing.EventID != event.ID {
		return ErrNotFound
	}

	if err := s.guests.DeleteGuest(ctx, guestID); err != nil {
		return err
	}

	s.loggerWith(ctx, "DeleteGuest", "event_id", eventID, "guest_id", guestID).
		InfoContext(ctx, "guest deleted")
	return nil
}

// ListGuests returns all guests for an event owned by the principal.
func (s *GuestService) ListGuests(ctx context.Context, principal Principal, eventID string) ([]Guest, error) {
	if s == nil || s.guests == nil || s.events == nil {
		return nil, fmt.Errorf("guest service not configured")
	}

	event, err := s.ownedEvent(ctx, principal, eventID)
	if err != nil {
		return nil, err
	}

	return s.guests.ListGuestsByEvent(ctx, event.ID)
}

// MarkInvited flips the targeted guests to INVITED with invited_at stamped in
// one batch update and returns them in stable order for dispatch. When
// guestIDs is empty, every guest on the event is targeted. Guests are marked
// before any message is sent; a later send failure does not roll this back.
func (s *GuestService) MarkInvited(ctx context.Context, principal Principal, eventID string, guestIDs []string) ([]Guest, error) {
	if s == nil || s.guests == nil || s.events == nil {
		return nil, fmt.Errorf("guest service not configured")
	}

	event, err := s.ownedEvent(ctx, principal, eventID)
	if err != nil {
		return nil, err
	}

	guests, err := s.guests.ListGuestsByEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	targeted := selectGuests(guests, guestIDs)
	if len(targeted) == 0 {
		return nil, nil
	}

	ids := make([]string, len(targeted))
	for i, g := range targeted {
		ids[i] = g.ID
	}

	invitedAt := s.now()
	if err := s.guests.MarkGuestsInvited(ctx, event.ID, ids, invitedAt); err != nil {
		s.loggerWith(ctx, "MarkInvited", "event_id", event.ID).
			ErrorContext(ctx, "batch invite update failed", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}

	for i := range targeted {
		at := invitedAt
		targeted[i].Status = GuestStatusInvited
		targeted[i].InvitedAt = &at
	}

	s.loggerWith(ctx, "MarkInvited", "event_id", event.ID, "guest_count", len(targeted)).
		InfoContext(ctx, "guests marked invited")
	return targeted, nil
}

// InvitedGuests returns the guests that have already been invited, preserving
// list order. It backs the reminder dispatch mode.
func (s *GuestService) InvitedGuests(ctx context.Context, principal Principal, eventID string, guestIDs []string) ([]Guest, error) {
	if s == nil || s.guests == nil || s.events == nil {
		return nil, fmt.Errorf("guest service not configured")
	}

	event, err := s.ownedEvent(ctx, principal, eventID)
	if err != nil {
		return nil, err
	}

	guests, err := s.guests.ListGuestsByEvent(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	targeted := selectGuests(guests, guestIDs)
	invited := targeted[:0]
	for _, g := range targeted {
		if g.Status != GuestStatusPending {
			invited = append(invited, g)
		}
	}
	return invited, nil
}

// selectGuests filters guests down to the requested ids, keeping list order.
// An empty id list selects everything.
func selectGuests(guests []Guest, guestIDs []string) []Guest {
	if len(guestIDs) == 0 {
		return guests
	}

	wanted := make(map[string]struct{}, len(guestIDs))
	for _, id := range guestIDs {
		wanted[id] = struct{}{}
	}

	selected := make([]Guest, 0, len(guestIDs))
	for _, g := range guests {
		if _, ok := wanted[g.ID]; ok {
			selected = append(selected, g)
		}
	}
	return selected
}

func normalizeGuestInput(input GuestInput) GuestInput {
	normalized := input
	normalized.Name = strings.TrimSpace(input.Name)
	normalized.Email = strings.ToLower(strings.TrimSpace(input.Email))
	normalized.Phone = strings.TrimSpace(input.Phone)
	return normalized
}

func validateGuestInput(input GuestInput, features FeatureSet) *ValidationError {
	vErr := &ValidationError{}

	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.Email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		vErr.add("email", "email is invalid")
	}

	vErr.merge(validateHeadcounts(input.PlusOnes, input.Adults, input.Children, features))

	return vErr
}

// validateHeadcounts applies the flag-conditional headcount rules shared by
// guest creation and the RSVP engine.
func validateHeadcounts(plusOnes, adults, children int, features FeatureSet) *ValidationError {
	vErr := &ValidationError{}

	if features.AllowPlusOnes {
		if plusOnes < 0 {
			vErr.add("plus_ones", "plus ones cannot be negative")
		} else if plusOnes > features.MaxPlusOnes {
			vErr.add("plus_ones", fmt.Sprintf("plus ones cannot exceed %d", features.MaxPlusOnes))
		}
	}

	if features.AllowFamilyHeadcount {
		if adults < 1 {
			vErr.add("adults", "at least 1 adult is required")
		}
		if children < 0 {
			vErr.add("children", "children count cannot be negative")
		}
	}

	return vErr
}
