package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// EventRepository captures the persistence operations needed by the event service.
type EventRepository interface {
	CreateEvent(ctx context.Context, event Event) (Event, error)
	GetEvent(ctx context.Context, id string) (Event, error)
	UpdateEvent(ctx context.Context, event Event) (Event, error)
	UpdateEventFeatures(ctx context.Context, eventID string, features FeatureSet, updatedAt time.Time) (Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ListEventsByHost(ctx context.Context, hostID string) ([]Event, error)
}

// EventService orchestrates validation, ownership checks, and persistence for events.
type EventService struct {
	events      EventRepository
	features    *featureCache
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewEventService wires dependencies for the event service.
func NewEventService(events EventRepository, idGenerator func() string, now func() time.Time) *EventService {
	return NewEventServiceWithLogger(events, idGenerator, now, nil)
}

// NewEventServiceWithLogger constructs an EventService with a specified logger.
func NewEventServiceWithLogger(events EventRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *EventService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &EventService{
		events:      events,
		features:    newFeatureCache(defaultFeatureCacheTTL, defaultFeatureCacheEntries, now),
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *EventService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EventService", operation, attrs...)
}

// CreateEvent validates input and persists a new event owned by the principal.
func (s *EventService) CreateEvent(ctx context.Context, params CreateEventParams) (Event, error) {
	if s == nil || s.events == nil {
		return Event{}, fmt.Errorf("event repository not configured")
	}
	if params.Principal.HostID == "" {
		return Event{}, ErrUnauthorized
	}

	normalized := normalizeEventInput(params.Input)
	if vErr := validateEventInput(normalized); vErr.HasErrors() {
		return Event{}, vErr
	}

	now := s.now()
	event := Event{
		ID:          s.idGenerator(),
		HostID:      params.Principal.HostID,
		Title:       normalized.Title,
		Description: normalized.Description,
		Start:       normalized.Start,
		End:         normalized.End,
		Location:    normalized.Location,
		Features:    NormalizeFeatureSet(FeatureSet{}),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	persisted, err := s.events.CreateEvent(ctx, event)
	if err != nil {
		s.loggerWith(ctx, "CreateEvent", "host_id", params.Principal.HostID).
			ErrorContext(ctx, "event creation failed", "error", err, "error_kind", ErrorKind(err))
		return Event{}, err
	}

	s.loggerWith(ctx, "CreateEvent", "host_id", params.Principal.HostID, "event_id", persisted.ID).
		InfoContext(ctx, "event created")
	return persisted, nil
}

// GetEvent returns an event owned by the principal.
func (s *EventService) GetEvent(ctx context.Context, principal Principal, eventID string) (Event, error) {
	if s == nil || s.events == nil {
		return Event{}, fmt.Errorf("event repository not configured")
	}

	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return Event{}, err
	}
	if event.HostID != principal.HostID {
		return Event{}, ErrUnauthorized
	}
	return event, nil
}

// GetPublicEvent returns an event without an ownership check. It backs the
// public invitation and RSVP paths and reads through the feature cache.
func (s *EventService) GetPublicEvent(ctx context.Context, eventID string) (Event, error) {
	if s == nil || s.events == nil {
		return Event{}, fmt.Errorf("event repository not configured")
	}

	if event, ok := s.features.get(eventID); ok {
		return event, nil
	}

	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return Event{}, err
	}
	s.features.put(event)
	return event, nil
}

// ListEvents returns all events owned by the principal.
func (s *EventService) ListEvents(ctx context.Context, principal Principal) ([]Event, error) {
	if s == nil || s.events == nil {
		return nil, fmt.Errorf("event repository not configured")
	}
	if principal.HostID == "" {
		return nil, ErrUnauthorized
	}
	return s.events.ListEventsByHost(ctx, principal.HostID)
}

// UpdateEvent validates input and updates an event owned by the principal.
func (s *EventService) UpdateEvent(ctx context.Context, params UpdateEventParams) (Event, error) {
	if s == nil || s.events == nil {
		return Event{}, fmt.Errorf("event repository not configured")
	}

	existing, err := s.events.GetEvent(ctx, params.EventID)
	if err != nil {
		return Event{}, err
	}
	if existing.HostID != params.Principal.HostID {
		return Event{}, ErrUnauthorized
	}

	normalized := normalizeEventInput(params.Input)
	if vErr := validateEventInput(normalized); vErr.HasErrors() {
		return Event{}, vErr
	}

	updated := existing
	updated.Title = normalized.Title
	updated.Description = normalized.Description
	updated.Start = normalized.Start
	updated.End = normalized.End
	updated.Location = normalized.Location
	updated.UpdatedAt = s.now()

	persisted, err := s.events.UpdateEvent(ctx, updated)
	if err != nil {
		return Event{}, err
	}

	s.features.invalidate(persisted.ID)
	s.loggerWith(ctx, "UpdateEvent", "host_id", params.Principal.HostID, "event_id", persisted.ID).
		InfoContext(ctx, "event updated")
	return persisted, nil
}

// UpdateFeatures replaces the event's feature-flag set in one atomic write.
// Clamping and the derived family-headcount rule are applied here so the
// invariants hold regardless of the submitted payload.
func (s *EventService) UpdateFeatures(ctx context.Context, params UpdateFeaturesParams) (Event, error) {
	if s == nil || s.events == nil {
		return Event{}, fmt.Errorf("event repository not configured")
	}

	existing, err := s.events.GetEvent(ctx, params.EventID)
	if err != nil {
		return Event{}, err
	}
	if existing.HostID != params.Principal.HostID {
		return Event{}, ErrUnauthorized
	}

	normalized := NormalizeFeatureSet(params.Features)

	persisted, err := s.events.UpdateEventFeatures(ctx, params.EventID, normalized, s.now())
	if err != nil {
		s.loggerWith(ctx, "UpdateFeatures", "event_id", params.EventID).
			ErrorContext(ctx, "feature update failed", "error", err, "error_kind", ErrorKind(err))
		if errors.Is(err, ErrNotFound) {
			return Event{}, ErrNotFound
		}
		return Event{}, fmt.Errorf("failed to update event features: %w", err)
	}

	s.features.invalidate(params.EventID)
	s.loggerWith(ctx, "UpdateFeatures", "event_id", params.EventID,
		"allow_plus_ones", persisted.Features.AllowPlusOnes,
		"allow_family_headcount", persisted.Features.AllowFamilyHeadcount,
	).InfoContext(ctx, "event features updated")
	return persisted, nil
}

// DeleteEvent removes an event owned by the principal.
func (s *EventService) DeleteEvent(ctx context.Context, principal Principal, eventID string) error {
	if s == nil || s.events == nil {
		return fmt.Errorf("event repository not configured")
	}

	existing, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if existing.HostID != principal.HostID {
		return ErrUnauthorized
	}

	if err := s.events.DeleteEvent(ctx, eventID); err != nil {
		return err
	}

	s.features.invalidate(eventID)
	s.loggerWith(ctx, "DeleteEvent", "event_id", eventID).InfoContext(ctx, "event deleted")
	return nil
}

func normalizeEventInput(input EventInput) EventInput {
	normalized := input
	normalized.Title = strings.TrimSpace(input.Title)
	normalized.Description = strings.TrimSpace(input.Description)
	normalized.Location.Address = strings.TrimSpace(input.Location.Address)
	normalized.Location.Unit = strings.TrimSpace(input.Location.Unit)
	return normalized
}

func validateEventInput(input EventInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Title == "" {
		vErr.add("title", "title is required")
	}
	if input.Start.IsZero() {
		vErr.add("start", "start is required")
	}
	if !input.Start.IsZero() && !input.End.IsZero() && !input.Start.Before(input.End) {
		vErr.add("end", "end must be after start")
	}

	return vErr
}
