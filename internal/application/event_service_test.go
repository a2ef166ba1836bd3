package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type eventRepoStub struct {
	events map[string]Event
}

func newEventRepoStub(events ...Event) *eventRepoStub {
	stub := &eventRepoStub{events: make(map[string]Event)}
	for _, e := range events {
		stub.events[e.ID] = e
	}
	return stub
}

func (s *eventRepoStub) CreateEvent(_ context.Context, event Event) (Event, error) {
	if _, exists := s.events[event.ID]; exists {
		return Event{}, ErrAlreadyExists
	}
	s.events[event.ID] = event
	return event, nil
}

func (s *eventRepoStub) GetEvent(_ context.Context, id string) (Event, error) {
	event, ok := s.events[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	return event, nil
}

func (s *eventRepoStub) UpdateEvent(_ context.Context, event Event) (Event, error) {
	if _, ok := s.events[event.ID]; !ok {
		return Event{}, ErrNotFound
	}
	s.events[event.ID] = event
	return event, nil
}

func (s *eventRepoStub) UpdateEventFeatures(_ context.Context, eventID string, features FeatureSet, updatedAt time.Time) (Event, error) {
	event, ok := s.events[eventID]
	if !ok {
		return Event{}, ErrNotFound
	}
	event.Features = features
	event.UpdatedAt = updatedAt
	s.events[eventID] = event
	return event, nil
}

func (s *eventRepoStub) DeleteEvent(_ context.Context, id string) error {
	if _, ok := s.events[id]; !ok {
		return ErrNotFound
	}
	delete(s.events, id)
	return nil
}

func (s *eventRepoStub) ListEventsByHost(_ context.Context, hostID string) ([]Event, error) {
	var events []Event
	for _, e := range s.events {
		if e.HostID == hostID {
			events = append(events, e)
		}
	}
	return events, nil
}

var testReference = time.Date(2026, time.June, 6, 18, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testReference }

func sequentialIDs(prefix string) func() string {
	counter := 0
	return func() string {
		counter++
		return fmt.Sprintf("%s-%d", prefix, counter)
	}
}

func testEvent(id, hostID string, features FeatureSet) Event {
	return Event{
		ID:        id,
		HostID:    hostID,
		Title:     "Summer Party",
		Start:     testReference.Add(24 * time.Hour),
		End:       testReference.Add(28 * time.Hour),
		Location:  Location{Address: "123 Main St"},
		Features:  features,
		CreatedAt: testReference,
		UpdatedAt: testReference,
	}
}

func TestEventServiceCreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("persists event with normalized default features", func(t *testing.T) {
		repo := newEventRepoStub()
		service := NewEventService(repo, sequentialIDs("event"), fixedNow)

		event, err := service.CreateEvent(ctx, CreateEventParams{
			Principal: Principal{HostID: "host-1"},
			Input: EventInput{
				Title: "  Summer Party  ",
				Start: testReference.Add(24 * time.Hour),
				End:   testReference.Add(28 * time.Hour),
			},
		})
		if err != nil {
			t.Fatalf("CreateEvent returned error: %v", err)
		}
		if event.Title != "Summer Party" {
			t.Errorf("title = %q, want trimmed %q", event.Title, "Summer Party")
		}
		if event.HostID != "host-1" {
			t.Errorf("host id = %q, want host-1", event.HostID)
		}
		if event.Features.MaxEventCapacity != 1 {
			t.Errorf("default max capacity = %d, want clamp floor 1", event.Features.MaxEventCapacity)
		}
		if !event.CreatedAt.Equal(testReference) {
			t.Errorf("created at = %v, want %v", event.CreatedAt, testReference)
		}
	})

	t.Run("rejects missing title and inverted times", func(t *testing.T) {
		repo := newEventRepoStub()
		service := NewEventService(repo, sequentialIDs("event"), fixedNow)

		_, err := service.CreateEvent(ctx, CreateEventParams{
			Principal: Principal{HostID: "host-1"},
			Input: EventInput{
				Title: "   ",
				Start: testReference.Add(2 * time.Hour),
				End:   testReference.Add(time.Hour),
			},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if vErr.FieldErrors["title"] != "title is required" {
			t.Errorf("title error = %q", vErr.FieldErrors["title"])
		}
		if vErr.FieldErrors["end"] != "end must be after start" {
			t.Errorf("end error = %q", vErr.FieldErrors["end"])
		}
	})

	t.Run("rejects missing principal", func(t *testing.T) {
		service := NewEventService(newEventRepoStub(), sequentialIDs("event"), fixedNow)
		_, err := service.CreateEvent(ctx, CreateEventParams{Input: EventInput{Title: "x"}})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestEventServiceUpdateFeatures(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes submitted flags before persisting", func(t *testing.T) {
		repo := newEventRepoStub(testEvent("event-1", "host-1", FeatureSet{MaxEventCapacity: 1}))
		service := NewEventService(repo, nil, fixedNow)

		event, err := service.UpdateFeatures(ctx, UpdateFeaturesParams{
			Principal: Principal{HostID: "host-1"},
			EventID:   "event-1",
			Features: FeatureSet{
				AllowPlusOnes:        true,
				AllowFamilyHeadcount: false,
				MaxPlusOnes:          -3,
				MaxEventCapacity:     0,
			},
		})
		if err != nil {
			t.Fatalf("UpdateFeatures returned error: %v", err)
		}
		if !event.Features.AllowFamilyHeadcount {
			t.Error("expected AllowFamilyHeadcount forced on when plus ones are enabled")
		}
		if event.Features.MaxPlusOnes != 0 {
			t.Errorf("max plus ones = %d, want clamped 0", event.Features.MaxPlusOnes)
		}
		if event.Features.MaxEventCapacity != 1 {
			t.Errorf("max capacity = %d, want clamped 1", event.Features.MaxEventCapacity)
		}
	})

	t.Run("rejects non-owner", func(t *testing.T) {
		repo := newEventRepoStub(testEvent("event-1", "host-1", FeatureSet{MaxEventCapacity: 1}))
		service := NewEventService(repo, nil, fixedNow)

		_, err := service.UpdateFeatures(ctx, UpdateFeaturesParams{
			Principal: Principal{HostID: "intruder"},
			EventID:   "event-1",
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("missing event yields not found", func(t *testing.T) {
		service := NewEventService(newEventRepoStub(), nil, fixedNow)
		_, err := service.UpdateFeatures(ctx, UpdateFeaturesParams{
			Principal: Principal{HostID: "host-1"},
			EventID:   "ghost",
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestEventServiceGetPublicEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("serves cached copy until a mutation invalidates it", func(t *testing.T) {
		repo := newEventRepoStub(testEvent("event-1", "host-1", FeatureSet{MaxEventCapacity: 1}))
		service := NewEventService(repo, nil, fixedNow)

		first, err := service.GetPublicEvent(ctx, "event-1")
		if err != nil {
			t.Fatalf("GetPublicEvent returned error: %v", err)
		}
		if first.Features.AllowMaybeRSVP {
			t.Fatal("fixture should start with maybe disabled")
		}

		// Mutate behind the service's back; the cached read must not see it.
		stale := repo.events["event-1"]
		stale.Features.AllowMaybeRSVP = true
		repo.events["event-1"] = stale

		cached, err := service.GetPublicEvent(ctx, "event-1")
		if err != nil {
			t.Fatalf("GetPublicEvent returned error: %v", err)
		}
		if cached.Features.AllowMaybeRSVP {
			t.Error("expected cached read to ignore out-of-band mutation")
		}

		if _, err := service.UpdateFeatures(ctx, UpdateFeaturesParams{
			Principal: Principal{HostID: "host-1"},
			EventID:   "event-1",
			Features:  FeatureSet{AllowMaybeRSVP: true, MaxEventCapacity: 1},
		}); err != nil {
			t.Fatalf("UpdateFeatures returned error: %v", err)
		}

		fresh, err := service.GetPublicEvent(ctx, "event-1")
		if err != nil {
			t.Fatalf("GetPublicEvent returned error: %v", err)
		}
		if !fresh.Features.AllowMaybeRSVP {
			t.Error("expected invalidation to surface the updated feature set")
		}
	})

	t.Run("missing event yields not found", func(t *testing.T) {
		service := NewEventService(newEventRepoStub(), nil, fixedNow)
		if _, err := service.GetPublicEvent(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestEventServiceOwnership(t *testing.T) {
	ctx := context.Background()
	repo := newEventRepoStub(testEvent("event-1", "host-1", FeatureSet{MaxEventCapacity: 1}))
	service := NewEventService(repo, nil, fixedNow)

	if _, err := service.GetEvent(ctx, Principal{HostID: "intruder"}, "event-1"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("GetEvent: expected ErrUnauthorized, got %v", err)
	}
	if err := service.DeleteEvent(ctx, Principal{HostID: "intruder"}, "event-1"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("DeleteEvent: expected ErrUnauthorized, got %v", err)
	}
	if _, err := service.UpdateEvent(ctx, UpdateEventParams{
		Principal: Principal{HostID: "intruder"},
		EventID:   "event-1",
		Input:     EventInput{Title: "x", Start: testReference, End: testReference.Add(time.Hour)},
	}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("UpdateEvent: expected ErrUnauthorized, got %v", err)
	}
}
