package testfixtures

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/event-invitations/internal/application"
)

// MemoryEventRepository is an in-memory application.EventRepository for tests.
type MemoryEventRepository struct {
	mu     sync.Mutex
	events map[string]application.Event

	// Errs, when set, is returned from every call. Useful for failure-path tests.
	Errs error
}

// NewMemoryEventRepository constructs an empty repository.
func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{events: make(map[string]application.Event)}
}

// Seed stores events directly, bypassing validation.
func (r *MemoryEventRepository) Seed(events ...application.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range events {
		r.events[e.ID] = e
	}
}

func (r *MemoryEventRepository) CreateEvent(_ context.Context, event application.Event) (application.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Errs != nil {
		return application.Event{}, r.Errs
	}
	if _, exists := r.events[event.ID]; exists {
		return application.Event{}, application.ErrAlreadyExists
	}
	r.events[event.ID] = event
	return event, nil
}

func (r *MemoryEventRepository) GetEvent(_ context.Context, id string) (application.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Errs != nil {
		return application.Event{}, r.Errs
	}
	event, ok := r.events[id]
	if !ok {
		return application.Event{}, application.ErrNotFound
	}
	return event, nil
}

func (r *MemoryEventRepository) UpdateEvent(_ context.Context, event application.Event) (application.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Errs != nil {
		return application.Event{}, r.Errs
	}
	if _, ok := r.events[event.ID]; !ok {
		return application.Event{}, application.ErrNotFound
	}
	r.events[event.ID] = event
	return event, nil
}

func (r *MemoryEventRepository) UpdateEventFeatures(_ context.Context, eventID string, features application.FeatureSet, updatedAt time.Time) (application.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Errs != nil {
		return application.Event{}, r.Errs
	}
	event, ok := r.events[eventID]
	if !ok {
		return application.Event{}, application.ErrNotFound
	}
	event.Features = features
	event.UpdatedAt = updatedAt
	r.events[eventID] = event
	return event, nil
}

func (r *MemoryEventRepository) DeleteEvent(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Errs != nil {
		return r.Errs
	}
	if _, ok := r.events[id]; !ok {
		return application.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *MemoryEventRepository) ListEventsByHost(_ context.Context, hostID string) ([]application.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Errs != nil {
		return nil, r.Errs
	}
	var events []application.Event
	for _, e := range r.events {
		if e.HostID == hostID {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Start.Equal(events[j].Start) {
			return events[i].ID < events[j].ID
		}
		return events[i].Start.Before(events[j].Start)
	})
	return events, nil
}

// MemoryGuestRepository is an in-memory application.GuestRepository for tests.
type MemoryGuestRepository struct {
	mu     sync.Mutex
	guests map[string]application.Guest
	order  []string

	// ListErr, when set, fails ListGuestsByEvent only. Other calls keep
	// working, which matches the capacity-check failure path.
	ListErr error
}

// NewMemoryGuestRepository constructs an empty repository.
func NewMemoryGuestRepository() *MemoryGuestRepository {
	return &MemoryGuestRepository{guests: make(map[string]application.Guest)}
}

// Seed stores guests directly in insertion order.
func (r *MemoryGuestRepository) Seed(guests ...application.Guest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range guests {
		if _, exists := r.guests[g.ID]; !exists {
			r.order = append(r.order, g.ID)
		}
		r.guests[g.ID] = g
	}
}

func (r *MemoryGuestRepository) CreateGuest(_ context.Context, guest application.Guest) (application.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.guests[guest.ID]; exists {
		return application.Guest{}, application.ErrAlreadyExists
	}
	r.guests[guest.ID] = guest
	r.order = append(r.order, guest.ID)
	return guest, nil
}

func (r *MemoryGuestRepository) GetGuest(_ context.Context, id string) (application.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	guest, ok := r.guests[id]
	if !ok {
		return application.Guest{}, application.ErrNotFound
	}
	return guest, nil
}

func (r *MemoryGuestRepository) UpdateGuest(_ context.Context, guest application.Guest) (application.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.guests[guest.ID]; !ok {
		return application.Guest{}, application.ErrNotFound
	}
	r.guests[guest.ID] = guest
	return guest, nil
}

func (r *MemoryGuestRepository) DeleteGuest(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.guests[id]; !ok {
		return application.ErrNotFound
	}
	delete(r.guests, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryGuestRepository) ListGuestsByEvent(_ context.Context, eventID string) ([]application.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	var guests []application.Guest
	for _, id := range r.order {
		if g, ok := r.guests[id]; ok && g.EventID == eventID {
			guests = append(guests, g)
		}
	}
	return guests, nil
}

func (r *MemoryGuestRepository) MarkGuestsInvited(_ context.Context, eventID string, guestIDs []string, invitedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range guestIDs {
		guest, ok := r.guests[id]
		if !ok || guest.EventID != eventID {
			return application.ErrNotFound
		}
	}
	for _, id := range guestIDs {
		guest := r.guests[id]
		at := invitedAt
		guest.Status = application.GuestStatusInvited
		guest.InvitedAt = &at
		guest.UpdatedAt = invitedAt
		r.guests[id] = guest
	}
	return nil
}
