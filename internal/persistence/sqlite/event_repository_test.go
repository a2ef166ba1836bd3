package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/event-invitations/internal/application"
	"github.com/example/event-invitations/internal/testfixtures"
)

func TestEventRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	host := seedHost(t, db)
	repo := NewEventRepository(db)
	ctx := context.Background()

	event := testfixtures.NewEventFixture(
		testfixtures.WithEventHost(host.ID),
		testfixtures.WithEventTitle("Garden Party"),
		testfixtures.WithEventLocation(application.Location{
			Address: "42 Orchard Lane",
			Unit:    "Suite 3",
			ShowMap: true,
		}),
	).Application()
	event.Description = "Bring a plus one."

	if _, err := repo.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent returned error: %v", err)
	}

	got, err := repo.GetEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("GetEvent returned error: %v", err)
	}
	if got.Title != event.Title || got.Description != event.Description || got.HostID != host.ID {
		t.Errorf("got %+v, want stored fields to round-trip", got)
	}
	if got.Location != event.Location {
		t.Errorf("location = %+v, want %+v", got.Location, event.Location)
	}
	if !got.Start.Equal(event.Start) || !got.End.Equal(event.End) {
		t.Errorf("times = (%v, %v), want (%v, %v)", got.Start, got.End, event.Start, event.End)
	}
	if got.Features != event.Features {
		t.Errorf("features = %+v, want %+v", got.Features, event.Features)
	}
}

func TestEventRepositoryGetEventMissing(t *testing.T) {
	db := openTestDB(t)
	repo := NewEventRepository(db)

	if _, err := repo.GetEvent(context.Background(), "nope"); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetEvent(context.Background(), ""); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("blank id err = %v, want ErrNotFound", err)
	}
}

func TestEventRepositoryDuplicateID(t *testing.T) {
	db := openTestDB(t)
	host := seedHost(t, db)
	repo := NewEventRepository(db)
	ctx := context.Background()

	event := testfixtures.NewEventFixture(testfixtures.WithEventHost(host.ID)).Application()
	if _, err := repo.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent returned error: %v", err)
	}
	if _, err := repo.CreateEvent(ctx, event); !errors.Is(err, application.ErrAlreadyExists) {
		t.Fatalf("duplicate insert err = %v, want ErrAlreadyExists", err)
	}
}

func TestEventRepositoryUpdateEvent(t *testing.T) {
	db := openTestDB(t)
	host := seedHost(t, db)
	repo := NewEventRepository(db)
	ctx := context.Background()
	event := seedEvent(t, db, host.ID)

	event.Title = "Renamed"
	event.Location.Address = "99 New Road"
	event.UpdatedAt = event.UpdatedAt.Add(time.Hour)

	got, err := repo.UpdateEvent(ctx, event)
	if err != nil {
		t.Fatalf("UpdateEvent returned error: %v", err)
	}
	if got.Title != "Renamed" || got.Location.Address != "99 New Road" {
		t.Errorf("got %+v, want updated fields persisted", got)
	}
	if !got.UpdatedAt.Equal(event.UpdatedAt) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, event.UpdatedAt)
	}

	missing := event
	missing.ID = "nope"
	if _, err := repo.UpdateEvent(ctx, missing); !errors.Is(err, application.ErrNotFound) {
		t.Errorf("missing event err = %v, want ErrNotFound", err)
	}
}

func TestEventRepositoryUpdateEventFeatures(t *testing.T) {
	db := openTestDB(t)
	host := seedHost(t, db)
	repo := NewEventRepository(db)
	ctx := context.Background()
	event := seedEvent(t, db, host.ID)

	features := application.FeatureSet{
		PrivateGuestList:     true,
		AllowPlusOnes:        true,
		AllowMaybeRSVP:       true,
		AllowFamilyHeadcount: true,
		LimitEventCapacity:   true,
		MaxPlusOnes:          3,
		MaxEventCapacity:     50,
	}
	updatedAt := event.UpdatedAt.Add(time.Hour)

	got, err := repo.UpdateEventFeatures(ctx, event.ID, features, updatedAt)
	if err != nil {
		t.Fatalf("UpdateEventFeatures returned error: %v", err)
	}
	if got.Features != features {
		t.Errorf("features = %+v, want %+v", got.Features, features)
	}
	if !got.UpdatedAt.Equal(updatedAt) {
		t.Errorf("updated_at = %v, want %v", got.UpdatedAt, updatedAt)
	}
	if got.Title != event.Title {
		t.Errorf("title = %q, feature update must not touch other columns", got.Title)
	}

	if _, err := repo.UpdateEventFeatures(ctx, "nope", features, updatedAt); !errors.Is(err, application.ErrNotFound) {
		t.Errorf("missing event err = %v, want ErrNotFound", err)
	}
}

func TestEventRepositoryDeleteEventCascadesGuests(t *testing.T) {
	db := openTestDB(t)
	host := seedHost(t, db)
	eventRepo := NewEventRepository(db)
	guestRepo := NewGuestRepository(db)
	ctx := context.Background()
	event := seedEvent(t, db, host.ID)

	guest := testfixtures.NewGuestFixture(testfixtures.WithGuestEvent(event.ID)).Application()
	if _, err := guestRepo.CreateGuest(ctx, guest); err != nil {
		t.Fatalf("CreateGuest returned error: %v", err)
	}

	if err := eventRepo.DeleteEvent(ctx, event.ID); err != nil {
		t.Fatalf("DeleteEvent returned error: %v", err)
	}
	if _, err := eventRepo.GetEvent(ctx, event.ID); !errors.Is(err, application.ErrNotFound) {
		t.Errorf("deleted event err = %v, want ErrNotFound", err)
	}
	if _, err := guestRepo.GetGuest(ctx, guest.ID); !errors.Is(err, application.ErrNotFound) {
		t.Errorf("guest of deleted event err = %v, want cascade delete", err)
	}

	if err := eventRepo.DeleteEvent(ctx, event.ID); !errors.Is(err, application.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestEventRepositoryListEventsByHost(t *testing.T) {
	db := openTestDB(t)
	host := seedHost(t, db)
	other := seedHost(t, db)
	repo := NewEventRepository(db)
	ctx := context.Background()

	base := testfixtures.ReferenceTime()
	late := testfixtures.NewEventFixture(
		testfixtures.WithEventHost(host.ID),
		testfixtures.WithEventStartEnd(base.Add(48*time.Hour), base.Add(50*time.Hour)),
	).Application()
	early := testfixtures.NewEventFixture(
		testfixtures.WithEventHost(host.ID),
		testfixtures.WithEventStartEnd(base.Add(24*time.Hour), base.Add(26*time.Hour)),
	).Application()
	foreign := testfixtures.NewEventFixture(testfixtures.WithEventHost(other.ID)).Application()

	for _, event := range []application.Event{late, early, foreign} {
		if _, err := repo.CreateEvent(ctx, event); err != nil {
			t.Fatalf("CreateEvent returned error: %v", err)
		}
	}

	events, err := repo.ListEventsByHost(ctx, host.ID)
	if err != nil {
		t.Fatalf("ListEventsByHost returned error: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].ID != early.ID || events[1].ID != late.ID {
		t.Errorf("order = [%s, %s], want start ascending [%s, %s]", events[0].ID, events[1].ID, early.ID, late.ID)
	}

	none, err := repo.ListEventsByHost(ctx, "host-without-events")
	if err != nil {
		t.Fatalf("ListEventsByHost returned error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("got %d events for unknown host, want 0", len(none))
	}
}
