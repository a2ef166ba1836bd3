package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type eventSourceStub struct {
	event Event
	err   error
}

func (s eventSourceStub) GetPublicEvent(_ context.Context, eventID string) (Event, error) {
	if s.err != nil {
		return Event{}, s.err
	}
	if s.event.ID != eventID {
		return Event{}, ErrNotFound
	}
	return s.event, nil
}

func validResponse(status GuestStatus) ResponseInput {
	return ResponseInput{
		Name:   "Ada Lovelace",
		Email:  "ada@example.com",
		Status: status,
		Adults: 1,
	}
}

func TestRSVPSubmitResponseStatusValidation(t *testing.T) {
	ctx := context.Background()
	event := testEvent("event-1", "host-1", NormalizeFeatureSet(FeatureSet{}))

	cases := []struct {
		name      string
		status    GuestStatus
		wantField string
		wantMsg   string
	}{
		{"empty status", "", "status", "please select your response"},
		{"pending is not a response", GuestStatusPending, "status", "please select your response"},
		{"invited is not a response", GuestStatusInvited, "status", "invalid response status"},
		{"unknown value", GuestStatus("YES"), "status", "invalid response status"},
		{"maybe disabled", GuestStatusMaybe, "status", "maybe responses are not enabled for this event"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			guests := newGuestRepoStub(testGuest("guest-1", "event-1", GuestStatusInvited))
			service := NewRSVPService(eventSourceStub{event: event}, guests, fixedNow)

			_, err := service.SubmitResponse(ctx, "event-1", "guest-1", validResponse(tc.status))

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.FieldErrors[tc.wantField] != tc.wantMsg {
				t.Errorf("%s error = %q, want %q", tc.wantField, vErr.FieldErrors[tc.wantField], tc.wantMsg)
			}
		})
	}
}

func TestRSVPSubmitResponseMaybeEnabled(t *testing.T) {
	ctx := context.Background()
	event := testEvent("event-1", "host-1", NormalizeFeatureSet(FeatureSet{AllowMaybeRSVP: true}))
	guests := newGuestRepoStub(testGuest("guest-1", "event-1", GuestStatusInvited))
	service := NewRSVPService(eventSourceStub{event: event}, guests, fixedNow)

	guest, err := service.SubmitResponse(ctx, "event-1", "guest-1", validResponse(GuestStatusMaybe))
	if err != nil {
		t.Fatalf("SubmitResponse returned error: %v", err)
	}
	if guest.Status != GuestStatusMaybe {
		t.Errorf("status = %q, want MAYBE", guest.Status)
	}
	if guest.Response != string(GuestStatusMaybe) {
		t.Errorf("response = %q, want %q", guest.Response, GuestStatusMaybe)
	}
	if guest.RespondedAt == nil || !guest.RespondedAt.Equal(testReference) {
		t.Errorf("responded_at = %v, want %v", guest.RespondedAt, testReference)
	}
}

func TestRSVPSubmitResponseHeadcounts(t *testing.T) {
	ctx := context.Background()

	t.Run("plus ones boundary is inclusive", func(t *testing.T) {
		event := testEvent("event-1", "host-1",
			NormalizeFeatureSet(FeatureSet{AllowPlusOnes: true, MaxPlusOnes: 2, MaxEventCapacity: 50}))
		guests := newGuestRepoStub(testGuest("guest-1", "event-1", GuestStatusInvited))
		service := NewRSVPService(eventSourceStub{event: event}, guests, fixedNow)

		input := validResponse(GuestStatusConfirmed)
		input.PlusOnes = 2
		if _, err := service.SubmitResponse(ctx, "event-1", "guest-1", input); err != nil {
			t.Fatalf("plus ones at limit should pass, got %v", err)
		}

		input.PlusOnes = 3
		_, err := service.SubmitResponse(ctx, "event-1", "guest-1", input)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if vErr.FieldErrors["plus_ones"] != "plus ones cannot exceed 2" {
			t.Errorf("plus_ones error = %q", vErr.FieldErrors["plus_ones"])
		}
	})

	t.Run("family headcount rules", func(t *testing.T) {
		event := testEvent("event-1", "host-1",
			NormalizeFeatureSet(FeatureSet{AllowFamilyHeadcount: true, MaxEventCapacity: 50}))
		guests := newGuestRepoStub(testGuest("guest-1", "event-1", GuestStatusInvited))
		service := NewRSVPService(eventSourceStub{event: event}, guests, fixedNow)

		input := validResponse(GuestStatusConfirmed)
		input.Adults = 0
		input.Children = -1
		_, err := service.SubmitResponse(ctx, "event-1", "guest-1", input)

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if vErr.FieldErrors["adults"] != "at least 1 adult is required" {
			t.Errorf("adults error = %q", vErr.FieldErrors["adults"])
		}
		if vErr.FieldErrors["children"] != "children count cannot be negative" {
			t.Errorf("children error = %q", vErr.FieldErrors["children"])
		}
	})

	t.Run("disabled flags zero out submitted headcounts", func(t *testing.T) {
		event := testEvent("event-1", "host-1", NormalizeFeatureSet(FeatureSet{}))
		guests := newGuestRepoStub(testGuest("guest-1", "event-1", GuestStatusInvited))
		service := NewRSVPService(eventSourceStub{event: event}, guests, fixedNow)

		input := validResponse(GuestStatusConfirmed)
		input.PlusOnes = 4
		input.Adults = 3
		input.Children = 2

		guest, err := service.SubmitResponse(ctx, "event-1", "guest-1", input)
		if err != nil {
			t.Fatalf("SubmitResponse returned error: %v", err)
		}
		if guest.PlusOnes != 0 || guest.Adults != 1 || guest.Children != 0 {
			t.Errorf("headcounts = (%d,%d,%d), want (0,1,0) with flags off",
				guest.PlusOnes, guest.Adults, guest.Children)
		}
	})
}

func TestRSVPSubmitResponseIdentity(t *testing.T) {
	ctx := context.Background()
	event := testEvent("event-1", "host-1", NormalizeFeatureSet(FeatureSet{}))

	t.Run("stored email is never overwritten", func(t *testing.T) {
		original := testGuest("guest-1", "event-1", GuestStatusInvited)
		guests := newGuestRepoStub(original)
		service := NewRSVPService(eventSourceStub{event: event}, guests, fixedNow)

		input := validResponse(GuestStatusConfirmed)
		input.Email = "someone-else@example.com"

		guest, err := service.SubmitResponse(ctx, "event-1", "guest-1", input)
		if err != nil {
			t.Fatalf("SubmitResponse returned error: %v", err)
		}
		if guest.Email != original.Email {
			t.Errorf("email = %q, want identity key %q preserved", guest.Email, original.Email)
		}
	})

	t.Run("guest from another event is not found", func(t *testing.T) {
		guests := newGuestRepoStub(testGuest("guest-1", "other-event", GuestStatusInvited))
		service := NewRSVPService(eventSourceStub{event: event}, guests, fixedNow)

		if _, err := service.SubmitResponse(ctx, "event-1", "guest-1", validResponse(GuestStatusConfirmed)); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("re-submission overwrites the prior answer", func(t *testing.T) {
		guests := newGuestRepoStub(testGuest("guest-1", "event-1", GuestStatusInvited))
		current := testReference
		service := NewRSVPService(eventSourceStub{event: event}, guests, func() time.Time { return current })

		first, err := service.SubmitResponse(ctx, "event-1", "guest-1", validResponse(GuestStatusConfirmed))
		if err != nil {
			t.Fatalf("first SubmitResponse returned error: %v", err)
		}

		current = current.Add(2 * time.Hour)
		second, err := service.SubmitResponse(ctx, "event-1", "guest-1", validResponse(GuestStatusDeclined))
		if err != nil {
			t.Fatalf("second SubmitResponse returned error: %v", err)
		}
		if second.Status != GuestStatusDeclined {
			t.Errorf("status = %q, want DECLINED", second.Status)
		}
		if !second.RespondedAt.After(*first.RespondedAt) {
			t.Errorf("responded_at not refreshed: first %v, second %v", first.RespondedAt, second.RespondedAt)
		}
	})
}

func TestRSVPSubmitResponseCapacity(t *testing.T) {
	ctx := context.Background()
	features := NormalizeFeatureSet(FeatureSet{
		AllowFamilyHeadcount: true,
		LimitEventCapacity:   true,
		MaxEventCapacity:     5,
	})
	event := testEvent("event-1", "host-1", features)

	confirmedGuest := func(id string, adults, children int) Guest {
		g := testGuest(id, "event-1", GuestStatusConfirmed)
		g.Adults = adults
		g.Children = children
		return g
	}

	t.Run("confirmation over capacity is rejected", func(t *testing.T) {
		guests := newGuestRepoStub(
			confirmedGuest("guest-1", 2, 1),
			testGuest("guest-2", "event-1", GuestStatusInvited),
		)
		service := NewRSVPService(eventSourceStub{event: event}, guests, fixedNow)

		input := validResponse(GuestStatusConfirmed)
		input.Adults = 2
		input.Children = 1

		_, err := service.SubmitResponse(ctx, "event-1", "guest-2", input)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if vErr.FieldErrors["capacity"] != "event capacity of 5 has been reached" {
			t.Errorf("capacity error = %q", vErr.FieldErrors["capacity"])
		}
	})

	t.Run("confirmation exactly at capacity passes", func(t *testing.T) {
		guests := newGuestRepoStub(
			confirmedGuest("guest-1", 2, 1),
			testGuest("guest-2", "event-1", GuestStatusInvited),
		)
		service := NewRSVPService(eventSourceStub{event: event}, guests, fixedNow)

		input := validResponse(GuestStatusConfirmed)
		input.Adults = 2

		if _, err := service.SubmitResponse(ctx, "event-1", "guest-2", input); err != nil {
			t.Fatalf("at-capacity confirmation should pass, got %v", err)
		}
	})

	t.Run("re-confirming guest does not double count themselves", func(t *testing.T) {
		guests := newGuestRepoStub(confirmedGuest("guest-1", 4, 0))
		service := NewRSVPService(eventSourceStub{event: event}, guests, fixedNow)

		input := validResponse(GuestStatusConfirmed)
		input.Adults = 5

		if _, err := service.SubmitResponse(ctx, "event-1", "guest-1", input); err != nil {
			t.Fatalf("re-confirmation within capacity should pass, got %v", err)
		}
	})

	t.Run("declines bypass the capacity check", func(t *testing.T) {
		guests := newGuestRepoStub(
			confirmedGuest("guest-1", 5, 0),
			testGuest("guest-2", "event-1", GuestStatusInvited),
		)
		service := NewRSVPService(eventSourceStub{event: event}, guests, fixedNow)

		if _, err := service.SubmitResponse(ctx, "event-1", "guest-2", validResponse(GuestStatusDeclined)); err != nil {
			t.Fatalf("decline should bypass capacity, got %v", err)
		}
	})

	t.Run("capacity read failure is best effort", func(t *testing.T) {
		guests := newGuestRepoStub(testGuest("guest-1", "event-1", GuestStatusInvited))
		guests.listErr = fmt.Errorf("storage offline")
		service := NewRSVPService(eventSourceStub{event: event}, guests, fixedNow)

		input := validResponse(GuestStatusConfirmed)
		if _, err := service.SubmitResponse(ctx, "event-1", "guest-1", input); err != nil {
			t.Fatalf("read failure must not block the response, got %v", err)
		}
	})
}

func TestResponseOptions(t *testing.T) {
	base := ResponseOptions(FeatureSet{})
	if len(base) != 2 || base[0] != GuestStatusConfirmed || base[1] != GuestStatusDeclined {
		t.Fatalf("ResponseOptions without maybe = %v", base)
	}

	withMaybe := ResponseOptions(FeatureSet{AllowMaybeRSVP: true})
	if len(withMaybe) != 3 || withMaybe[2] != GuestStatusMaybe {
		t.Fatalf("ResponseOptions with maybe = %v", withMaybe)
	}
}
