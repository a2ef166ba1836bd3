package dispatch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/event-invitations/internal/application"
	"github.com/example/event-invitations/internal/testfixtures"
)

func bulkGuests(event application.Event, n int) []application.Guest {
	guests := make([]application.Guest, n)
	for i := range guests {
		guests[i] = testfixtures.NewGuestFixture(
			testfixtures.WithGuestEvent(event.ID),
			testfixtures.WithGuestEmail(fmt.Sprintf("guest%d@example.com", i)),
		).Application()
	}
	return guests
}

func TestBulkDispatchOrderAndCounts(t *testing.T) {
	event := testEvent()
	guests := bulkGuests(event, 4)
	guests[2].Email = "" // no contact at all

	email := &testfixtures.FakeEmailSender{}
	dispatcher := NewDispatcher(email, nil, nil, nil, nil)
	bulk := NewBulkDispatcher(dispatcher, time.Millisecond, nil)

	results := bulk.SendBulkEventInvitations(context.Background(), BulkRequest{
		Event:   event,
		Guests:  guests,
		BaseURL: "http://example.com",
		Kind:    KindInvitation,
	})

	if len(results) != len(guests) {
		t.Fatalf("got %d results, want one per guest (%d)", len(results), len(guests))
	}
	for i, result := range results {
		if result.GuestID != guests[i].ID {
			t.Errorf("result %d guest id = %s, want input order %s", i, result.GuestID, guests[i].ID)
		}
	}
	if !errors.Is(results[2].Err, ErrNoContact) {
		t.Errorf("contactless guest err = %v, want ErrNoContact", results[2].Err)
	}

	summary := Summarize(results)
	if summary.Sent != 3 || summary.Failed != 1 {
		t.Errorf("summary = %d sent / %d failed, want 3/1", summary.Sent, summary.Failed)
	}
}

func TestBulkDispatchPausesBetweenGuests(t *testing.T) {
	event := testEvent()
	guests := bulkGuests(event, 3)
	delay := 20 * time.Millisecond

	dispatcher := NewDispatcher(&testfixtures.FakeEmailSender{}, nil, nil, nil, nil)
	bulk := NewBulkDispatcher(dispatcher, delay, nil)

	start := time.Now()
	bulk.SendBulkEventInvitations(context.Background(), BulkRequest{
		Event:  event,
		Guests: guests,
	})
	elapsed := time.Since(start)

	// Two pauses for three guests; the first send is immediate.
	if floor := 2 * delay; elapsed < floor {
		t.Errorf("elapsed %v, want at least %v", elapsed, floor)
	}
}

func TestBulkDispatchCancellation(t *testing.T) {
	event := testEvent()
	guests := bulkGuests(event, 5)

	dispatcher := NewDispatcher(&testfixtures.FakeEmailSender{}, nil, nil, nil, nil)
	bulk := NewBulkDispatcher(dispatcher, 50*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := bulk.SendBulkEventInvitations(ctx, BulkRequest{
		Event:  event,
		Guests: guests,
	})

	if len(results) != len(guests) {
		t.Fatalf("got %d results, want one per guest even when cancelled", len(results))
	}
	// The first guest dispatches before the first pause; the rest carry the
	// context error.
	for _, result := range results[1:] {
		if !errors.Is(result.Err, context.Canceled) {
			t.Errorf("guest %s err = %v, want context.Canceled", result.GuestID, result.Err)
		}
	}
}

func TestBulkDispatcherDefaultDelay(t *testing.T) {
	bulk := NewBulkDispatcher(nil, 0, nil)
	if bulk.delay != DefaultSendDelay {
		t.Fatalf("delay = %v, want default %v", bulk.delay, DefaultSendDelay)
	}
	if DefaultSendDelay != 500*time.Millisecond {
		t.Fatalf("DefaultSendDelay = %v, want 500ms", DefaultSendDelay)
	}
}

func TestInvitationURL(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"http://example.com", "http://example.com/events/event-1/invitation/guest-1"},
		{"http://example.com/", "http://example.com/events/event-1/invitation/guest-1"},
	}
	for _, tc := range cases {
		if got := InvitationURL(tc.base, "event-1", "guest-1"); got != tc.want {
			t.Errorf("InvitationURL(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}
