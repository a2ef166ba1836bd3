package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/event-invitations/internal/application"
)

// DefaultSendDelay is the fixed pause between consecutive guest sends. The
// pipeline is deliberately single-worker and sequential: upstream messaging
// providers rate-limit per sender identity, and ordering of the result slice
// must mirror the input guest list.
const DefaultSendDelay = 500 * time.Millisecond

// BulkRequest describes one bulk dispatch run.
type BulkRequest struct {
	Event   application.Event
	Guests  []application.Guest
	BaseURL string
	Kind    MessageKind
}

// Summary aggregates a finished bulk run.
type Summary struct {
	Sent    int
	Failed  int
	Results []Result
}

// BulkDispatcher iterates a guest list sequentially, pausing a fixed delay
// between sends and collecting one Result per guest in input order.
type BulkDispatcher struct {
	dispatcher *Dispatcher
	delay      time.Duration
	logger     *slog.Logger
}

// NewBulkDispatcher builds the bulk orchestrator. A non-positive delay falls
// back to DefaultSendDelay.
func NewBulkDispatcher(dispatcher *Dispatcher, delay time.Duration, logger *slog.Logger) *BulkDispatcher {
	if delay <= 0 {
		delay = DefaultSendDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BulkDispatcher{dispatcher: dispatcher, delay: delay, logger: logger}
}

// SendBulkEventInvitations dispatches to every guest in the request, in
// order. A transport failure never aborts the batch. Cancellation is honored
// between guests: remaining guests receive a Result carrying the context
// error so the slice always holds exactly one entry per input guest.
func (b *BulkDispatcher) SendBulkEventInvitations(ctx context.Context, req BulkRequest) []Result {
	results := make([]Result, 0, len(req.Guests))

	for i, guest := range req.Guests {
		if i > 0 {
			if err := b.pause(ctx); err != nil {
				for _, remaining := range req.Guests[i:] {
					results = append(results, Result{GuestID: remaining.ID, GuestName: remaining.Name, Err: err})
				}
				break
			}
		}

		url := InvitationURL(req.BaseURL, req.Event.ID, guest.ID)
		results = append(results, b.dispatcher.send(ctx, guest, req.Event, url, req.Kind))
	}

	summary := Summarize(results)
	b.logger.InfoContext(ctx, "bulk dispatch finished",
		"event_id", req.Event.ID,
		"kind", string(req.Kind),
		"sent", summary.Sent,
		"failed", summary.Failed,
	)
	return results
}

func (b *BulkDispatcher) pause(ctx context.Context) error {
	timer := time.NewTimer(b.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// InvitationURL builds the public invitation link for a guest.
func InvitationURL(baseURL, eventID, guestID string) string {
	return fmt.Sprintf("%s/events/%s/invitation/%s", strings.TrimRight(baseURL, "/"), eventID, guestID)
}

// Summarize folds per-guest results into aggregate counts.
func Summarize(results []Result) Summary {
	summary := Summary{Results: results}
	for _, r := range results {
		if r.Success {
			summary.Sent++
		} else {
			summary.Failed++
		}
	}
	return summary
}
