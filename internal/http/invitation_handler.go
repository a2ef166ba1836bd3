package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/event-invitations/internal/application"
	"github.com/example/event-invitations/internal/dispatch"
)

type invitationEventService interface {
	GetEvent(ctx context.Context, principal application.Principal, eventID string) (application.Event, error)
	GetPublicEvent(ctx context.Context, eventID string) (application.Event, error)
}

type invitationGuestService interface {
	MarkInvited(ctx context.Context, principal application.Principal, eventID string, guestIDs []string) ([]application.Guest, error)
	InvitedGuests(ctx context.Context, principal application.Principal, eventID string, guestIDs []string) ([]application.Guest, error)
}

type guestReader interface {
	GetGuest(ctx context.Context, id string) (application.Guest, error)
}

type bulkSender interface {
	SendBulkEventInvitations(ctx context.Context, req dispatch.BulkRequest) []dispatch.Result
}

// InvitationHandler drives invitation and reminder dispatch, and serves the
// public invitation view that guests open from their links.
type InvitationHandler struct {
	events    invitationEventService
	guests    invitationGuestService
	reader    guestReader
	sender    bulkSender
	baseURL   string
	responder responder
	logger    *slog.Logger
}

// NewInvitationHandler constructs an InvitationHandler. baseURL is the public
// origin used when building invitation links.
func NewInvitationHandler(events invitationEventService, guests invitationGuestService, reader guestReader, sender bulkSender, baseURL string, logger *slog.Logger) *InvitationHandler {
	base := defaultLogger(logger)
	return &InvitationHandler{
		events:    events,
		guests:    guests,
		reader:    reader,
		sender:    sender,
		baseURL:   baseURL,
		responder: newResponder(base),
		logger:    base,
	}
}

func (h *InvitationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "InvitationHandler", operation, attrs...)
}

type sendInvitationsRequest struct {
	GuestIDs []string `json:"guest_ids"`
	Type     string   `json:"type"`
}

type dispatchResultDTO struct {
	GuestID   string `json:"guest_id"`
	GuestName string `json:"guest_name"`
	Success   bool   `json:"success"`
	EmailSent bool   `json:"email_sent"`
	SMSSent   bool   `json:"sms_sent"`
	Channel   string `json:"channel,omitempty"`
	Error     string `json:"error,omitempty"`
}

type sendInvitationsResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Sent    int                 `json:"sent"`
	Failed  int                 `json:"failed"`
	Results []dispatchResultDTO `json:"results"`
}

// Send dispatches invitations or reminders to an event's guests. Invitations
// mark the targeted guests INVITED before any message leaves; reminders only
// go to guests that were already invited. Dispatch runs synchronously and the
// per-guest outcomes come back in the response.
func (h *InvitationHandler) Send(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	eventID := strings.TrimSpace(r.PathValue("id"))
	if eventID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEventID)
		return
	}

	var req sendInvitationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	kind, ok := dispatch.ParseMessageKind(req.Type)
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDispatchType)
		return
	}

	event, err := h.events.GetEvent(r.Context(), principal, eventID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	var guests []application.Guest
	switch kind {
	case dispatch.KindReminder:
		guests, err = h.guests.InvitedGuests(r.Context(), principal, eventID, req.GuestIDs)
	default:
		guests, err = h.guests.MarkInvited(r.Context(), principal, eventID, req.GuestIDs)
	}
	if err != nil {
		h.log(r.Context(), "Send", "event_id", eventID, "kind", string(kind)).
			ErrorContext(r.Context(), "guest selection failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	if len(guests) == 0 {
		h.responder.writeJSON(r.Context(), w, http.StatusOK, sendInvitationsResponse{
			Success: true,
			Message: "no guests to notify",
			Results: []dispatchResultDTO{},
		})
		return
	}

	results := h.sender.SendBulkEventInvitations(r.Context(), dispatch.BulkRequest{
		Event:   event,
		Guests:  guests,
		BaseURL: h.baseURL,
		Kind:    kind,
	})
	summary := dispatch.Summarize(results)

	dtos := make([]dispatchResultDTO, len(results))
	for i, res := range results {
		dto := dispatchResultDTO{
			GuestID:   res.GuestID,
			GuestName: res.GuestName,
			Success:   res.Success,
			EmailSent: res.EmailSent,
			SMSSent:   res.SMSSent,
			Channel:   string(res.Channel),
		}
		if res.Err != nil {
			dto.Error = res.Err.Error()
		}
		dtos[i] = dto
	}

	h.log(r.Context(), "Send", "event_id", eventID, "kind", string(kind)).
		InfoContext(r.Context(), "dispatch completed", "sent", summary.Sent, "failed", summary.Failed)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, sendInvitationsResponse{
		Success: summary.Failed == 0,
		Message: fmt.Sprintf("sent %d of %d messages", summary.Sent, len(results)),
		Sent:    summary.Sent,
		Failed:  summary.Failed,
		Results: dtos,
	})
}

type invitationEventDTO struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Start       string      `json:"start"`
	End         string      `json:"end"`
	Location    locationDTO `json:"location"`
}

type invitationViewResponse struct {
	Event           invitationEventDTO `json:"event"`
	Guest           guestDTO           `json:"guest"`
	ResponseOptions []string           `json:"response_options"`
}

// View serves the public invitation payload for a guest's personal link. No
// session is required; the guest id in the URL is the only credential. Guests
// belonging to a different event 404 rather than leaking existence.
func (h *InvitationHandler) View(w http.ResponseWriter, r *http.Request) {
	eventID := strings.TrimSpace(r.PathValue("id"))
	guestID := strings.TrimSpace(r.PathValue("guestID"))
	if eventID == "" || guestID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGuestID)
		return
	}

	guest, err := h.reader.GetGuest(r.Context(), guestID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if guest.EventID != eventID {
		h.responder.handleServiceError(r.Context(), w, application.ErrNotFound)
		return
	}

	event, err := h.events.GetPublicEvent(r.Context(), eventID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	options := application.ResponseOptions(event.Features)
	optionDTOs := make([]string, len(options))
	for i, option := range options {
		optionDTOs[i] = string(option)
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, invitationViewResponse{
		Event: invitationEventDTO{
			ID:          event.ID,
			Title:       event.Title,
			Description: event.Description,
			Start:       event.Start.Format("Monday, January 2, 2006 3:04 PM"),
			End:         event.End.Format("Monday, January 2, 2006 3:04 PM"),
			Location: locationDTO{
				Address: event.Location.Address,
				Unit:    event.Location.Unit,
				ShowMap: event.Location.ShowMap,
			},
		},
		Guest:           toGuestDTO(guest),
		ResponseOptions: optionDTOs,
	})
}
