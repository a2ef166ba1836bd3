package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/event-invitations/internal/application"
)

type rsvpService interface {
	SubmitResponse(ctx context.Context, eventID, guestID string, input application.ResponseInput) (application.Guest, error)
}

// RSVPHandler accepts attendee responses over the public RSVP link.
type RSVPHandler struct {
	service   rsvpService
	responder responder
	logger    *slog.Logger
}

// NewRSVPHandler constructs an RSVPHandler.
func NewRSVPHandler(service rsvpService, logger *slog.Logger) *RSVPHandler {
	base := defaultLogger(logger)
	return &RSVPHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RSVPHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "RSVPHandler", operation, attrs...)
}

type rsvpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Status   string `json:"status"`
	PlusOnes int    `json:"plus_ones"`
	Adults   int    `json:"adults"`
	Children int    `json:"children"`
}

// Submit records a guest's response. The status is passed through verbatim so
// the validation engine owns the rejection wording for blank and unknown
// values alike.
func (h *RSVPHandler) Submit(w http.ResponseWriter, r *http.Request) {
	eventID := strings.TrimSpace(r.PathValue("id"))
	guestID := strings.TrimSpace(r.PathValue("guestID"))
	if eventID == "" || guestID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGuestID)
		return
	}

	var req rsvpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	guest, err := h.service.SubmitResponse(r.Context(), eventID, guestID, application.ResponseInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Status:   application.GuestStatus(req.Status),
		PlusOnes: req.PlusOnes,
		Adults:   req.Adults,
		Children: req.Children,
	})
	if err != nil {
		h.log(r.Context(), "Submit", "event_id", eventID, "guest_id", guestID).
			ErrorContext(r.Context(), "response rejected", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "Submit", "event_id", eventID, "guest_id", guestID, "status", string(guest.Status)).
		InfoContext(r.Context(), "response accepted")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, guestResponse{Guest: toGuestDTO(guest)})
}
