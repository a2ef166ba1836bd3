package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/event-invitations/internal/application"
)

type guestService interface {
	AddGuest(ctx context.Context, params application.CreateGuestParams) (application.Guest, error)
	UpdateGuest(ctx context.Context, params application.UpdateGuestParams) (application.Guest, error)
	DeleteGuest(ctx context.Context, principal application.Principal, eventID, guestID string) error
	ListGuests(ctx context.Context, principal application.Principal, eventID string) ([]application.Guest, error)
}

// GuestHandler exposes host-side guest list management.
type GuestHandler struct {
	service   guestService
	responder responder
	logger    *slog.Logger
}

// NewGuestHandler constructs a GuestHandler.
func NewGuestHandler(service guestService, logger *slog.Logger) *GuestHandler {
	base := defaultLogger(logger)
	return &GuestHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *GuestHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "GuestHandler", operation, attrs...)
}

func (h *GuestHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	eventID := strings.TrimSpace(r.PathValue("id"))
	if eventID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEventID)
		return
	}

	var req guestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	guest, err := h.service.AddGuest(r.Context(), application.CreateGuestParams{
		Principal: principal,
		EventID:   eventID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.log(r.Context(), "Create", "event_id", eventID).
			ErrorContext(r.Context(), "guest creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "Create", "event_id", eventID, "guest_id", guest.ID).
		InfoContext(r.Context(), "guest created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, guestResponse{Guest: toGuestDTO(guest)})
}

func (h *GuestHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	eventID := strings.TrimSpace(r.PathValue("id"))
	guestID := strings.TrimSpace(r.PathValue("guestID"))
	if eventID == "" || guestID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGuestID)
		return
	}

	var req guestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	guest, err := h.service.UpdateGuest(r.Context(), application.UpdateGuestParams{
		Principal: principal,
		EventID:   eventID,
		GuestID:   guestID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.log(r.Context(), "Update", "event_id", eventID, "guest_id", guestID).
			ErrorContext(r.Context(), "guest update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, guestResponse{Guest: toGuestDTO(guest)})
}

func (h *GuestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	eventID := strings.TrimSpace(r.PathValue("id"))
	guestID := strings.TrimSpace(r.PathValue("guestID"))
	if eventID == "" || guestID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidGuestID)
		return
	}

	if err := h.service.DeleteGuest(r.Context(), principal, eventID, guestID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *GuestHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	eventID := strings.TrimSpace(r.PathValue("id"))
	if eventID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEventID)
		return
	}

	guests, err := h.service.ListGuests(r.Context(), principal, eventID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]guestDTO, len(guests))
	for i, g := range guests {
		dtos[i] = toGuestDTO(g)
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listGuestsResponse{Guests: dtos})
}

type guestRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	PlusOnes int    `json:"plus_ones"`
	Adults   int    `json:"adults"`
	Children int    `json:"children"`
}

func (r guestRequest) toInput() application.GuestInput {
	return application.GuestInput{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		PlusOnes: r.PlusOnes,
		Adults:   r.Adults,
		Children: r.Children,
	}
}

type guestDTO struct {
	ID          string     `json:"id"`
	EventID     string     `json:"event_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Status      string     `json:"status"`
	Response    string     `json:"response,omitempty"`
	PlusOnes    int        `json:"plus_ones"`
	Adults      int        `json:"adults"`
	Children    int        `json:"children"`
	InvitedAt   *time.Time `json:"invited_at,omitempty"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

func toGuestDTO(g application.Guest) guestDTO {
	return guestDTO{
		ID:          g.ID,
		EventID:     g.EventID,
		Name:        g.Name,
		Email:       g.Email,
		Phone:       g.Phone,
		Status:      string(g.Status),
		Response:    g.Response,
		PlusOnes:    g.PlusOnes,
		Adults:      g.Adults,
		Children:    g.Children,
		InvitedAt:   g.InvitedAt,
		RespondedAt: g.RespondedAt,
	}
}

type guestResponse struct {
	Guest guestDTO `json:"guest"`
}

type listGuestsResponse struct {
	Guests []guestDTO `json:"guests"`
}
