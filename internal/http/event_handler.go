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

type eventService interface {
	CreateEvent(ctx context.Context, params application.CreateEventParams) (application.Event, error)
	GetEvent(ctx context.Context, principal application.Principal, eventID string) (application.Event, error)
	ListEvents(ctx context.Context, principal application.Principal) ([]application.Event, error)
	UpdateEvent(ctx context.Context, params application.UpdateEventParams) (application.Event, error)
	UpdateFeatures(ctx context.Context, params application.UpdateFeaturesParams) (application.Event, error)
	DeleteEvent(ctx context.Context, principal application.Principal, eventID string) error
}

// EventHandler exposes event CRUD and feature configuration.
type EventHandler struct {
	service   eventService
	responder responder
	logger    *slog.Logger
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(service eventService, logger *slog.Logger) *EventHandler {
	base := defaultLogger(logger)
	return &EventHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EventHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "EventHandler", operation, attrs...)
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	event, err := h.service.CreateEvent(r.Context(), application.CreateEventParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.log(r.Context(), "Create", "host_id", principal.HostID).
			ErrorContext(r.Context(), "event creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "Create", "event_id", event.ID).InfoContext(r.Context(), "event created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, eventResponse{Event: toEventDTO(event)})
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	eventID := strings.TrimSpace(r.PathValue("id"))
	if eventID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEventID)
		return
	}

	event, err := h.service.GetEvent(r.Context(), principal, eventID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventResponse{Event: toEventDTO(event)})
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())

	events, err := h.service.ListEvents(r.Context(), principal)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]eventDTO, len(events))
	for i, e := range events {
		dtos[i] = toEventDTO(e)
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listEventsResponse{Events: dtos})
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	eventID := strings.TrimSpace(r.PathValue("id"))
	if eventID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEventID)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	event, err := h.service.UpdateEvent(r.Context(), application.UpdateEventParams{
		Principal: principal,
		EventID:   eventID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.log(r.Context(), "Update", "event_id", eventID).
			ErrorContext(r.Context(), "event update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventResponse{Event: toEventDTO(event)})
}

// UpdateFeatures replaces the event's RSVP feature set. The body must carry
// the full flag set; partial updates are not exposed.
func (h *EventHandler) UpdateFeatures(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	eventID := strings.TrimSpace(r.PathValue("id"))
	if eventID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEventID)
		return
	}

	var req featuresDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	event, err := h.service.UpdateFeatures(r.Context(), application.UpdateFeaturesParams{
		Principal: principal,
		EventID:   eventID,
		Features:  req.toFeatureSet(),
	})
	if err != nil {
		h.log(r.Context(), "UpdateFeatures", "event_id", eventID).
			ErrorContext(r.Context(), "feature update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "UpdateFeatures", "event_id", eventID).InfoContext(r.Context(), "features updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, eventResponse{Event: toEventDTO(event)})
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, _ := PrincipalFromContext(r.Context())
	eventID := strings.TrimSpace(r.PathValue("id"))
	if eventID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidEventID)
		return
	}

	if err := h.service.DeleteEvent(r.Context(), principal, eventID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type eventRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Location    locationDTO `json:"location"`
}

func (r eventRequest) toInput() application.EventInput {
	return application.EventInput{
		Title:       r.Title,
		Description: r.Description,
		Start:       r.Start,
		End:         r.End,
		Location: application.Location{
			Address: r.Location.Address,
			Unit:    r.Location.Unit,
			ShowMap: r.Location.ShowMap,
		},
	}
}

type locationDTO struct {
	Address string `json:"address"`
	Unit    string `json:"unit,omitempty"`
	ShowMap bool   `json:"show_map"`
}

type featuresDTO struct {
	PrivateGuestList     bool `json:"private_guest_list"`
	AllowPlusOnes        bool `json:"allow_plus_ones"`
	AllowMaybeRSVP       bool `json:"allow_maybe_rsvp"`
	AllowFamilyHeadcount bool `json:"allow_family_headcount"`
	LimitEventCapacity   bool `json:"limit_event_capacity"`
	MaxPlusOnes          int  `json:"max_plus_ones"`
	MaxEventCapacity     int  `json:"max_event_capacity"`
}

func (f featuresDTO) toFeatureSet() application.FeatureSet {
	return application.FeatureSet{
		PrivateGuestList:     f.PrivateGuestList,
		AllowPlusOnes:        f.AllowPlusOnes,
		AllowMaybeRSVP:       f.AllowMaybeRSVP,
		AllowFamilyHeadcount: f.AllowFamilyHeadcount,
		LimitEventCapacity:   f.LimitEventCapacity,
		MaxPlusOnes:          f.MaxPlusOnes,
		MaxEventCapacity:     f.MaxEventCapacity,
	}
}

func toFeaturesDTO(f application.FeatureSet) featuresDTO {
	return featuresDTO{
		PrivateGuestList:     f.PrivateGuestList,
		AllowPlusOnes:        f.AllowPlusOnes,
		AllowMaybeRSVP:       f.AllowMaybeRSVP,
		AllowFamilyHeadcount: f.AllowFamilyHeadcount,
		LimitEventCapacity:   f.LimitEventCapacity,
		MaxPlusOnes:          f.MaxPlusOnes,
		MaxEventCapacity:     f.MaxEventCapacity,
	}
}

type eventDTO struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Location    locationDTO `json:"location"`
	Features    featuresDTO `json:"features"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func toEventDTO(e application.Event) eventDTO {
	return eventDTO{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Start:       e.Start,
		End:         e.End,
		Location: locationDTO{
			Address: e.Location.Address,
			Unit:    e.Location.Unit,
			ShowMap: e.Location.ShowMap,
		},
		Features:  toFeaturesDTO(e.Features),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

type eventResponse struct {
	Event eventDTO `json:"event"`
}

type listEventsResponse struct {
	Events []eventDTO `json:"events"`
}
