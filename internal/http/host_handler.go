package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/event-invitations/internal/application"
)

type hostService interface {
	RegisterHost(ctx context.Context, params application.RegisterHostParams) (application.Host, error)
	Profile(ctx context.Context, principal application.Principal) (application.Host, error)
}

// HostHandler exposes host account registration and profile lookup.
type HostHandler struct {
	service   hostService
	responder responder
	logger    *slog.Logger
}

// NewHostHandler constructs a HostHandler.
func NewHostHandler(service hostService, logger *slog.Logger) *HostHandler {
	base := defaultLogger(logger)
	return &HostHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *HostHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return handlerLogger(ctx, h.logger, "HostHandler", operation, attrs...)
}

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type hostResponse struct {
	Host hostDTO `json:"host"`
}

func newHostDTO(host application.Host) hostDTO {
	return hostDTO{
		ID:          host.ID,
		Email:       host.Email,
		DisplayName: host.DisplayName,
	}
}

// Register creates a host account. The route is public: a freshly provisioned
// deployment has no hosts yet, so signup cannot sit behind a session.
func (h *HostHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Register", "error_kind", "bad_request").
			ErrorContext(r.Context(), "failed to decode register request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	host, err := h.service.RegisterHost(r.Context(), application.RegisterHostParams{
		Input: application.HostInput{
			Email:       req.Email,
			DisplayName: req.DisplayName,
			Password:    req.Password,
		},
	})
	if err != nil {
		h.log(r.Context(), "Register").
			ErrorContext(r.Context(), "host registration failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.log(r.Context(), "Register", "host_id", host.ID).
		InfoContext(r.Context(), "host registered")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, hostResponse{Host: newHostDTO(host)})
}

// Me returns the profile of the authenticated host.
func (h *HostHandler) Me(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, ok := PrincipalFromContext(r.Context())
	if !ok {
		h.responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	host, err := h.service.Profile(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "Me", "host_id", principal.HostID).
			ErrorContext(r.Context(), "profile lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, hostResponse{Host: newHostDTO(host)})
}
