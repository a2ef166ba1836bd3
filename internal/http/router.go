package http

import "net/http"

// RouterConfig wires the handlers exposed by the invitation API.
type RouterConfig struct {
	Auth        *AuthHandler
	Hosts       *HostHandler
	Events      *EventHandler
	Guests      *GuestHandler
	Invitations *InvitationHandler
	RSVP        *RSVPHandler
	Middleware  []func(http.Handler) http.Handler
}

// NewRouter assembles the HTTP routes. Method and path-parameter matching is
// delegated to the standard mux patterns; handlers read ids via PathValue.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Auth != nil {
		mux.HandleFunc("POST /login", cfg.Auth.CreateSession)
		mux.HandleFunc("POST /logout", cfg.Auth.DeleteCurrentSession)
	}

	if cfg.Hosts != nil {
		mux.HandleFunc("POST /register", cfg.Hosts.Register)
		mux.HandleFunc("GET /me", cfg.Hosts.Me)
	}

	if cfg.Events != nil {
		mux.HandleFunc("GET /events", cfg.Events.List)
		mux.HandleFunc("POST /events", cfg.Events.Create)
		mux.HandleFunc("GET /events/{id}", cfg.Events.Get)
		mux.HandleFunc("PUT /events/{id}", cfg.Events.Update)
		mux.HandleFunc("DELETE /events/{id}", cfg.Events.Delete)
		mux.HandleFunc("PATCH /events/{id}/features", cfg.Events.UpdateFeatures)
	}

	if cfg.Guests != nil {
		mux.HandleFunc("GET /events/{id}/guests", cfg.Guests.List)
		mux.HandleFunc("POST /events/{id}/guests", cfg.Guests.Create)
		mux.HandleFunc("PUT /events/{id}/guests/{guestID}", cfg.Guests.Update)
		mux.HandleFunc("DELETE /events/{id}/guests/{guestID}", cfg.Guests.Delete)
	}

	if cfg.Invitations != nil {
		mux.HandleFunc("POST /events/{id}/send-invitations", cfg.Invitations.Send)
		mux.HandleFunc("GET /events/{id}/invitation/{guestID}", cfg.Invitations.View)
	}

	if cfg.RSVP != nil {
		mux.HandleFunc("PUT /events/{id}/rsvp/{guestID}", cfg.RSVP.Submit)
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}
