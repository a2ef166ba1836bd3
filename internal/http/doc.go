// Package http provides HTTP handlers and middleware for the invitation API.
//
// The router exposes the following endpoints:
//   - POST /login: issues a session token. Body: {"email","password"}. Response:
//     {"token","expires_at","host":{"id","email","display_name"}} with the token
//     also surfaced via the `X-Session-Token` header and a `session_token` cookie.
//   - POST /logout: revokes the current session token extracted from the
//     Authorization header, the X-Session-Token header, or the session cookie.
//     Returns 204 No Content and clears the cookie.
//   - GET /events, POST /events, GET|PUT|DELETE /events/{id}: host-scoped event
//     management exchanging the `eventDTO` payload defined in event_handler.go.
//   - PATCH /events/{id}/features: replaces the event's RSVP feature flags with
//     the `featuresDTO` payload. The server normalizes the submitted flags before
//     persisting them, so the returned feature set is authoritative.
//   - GET /events/{id}/guests, POST /events/{id}/guests,
//     PUT|DELETE /events/{id}/guests/{guestID}: guest list management exchanging
//     the `guestDTO` payload defined in guest_handler.go.
//   - POST /events/{id}/send-invitations: marks guests invited and dispatches
//     invitations, or re-sends reminders, per the request's "type" field. The
//     response carries per-guest delivery results in input order.
//   - GET /events/{id}/invitation/{guestID}: public invitation view opened from
//     a guest's personal link. No session required.
//   - PUT /events/{id}/rsvp/{guestID}: public RSVP submission. No session
//     required; validation failures come back as a 422 with field errors.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
