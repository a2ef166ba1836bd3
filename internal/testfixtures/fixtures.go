// Package testfixtures provides deterministic clocks, id generators, domain
// fixtures, and fake messaging transports shared across test packages.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/event-invitations/internal/application"
)

var (
	hostCounter    uint64
	eventCounter   uint64
	guestCounter   uint64
	sessionCounter uint64
)

var referenceTime = time.Date(2026, time.June, 6, 18, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Host fixtures -----------------------------

// HostFixture represents a deterministic host account record.
type HostFixture struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HostOption configures the generated host fixture.
type HostOption func(*HostFixture)

// NewHostFixture returns a deterministic host fixture with optional overrides.
func NewHostFixture(opts ...HostOption) HostFixture {
	idx := atomic.AddUint64(&hostCounter, 1)
	id := fmt.Sprintf("host-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := HostFixture{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id),
		DisplayName:  fmt.Sprintf("Host %03d", idx),
		PasswordHash: fmt.Sprintf("hash-%03d", idx),
		CreatedAt:    created,
		UpdatedAt:    created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithHostID overrides the generated host ID.
func WithHostID(id string) HostOption {
	return func(f *HostFixture) {
		f.ID = id
	}
}

// WithHostEmail overrides the generated email address.
func WithHostEmail(email string) HostOption {
	return func(f *HostFixture) {
		f.Email = email
	}
}

// WithHostPasswordHash overrides the generated password hash.
func WithHostPasswordHash(hash string) HostOption {
	return func(f *HostFixture) {
		f.PasswordHash = hash
	}
}

// WithHostDisabled sets the disabled flag on the fixture.
func WithHostDisabled(disabled bool) HostOption {
	return func(f *HostFixture) {
		f.Disabled = disabled
	}
}

// Application returns the fixture as an application.Host value.
func (f HostFixture) Application() application.Host {
	return application.Host{
		ID:          f.ID,
		Email:       f.Email,
		DisplayName: f.DisplayName,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Credentials returns the fixture as application.HostCredentials.
func (f HostFixture) Credentials() application.HostCredentials {
	return application.HostCredentials{
		Host:         f.Application(),
		PasswordHash: f.PasswordHash,
		Disabled:     f.Disabled,
	}
}

// Principal returns an application.Principal derived from the fixture.
func (f HostFixture) Principal() application.Principal {
	return application.Principal{HostID: f.ID}
}

// ----------------------------- Event fixtures ----------------------------

// EventFixture represents a deterministic event record.
type EventFixture struct {
	ID        string
	HostID    string
	Title     string
	Desc      string
	Start     time.Time
	End       time.Time
	Location  application.Location
	Features  application.FeatureSet
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EventOption configures the generated event fixture.
type EventOption func(*EventFixture)

// NewEventFixture returns a deterministic event fixture with optional
// overrides. The default feature set leaves every flag off, with the clamps'
// floor values for the numeric limits.
func NewEventFixture(opts ...EventOption) EventFixture {
	idx := atomic.AddUint64(&eventCounter, 1)
	id := fmt.Sprintf("event-%03d", idx)
	start := referenceTime.Add(time.Duration(idx) * 24 * time.Hour)
	fixture := EventFixture{
		ID:     id,
		HostID: fmt.Sprintf("host-%03d", idx),
		Title:  fmt.Sprintf("Event %03d", idx),
		Start:  start,
		End:    start.Add(4 * time.Hour),
		Location: application.Location{
			Address: "123 Main St",
			ShowMap: true,
		},
		Features: application.FeatureSet{
			MaxPlusOnes:      0,
			MaxEventCapacity: 1,
		},
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEventID overrides the event ID.
func WithEventID(id string) EventOption {
	return func(f *EventFixture) {
		f.ID = id
	}
}

// WithEventHost sets the owning host ID.
func WithEventHost(hostID string) EventOption {
	return func(f *EventFixture) {
		f.HostID = hostID
	}
}

// WithEventTitle overrides the title.
func WithEventTitle(title string) EventOption {
	return func(f *EventFixture) {
		f.Title = title
	}
}

// WithEventStartEnd sets the start and end times.
func WithEventStartEnd(start, end time.Time) EventOption {
	return func(f *EventFixture) {
		f.Start = start
		f.End = end
	}
}

// WithEventFeatures replaces the feature set.
func WithEventFeatures(features application.FeatureSet) EventOption {
	return func(f *EventFixture) {
		f.Features = features
	}
}

// WithEventLocation sets the location.
func WithEventLocation(location application.Location) EventOption {
	return func(f *EventFixture) {
		f.Location = location
	}
}

// Application returns the fixture as an application.Event value.
func (f EventFixture) Application() application.Event {
	return application.Event{
		ID:          f.ID,
		HostID:      f.HostID,
		Title:       f.Title,
		Description: f.Desc,
		Start:       f.Start,
		End:         f.End,
		Location:    f.Location,
		Features:    f.Features,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Input returns the fixture as an application.EventInput.
func (f EventFixture) Input() application.EventInput {
	return application.EventInput{
		Title:       f.Title,
		Description: f.Desc,
		Start:       f.Start,
		End:         f.End,
		Location:    f.Location,
	}
}

// ----------------------------- Guest fixtures ----------------------------

// GuestFixture represents a deterministic guest record.
type GuestFixture struct {
	ID          string
	EventID     string
	Name        string
	Email       string
	Phone       string
	Status      application.GuestStatus
	Response    string
	PlusOnes    int
	Adults      int
	Children    int
	InvitedAt   *time.Time
	RespondedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GuestOption configures the generated guest fixture.
type GuestOption func(*GuestFixture)

// NewGuestFixture returns a deterministic guest fixture in the PENDING state
// with optional overrides.
func NewGuestFixture(opts ...GuestOption) GuestFixture {
	idx := atomic.AddUint64(&guestCounter, 1)
	id := fmt.Sprintf("guest-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Second)
	fixture := GuestFixture{
		ID:        id,
		EventID:   fmt.Sprintf("event-%03d", idx),
		Name:      fmt.Sprintf("Guest %03d", idx),
		Email:     fmt.Sprintf("%s@example.com", id),
		Status:    application.GuestStatusPending,
		Adults:    1,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithGuestID overrides the guest ID.
func WithGuestID(id string) GuestOption {
	return func(f *GuestFixture) {
		f.ID = id
	}
}

// WithGuestEvent sets the owning event ID.
func WithGuestEvent(eventID string) GuestOption {
	return func(f *GuestFixture) {
		f.EventID = eventID
	}
}

// WithGuestName overrides the guest name.
func WithGuestName(name string) GuestOption {
	return func(f *GuestFixture) {
		f.Name = name
	}
}

// WithGuestEmail overrides the email address. An empty value clears it.
func WithGuestEmail(email string) GuestOption {
	return func(f *GuestFixture) {
		f.Email = email
	}
}

// WithGuestPhone sets the phone number.
func WithGuestPhone(phone string) GuestOption {
	return func(f *GuestFixture) {
		f.Phone = phone
	}
}

// WithGuestStatus sets the RSVP status and mirrors it into the response field
// when the status is an attendee response.
func WithGuestStatus(status application.GuestStatus) GuestOption {
	return func(f *GuestFixture) {
		f.Status = status
		if status.IsResponse() {
			f.Response = string(status)
		}
	}
}

// WithGuestHeadcounts sets the plus-ones and family headcount fields.
func WithGuestHeadcounts(plusOnes, adults, children int) GuestOption {
	return func(f *GuestFixture) {
		f.PlusOnes = plusOnes
		f.Adults = adults
		f.Children = children
	}
}

// WithGuestInvitedAt stamps the invited timestamp and flips a PENDING fixture
// to INVITED.
func WithGuestInvitedAt(t time.Time) GuestOption {
	return func(f *GuestFixture) {
		at := t
		f.InvitedAt = &at
		if f.Status == application.GuestStatusPending {
			f.Status = application.GuestStatusInvited
		}
	}
}

// WithGuestRespondedAt stamps the responded timestamp.
func WithGuestRespondedAt(t time.Time) GuestOption {
	return func(f *GuestFixture) {
		at := t
		f.RespondedAt = &at
	}
}

// Application returns the fixture as an application.Guest value.
func (f GuestFixture) Application() application.Guest {
	return application.Guest{
		ID:          f.ID,
		EventID:     f.EventID,
		Name:        f.Name,
		Email:       f.Email,
		Phone:       f.Phone,
		Status:      f.Status,
		Response:    f.Response,
		PlusOnes:    f.PlusOnes,
		Adults:      f.Adults,
		Children:    f.Children,
		InvitedAt:   copyTimePtr(f.InvitedAt),
		RespondedAt: copyTimePtr(f.RespondedAt),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// Input returns the fixture as an application.GuestInput.
func (f GuestFixture) Input() application.GuestInput {
	return application.GuestInput{
		Name:     f.Name,
		Email:    f.Email,
		Phone:    f.Phone,
		PlusOnes: f.PlusOnes,
		Adults:   f.Adults,
		Children: f.Children,
	}
}

// ---------------------------- Session fixtures ---------------------------

// SessionFixture represents a deterministic session record.
type SessionFixture struct {
	ID        string
	HostID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// SessionOption configures the generated session fixture.
type SessionOption func(*SessionFixture)

// NewSessionFixture returns a deterministic session fixture with optional overrides.
func NewSessionFixture(opts ...SessionOption) SessionFixture {
	idx := atomic.AddUint64(&sessionCounter, 1)
	fixture := SessionFixture{
		ID:        fmt.Sprintf("session-%03d", idx),
		HostID:    fmt.Sprintf("host-%03d", idx),
		Token:     fmt.Sprintf("token-%03d", idx),
		ExpiresAt: referenceTime.Add(24 * time.Hour),
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithSessionHostID sets the host ID.
func WithSessionHostID(id string) SessionOption {
	return func(f *SessionFixture) {
		f.HostID = id
	}
}

// WithSessionToken overrides the token value.
func WithSessionToken(token string) SessionOption {
	return func(f *SessionFixture) {
		f.Token = token
	}
}

// WithSessionExpiresAt sets the expiration timestamp.
func WithSessionExpiresAt(t time.Time) SessionOption {
	return func(f *SessionFixture) {
		f.ExpiresAt = t
	}
}

// WithSessionRevokedAt sets the optional revoked timestamp.
func WithSessionRevokedAt(t time.Time) SessionOption {
	return func(f *SessionFixture) {
		revoked := t
		f.RevokedAt = &revoked
	}
}

// Application returns the fixture as an application.Session value.
func (f SessionFixture) Application() application.Session {
	return application.Session{
		ID:        f.ID,
		HostID:    f.HostID,
		Token:     f.Token,
		ExpiresAt: f.ExpiresAt,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
		RevokedAt: copyTimePtr(f.RevokedAt),
	}
}

func copyTimePtr(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	value := *src
	return &value
}
