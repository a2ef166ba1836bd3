package application

import "time"

// Principal represents the authenticated host invoking a service method.
type Principal struct {
	HostID string
}

// GuestStatus enumerates the lifecycle states of a guest record.
type GuestStatus string

const (
	GuestStatusPending   GuestStatus = "PENDING"
	GuestStatusInvited   GuestStatus = "INVITED"
	GuestStatusConfirmed GuestStatus = "CONFIRMED"
	GuestStatusDeclined  GuestStatus = "DECLINED"
	GuestStatusMaybe     GuestStatus = "MAYBE"
)

// IsResponse reports whether the status is one an attendee may submit.
func (s GuestStatus) IsResponse() bool {
	switch s {
	case GuestStatusConfirmed, GuestStatusDeclined, GuestStatusMaybe:
		return true
	}
	return false
}

// ParseGuestStatus maps a wire value to a known status.
func ParseGuestStatus(value string) (GuestStatus, bool) {
	switch GuestStatus(value) {
	case GuestStatusPending, GuestStatusInvited, GuestStatusConfirmed, GuestStatusDeclined, GuestStatusMaybe:
		return GuestStatus(value), true
	}
	return "", false
}

// Location describes where an event takes place.
type Location struct {
	Address string
	Unit    string
	ShowMap bool
}

// FeatureSet holds the per-event flags controlling optional RSVP behaviors
// together with their numeric limits. The limits are meaningful only while the
// corresponding flag is enabled.
type FeatureSet struct {
	PrivateGuestList     bool
	AllowPlusOnes        bool
	AllowMaybeRSVP       bool
	AllowFamilyHeadcount bool
	LimitEventCapacity   bool
	MaxPlusOnes          int
	MaxEventCapacity     int
}

// Event represents a host-owned event with its RSVP feature configuration.
type Event struct {
	ID          string
	HostID      string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Location    Location
	Features    FeatureSet
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EventInput captures caller provided event fields.
type EventInput struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Location    Location
}

// Guest represents an invitee attached to exactly one event.
type Guest struct {
	ID          string
	EventID     string
	Name        string
	Email       string
	Phone       string
	Status      GuestStatus
	Response    string
	PlusOnes    int
	Adults      int
	Children    int
	InvitedAt   *time.Time
	RespondedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GuestInput captures host provided guest fields.
type GuestInput struct {
	Name     string
	Email    string
	Phone    string
	PlusOnes int
	Adults   int
	Children int
}

// ResponseInput captures an attendee's RSVP submission. Email participates as
// the identity echo only; the stored address is never overwritten by it.
type ResponseInput struct {
	Name     string
	Email    string
	Phone    string
	Status   GuestStatus
	PlusOnes int
	Adults   int
	Children int
}

// Host represents an account that owns and configures events.
type Host struct {
	ID          string
	Email       string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HostInput captures the fields submitted when registering a host account.
type HostInput struct {
	Email       string
	DisplayName string
	Password    string
}

// HostCredentials models the authentication attributes persisted for a host.
type HostCredentials struct {
	Host         Host
	PasswordHash string
	Disabled     bool
}

// Session represents an authenticated session issued to a host.
type Session struct {
	ID        string
	HostID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// CreateEventParams wraps the data required to create an event.
type CreateEventParams struct {
	Principal Principal
	Input     EventInput
}

// UpdateEventParams wraps the data required to update an existing event.
type UpdateEventParams struct {
	Principal Principal
	EventID   string
	Input     EventInput
}

// UpdateFeaturesParams wraps a full replacement of an event's feature set.
type UpdateFeaturesParams struct {
	Principal Principal
	EventID   string
	Features  FeatureSet
}

// CreateGuestParams wraps the data required to add a guest to an event.
type CreateGuestParams struct {
	Principal Principal
	EventID   string
	Input     GuestInput
}

// UpdateGuestParams wraps the data required to update an existing guest.
type UpdateGuestParams struct {
	Principal Principal
	EventID   string
	GuestID   string
	Input     GuestInput
}

// RegisterHostParams wraps the data required to register a host account.
type RegisterHostParams struct {
	Input HostInput
}

// AuthenticateParams captures the data required to authenticate a host.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication.
type AuthenticateResult struct {
	Host    Host
	Session Session
}
