package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/event-invitations/internal/application"
)

// EventRepository implements application.EventRepository over SQLite.
type EventRepository struct {
	db *DB
}

// NewEventRepository binds an event repository to the database.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, host_id, title, description, start_at, end_at,
	address, unit, show_map,
	private_guest_list, allow_plus_ones, allow_maybe_rsvp, allow_family_headcount, limit_event_capacity,
	max_plus_ones, max_event_capacity, created_at, updated_at`

// CreateEvent inserts a new event row.
func (r *EventRepository) CreateEvent(ctx context.Context, event application.Event) (application.Event, error) {
	query := `INSERT INTO events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.db.ExecContext(ctx, query,
		event.ID, event.HostID, event.Title, event.Description,
		formatTime(event.Start), formatTime(event.End),
		event.Location.Address, event.Location.Unit, event.Location.ShowMap,
		event.Features.PrivateGuestList, event.Features.AllowPlusOnes,
		event.Features.AllowMaybeRSVP, event.Features.AllowFamilyHeadcount,
		event.Features.LimitEventCapacity,
		event.Features.MaxPlusOnes, event.Features.MaxEventCapacity,
		formatTime(event.CreatedAt), formatTime(event.UpdatedAt),
	)
	if err != nil {
		return application.Event{}, mapError(err)
	}
	return event, nil
}

// GetEvent retrieves an event by id.
func (r *EventRepository) GetEvent(ctx context.Context, id string) (application.Event, error) {
	if id == "" {
		return application.Event{}, application.ErrNotFound
	}

	row := r.db.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	return scanEvent(row)
}

// UpdateEvent replaces the mutable non-feature fields of an event.
func (r *EventRepository) UpdateEvent(ctx context.Context, event application.Event) (application.Event, error) {
	query := `UPDATE events
		SET title = ?, description = ?, start_at = ?, end_at = ?,
			address = ?, unit = ?, show_map = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.db.ExecContext(ctx, query,
		event.Title, event.Description,
		formatTime(event.Start), formatTime(event.End),
		event.Location.Address, event.Location.Unit, event.Location.ShowMap,
		formatTime(event.UpdatedAt), event.ID,
	)
	if err != nil {
		return application.Event{}, mapError(err)
	}
	if err := requireRowAffected(result); err != nil {
		return application.Event{}, err
	}

	return r.GetEvent(ctx, event.ID)
}

// UpdateEventFeatures replaces the whole feature-flag set in one statement.
func (r *EventRepository) UpdateEventFeatures(ctx context.Context, eventID string, features application.FeatureSet, updatedAt time.Time) (application.Event, error) {
	query := `UPDATE events
		SET private_guest_list = ?, allow_plus_ones = ?, allow_maybe_rsvp = ?,
			allow_family_headcount = ?, limit_event_capacity = ?,
			max_plus_ones = ?, max_event_capacity = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.db.ExecContext(ctx, query,
		features.PrivateGuestList, features.AllowPlusOnes, features.AllowMaybeRSVP,
		features.AllowFamilyHeadcount, features.LimitEventCapacity,
		features.MaxPlusOnes, features.MaxEventCapacity,
		formatTime(updatedAt), eventID,
	)
	if err != nil {
		return application.Event{}, mapError(err)
	}
	if err := requireRowAffected(result); err != nil {
		return application.Event{}, err
	}

	return r.GetEvent(ctx, eventID)
}

// DeleteEvent removes an event; guests cascade.
func (r *EventRepository) DeleteEvent(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// ListEventsByHost returns a host's events ordered by start time.
func (r *EventRepository) ListEventsByHost(ctx context.Context, hostID string) ([]application.Event, error) {
	rows, err := r.db.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE host_id = ? ORDER BY start_at ASC, id ASC`, hostID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var events []application.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (application.Event, error) {
	var event application.Event
	var startStr, endStr, createdStr, updatedStr string

	err := row.Scan(
		&event.ID, &event.HostID, &event.Title, &event.Description,
		&startStr, &endStr,
		&event.Location.Address, &event.Location.Unit, &event.Location.ShowMap,
		&event.Features.PrivateGuestList, &event.Features.AllowPlusOnes,
		&event.Features.AllowMaybeRSVP, &event.Features.AllowFamilyHeadcount,
		&event.Features.LimitEventCapacity,
		&event.Features.MaxPlusOnes, &event.Features.MaxEventCapacity,
		&createdStr, &updatedStr,
	)
	if err != nil {
		return application.Event{}, mapError(err)
	}

	if event.Start, err = parseTime(startStr); err != nil {
		return application.Event{}, err
	}
	if event.End, err = parseTime(endStr); err != nil {
		return application.Event{}, err
	}
	if event.CreatedAt, err = parseTime(createdStr); err != nil {
		return application.Event{}, err
	}
	if event.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return application.Event{}, err
	}

	return event, nil
}

func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return application.ErrNotFound
	}
	return nil
}
