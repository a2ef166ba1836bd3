package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/event-invitations/internal/application"
)

// GuestRepository implements application.GuestRepository over SQLite.
type GuestRepository struct {
	db *DB
}

// NewGuestRepository binds a guest repository to the database.
func NewGuestRepository(db *DB) *GuestRepository {
	return &GuestRepository{db: db}
}

const guestColumns = `id, event_id, name, email, phone, status, response,
	plus_ones, adults, children, invited_at, responded_at, created_at, updated_at`

// CreateGuest inserts a new guest row.
func (r *GuestRepository) CreateGuest(ctx context.Context, guest application.Guest) (application.Guest, error) {
	query := `INSERT INTO guests (` + guestColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.db.ExecContext(ctx, query,
		guest.ID, guest.EventID, guest.Name, guest.Email, guest.Phone,
		string(guest.Status), guest.Response,
		guest.PlusOnes, guest.Adults, guest.Children,
		formatNullableTime(guest.InvitedAt), formatNullableTime(guest.RespondedAt),
		formatTime(guest.CreatedAt), formatTime(guest.UpdatedAt),
	)
	if err != nil {
		return application.Guest{}, mapError(err)
	}
	return guest, nil
}

// GetGuest retrieves a guest by id.
func (r *GuestRepository) GetGuest(ctx context.Context, id string) (application.Guest, error) {
	if id == "" {
		return application.Guest{}, application.ErrNotFound
	}

	row := r.db.db.QueryRowContext(ctx, `SELECT `+guestColumns+` FROM guests WHERE id = ?`, id)
	return scanGuest(row)
}

// UpdateGuest replaces all mutable guest fields.
func (r *GuestRepository) UpdateGuest(ctx context.Context, guest application.Guest) (application.Guest, error) {
	query := `UPDATE guests
		SET name = ?, email = ?, phone = ?, status = ?, response = ?,
			plus_ones = ?, adults = ?, children = ?,
			invited_at = ?, responded_at = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.db.ExecContext(ctx, query,
		guest.Name, guest.Email, guest.Phone, string(guest.Status), guest.Response,
		guest.PlusOnes, guest.Adults, guest.Children,
		formatNullableTime(guest.InvitedAt), formatNullableTime(guest.RespondedAt),
		formatTime(guest.UpdatedAt), guest.ID,
	)
	if err != nil {
		return application.Guest{}, mapError(err)
	}
	if err := requireRowAffected(result); err != nil {
		return application.Guest{}, err
	}

	return r.GetGuest(ctx, guest.ID)
}

// DeleteGuest removes a guest by id.
func (r *GuestRepository) DeleteGuest(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM guests WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRowAffected(result)
}

// ListGuestsByEvent returns an event's guests in creation order.
func (r *GuestRepository) ListGuestsByEvent(ctx context.Context, eventID string) ([]application.Guest, error) {
	rows, err := r.db.db.QueryContext(ctx,
		`SELECT `+guestColumns+` FROM guests WHERE event_id = ? ORDER BY created_at ASC, id ASC`, eventID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var guests []application.Guest
	for rows.Next() {
		guest, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		guests = append(guests, guest)
	}
	return guests, rows.Err()
}

// MarkGuestsInvited flips the listed guests to INVITED and stamps invited_at
// in one transaction.
func (r *GuestRepository) MarkGuestsInvited(ctx context.Context, eventID string, guestIDs []string, invitedAt time.Time) error {
	if len(guestIDs) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(guestIDs)), ", ")
	query := fmt.Sprintf(`UPDATE guests
		SET status = ?, invited_at = ?, updated_at = ?
		WHERE event_id = ? AND id IN (%s)`, placeholders)

	args := make([]any, 0, len(guestIDs)+4)
	args = append(args, string(application.GuestStatusInvited), formatTime(invitedAt), formatTime(invitedAt), eventID)
	for _, id := range guestIDs {
		args = append(args, id)
	}

	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return mapError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected != int64(len(guestIDs)) {
			return fmt.Errorf("expected %d guests updated, got %d: %w", len(guestIDs), affected, application.ErrNotFound)
		}
		return nil
	})
}

func scanGuest(row rowScanner) (application.Guest, error) {
	var guest application.Guest
	var status, createdStr, updatedStr string
	var invitedAt, respondedAt sql.NullString

	err := row.Scan(
		&guest.ID, &guest.EventID, &guest.Name, &guest.Email, &guest.Phone,
		&status, &guest.Response,
		&guest.PlusOnes, &guest.Adults, &guest.Children,
		&invitedAt, &respondedAt, &createdStr, &updatedStr,
	)
	if err != nil {
		return application.Guest{}, mapError(err)
	}

	guest.Status = application.GuestStatus(status)
	if guest.InvitedAt, err = parseNullableTime(invitedAt); err != nil {
		return application.Guest{}, err
	}
	if guest.RespondedAt, err = parseNullableTime(respondedAt); err != nil {
		return application.Guest{}, err
	}
	if guest.CreatedAt, err = parseTime(createdStr); err != nil {
		return application.Guest{}, err
	}
	if guest.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return application.Guest{}, err
	}

	return guest, nil
}
