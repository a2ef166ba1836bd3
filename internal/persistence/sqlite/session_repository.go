package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/event-invitations/internal/application"
)

// SessionRepository implements application.SessionRepository over SQLite.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository binds a session repository to the database.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, host_id, token, expires_at, created_at, updated_at, revoked_at`

// CreateSession inserts a newly issued session.
func (r *SessionRepository) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	query := `INSERT INTO sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.db.ExecContext(ctx, query,
		session.ID, session.HostID, session.Token,
		formatTime(session.ExpiresAt), formatTime(session.CreatedAt), formatTime(session.UpdatedAt),
		formatNullableTime(session.RevokedAt),
	)
	if err != nil {
		return application.Session{}, mapError(err)
	}
	return session, nil
}

// GetSession retrieves a session by its token.
func (r *SessionRepository) GetSession(ctx context.Context, token string) (application.Session, error) {
	row := r.db.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE token = ?`, token)
	return scanSession(row)
}

// RevokeSession stamps revoked_at on a session, returning the updated row.
func (r *SessionRepository) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	result, err := r.db.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = ?, updated_at = ? WHERE token = ? AND revoked_at IS NULL`,
		formatTime(revokedAt), formatTime(revokedAt), token,
	)
	if err != nil {
		return application.Session{}, mapError(err)
	}
	if err := requireRowAffected(result); err != nil {
		return application.Session{}, err
	}
	return r.GetSession(ctx, token)
}

// DeleteExpiredSessions prunes sessions past their expiry.
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	_, err := r.db.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, formatTime(reference))
	return mapError(err)
}

func scanSession(row rowScanner) (application.Session, error) {
	var session application.Session
	var expiresStr, createdStr, updatedStr string
	var revokedAt sql.NullString

	err := row.Scan(
		&session.ID, &session.HostID, &session.Token,
		&expiresStr, &createdStr, &updatedStr, &revokedAt,
	)
	if err != nil {
		return application.Session{}, mapError(err)
	}

	if session.ExpiresAt, err = parseTime(expiresStr); err != nil {
		return application.Session{}, err
	}
	if session.CreatedAt, err = parseTime(createdStr); err != nil {
		return application.Session{}, err
	}
	if session.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return application.Session{}, err
	}
	if session.RevokedAt, err = parseNullableTime(revokedAt); err != nil {
		return application.Session{}, err
	}
	return session, nil
}
