package sqlite

import (
	"context"
	"strings"

	"github.com/example/event-invitations/internal/application"
)

// HostRepository implements application.HostRepository and
// application.CredentialStore over SQLite.
type HostRepository struct {
	db *DB
}

// NewHostRepository binds a host repository to the database.
func NewHostRepository(db *DB) *HostRepository {
	return &HostRepository{db: db}
}

// CreateHost inserts a new host account.
func (r *HostRepository) CreateHost(ctx context.Context, host application.Host, passwordHash string) (application.Host, error) {
	query := `INSERT INTO hosts (id, email, display_name, password_hash, disabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)`

	_, err := r.db.db.ExecContext(ctx, query,
		host.ID, strings.ToLower(strings.TrimSpace(host.Email)), host.DisplayName, passwordHash,
		formatTime(host.CreatedAt), formatTime(host.UpdatedAt),
	)
	if err != nil {
		return application.Host{}, mapError(err)
	}
	return host, nil
}

// GetHost retrieves a host by id.
func (r *HostRepository) GetHost(ctx context.Context, id string) (application.Host, error) {
	row := r.db.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, created_at, updated_at FROM hosts WHERE id = ?`, id)

	var host application.Host
	var createdStr, updatedStr string
	if err := row.Scan(&host.ID, &host.Email, &host.DisplayName, &createdStr, &updatedStr); err != nil {
		return application.Host{}, mapError(err)
	}

	var err error
	if host.CreatedAt, err = parseTime(createdStr); err != nil {
		return application.Host{}, err
	}
	if host.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return application.Host{}, err
	}
	return host, nil
}

// GetHostCredentialsByEmail retrieves a host and its authentication material
// by case-insensitive email.
func (r *HostRepository) GetHostCredentialsByEmail(ctx context.Context, email string) (application.HostCredentials, error) {
	row := r.db.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, password_hash, disabled, created_at, updated_at
		 FROM hosts WHERE email = ?`, strings.ToLower(strings.TrimSpace(email)))

	var creds application.HostCredentials
	var createdStr, updatedStr string
	if err := row.Scan(
		&creds.Host.ID, &creds.Host.Email, &creds.Host.DisplayName,
		&creds.PasswordHash, &creds.Disabled, &createdStr, &updatedStr,
	); err != nil {
		return application.HostCredentials{}, mapError(err)
	}

	var err error
	if creds.Host.CreatedAt, err = parseTime(createdStr); err != nil {
		return application.HostCredentials{}, err
	}
	if creds.Host.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return application.HostCredentials{}, err
	}
	return creds, nil
}
