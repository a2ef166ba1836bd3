package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
)

// HostRepository captures the persistence operations for host accounts.
type HostRepository interface {
	CreateHost(ctx context.Context, host Host, passwordHash string) (Host, error)
	GetHost(ctx context.Context, id string) (Host, error)
}

// PasswordHasher derives a storable hash from a plaintext password.
type PasswordHasher func(password string) (string, error)

const minPasswordLength = 8

// HostService manages host account registration and profile lookup.
type HostService struct {
	hosts        HostRepository
	hashPassword PasswordHasher
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewHostService constructs a HostService with the provided dependencies.
func NewHostService(hosts HostRepository, hash PasswordHasher, idGenerator func() string, now func() time.Time) *HostService {
	return NewHostServiceWithLogger(hosts, hash, idGenerator, now, nil)
}

// NewHostServiceWithLogger constructs a HostService with a specified logger.
func NewHostServiceWithLogger(hosts HostRepository, hash PasswordHasher, idGenerator func() string, now func() time.Time, logger *slog.Logger) *HostService {
	if hash == nil {
		hash = func(password string) (string, error) {
			return CreatePasswordHash(password, DefaultArgon2idParams)
		}
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &HostService{
		hosts:        hosts,
		hashPassword: hash,
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *HostService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "HostService", operation, attrs...)
}

// RegisterHost validates the submitted account details, hashes the password,
// and persists a new host. The email acts as the login identity and must be
// unique across hosts.
func (s *HostService) RegisterHost(ctx context.Context, params RegisterHostParams) (Host, error) {
	if s == nil || s.hosts == nil {
		return Host{}, fmt.Errorf("host service not configured")
	}

	normalized := normalizeHostInput(params.Input)
	if vErr := validateHostInput(normalized); vErr.HasErrors() {
		return Host{}, vErr
	}

	passwordHash, err := s.hashPassword(normalized.Password)
	if err != nil {
		s.loggerWith(ctx, "RegisterHost", "email", normalized.Email).
			ErrorContext(ctx, "password hashing failed", "error", err)
		return Host{}, err
	}

	now := s.now()
	host := Host{
		ID:          s.idGenerator(),
		Email:       normalized.Email,
		DisplayName: normalized.DisplayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	persisted, err := s.hosts.CreateHost(ctx, host, passwordHash)
	if err != nil {
		s.loggerWith(ctx, "RegisterHost", "email", normalized.Email).
			ErrorContext(ctx, "host registration failed", "error", err, "error_kind", ErrorKind(err))
		return Host{}, err
	}

	s.loggerWith(ctx, "RegisterHost", "host_id", persisted.ID).
		InfoContext(ctx, "host registered")
	return persisted, nil
}

// Profile returns the account record of the acting host.
func (s *HostService) Profile(ctx context.Context, principal Principal) (Host, error) {
	if s == nil || s.hosts == nil {
		return Host{}, fmt.Errorf("host service not configured")
	}
	return s.hosts.GetHost(ctx, principal.HostID)
}

func normalizeHostInput(input HostInput) HostInput {
	normalized := input
	normalized.Email = strings.ToLower(strings.TrimSpace(input.Email))
	normalized.DisplayName = strings.TrimSpace(input.DisplayName)
	return normalized
}

func validateHostInput(input HostInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		vErr.add("email", "email is invalid")
	}

	if input.DisplayName == "" {
		vErr.add("display_name", "display name is required")
	}

	if input.Password == "" {
		vErr.add("password", "password is required")
	} else if len(input.Password) < minPasswordLength {
		vErr.add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	return vErr
}
