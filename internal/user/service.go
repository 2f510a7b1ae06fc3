package user

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/wirasatya/business-management/internal"
	"github.com/wirasatya/business-management/internal/rbac"
)

// Repository is the persistence contract for the user mirror. Get methods
// return (nil, nil) when no row exists.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
}

// Service owns the invitation workflow and the user-role mirror.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// ValidationResult is the structured outcome of the pre-registration probe.
// It never carries a Go error: the registration form needs a displayable
// reason, not an exception.
type ValidationResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// CreateInvitation inserts a pending user row with a one-time token. The
// caller must already have passed the admin guard. Re-inviting an existing
// email is rejected; use RegenerateInvitation for a fresh token.
func (s *Service) CreateInvitation(ctx context.Context, dto CreateInvitationDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	email := normalizeEmail(dto.Email)
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, internal.NewInternalError("failed to look up user", err)
	}
	if existing != nil {
		return nil, internal.ErrUserAlreadyExists
	}

	token, err := s.generateInvitationToken()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate invitation token", err)
	}

	now := s.now()
	invited := &User{
		Email:              email,
		Name:               dto.Name,
		Role:               rbac.Role(dto.Role),
		Department:         dto.Department,
		Skills:             dto.Skills,
		InvitationToken:    &token,
		InvitationAccepted: false,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, invited); err != nil {
		return nil, internal.NewInternalError("failed to create invitation", err)
	}

	s.logger.Info("invitation created", "email", email, "role", invited.Role)
	return invited, nil
}

// ValidateInvitation is the read-only probe the registration UI calls before
// submitting a password. It always returns a structured result.
func (s *Service) ValidateInvitation(ctx context.Context, email, token string) ValidationResult {
	record, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		s.logger.Error("invitation validation lookup failed", "error", err)
		return ValidationResult{Valid: false, Error: "Unable to validate invitation"}
	}
	if record == nil {
		return ValidationResult{Valid: false, Error: "No invitation found for this email"}
	}
	if record.InvitationAccepted {
		return ValidationResult{Valid: false, Error: "Invitation already used"}
	}
	if record.InvitationToken == nil || *record.InvitationToken != token {
		return ValidationResult{Valid: false, Error: "Invalid invitation token"}
	}
	return ValidationResult{Valid: true, User: record}
}

// AcceptInvitation consumes the one-time token: accepted is terminal and the
// token is cleared so it can never validate again. Unlike the probe, this
// state-mutating call fails hard.
func (s *Service) AcceptInvitation(ctx context.Context, email, token string) (*User, error) {
	record, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, internal.NewInternalError("failed to look up invitation", err)
	}
	if record == nil {
		return nil, internal.ErrInvitationNotFound
	}
	if record.InvitationAccepted {
		return nil, internal.ErrInvitationAccepted
	}
	if record.InvitationToken == nil || *record.InvitationToken != token {
		return nil, internal.ErrInvalidInvitationToken
	}

	record.InvitationAccepted = true
	record.InvitationToken = nil
	record.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, internal.NewInternalError("failed to accept invitation", err)
	}

	s.logger.Info("invitation accepted", "email", record.Email, "role", record.Role)
	return record, nil
}

// RegenerateInvitation issues a fresh token for a still-pending user,
// permanently invalidating the old one.
func (s *Service) RegenerateInvitation(ctx context.Context, userID int64) (*User, error) {
	record, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to look up user", err)
	}
	if record == nil {
		return nil, internal.ErrInvitationNotFound
	}
	if record.InvitationAccepted {
		return nil, internal.ErrInvitationAccepted
	}

	token, err := s.generateInvitationToken()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate invitation token", err)
	}
	record.InvitationToken = &token
	record.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, internal.NewInternalError("failed to regenerate invitation", err)
	}

	s.logger.Info("invitation regenerated", "email", record.Email)
	return record, nil
}

// CancelInvitation deletes a pending user row outright. A completed
// registration cannot be cancelled.
func (s *Service) CancelInvitation(ctx context.Context, userID int64) error {
	record, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return internal.NewInternalError("failed to look up user", err)
	}
	if record == nil {
		return internal.ErrInvitationNotFound
	}
	if record.InvitationAccepted {
		return internal.ErrInvitationAccepted
	}

	if err := s.repo.Delete(ctx, record.ID); err != nil {
		return internal.NewInternalError("failed to cancel invitation", err)
	}

	s.logger.Info("invitation cancelled", "email", record.Email)
	return nil
}

// GetByEmail returns the mirror row for an email, or (nil, nil).
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.GetByEmail(ctx, normalizeEmail(email))
}

// GetByID returns the mirror row for an id, or (nil, nil).
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateRole changes a user's role. Role changes are administrative acts;
// the handler guards this with team.manage.
func (s *Service) UpdateRole(ctx context.Context, userID int64, role rbac.Role) (*User, error) {
	if !rbac.IsValid(role) {
		return nil, internal.NewValidationError(fmt.Sprintf("unknown role %q", role), internal.ErrCodeValidationFailed)
	}

	record, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to look up user", err)
	}
	if record == nil {
		return nil, internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	}

	record.Role = role
	record.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, internal.NewInternalError("failed to update role", err)
	}

	s.logger.Info("user role updated", "email", record.Email, "role", role)
	return record, nil
}

// BootstrapAdmin creates a ready-to-use admin row for local development.
// The server only exposes it when dev bootstrap is enabled in config; it is
// idempotent so repeated calls return the same row.
func (s *Service) BootstrapAdmin(ctx context.Context, email, name string) (*User, error) {
	email = normalizeEmail(email)
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, internal.NewInternalError("failed to look up user", err)
	}
	if existing != nil {
		return existing, nil
	}

	now := s.now()
	admin := &User{
		Email:              email,
		Name:               name,
		Role:               rbac.RoleAdmin,
		InvitationAccepted: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return nil, internal.NewInternalError("failed to create bootstrap admin", err)
	}

	s.logger.Warn("bootstrap admin created", "email", email)
	return admin, nil
}

// generateInvitationToken keeps the legacy base36(millis)-suffix format but
// draws the suffix from crypto/rand. Tokens are single-use and delivered
// out-of-band.
func (s *Service) generateInvitationToken() (string, error) {
	const suffixLen = 10
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

	suffix := make([]byte, suffixLen)
	max := big.NewInt(int64(len(alphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		suffix[i] = alphabet[n.Int64()]
	}

	return strconv.FormatInt(s.now().UnixMilli(), 36) + "-" + string(suffix), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
