package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/wirasatya/business-management/internal"
)

// Repository is the persistence contract for session records. GetByToken
// returns (nil, nil) for an unknown token; the batch operations report rows
// affected so callers can surface counts.
type Repository interface {
	GetByToken(ctx context.Context, token string) (*Session, error)
	Create(ctx context.Context, sess *Session) error
	Update(ctx context.Context, sess *Session) error
	TouchActivity(ctx context.Context, token string, at time.Time) (bool, error)
	Deactivate(ctx context.Context, token string) error
	ListActiveByUser(ctx context.Context, userID string) ([]*Session, error)
	DeactivateOthers(ctx context.Context, userID, keepToken string) (int64, error)
	DeactivateAll(ctx context.Context, userID string) (int64, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// Service implements the session lifecycle: upsert-by-token tracking with a
// sliding TTL, activity pings, lazy expiry on reads, self-service revocation
// and the batch sweep. Every operation is a short single-pass lookup or a
// small batch update, safe to retry.
type Service struct {
	repo       Repository
	defaultTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo Repository, defaultTTL time.Duration, logger *slog.Logger) *Service {
	if defaultTTL <= 0 {
		defaultTTL = internal.DefaultSessionTTL
	}
	return &Service{
		repo:       repo,
		defaultTTL: defaultTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// TrackSession upserts the session record for token. A known token is
// treated as a continuation: metadata is refreshed and the expiry slides to
// now+ttl. Concurrent calls for one token converge last-writer-wins.
func (s *Service) TrackSession(ctx context.Context, userID, token, ip, userAgent string, geo *Geolocation, ttl time.Duration) (*Session, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := s.now()

	existing, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, internal.NewInternalError("failed to load session", err)
	}

	if existing != nil {
		existing.UserID = userID
		existing.IPAddress = ip
		existing.UserAgent = userAgent
		existing.Device = ClassifyDevice(userAgent)
		existing.Geolocation = geo
		existing.LastActivityAt = now
		existing.ExpiresAt = now.Add(ttl)
		existing.IsActive = true

		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, internal.NewInternalError("failed to update session", err)
		}
		return existing, nil
	}

	sess := &Session{
		UserID:         userID,
		SessionToken:   token,
		IPAddress:      ip,
		UserAgent:      userAgent,
		Device:         ClassifyDevice(userAgent),
		Geolocation:    geo,
		CreatedAt:      now,
		LastActivityAt: now,
		ExpiresAt:      now.Add(ttl),
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, internal.NewInternalError("failed to create session", err)
	}

	s.logger.Info("session tracked",
		"user_id", userID,
		"device_type", sess.Device.Type,
		"expires_at", sess.ExpiresAt)

	return sess, nil
}

// UpdateSessionActivity touches last_activity_at only; the expiry does not
// slide. An unknown token is a silent no-op because activity pings are
// best-effort telemetry.
func (s *Service) UpdateSessionActivity(ctx context.Context, token string) error {
	found, err := s.repo.TouchActivity(ctx, token, s.now())
	if err != nil {
		return internal.NewInternalError("failed to update session activity", err)
	}
	if !found {
		s.logger.Debug("activity ping for unknown session token")
	}
	return nil
}

// GetSessionByToken is the authoritative validity check used by request
// middleware. It returns (nil, nil) for absent, revoked or expired sessions.
// Not read-only: an expired record still flagged active is flipped inactive
// before returning nil.
func (s *Service) GetSessionByToken(ctx context.Context, token string) (*Session, error) {
	sess, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, internal.NewInternalError("failed to load session", err)
	}
	if sess == nil || !sess.IsActive {
		return nil, nil
	}

	if sess.Expired(s.now()) {
		// lazy expiry sweep
		if err := s.repo.Deactivate(ctx, token); err != nil {
			s.logger.Error("failed to flip expired session inactive", "error", err)
		}
		return nil, nil
	}

	return sess, nil
}

// GetActiveSessions lists the genuinely active sessions of one user, lazily
// flipping any fetched record found expired-but-flagged-active.
func (s *Service) GetActiveSessions(ctx context.Context, userID string) ([]*Session, error) {
	sessions, err := s.repo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list sessions", err)
	}

	now := s.now()
	active := make([]*Session, 0, len(sessions))
	for _, sess := range sessions {
		if sess.Expired(now) {
			if err := s.repo.Deactivate(ctx, sess.SessionToken); err != nil {
				s.logger.Error("failed to flip expired session inactive", "error", err, "user_id", userID)
			}
			continue
		}
		active = append(active, sess)
	}
	return active, nil
}

// RevokeSession flips one session inactive. Only the owning user may revoke
// through this entry point; admin-initiated revocation of another identity's
// session is deliberately not offered here.
func (s *Service) RevokeSession(ctx context.Context, token, requestingUserID string) error {
	sess, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return internal.NewInternalError("failed to load session", err)
	}
	if sess == nil {
		return internal.ErrSessionNotFound
	}
	if sess.UserID != requestingUserID {
		s.logger.Warn("session revoke denied: not the session owner",
			"requesting_user_id", requestingUserID,
			"session_user_id", sess.UserID)
		return internal.ErrSessionRevokeDenied
	}

	if err := s.repo.Deactivate(ctx, token); err != nil {
		return internal.NewInternalError("failed to revoke session", err)
	}

	s.logger.Info("session revoked", "user_id", requestingUserID)
	return nil
}

// RevokeOtherSessions flips every active session of userID except
// currentToken, returning the count revoked. Backs "log out all other
// devices".
func (s *Service) RevokeOtherSessions(ctx context.Context, userID, currentToken string) (int64, error) {
	count, err := s.repo.DeactivateOthers(ctx, userID, currentToken)
	if err != nil {
		return 0, internal.NewInternalError("failed to revoke other sessions", err)
	}

	s.logger.Info("other sessions revoked", "user_id", userID, "count", count)
	return count, nil
}

// RevokeAllSessions flips every active session of userID inactive, the
// current one included, returning the count.
func (s *Service) RevokeAllSessions(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.DeactivateAll(ctx, userID)
	if err != nil {
		return 0, internal.NewInternalError("failed to revoke sessions", err)
	}

	s.logger.Info("all sessions revoked", "user_id", userID, "count", count)
	return count, nil
}

// CleanupExpiredSessions is the batch sweep: every active session past its
// expiry is flipped inactive. Run from the sweep scheduler.
func (s *Service) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	count, err := s.repo.DeactivateExpired(ctx, s.now())
	if err != nil {
		return 0, internal.NewInternalError("failed to sweep expired sessions", err)
	}

	if count > 0 {
		s.logger.Info("expired sessions cleaned", "count", count)
	}
	return count, nil
}
