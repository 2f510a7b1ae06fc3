package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/wirasatya/business-management/internal/session"
	"gorm.io/gorm"
)

// SessionRepository implements session.Repository using GORM.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) session.Repository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*session.Session, error) {
	var sess session.Session
	err := r.db.WithContext(ctx).Where("session_token = ?", token).First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sess, nil
}

func (r *SessionRepository) Create(ctx context.Context, sess *session.Session) error {
	return r.db.WithContext(ctx).Create(sess).Error
}

func (r *SessionRepository) Update(ctx context.Context, sess *session.Session) error {
	return r.db.WithContext(ctx).Save(sess).Error
}

func (r *SessionRepository) TouchActivity(ctx context.Context, token string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&session.Session{}).
		Where("session_token = ?", token).
		Update("last_activity_at", at)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *SessionRepository) Deactivate(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Model(&session.Session{}).
		Where("session_token = ?", token).
		Update("is_active", false).Error
}

func (r *SessionRepository) ListActiveByUser(ctx context.Context, userID string) ([]*session.Session, error) {
	var sessions []*session.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("last_activity_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) DeactivateOthers(ctx context.Context, userID, keepToken string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&session.Session{}).
		Where("user_id = ? AND is_active = ? AND session_token <> ?", userID, true, keepToken).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

func (r *SessionRepository) DeactivateAll(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&session.Session{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

func (r *SessionRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&session.Session{}).
		Where("is_active = ? AND expires_at <= ?", true, now).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}
