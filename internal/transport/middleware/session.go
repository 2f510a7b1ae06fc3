package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/wirasatya/business-management/internal"
	"github.com/wirasatya/business-management/internal/session"
	"github.com/wirasatya/business-management/pkg/logger"
)

// SessionValidator is what the middleware needs from the session service:
// an authoritative liveness check and a best-effort activity touch.
type SessionValidator interface {
	GetSessionByToken(ctx context.Context, token string) (*session.Session, error)
	UpdateSessionActivity(ctx context.Context, token string) error
}

// SessionMiddleware gates protected routes on a live tracked session. The
// token travels as a Bearer header or the session cookie; a missing, revoked
// or expired session ends the request with 401 and clears the cookie so the
// client stops replaying a dead token.
type SessionMiddleware struct {
	sessions   SessionValidator
	cookieName string
	logger     *slog.Logger
}

func NewSessionMiddleware(sessions SessionValidator, cookieName string, lg *slog.Logger) *SessionMiddleware {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &SessionMiddleware{
		sessions:   sessions,
		cookieName: cookieName,
		logger:     lg,
	}
}

func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.extractToken(r)
		if token == "" {
			m.unauthorized(w, "authentication required")
			return
		}

		sess, err := m.sessions.GetSessionByToken(r.Context(), token)
		if err != nil {
			m.logger.Error("session validation failed", "error", err)
			m.unauthorized(w, "authentication required")
			return
		}
		if sess == nil {
			m.clearCookie(w)
			m.unauthorized(w, "session expired or revoked")
			return
		}

		ctx := internal.ContextWithSessionToken(r.Context(), token)
		ctx = logger.With(ctx, "userID", sess.UserID)

		// Touch is advisory: a failed write must not fail the request.
		if err := m.sessions.UpdateSessionActivity(ctx, token); err != nil {
			m.logger.Warn("session activity touch failed", "error", err)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AttachToken puts the raw token into the context without requiring a
// tracked session. Sign-in uses this: the provider token is valid but the
// session row does not exist until TrackSession records it.
func (m *SessionMiddleware) AttachToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := m.extractToken(r); token != "" {
			r = r.WithContext(internal.ContextWithSessionToken(r.Context(), token))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *SessionMiddleware) extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if cookie, err := r.Cookie(m.cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (m *SessionMiddleware) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *SessionMiddleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    http.StatusUnauthorized,
		"message": message,
	})
}
