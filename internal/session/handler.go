package session

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/wirasatya/business-management/internal"
	"github.com/wirasatya/business-management/internal/auth"
	"github.com/wirasatya/business-management/internal/transport"
)

// Handler exposes the account-security surface: track on sign-in, list
// devices, revoke one/others/all. Every entry point resolves the caller
// through the guard; revocation is self-service only.
type Handler struct {
	*transport.BaseHandler
	service *Service
	guard   *auth.Guard
}

func NewHandler(service *Service, guard *auth.Guard) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		service:     service,
		guard:       guard,
	}
}

func (h *Handler) TrackSession(w http.ResponseWriter, r *http.Request) {
	identity, err := h.guard.RequireAuth(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	var dto TrackSessionDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	token := internal.SessionTokenFromContext(r.Context())
	sess, err := h.service.TrackSession(r.Context(), identity.ID, token, clientIP(r), r.UserAgent(), dto.Geolocation, 0)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sess)
}

func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	identity, err := h.guard.RequireAuth(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	sessions, err := h.service.GetActiveSessions(r.Context(), identity.ID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, SessionListResponse{Sessions: sessions})
}

func (h *Handler) RevokeSession(w http.ResponseWriter, r *http.Request) {
	identity, err := h.guard.RequireAuth(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	token := chi.URLParam(r, "token")
	if token == "" {
		h.WriteError(w, http.StatusBadRequest, "missing session token")
		return
	}

	if err := h.service.RevokeSession(r.Context(), token, identity.ID); err != nil {
		h.WriteAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RevokeOtherSessions(w http.ResponseWriter, r *http.Request) {
	identity, err := h.guard.RequireAuth(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	current := internal.SessionTokenFromContext(r.Context())
	count, err := h.service.RevokeOtherSessions(r.Context(), identity.ID, current)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, RevokeCountResponse{RevokedCount: count})
}

func (h *Handler) RevokeAllSessions(w http.ResponseWriter, r *http.Request) {
	identity, err := h.guard.RequireAuth(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	count, err := h.service.RevokeAllSessions(r.Context(), identity.ID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, RevokeCountResponse{RevokedCount: count})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
