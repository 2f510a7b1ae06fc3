package user

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/wirasatya/business-management/internal/auth"
	"github.com/wirasatya/business-management/internal/rbac"
	"github.com/wirasatya/business-management/internal/transport"
)

// Handler exposes the invitation workflow. Creating, regenerating and
// cancelling invitations is admin-only; validation and acceptance are public
// because the invitee has no session yet.
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

func (h *Handler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	if _, err := h.guard.RequirePermission(r.Context(), rbac.PermUsersInvite); err != nil {
		h.WriteAppError(w, err)
		return
	}

	var dto CreateInvitationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	invited, err := h.service.CreateInvitation(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, ToInvitationResponse(invited))
}

func (h *Handler) ValidateInvitation(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	token := r.URL.Query().Get("token")
	if email == "" || token == "" {
		h.WriteError(w, http.StatusBadRequest, "email and token are required")
		return
	}

	result := h.service.ValidateInvitation(r.Context(), email, token)
	if result.User != nil {
		// Never leak the full row, the invitee just needs to prefill the form.
		result.User = &User{Email: result.User.Email, Name: result.User.Name, Role: result.User.Role}
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	var dto AcceptInvitationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteAppError(w, err)
		return
	}

	accepted, err := h.service.AcceptInvitation(r.Context(), dto.Email, dto.Token)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToUserResponse(accepted))
}

func (h *Handler) RegenerateInvitation(w http.ResponseWriter, r *http.Request) {
	if _, err := h.guard.RequirePermission(r.Context(), rbac.PermUsersInvite); err != nil {
		h.WriteAppError(w, err)
		return
	}

	userID, err := h.userIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	regenerated, err := h.service.RegenerateInvitation(r.Context(), userID)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToInvitationResponse(regenerated))
}

func (h *Handler) CancelInvitation(w http.ResponseWriter, r *http.Request) {
	if _, err := h.guard.RequirePermission(r.Context(), rbac.PermUsersInvite); err != nil {
		h.WriteAppError(w, err)
		return
	}

	userID, err := h.userIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.service.CancelInvitation(r.Context(), userID); err != nil {
		h.WriteAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	if _, err := h.guard.RequirePermission(r.Context(), rbac.PermTeamManage); err != nil {
		h.WriteAppError(w, err)
		return
	}

	userID, err := h.userIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var dto UpdateRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.service.UpdateRole(r.Context(), userID, rbac.Role(dto.Role))
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToUserResponse(updated))
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := h.guard.RequireAuth(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	record, err := h.service.GetByEmail(r.Context(), identity.Email)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	if record == nil {
		h.WriteError(w, http.StatusNotFound, "user not found")
		return
	}

	h.WriteJSON(w, http.StatusOK, struct {
		UserResponse
		Permissions []rbac.Permission `json:"permissions"`
	}{
		UserResponse: ToUserResponse(record),
		Permissions:  rbac.Permissions(record.Role),
	})
}

// BootstrapAdmin is mounted only when dev bootstrap is enabled in config.
func (h *Handler) BootstrapAdmin(w http.ResponseWriter, r *http.Request) {
	var dto struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil || dto.Email == "" {
		h.WriteError(w, http.StatusBadRequest, "email is required")
		return
	}

	admin, err := h.service.BootstrapAdmin(r.Context(), dto.Email, dto.Name)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ToUserResponse(admin))
}

func (h *Handler) userIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
