package user

import (
	"net/mail"
	"strings"
	"time"

	"github.com/wirasatya/business-management/internal"
	"github.com/wirasatya/business-management/internal/rbac"
)

type CreateInvitationDTO struct {
	Email      string   `json:"email"`
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	Department string   `json:"department,omitempty"`
	Skills     []string `json:"skills,omitempty"`
}

func (d CreateInvitationDTO) Validate() error {
	if strings.TrimSpace(d.Email) == "" {
		return internal.NewValidationError("email is required", internal.ErrCodeValidationFailed)
	}
	if _, err := mail.ParseAddress(d.Email); err != nil {
		return internal.NewValidationError("email is not a valid address", internal.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(d.Name) == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if _, err := rbac.ParseRole(d.Role); err != nil {
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}
	return nil
}

type AcceptInvitationDTO struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

func (d AcceptInvitationDTO) Validate() error {
	if strings.TrimSpace(d.Email) == "" || strings.TrimSpace(d.Token) == "" {
		return internal.NewValidationError("email and token are required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateRoleDTO struct {
	Role string `json:"role"`
}

// UserResponse is the wire shape for user rows. The invitation token is only
// included on invitation management responses, never on listings.
type UserResponse struct {
	ID                 int64     `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Role               rbac.Role `json:"role"`
	Department         string    `json:"department,omitempty"`
	Skills             []string  `json:"skills,omitempty"`
	InvitationAccepted bool      `json:"invitation_accepted"`
	CreatedAt          time.Time `json:"created_at"`
}

// InvitationResponse additionally exposes the token so an admin can deliver
// it out-of-band.
type InvitationResponse struct {
	UserResponse
	InvitationToken string `json:"invitation_token"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		Role:               u.Role,
		Department:         u.Department,
		Skills:             u.Skills,
		InvitationAccepted: u.InvitationAccepted,
		CreatedAt:          u.CreatedAt,
	}
}

func ToInvitationResponse(u *User) InvitationResponse {
	resp := InvitationResponse{UserResponse: ToUserResponse(u)}
	if u.InvitationToken != nil {
		resp.InvitationToken = *u.InvitationToken
	}
	return resp
}
