package user

import (
	"time"

	"github.com/wirasatya/business-management/internal/rbac"
)

// User is one row of the local user-role mirror. A row with an unaccepted
// invitation is a pending identity; acceptance clears the token and flips
// the flag, after which the row is a plain user record.
type User struct {
	ID                 int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Email              string    `json:"email" gorm:"column:email;uniqueIndex;not null"`
	Name               string    `json:"name" gorm:"column:name"`
	Role               rbac.Role `json:"role" gorm:"column:role;not null"`
	Department         string    `json:"department" gorm:"column:department"`
	Skills             []string  `json:"skills" gorm:"column:skills;serializer:json"`
	InvitationToken    *string   `json:"-" gorm:"column:invitation_token"`
	InvitationAccepted bool      `json:"invitation_accepted" gorm:"column:invitation_accepted"`
	CreatedAt          time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt          time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Pending reports whether the row is still an outstanding invitation.
func (u *User) Pending() bool {
	return !u.InvitationAccepted
}
