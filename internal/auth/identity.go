package auth

import (
	"context"

	"github.com/wirasatya/business-management/internal/rbac"
)

// Identity is the resolved authenticated caller: the external provider's
// id/email merged with the locally authoritative role. It lives for one
// request only and is never persisted.
type Identity struct {
	ID    string    `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Role  rbac.Role `json:"role"`
}

func (i *Identity) IsAdmin() bool {
	return i.Role == rbac.RoleAdmin
}

// HasPermission checks the identity's role against the permission catalog.
func (i *Identity) HasPermission(permission rbac.Permission) bool {
	return rbac.HasPermission(i.Role, permission)
}

type ctxKey string

const contextIdentityKey ctxKey = "identity"

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(contextIdentityKey).(*Identity)
	return identity, ok
}

func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, contextIdentityKey, identity)
}
