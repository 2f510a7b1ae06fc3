package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wirasatya/business-management/internal"
	"github.com/wirasatya/business-management/internal/rbac"
)

// Guard composes the resolver and the permission catalog into the failable
// checks services call before touching storage. Every check fails fast and
// returns the resolved identity on success.
type Guard struct {
	resolver *Resolver
	logger   *slog.Logger
}

func NewGuard(resolver *Resolver, logger *slog.Logger) *Guard {
	return &Guard{
		resolver: resolver,
		logger:   logger,
	}
}

// RequireAuth resolves the calling identity or fails unauthenticated.
func (g *Guard) RequireAuth(ctx context.Context) (*Identity, error) {
	return g.resolver.ResolveIdentity(ctx)
}

// RequirePermission fails forbidden when the resolved role lacks permission.
func (g *Guard) RequirePermission(ctx context.Context, permission rbac.Permission) (*Identity, error) {
	identity, err := g.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if !rbac.HasPermission(identity.Role, permission) {
		g.logger.Warn("access denied: missing permission",
			"user_id", identity.ID,
			"role", identity.Role,
			"permission", permission)
		return nil, permissionDenied(permission, identity.Role)
	}

	return identity, nil
}

// RequireRoleAtLeast fails forbidden when the resolved role ranks below role.
func (g *Guard) RequireRoleAtLeast(ctx context.Context, role rbac.Role) (*Identity, error) {
	identity, err := g.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if !rbac.HasRoleLevel(identity.Role, role) {
		g.logger.Warn("access denied: insufficient role",
			"user_id", identity.ID,
			"role", identity.Role,
			"required_role", role)
		return nil, internal.NewForbiddenError(
			fmt.Sprintf("role %s required, caller has %s", role, identity.Role),
			internal.ErrCodeInsufficientRole)
	}

	return identity, nil
}

// RequireOwnershipOrPermission grants access to admins, to the resource owner,
// and to callers who hold permission AND rank at least manager. Ownership
// always grants self-access; a member holding a narrow permission must not
// reach other users' private resources.
func (g *Guard) RequireOwnershipOrPermission(ctx context.Context, ownerID string, permission rbac.Permission) (*Identity, error) {
	identity, err := g.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if identity.IsAdmin() || identity.ID == ownerID {
		return identity, nil
	}

	if rbac.HasPermission(identity.Role, permission) && rbac.HasRoleLevel(identity.Role, rbac.RoleManager) {
		return identity, nil
	}

	g.logger.Warn("access denied: not owner and not privileged",
		"user_id", identity.ID,
		"role", identity.Role,
		"owner_id", ownerID,
		"permission", permission)
	return nil, internal.NewForbiddenError(
		"not the resource owner and missing elevated access",
		internal.ErrCodeNotResourceOwner)
}

// RequireTeamMemberOrPermission is the membership-in-set variant of
// RequireOwnershipOrPermission.
func (g *Guard) RequireTeamMemberOrPermission(ctx context.Context, teamIDs []string, permission rbac.Permission) (*Identity, error) {
	identity, err := g.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if identity.IsAdmin() {
		return identity, nil
	}

	for _, id := range teamIDs {
		if id == identity.ID {
			return identity, nil
		}
	}

	if rbac.HasPermission(identity.Role, permission) && rbac.HasRoleLevel(identity.Role, rbac.RoleManager) {
		return identity, nil
	}

	g.logger.Warn("access denied: not a team member and not privileged",
		"user_id", identity.ID,
		"role", identity.Role,
		"permission", permission)
	return nil, internal.NewForbiddenError(
		"not a team member and missing elevated access",
		internal.ErrCodeNotTeamMember)
}

// CheckPermission is the non-throwing probe for conditional logic: any
// failure, including an unauthenticated caller, reads as false.
func (g *Guard) CheckPermission(ctx context.Context, permission rbac.Permission) bool {
	_, err := g.RequirePermission(ctx, permission)
	return err == nil
}

func permissionDenied(permission rbac.Permission, role rbac.Role) *internal.AppError {
	return internal.NewForbiddenError(
		fmt.Sprintf("permission %s not granted to role %s", permission, role),
		internal.ErrCodeMissingPermission)
}
