package auth

import (
	"context"
	"log/slog"

	"github.com/wirasatya/business-management/internal"
	"github.com/wirasatya/business-management/internal/rbac"
)

// DirectoryUser is the locally mirrored slice of a user record the resolver
// needs: the authoritative role plus display data.
type DirectoryUser struct {
	Name string
	Role rbac.Role
}

// UserDirectory reads the application's user-role mirror. Implementations
// return (nil, nil) when no record exists for the email.
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (*DirectoryUser, error)
}

// Resolver merges the external provider's identity with the local role
// mirror. It holds no per-request state and never caches: a role change is
// visible on the very next request.
type Resolver struct {
	provider IdentityProvider
	users    UserDirectory
	logger   *slog.Logger
}

func NewResolver(provider IdentityProvider, users UserDirectory, logger *slog.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		users:    users,
		logger:   logger,
	}
}

// ResolveIdentity returns the calling identity or an unauthenticated error.
// A provider-authenticated email without a local user record is fatal to the
// call: such a caller has no role and therefore no access.
func (r *Resolver) ResolveIdentity(ctx context.Context) (*Identity, error) {
	external, err := r.provider.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	record, err := r.users.GetByEmail(ctx, external.Email)
	if err != nil {
		r.logger.Error("identity resolution: user directory lookup failed", "email", external.Email, "error", err)
		return nil, internal.NewInternalError("failed to look up user record", err)
	}
	if record == nil {
		r.logger.Warn("identity resolution: no user record for authenticated email", "email", external.Email)
		return nil, internal.ErrUserNotFound
	}

	return &Identity{
		ID:    external.ID,
		Email: external.Email,
		Name:  record.Name,
		Role:  record.Role,
	}, nil
}
