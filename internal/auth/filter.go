package auth

import "github.com/wirasatya/business-management/internal/rbac"

// Resource is anything carrying an owning identity and an optional team set.
type Resource interface {
	OwnerID() string
	MemberIDs() []string
}

// FilterAccessible narrows a resource list to what identity may see. Admins,
// and managers holding permission, see everything; everyone else sees only
// rows they own or are a team member of. Guards decide whether the query may
// run at all; this decides which rows come back, and it never errors.
// Filtering an already-filtered list is a no-op.
func FilterAccessible[T Resource](identity *Identity, resources []T, permission rbac.Permission) []T {
	if identity.IsAdmin() {
		return resources
	}
	if identity.Role == rbac.RoleManager && rbac.HasPermission(rbac.RoleManager, permission) {
		return resources
	}

	visible := make([]T, 0, len(resources))
	for _, res := range resources {
		if res.OwnerID() == identity.ID {
			visible = append(visible, res)
			continue
		}
		for _, member := range res.MemberIDs() {
			if member == identity.ID {
				visible = append(visible, res)
				break
			}
		}
	}
	return visible
}
