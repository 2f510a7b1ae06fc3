package rbac

import "fmt"

// Role is the single role every identity carries. Roles form a total order
// used by HasRoleLevel; guest and viewer share the weakest rank.
type Role string

const (
	RoleGuest   Role = "guest"
	RoleViewer  Role = "viewer"
	RoleMember  Role = "member"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

var roleRanks = map[Role]int{
	RoleGuest:   0,
	RoleViewer:  0,
	RoleMember:  1,
	RoleManager: 2,
	RoleAdmin:   3,
}

// Rank returns the hierarchy rank of a role. Unknown roles rank below guest
// so a corrupted role value never gains access.
func Rank(role Role) int {
	if rank, ok := roleRanks[role]; ok {
		return rank
	}
	return -1
}

// HasRoleLevel reports whether role ranks at or above required.
func HasRoleLevel(role, required Role) bool {
	return Rank(role) >= Rank(required)
}

// IsValid reports whether role is one of the known role values.
func IsValid(role Role) bool {
	_, ok := roleRanks[role]
	return ok
}

// ParseRole validates a raw role string from storage or a request body.
func ParseRole(raw string) (Role, error) {
	role := Role(raw)
	if !IsValid(role) {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}

// Roles lists every known role, weakest first. Ordering between guest and
// viewer is arbitrary since they share a rank.
func Roles() []Role {
	return []Role{RoleGuest, RoleViewer, RoleMember, RoleManager, RoleAdmin}
}
