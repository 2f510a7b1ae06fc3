package rbac

import "fmt"

// Permission is a closed string key checked against the static catalog.
type Permission string

const (
	PermProjectsView   Permission = "projects.view"
	PermProjectsCreate Permission = "projects.create"
	PermProjectsEdit   Permission = "projects.edit"
	PermProjectsDelete Permission = "projects.delete"

	PermFinanceView   Permission = "finance.view"
	PermFinanceCreate Permission = "finance.create"
	PermFinanceEdit   Permission = "finance.edit"
	PermFinanceDelete Permission = "finance.delete"

	PermTasksView   Permission = "tasks.view"
	PermTasksCreate Permission = "tasks.create"
	PermTasksEdit   Permission = "tasks.edit"
	PermTasksDelete Permission = "tasks.delete"

	PermScheduleView Permission = "schedule.view"
	PermScheduleEdit Permission = "schedule.edit"

	PermTeamView   Permission = "team.view"
	PermTeamManage Permission = "team.manage"

	PermUsersInvite    Permission = "users.invite"
	PermReportsView    Permission = "reports.view"
	PermSettingsManage Permission = "settings.manage"
)

// catalog maps each permission to the exact set of roles allowed to exercise
// it. This is a lookup table, not a hierarchy: delete and finance-edit
// permissions stay admin-only even though manager outranks member.
var catalog = map[Permission][]Role{
	PermProjectsView:   {RoleGuest, RoleViewer, RoleMember, RoleManager, RoleAdmin},
	PermProjectsCreate: {RoleMember, RoleManager, RoleAdmin},
	PermProjectsEdit:   {RoleMember, RoleManager, RoleAdmin},
	PermProjectsDelete: {RoleAdmin},

	PermFinanceView:   {RoleManager, RoleAdmin},
	PermFinanceCreate: {RoleMember, RoleManager, RoleAdmin},
	PermFinanceEdit:   {RoleAdmin},
	PermFinanceDelete: {RoleAdmin},

	PermTasksView:   {RoleGuest, RoleViewer, RoleMember, RoleManager, RoleAdmin},
	PermTasksCreate: {RoleMember, RoleManager, RoleAdmin},
	PermTasksEdit:   {RoleMember, RoleManager, RoleAdmin},
	PermTasksDelete: {RoleManager, RoleAdmin},

	PermScheduleView: {RoleGuest, RoleViewer, RoleMember, RoleManager, RoleAdmin},
	PermScheduleEdit: {RoleMember, RoleManager, RoleAdmin},

	PermTeamView:   {RoleGuest, RoleViewer, RoleMember, RoleManager, RoleAdmin},
	PermTeamManage: {RoleAdmin},

	PermUsersInvite:    {RoleAdmin},
	PermReportsView:    {RoleManager, RoleAdmin},
	PermSettingsManage: {RoleAdmin},
}

func init() {
	if err := validateCatalog(); err != nil {
		panic(err)
	}
}

// validateCatalog enforces the startup invariants: every permission has a
// non-empty allowed-role set and every listed role is a known role.
func validateCatalog() error {
	for perm, roles := range catalog {
		if len(roles) == 0 {
			return fmt.Errorf("rbac: permission %q has no allowed roles", perm)
		}
		for _, role := range roles {
			if !IsValid(role) {
				return fmt.Errorf("rbac: permission %q lists unknown role %q", perm, role)
			}
		}
	}
	return nil
}

// HasPermission reports whether role appears in the allowed-role set for
// permission. It panics on an unknown permission key: the catalog is closed
// at process start, so an unknown key is a programming error at the call
// site and must not silently deny.
func HasPermission(role Role, permission Permission) bool {
	roles, ok := catalog[permission]
	if !ok {
		panic(fmt.Sprintf("rbac: unknown permission %q", permission))
	}
	for _, allowed := range roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Permissions returns every permission a role holds, used by the /users/me
// surface so clients can build conditional UI without probing one by one.
func Permissions(role Role) []Permission {
	var perms []Permission
	for perm, roles := range catalog {
		for _, allowed := range roles {
			if allowed == role {
				perms = append(perms, perm)
				break
			}
		}
	}
	return perms
}
