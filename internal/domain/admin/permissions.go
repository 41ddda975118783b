package admin

// Permission represents an admin panel permission
type Permission string

const (
	PermViewDashboard  Permission = "dashboard.view"
	PermViewOfficers   Permission = "officers.view"
	PermManageOfficers Permission = "officers.manage"
	PermGrantCredits   Permission = "credits.grant"
	PermViewLedger     Permission = "credits.view"
	PermViewQueries    Permission = "queries.view"
	PermReviewQueries  Permission = "queries.review"
	PermManageAdmins   Permission = "admins.manage"
)

// RolePermissions maps roles to their permissions. Moderators are
// read-only plus query review; admins hold everything.
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermViewDashboard,
		PermViewOfficers, PermManageOfficers,
		PermGrantCredits, PermViewLedger,
		PermViewQueries, PermReviewQueries,
		PermManageAdmins,
	},
	RoleModerator: {
		PermViewDashboard,
		PermViewOfficers,
		PermViewLedger,
		PermViewQueries, PermReviewQueries,
	},
}

// HasPermission reports whether the role carries the permission.
func HasPermission(role Role, perm Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}
