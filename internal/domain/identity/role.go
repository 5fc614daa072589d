package identity

// Role is the closed set of business roles. Route access is decided by
// comparing the authenticated role against a per-route permitted list.
type Role string

const (
	RoleCEO        Role = "ceo"
	RoleManager    Role = "manager"
	RoleSupervisor Role = "supervisor"
	RoleHR         Role = "hr"
	RoleSupport    Role = "support"
	RoleAgent      Role = "agent"
	RoleClient     Role = "client"
)

// AllRoles returns every valid role
func AllRoles() []Role {
	return []Role{
		RoleCEO,
		RoleManager,
		RoleSupervisor,
		RoleHR,
		RoleSupport,
		RoleAgent,
		RoleClient,
	}
}

// IsValidRole reports whether the given string is a known role
func IsValidRole(role string) bool {
	for _, r := range AllRoles() {
		if string(r) == role {
			return true
		}
	}
	return false
}

// IsStaff reports whether the role belongs to an internal employee
func (r Role) IsStaff() bool {
	return r != RoleClient
}
