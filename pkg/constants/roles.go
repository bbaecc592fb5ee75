package constants

// Role is the closed set of permission levels in the portal.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleCustomer  Role = "customer"
)

// AllRoles lists every valid role, in privilege order.
var AllRoles = []Role{RoleAdmin, RoleModerator, RoleCustomer}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleCustomer:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// In reports whether the role is a member of the allowed set.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// ValidRoleStrings reports whether every element of the slice is a known
// role name. Used when validating allowed_roles lists on files.
func ValidRoleStrings(roles []string) bool {
	for _, s := range roles {
		if !Role(s).Valid() {
			return false
		}
	}
	return true
}

// ContainsRole reports whether the string slice contains the given role.
func ContainsRole(roles []string, r Role) bool {
	for _, s := range roles {
		if Role(s) == r {
			return true
		}
	}
	return false
}
