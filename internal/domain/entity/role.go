package entity

import "errors"

// Role ID constants
const (
	RoleIDAdmin     = 1
	RoleIDAuthority = 2
	RoleIDVolunteer = 3
	RoleIDUser      = 4
)

// Role name constants
const (
	RoleAdmin     = "admin"
	RoleAuthority = "authority"
	RoleVolunteer = "volunteer"
	RoleUser      = "user"
)

var ErrUnknownRole = errors.New("unknown role")

var roleNames = map[int]string{
	RoleIDAdmin:     RoleAdmin,
	RoleIDAuthority: RoleAuthority,
	RoleIDVolunteer: RoleVolunteer,
	RoleIDUser:      RoleUser,
}

var roleIDs = map[string]int{
	RoleAdmin:     RoleIDAdmin,
	RoleAuthority: RoleIDAuthority,
	RoleVolunteer: RoleIDVolunteer,
	RoleUser:      RoleIDUser,
}

// RoleName returns the canonical name for a role ID.
func RoleName(roleID int) string {
	return roleNames[roleID]
}

// RoleIDFromName resolves a role name to its ID. The set of roles is closed;
// anything outside it is rejected.
func RoleIDFromName(name string) (int, error) {
	id, ok := roleIDs[name]
	if !ok {
		return 0, ErrUnknownRole
	}
	return id, nil
}

// RequiresDistrict reports whether accounts with this role must be bound to a
// district at registration time.
func RequiresDistrict(roleID int) bool {
	return roleID == RoleIDAuthority || roleID == RoleIDVolunteer
}
