package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Permission is a fine-grained capability tag derived from the account's role
// at creation time.
type Permission string

const (
	PermManageAuthorities Permission = "manage_authorities"
	PermManageShelters    Permission = "manage_shelters"
	PermManageResources   Permission = "manage_resources"
	PermManageVolunteers  Permission = "manage_volunteers"
	PermViewShelters      Permission = "view_shelters"
	PermNavigateShelters  Permission = "navigate_shelters"
	PermViewResources     Permission = "view_resources"
)

// AllPermissions is the full closed permission set.
var AllPermissions = []Permission{
	PermManageAuthorities,
	PermManageShelters,
	PermManageResources,
	PermManageVolunteers,
	PermViewShelters,
	PermNavigateShelters,
	PermViewResources,
}

var rolePermissions = map[int][]Permission{
	RoleIDAdmin: {
		PermManageAuthorities,
		PermManageShelters,
		PermManageResources,
		PermManageVolunteers,
		PermViewShelters,
		PermNavigateShelters,
		PermViewResources,
	},
	RoleIDAuthority: {
		PermManageShelters,
		PermManageResources,
		PermManageVolunteers,
		PermViewShelters,
		PermNavigateShelters,
		PermViewResources,
	},
	RoleIDVolunteer: {
		PermViewShelters,
		PermNavigateShelters,
		PermViewResources,
	},
	RoleIDUser: {
		PermViewShelters,
		PermNavigateShelters,
		PermViewResources,
	},
}

// PermissionsFor returns the permission set granted by a role. Unknown role
// IDs get the most restricted set so a bad value never widens access.
func PermissionsFor(roleID int) PermissionList {
	perms, ok := rolePermissions[roleID]
	if !ok {
		perms = rolePermissions[RoleIDUser]
	}
	out := make(PermissionList, len(perms))
	copy(out, perms)
	return out
}

// PermissionList is stored as a JSON array in a text column so the same model
// works under both the postgres and sqlite drivers.
type PermissionList []Permission

func (p PermissionList) Contains(perm Permission) bool {
	for _, have := range p {
		if have == perm {
			return true
		}
	}
	return false
}

func (p PermissionList) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *PermissionList) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return errors.New("unsupported type for PermissionList")
	}
}
