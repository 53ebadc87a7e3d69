package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionsForKnownRoles(t *testing.T) {
	admin := PermissionsFor(RoleIDAdmin)
	authority := PermissionsFor(RoleIDAuthority)
	volunteer := PermissionsFor(RoleIDVolunteer)
	user := PermissionsFor(RoleIDUser)

	assert.ElementsMatch(t, AllPermissions, []Permission(admin))
	assert.ElementsMatch(t, volunteer, user)

	assert.True(t, authority.Contains(PermManageShelters))
	assert.True(t, authority.Contains(PermManageResources))
	assert.True(t, authority.Contains(PermManageVolunteers))
	assert.False(t, authority.Contains(PermManageAuthorities))

	assert.True(t, user.Contains(PermViewShelters))
	assert.True(t, user.Contains(PermNavigateShelters))
	assert.True(t, user.Contains(PermViewResources))
	assert.False(t, user.Contains(PermManageShelters))
}

func TestPermissionsForIsSupersetOrdered(t *testing.T) {
	// Each role's set contains every permission of the roles below it.
	admin := PermissionsFor(RoleIDAdmin)
	authority := PermissionsFor(RoleIDAuthority)
	volunteer := PermissionsFor(RoleIDVolunteer)

	for _, perm := range authority {
		assert.True(t, admin.Contains(perm), "admin missing %s", perm)
	}
	for _, perm := range volunteer {
		assert.True(t, authority.Contains(perm), "authority missing %s", perm)
	}
}

func TestPermissionsForUnknownRoleFallsBack(t *testing.T) {
	// Unknown IDs must never widen access.
	for _, roleID := range []int{0, -1, 99} {
		perms := PermissionsFor(roleID)
		assert.NotEmpty(t, perms)
		assert.ElementsMatch(t, PermissionsFor(RoleIDUser), perms, "role %d", roleID)
	}
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	first := PermissionsFor(RoleIDUser)
	first[0] = "tampered"
	second := PermissionsFor(RoleIDUser)
	assert.NotContains(t, second, Permission("tampered"))
}

func TestPermissionListValueScanRoundTrip(t *testing.T) {
	original := PermissionsFor(RoleIDAuthority)

	value, err := original.Value()
	require.NoError(t, err)

	var decoded PermissionList
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, original, decoded)
}

func TestPermissionListValueNil(t *testing.T) {
	var perms PermissionList
	value, err := perms.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", value)
}

func TestPermissionListScanNil(t *testing.T) {
	perms := PermissionsFor(RoleIDAdmin)
	require.NoError(t, perms.Scan(nil))
	assert.Nil(t, perms)
}
