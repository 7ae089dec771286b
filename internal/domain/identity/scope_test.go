package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRole_IsValid(t *testing.T) {
	tests := []struct {
		role    Role
		isValid bool
	}{
		{RoleOwner, true},
		{RoleAdmin, true},
		{Role("MANAGER"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.role.IsValid())
		})
	}
}

func TestResolveScope_AdminIsUnrestricted(t *testing.T) {
	caller := NewCaller(uuid.New(), RoleAdmin)

	scope := ResolveScope(caller)

	assert.True(t, scope.IsUnrestricted())
	assert.Equal(t, uuid.Nil, scope.OwnerID())
	assert.True(t, scope.Allows(uuid.New()))
}

func TestResolveScope_OwnerSeesOnlyOwnRecords(t *testing.T) {
	userID := uuid.New()
	caller := NewCaller(userID, RoleOwner)

	scope := ResolveScope(caller)

	assert.False(t, scope.IsUnrestricted())
	assert.Equal(t, userID, scope.OwnerID())
	assert.True(t, scope.Allows(userID))
	assert.False(t, scope.Allows(uuid.New()))
}

func TestResolveScope_UnknownRoleDefaultsToSelf(t *testing.T) {
	userID := uuid.New()
	caller := NewCaller(userID, Role("SOMETHING_ELSE"))

	scope := ResolveScope(caller)

	assert.False(t, scope.IsUnrestricted())
	assert.Equal(t, userID, scope.OwnerID())
}
