package conn

import (
	"github.com/tobsdb/pdb/internal/auth"
	"github.com/tobsdb/pdb/internal/command"
)

// RequiredRole is the least privileged role allowed to run action.
func RequiredRole(action command.Action) auth.UserRole {
	switch {
	case action.IsSchemaAction():
		return auth.UserRoleAdmin
	case action.IsReadOnly():
		return auth.UserRoleReadOnly
	default:
		return auth.UserRoleReadWrite
	}
}

// a nil user means the server runs without auth
func userHasClearance(user *auth.User, action command.Action) bool {
	if user == nil {
		return true
	}
	return user.HasClearance(RequiredRole(action))
}
