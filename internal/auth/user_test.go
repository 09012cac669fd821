package auth_test

import (
	"strings"
	"testing"

	. "github.com/tobsdb/pdb/internal/auth"
	"gotest.tools/assert"
)

func TestUser(t *testing.T) {
	t.Run("validate", func(t *testing.T) {
		u, err := NewUser("ann", "secret", UserRoleAdmin)
		assert.NilError(t, err)
		assert.Assert(t, u.Id != "")
		assert.Assert(t, u.ValidateUser("ann", "secret"))
		assert.Assert(t, !u.ValidateUser("ann", "wrong"))
		assert.Assert(t, !u.ValidateUser("bo", "secret"))
	})

	t.Run("password too long", func(t *testing.T) {
		_, err := NewUser("ann", strings.Repeat("x", 73), UserRoleAdmin)
		assert.Assert(t, err != nil)
	})

	t.Run("clearance", func(t *testing.T) {
		admin := &User{Role: UserRoleAdmin}
		rw := &User{Role: UserRoleReadWrite}
		ro := &User{Role: UserRoleReadOnly}

		assert.Assert(t, admin.HasClearance(UserRoleAdmin))
		assert.Assert(t, admin.HasClearance(UserRoleReadOnly))
		assert.Assert(t, !rw.HasClearance(UserRoleAdmin))
		assert.Assert(t, rw.HasClearance(UserRoleReadWrite))
		assert.Assert(t, !ro.HasClearance(UserRoleReadWrite))
		assert.Assert(t, ro.HasClearance(UserRoleReadOnly))
	})

	t.Run("parse role", func(t *testing.T) {
		for s, role := range map[string]UserRole{
			"admin":     UserRoleAdmin,
			"ReadWrite": UserRoleReadWrite,
			"read-only": UserRoleReadOnly,
		} {
			parsed, err := ParseUserRole(s)
			assert.NilError(t, err)
			assert.Equal(t, parsed, role)
			assert.Equal(t, parsed.String() != "", true)
		}
		_, err := ParseUserRole("root")
		assert.ErrorContains(t, err, "unknown user role")
	})
}
