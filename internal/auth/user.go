package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserRole int

const (
	UserRoleAdmin UserRole = iota
	UserRoleReadWrite
	UserRoleReadOnly
)

var InsufficientPermissions = errors.New("Insufficient permissions")

func (r UserRole) String() string {
	switch r {
	case UserRoleAdmin:
		return "admin"
	case UserRoleReadWrite:
		return "readwrite"
	case UserRoleReadOnly:
		return "readonly"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

func ParseUserRole(s string) (UserRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "":
		return UserRoleAdmin, nil
	case "readwrite", "read-write":
		return UserRoleReadWrite, nil
	case "readonly", "read-only":
		return UserRoleReadOnly, nil
	}
	return 0, fmt.Errorf("unknown user role: %s", s)
}

type User struct {
	Id       string
	Name     string
	Password []byte
	Role     UserRole
}

func NewUser(name, password string, role UserRole) (*User, error) {
	// password max size is 72 bytes because of bcrypt limit
	hashed_password, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password for %s: %w", name, err)
	}
	return &User{uuid.New().String(), name, hashed_password, role}, nil
}

func (u *User) ValidateUser(name, password string) bool {
	if u.Name != name {
		return false
	}
	return bcrypt.CompareHashAndPassword(u.Password, []byte(password)) == nil
}

// admin clears everything, readonly clears only readonly
func (u *User) HasClearance(r UserRole) bool { return u.Role <= r }
