package types

import "fmt"

// Role selects which views are offered. It is a routing flag only; it does
// not grant access to anything by itself.
type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
)

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleProfessor
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role
func ParseRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return role, nil
}
