package model

import "fmt"

// Role is the closed set of account roles.
type Role string

const (
	RoleUser       Role = "user"
	RoleVerifier   Role = "verifier"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

// Roles lists every valid role in ascending order of privilege.
var Roles = []Role{RoleUser, RoleVerifier, RoleAdmin, RoleSuperAdmin}

// ParseRole validates s against the known roles.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleVerifier, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
