// Package domain holds the closed role model used for authorization checks.
package domain

import "strings"

// Role is the closed two-value role model.
type Role string

const (
	// RoleAdmin grants full administrative access.
	RoleAdmin Role = "admin"
	// RoleUser grants access to the caller's own records only.
	RoleUser Role = "user"
)

// ParseRole maps a raw role string onto the closed enum.
// Unknown values fall back to RoleUser so a corrupted claim can never
// escalate privileges.
func ParseRole(raw string) Role {
	if strings.EqualFold(strings.TrimSpace(raw), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// IsAdmin reports whether the role carries administrative capability.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// String returns the wire representation of the role.
func (r Role) String() string {
	return string(r)
}
