// Package session holds the client's belief about who is logged in.
package session

import (
	"fmt"
	"strings"
)

// Role is the closed set of roles the backend issues.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSales      Role = "sales"
	RolePlanner    Role = "planner"
	RoleProduction Role = "production"
)

// AllRoles lists every role in a stable order.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleSales, RolePlanner, RoleProduction}
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSales, RolePlanner, RoleProduction:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// ParseRole accepts only the known roles; the empty string is not a role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Session is the current identity. A non-empty Credential means logged in.
type Session struct {
	Credential  string `json:"token"`
	Role        Role   `json:"role"`
	DisplayName string `json:"userName"`
}

func (s Session) LoggedIn() bool {
	return s.Credential != ""
}

func (s Session) Empty() bool {
	return s == Session{}
}

// Snapshot is a consistent read of the store, including hydration status.
type Snapshot struct {
	Session
	Hydrated bool
}
