// Package gate decides, per navigation, whether the current session may see a
// route. It holds no state; callers evaluate it again after every session change.
package gate

import (
	"github.com/harunnryd/planboard/internal/session"
)

type Decision int

const (
	// Hydrating: identity not known yet, show a waiting indicator and fetch nothing.
	Hydrating Decision = iota
	// Anonymous: no credential, go to the login entry point.
	Anonymous
	// Forbidden: role not allowed, go to the landing route.
	Forbidden
	// Authorized: render the nested content.
	Authorized
)

func (d Decision) String() string {
	switch d {
	case Hydrating:
		return "hydrating"
	case Anonymous:
		return "anonymous"
	case Forbidden:
		return "forbidden"
	case Authorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// AllowSet is a route's explicit role allow-list. The zero value admits any
// authenticated role.
type AllowSet struct {
	given bool
	roles map[session.Role]struct{}
}

// Allow builds an allow-set. Roles outside the closed enumeration are dropped,
// so a set made only of unknown roles admits nobody.
func Allow(roles ...session.Role) AllowSet {
	set := AllowSet{given: true, roles: make(map[session.Role]struct{}, len(roles))}
	for _, r := range roles {
		if r.Valid() {
			set.roles[r] = struct{}{}
		}
	}
	return set
}

// Any reports whether the set places no restriction.
func (a AllowSet) Any() bool {
	return !a.given
}

func (a AllowSet) Contains(r session.Role) bool {
	_, ok := a.roles[r]
	return ok
}

// Roles lists the members in session.AllRoles order.
func (a AllowSet) Roles() []session.Role {
	var out []session.Role
	for _, r := range session.AllRoles() {
		if a.Contains(r) {
			out = append(out, r)
		}
	}
	return out
}

// Evaluate applies the precedence hydrating > anonymous > forbidden > authorized.
func Evaluate(snap session.Snapshot, allow AllowSet) Decision {
	if !snap.Hydrated {
		return Hydrating
	}
	if !snap.LoggedIn() {
		return Anonymous
	}
	if !allow.Any() && !allow.Contains(snap.Role) {
		return Forbidden
	}
	return Authorized
}
