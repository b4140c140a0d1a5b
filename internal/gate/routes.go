package gate

import (
	"github.com/harunnryd/planboard/internal/session"
)

const (
	LoginPath   = "/login"
	LandingPath = "/"
)

const (
	PathDashboard  = "/"
	PathOrders     = "/orders"
	PathBoard      = "/board"
	PathProduction = "/production"
	PathSettings   = "/settings"
	PathLog        = "/log"
)

type Route struct {
	Path  string
	Name  string
	Allow AllowSet
}

// Routes is the protected route table, in menu order. All of them sit behind
// the authenticated layout.
func Routes() []Route {
	return []Route{
		{Path: PathDashboard, Name: "Dashboard"},
		{Path: PathOrders, Name: "Orders", Allow: Allow(session.RoleSales, session.RoleAdmin)},
		{Path: PathBoard, Name: "Planning board", Allow: Allow(session.RolePlanner, session.RoleAdmin)},
		{Path: PathProduction, Name: "Production", Allow: Allow(session.RoleProduction, session.RolePlanner, session.RoleAdmin)},
		{Path: PathSettings, Name: "Settings", Allow: Allow(session.RoleAdmin)},
		{Path: PathLog, Name: "Log"},
	}
}

func Lookup(path string) (Route, bool) {
	for _, r := range Routes() {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// Outcome is what the navigation layer does with a decision.
type Outcome struct {
	Decision Decision
	Route    Route
	// Redirect is set for Anonymous (login) and Forbidden or unknown paths (landing).
	Redirect string
}

// Render reports whether the route's content may be shown.
func (o Outcome) Render() bool {
	return o.Decision == Authorized && o.Redirect == ""
}

// Waiting reports whether the caller should show the neutral waiting indicator.
func (o Outcome) Waiting() bool {
	return o.Decision == Hydrating
}

// Navigate evaluates the layout gate and then the route's own gate.
func Navigate(snap session.Snapshot, path string) Outcome {
	if path == LoginPath {
		return Outcome{Decision: Authorized, Route: Route{Path: LoginPath, Name: "Login"}}
	}

	route, known := Lookup(path)

	// The authenticated layout has no allow-set of its own.
	switch layout := Evaluate(snap, AllowSet{}); layout {
	case Hydrating:
		return Outcome{Decision: Hydrating, Route: route}
	case Anonymous:
		return Outcome{Decision: Anonymous, Route: route, Redirect: LoginPath}
	}

	if !known {
		return Outcome{Decision: Authorized, Redirect: LandingPath}
	}

	decision := Evaluate(snap, route.Allow)
	out := Outcome{Decision: decision, Route: route}
	if decision == Forbidden {
		out.Redirect = LandingPath
	}
	return out
}

// Navigation returns the routes the current session may open.
func Navigation(snap session.Snapshot) []Route {
	var out []Route
	for _, r := range Routes() {
		if Evaluate(snap, r.Allow) == Authorized {
			out = append(out, r)
		}
	}
	return out
}
