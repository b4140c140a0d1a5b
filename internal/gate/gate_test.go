package gate

import (
	"fmt"
	"testing"

	"github.com/harunnryd/planboard/internal/session"

	"github.com/stretchr/testify/assert"
)

func snap(hydrated bool, credential string, role session.Role) session.Snapshot {
	return session.Snapshot{
		Session:  session.Session{Credential: credential, Role: role},
		Hydrated: hydrated,
	}
}

func TestEvaluate_Precedence(t *testing.T) {
	plannerAdmin := Allow(session.RolePlanner, session.RoleAdmin)

	tests := []struct {
		name  string
		snap  session.Snapshot
		allow AllowSet
		want  Decision
	}{
		{"not hydrated wins over everything", snap(false, "tok", session.RoleSales), plannerAdmin, Hydrating},
		{"not hydrated without credential", snap(false, "", ""), AllowSet{}, Hydrating},
		{"no credential", snap(true, "", ""), plannerAdmin, Anonymous},
		{"no credential no allow-set", snap(true, "", ""), AllowSet{}, Anonymous},
		{"sales on planner route", snap(true, "tok", session.RoleSales), plannerAdmin, Forbidden},
		{"planner on planner route", snap(true, "tok", session.RolePlanner), plannerAdmin, Authorized},
		{"any role without allow-set", snap(true, "tok", session.RoleProduction), AllowSet{}, Authorized},
		{"credential without role on restricted route", snap(true, "tok", ""), plannerAdmin, Forbidden},
		{"credential without role on open route", snap(true, "tok", ""), AllowSet{}, Authorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.snap, tt.allow))
		})
	}
}

// Authorized iff hydrated, credential present and (no allow-set or role in it).
func TestEvaluate_AuthorizedIffProperty(t *testing.T) {
	roles := append(session.AllRoles(), "")
	sets := []AllowSet{{}}
	for _, r := range session.AllRoles() {
		sets = append(sets, Allow(r))
	}
	sets = append(sets, Allow(session.RolePlanner, session.RoleAdmin), Allow(session.AllRoles()...))

	for _, hydrated := range []bool{false, true} {
		for _, cred := range []string{"", "tok"} {
			for _, role := range roles {
				for i, allow := range sets {
					name := fmt.Sprintf("h=%v/c=%q/r=%q/set=%d", hydrated, cred, role, i)
					got := Evaluate(snap(hydrated, cred, role), allow)
					want := hydrated && cred != "" && (allow.Any() || allow.Contains(role))
					assert.Equal(t, want, got == Authorized, name)

					switch {
					case !hydrated:
						assert.Equal(t, Hydrating, got, name)
					case cred == "":
						assert.Equal(t, Anonymous, got, name)
					case !want:
						assert.Equal(t, Forbidden, got, name)
					}
				}
			}
		}
	}
}

func TestEvaluate_AfterLogoutIsAnonymousNeverForbidden(t *testing.T) {
	after := snap(true, "", "")
	for _, r := range Routes() {
		if r.Allow.Any() {
			continue
		}
		assert.Equal(t, Anonymous, Evaluate(after, r.Allow), r.Path)
	}
}

func TestAllow_UnknownRolesAdmitNobody(t *testing.T) {
	set := Allow(session.Role("owner"))
	assert.False(t, set.Any())
	for _, r := range session.AllRoles() {
		assert.Equal(t, Forbidden, Evaluate(snap(true, "tok", r), set))
	}
}

func TestAllowSet_Roles(t *testing.T) {
	set := Allow(session.RoleAdmin, session.RoleProduction, session.RolePlanner)
	assert.Equal(t, []session.Role{session.RoleAdmin, session.RolePlanner, session.RoleProduction}, set.Roles())
	assert.Nil(t, AllowSet{}.Roles())
}

func TestNavigate_SalesOnBoardRedirectsToLanding(t *testing.T) {
	out := Navigate(snap(true, "tok", session.RoleSales), PathBoard)
	assert.Equal(t, Forbidden, out.Decision)
	assert.Equal(t, LandingPath, out.Redirect)
	assert.False(t, out.Render())
}

func TestNavigate(t *testing.T) {
	tests := []struct {
		name         string
		snap         session.Snapshot
		path         string
		wantDecision Decision
		wantRedirect string
	}{
		{"hydrating stalls", snap(false, "tok", session.RoleAdmin), PathProduction, Hydrating, ""},
		{"anonymous goes to login", snap(true, "", ""), PathProduction, Anonymous, LoginPath},
		{"anonymous on open route goes to login", snap(true, "", ""), PathLog, Anonymous, LoginPath},
		{"production floor", snap(true, "tok", session.RoleProduction), PathProduction, Authorized, ""},
		{"production on board", snap(true, "tok", session.RoleProduction), PathBoard, Forbidden, LandingPath},
		{"admin on settings", snap(true, "tok", session.RoleAdmin), PathSettings, Authorized, ""},
		{"planner on settings", snap(true, "tok", session.RolePlanner), PathSettings, Forbidden, LandingPath},
		{"unknown path falls back to landing", snap(true, "tok", session.RoleAdmin), "/nowhere", Authorized, LandingPath},
		{"login page always renders", snap(false, "", ""), LoginPath, Authorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Navigate(tt.snap, tt.path)
			assert.Equal(t, tt.wantDecision, out.Decision)
			assert.Equal(t, tt.wantRedirect, out.Redirect)
			assert.Equal(t, tt.wantDecision == Hydrating, out.Waiting())
		})
	}
}

func TestNavigation_FiltersByRole(t *testing.T) {
	paths := func(routes []Route) []string {
		var out []string
		for _, r := range routes {
			out = append(out, r.Path)
		}
		return out
	}

	assert.Equal(t, []string{"/", "/orders", "/log"}, paths(Navigation(snap(true, "tok", session.RoleSales))))
	assert.Equal(t, []string{"/", "/board", "/production", "/log"}, paths(Navigation(snap(true, "tok", session.RolePlanner))))
	assert.Equal(t, []string{"/", "/production", "/log"}, paths(Navigation(snap(true, "tok", session.RoleProduction))))
	assert.Len(t, Navigation(snap(true, "tok", session.RoleAdmin)), len(Routes()))
	assert.Empty(t, Navigation(snap(true, "", "")))
	assert.Empty(t, Navigation(snap(false, "tok", session.RoleAdmin)))
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "hydrating", Hydrating.String())
	assert.Equal(t, "forbidden", Forbidden.String())
	assert.Equal(t, "unknown", Decision(42).String())
}
