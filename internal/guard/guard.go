// Package guard decides whether the current principal may enter a surface.
package guard

import (
	"github.com/willfong/bankfront/internal/models"
)

// Well-known surface paths
const (
	RouteLogin          = "/login"
	RouteAdminLogin     = "/admin/login"
	RouteDashboard      = "/dashboard"
	RouteAdminDashboard = "/admin/dashboard"
)

// EntryPoint returns the login surface a principal of kind returns to after being signed out
func EntryPoint(kind models.PrincipalKind) string {
	if kind == models.KindAdministrator {
		return RouteAdminLogin
	}
	return RouteLogin
}

// Landing returns the default authenticated surface for kind
func Landing(kind models.PrincipalKind) string {
	if kind == models.KindAdministrator {
		return RouteAdminDashboard
	}
	return RouteDashboard
}

// State is the outcome of evaluating a surface
type State int

const (
	StateLoading State = iota
	StateAllowed
	StateRedirectingUnauthenticated
	StateRedirectingInsufficientRole
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAllowed:
		return "allowed"
	case StateRedirectingUnauthenticated:
		return "redirecting_unauthenticated"
	case StateRedirectingInsufficientRole:
		return "redirecting_insufficient_role"
	default:
		return "unknown"
	}
}

// Surface is a protected screen
type Surface struct {
	Name                  string
	Path                  string
	RequiresAdministrator bool
}

// Decision is the guard's answer for one surface
type Decision struct {
	State      State
	RedirectTo string
	Surface    Surface
}

// Allowed reports whether the surface may render
func (d Decision) Allowed() bool {
	return d.State == StateAllowed
}

// Decide evaluates surface s for principal p. ready is false while the session
// is still being initialized, in which case nothing protected may render.
func Decide(p models.Principal, ready bool, s Surface) Decision {
	d := Decision{Surface: s}
	switch {
	case !ready:
		d.State = StateLoading
	case !p.IsSignedIn():
		d.State = StateRedirectingUnauthenticated
		if s.RequiresAdministrator {
			d.RedirectTo = RouteAdminLogin
		} else {
			d.RedirectTo = RouteLogin
		}
	case s.RequiresAdministrator && !p.IsAdministrator():
		d.State = StateRedirectingInsufficientRole
		d.RedirectTo = Landing(p.Kind)
	default:
		d.State = StateAllowed
	}
	return d
}
