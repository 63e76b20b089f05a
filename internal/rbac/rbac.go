// Package rbac maps role names to capability sets and guards console routes.
// Resolution is a pure table lookup; unknown roles get least privilege.
package rbac

import "strings"

// Console routes the capability table points at.
const (
	RouteDashboard     = "/dashboard"
	RouteEmployees     = "/employees"
	RouteEvaluations   = "/evaluations"
	RouteMyEvaluations = "/my-evaluations"
	RouteOrganization  = "/organization"
	RouteLogin         = "/auth/login"
	RouteLoading       = "/auth/loading"
)

// CapabilitySet is the derived capability view for one role. DefaultRoute is
// where the role lands after login or after a denied navigation.
type CapabilitySet struct {
	CanAccessDashboard     bool
	CanManageEmployees     bool
	CanManageEvaluations   bool
	CanAccessMyEvaluations bool
	AdminOnly              bool
	DefaultRoute           string
}

var managerCapabilities = CapabilitySet{
	CanAccessDashboard:   true,
	CanManageEmployees:   true,
	CanManageEvaluations: true,
}

var personalCapabilities = CapabilitySet{
	CanAccessMyEvaluations: true,
}

// Capabilities resolves a role name, case-insensitively, to its capability
// set. Roles outside the known set fall through to the personal surface;
// least privilege is the fail-safe, never an admin surface.
func Capabilities(role string) CapabilitySet {
	var caps CapabilitySet
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "admin":
		caps = managerCapabilities
		caps.AdminOnly = true
	case "hr_manager":
		caps = managerCapabilities
	case "supervisor", "evaluator", "employee":
		caps = personalCapabilities
	default:
		caps = personalCapabilities
	}
	caps.DefaultRoute = defaultRoute(caps)
	return caps
}

// DefaultRoute resolves the landing route for a role.
func DefaultRoute(role string) string {
	return Capabilities(role).DefaultRoute
}

// defaultRoute prefers the dashboard, then the personal surface. There is no
// access-denied terminal page; every role lands somewhere.
func defaultRoute(caps CapabilitySet) string {
	if caps.CanAccessDashboard {
		return RouteDashboard
	}
	return RouteMyEvaluations
}
