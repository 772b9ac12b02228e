// Package navigation picks the entry screen from session and permission
// state.
package navigation

import (
	"foodapp/internal/models"
	"foodapp/internal/permission"
	"foodapp/internal/session"
)

type Route string

const (
	RouteLoading        Route = "Loading"
	RouteSplash         Route = "Splash"
	RouteOnboarding     Route = "Onboarding"
	RouteLogin          Route = "Login"
	RouteSignup         Route = "Signup"
	RouteForgotPassword Route = "ForgotPassword"
	RouteVerification   Route = "Verification"
	RouteLocationAccess Route = "LocationAccess"
	RouteHome           Route = "Home"
	RouteSellerHome     Route = "SellerHome"
)

// PublicStack is the screen stack shown to a signed-out user, entry first.
var PublicStack = []Route{
	RouteSplash,
	RouteOnboarding,
	RouteLogin,
	RouteSignup,
	RouteForgotPassword,
	RouteVerification,
}

// Resolve returns the screen the app opens on.
//
// Sellers cannot proceed without a location grant. Customers only need to
// have answered the location prompt, even with a denial.
func Resolve(s session.State, p permission.State) Route {
	if s.IsLoading || p.IsLoading {
		return RouteLoading
	}
	if !s.IsAuthenticated {
		return RouteSplash
	}

	var role models.UserRole
	if s.User != nil {
		role = s.User.Role
	}

	switch {
	case role == models.RoleSeller && !p.IsLocationGranted():
		return RouteLocationAccess
	case role == models.RoleCustomer && !p.HasInteractedWithLocation():
		return RouteLocationAccess
	case role == models.RoleCustomer:
		return RouteHome
	default:
		return RouteSellerHome
	}
}
