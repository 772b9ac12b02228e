package navigation

import (
	"testing"

	"foodapp/internal/models"
	"foodapp/internal/permission"
	"foodapp/internal/platform"
	"foodapp/internal/session"
)

func authed(role models.UserRole) session.State {
	return session.State{
		User:            &models.User{ID: "1", Role: role},
		Token:           "tok",
		IsAuthenticated: true,
	}
}

func location(st permission.Status) permission.State {
	return permission.State{Status: map[platform.Capability]permission.Status{platform.Location: st}}
}

func TestResolve(t *testing.T) {
	denied := permission.Status{IsGranted: false, HasInteracted: true}
	granted := permission.Status{IsGranted: true, HasInteracted: true}
	fresh := permission.Status{}

	tests := []struct {
		name string
		s    session.State
		p    permission.State
		want Route
	}{
		{"session loading", session.State{IsLoading: true}, location(fresh), RouteLoading},
		{"permissions loading", authed(models.RoleCustomer), permission.State{IsLoading: true}, RouteLoading},
		{"signed out", session.State{}, location(granted), RouteSplash},
		{"customer never asked", authed(models.RoleCustomer), location(fresh), RouteLocationAccess},
		{"customer denied", authed(models.RoleCustomer), location(denied), RouteHome},
		{"customer granted", authed(models.RoleCustomer), location(granted), RouteHome},
		{"seller denied", authed(models.RoleSeller), location(denied), RouteLocationAccess},
		{"seller granted", authed(models.RoleSeller), location(granted), RouteSellerHome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.s, tt.p); got != tt.want {
				t.Errorf("Resolve() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPublicStackStartsAtSplash(t *testing.T) {
	if PublicStack[0] != RouteSplash {
		t.Errorf("PublicStack[0] = %s", PublicStack[0])
	}
}
