// Package guard decides what a client may see for a given path.
package guard

import "github.com/dtroode/roleauth/internal/client/session"

const (
	PathLogin     = "/"
	PathRegister  = "/register"
	PathDashboard = "/dashboard"
	PathProfile   = "/profile"
	PathAdmin     = "/admin"
)

// MenuItem is a navigation entry.
type MenuItem struct {
	Name string
	Path string
}

// Landing is the role specific content shown on protected pages.
type Landing struct {
	Title string
	Body  string
}

// Decision is the outcome of evaluating a path. When Redirect is set the
// other fields are empty.
type Decision struct {
	Redirect string
	Menu     []MenuItem
	Landing  Landing
}

var (
	adminMenu = []MenuItem{
		{Name: "Admin Panel", Path: PathAdmin},
		{Name: "Profile", Path: PathProfile},
	}
	userMenu = []MenuItem{
		{Name: "Dashboard", Path: PathDashboard},
		{Name: "Profile", Path: PathProfile},
	}

	adminLanding = Landing{Title: "Admin Panel", Body: "Welcome, Admin! Here you can manage the system."}
	userLanding  = Landing{Title: "User Dashboard", Body: "Welcome! Here is your default dashboard."}
)

func isPublic(path string) bool {
	return path == PathLogin || path == PathRegister
}

func isProtected(path string) bool {
	switch path {
	case PathDashboard, PathProfile, PathAdmin:
		return true
	}
	return false
}

// Home returns the default page for the signed-in role.
func Home(user *session.User) string {
	if user != nil && user.IsAdmin() {
		return PathAdmin
	}
	return PathDashboard
}

// Evaluate applies the navigation rules to state and path.
// Unknown paths are sent to the entry point or the role's home.
func Evaluate(state session.State, path string) Decision {
	if !state.Authenticated || state.User == nil {
		if isPublic(path) {
			return Decision{}
		}
		return Decision{Redirect: PathLogin}
	}

	user := state.User
	if isPublic(path) || !isProtected(path) {
		return Decision{Redirect: Home(user)}
	}
	if path == PathAdmin && !user.IsAdmin() {
		return Decision{Redirect: PathDashboard}
	}

	if user.IsAdmin() {
		return Decision{Menu: clone(adminMenu), Landing: adminLanding}
	}
	return Decision{Menu: clone(userMenu), Landing: userLanding}
}

func clone(items []MenuItem) []MenuItem {
	out := make([]MenuItem, len(items))
	copy(out, items)
	return out
}
