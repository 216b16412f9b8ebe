package ports

// Navigator abstracts the navigation surface the transport redirects to
// when a response is classified as unauthenticated or forbidden. The
// actual navigation (a route change in the web console, a printed hint
// in the CLI) is an external collaborator.
type Navigator interface {
	// Location is the currently navigable location, used both as the
	// return path and to avoid redirect loops.
	Location() string
	// ToLogin redirects to the login surface, carrying the original
	// target so it can be resumed after authentication.
	ToLogin(returnPath string)
	// ToForbidden redirects to the forbidden surface.
	ToForbidden()
}
