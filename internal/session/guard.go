package session

// RouteMeta is the per-route metadata the guard evaluates
type RouteMeta struct {
	Path         string
	RequiresAuth bool
}

// Decision is the guard's verdict on a transition request
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectHome
)

const LoginPath = "/login"

// Evaluate decides whether a transition to the target route proceeds.
// It is a presence-only check: a token merely existing passes the
// guard, and a stale token fails later inside whatever call actually
// needs authorization.
func Evaluate(target RouteMeta, tokenPresent bool) Decision {
	if target.RequiresAuth && !tokenPresent {
		return RedirectLogin
	}
	if target.Path == LoginPath && tokenPresent {
		return RedirectHome
	}
	return Allow
}
