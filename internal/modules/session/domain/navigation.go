package domain

// NavState names the reachable screen graph for a session snapshot.
type NavState string

const (
	StateLoading         NavState = "loading"
	StateUnauthenticated NavState = "unauthenticated"
	StateOnboarding      NavState = "onboarding"
	StateActive          NavState = "active"
)

// DeriveNavState maps a snapshot to its navigation state. Predicates are
// evaluated in fixed order and the first match wins; the machine is
// level-triggered and keeps no memory of how a state was reached, so an
// external change such as a logout deep inside the active graph collapses
// navigation immediately on the next derivation.
func DeriveNavState(snap Snapshot) NavState {
	switch {
	case snap.Session.Loading:
		return StateLoading
	case !snap.Authenticated():
		return StateUnauthenticated
	case !snap.Onboarded():
		return StateOnboarding
	default:
		return StateActive
	}
}
