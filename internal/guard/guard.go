package guard

import (
	"incordes-client/internal/auth"
	"net/http"
)

type Variant int

const (
	// Public routes are for visitors; logged in users are sent to the app.
	Public Variant = iota
	// Protected routes need a logged in user.
	Protected
)

const (
	PublicHome    = "/"
	ProtectedHome = "/app"
)

type Outcome int

const (
	Render Outcome = iota
	Redirect
	Interstitial
)

type Decision struct {
	Outcome  Outcome
	Location string
}

// Decide admits a route purely from the variant and the auth state.
func Decide(variant Variant, state auth.State) Decision {
	if state == auth.StateRehydrating {
		return Decision{Outcome: Interstitial}
	}

	switch variant {
	case Public:
		if state == auth.StateAuthenticated {
			return Decision{Outcome: Redirect, Location: ProtectedHome}
		}
	case Protected:
		if state != auth.StateAuthenticated {
			return Decision{Outcome: Redirect, Location: PublicHome}
		}
	}

	return Decision{Outcome: Render}
}

type StateSource interface {
	State() auth.State
}

// Middleware applies Decide to every request. interstitial renders the
// loading page.
func Middleware(variant Variant, source StateSource, interstitial http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := Decide(variant, source.State())

			switch decision.Outcome {
			case Interstitial:
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusServiceUnavailable)
				interstitial(w, r)
			case Redirect:
				code := http.StatusFound
				if r.Method != http.MethodGet && r.Method != http.MethodHead {
					code = http.StatusSeeOther
				}
				http.Redirect(w, r, decision.Location, code)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
