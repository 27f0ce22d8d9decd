// Package guard decides, per navigation, whether a request may continue to
// its page or gets redirected. The decision is a pure function of the path
// and the access token cookie, evaluated fresh on every request; nothing is
// stored between requests.
//
// The token is decoded but never verified here. That makes the guard a
// fast-path advisory check only: it steers navigation, while every page's
// own backend call performs the authoritative authorization.
package guard

import (
	"net/http"

	"github.com/veriport/webfront/internal/webfront/session"
	"github.com/veriport/webfront/pkg/claims"
	"github.com/veriport/webfront/pkg/slogx"
)

// Redirect targets used by guard decisions.
const (
	LoginPath          = "/login"
	DashboardPath      = "/dashboard"
	AdminDashboardPath = "/admin/dashboard"
)

// Decision is the terminal outcome of evaluating one navigation: either
// allow, or redirect to Target.
type Decision struct {
	Allow  bool
	Target string
}

// Allowed lets the request continue to its page.
var Allowed = Decision{Allow: true}

// RedirectTo sends the browser to target instead of the requested page.
func RedirectTo(target string) Decision {
	return Decision{Target: target}
}

// Guard evaluates the route-class decision table.
type Guard struct {
	classifier *Classifier
}

// New builds a Guard over the default route lists.
func New() *Guard {
	return &Guard{classifier: NewClassifier()}
}

// NewWithClassifier builds a Guard over a custom classifier.
func NewWithClassifier(c *Classifier) *Guard {
	return &Guard{classifier: c}
}

// Evaluate decides the outcome for one navigation given the raw access
// token cookie value (empty string when absent).
//
// Protected routes deliberately check token presence only: even a token
// that fails to decode passes, because the page's first backend call will
// reject a bad session anyway and this keeps the edge cheap.
func (g *Guard) Evaluate(path, rawToken string) Decision {
	class := g.classifier.Classify(path)

	// Decode is structural only; a decode failure means the token tells us
	// nothing and the holder is treated as unauthenticated.
	var decoded *claims.UnverifiedClaims
	if rawToken != "" {
		decoded, _ = claims.Decode(rawToken)
	}

	switch class {
	case RouteAdmin:
		switch {
		case decoded == nil:
			return RedirectTo(LoginPath)
		case !decoded.IsAdmin():
			return RedirectTo(DashboardPath)
		default:
			return Allowed
		}

	case RouteProtected:
		if rawToken == "" {
			return RedirectTo(LoginPath)
		}
		return Allowed

	case RouteAuthOnly:
		switch {
		case decoded == nil:
			return Allowed
		case decoded.IsAdmin():
			return RedirectTo(AdminDashboardPath)
		default:
			return RedirectTo(DashboardPath)
		}

	default:
		return Allowed
	}
}

// Middleware applies the guard to page navigations. Allowed requests pass
// through; everything else becomes a 302 to the decision target.
func (g *Guard) Middleware(cookies session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken, _ := cookies.Get(r, session.AccessCookie)

			decision := g.Evaluate(r.URL.Path, rawToken)
			if decision.Allow {
				next.ServeHTTP(w, r)
				return
			}

			slogx.FromContext(r.Context()).Debug("guard redirect",
				"from", r.URL.Path,
				"to", decision.Target,
				"class", g.classifier.Classify(r.URL.Path).String(),
			)

			http.Redirect(w, r, decision.Target, http.StatusFound)
		})
	}
}
