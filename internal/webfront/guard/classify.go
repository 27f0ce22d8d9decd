package guard

import "strings"

// RouteClass is the category a navigation path falls into. Every path maps
// to exactly one class.
type RouteClass int

const (
	// RoutePublic paths are reachable by anyone.
	RoutePublic RouteClass = iota

	// RouteAuthOnly paths (login, register) only make sense for visitors
	// without a session.
	RouteAuthOnly

	// RouteProtected paths require a session to be present.
	RouteProtected

	// RouteAdmin paths require the admin role.
	RouteAdmin
)

// String implements fmt.Stringer.
func (c RouteClass) String() string {
	switch c {
	case RouteAuthOnly:
		return "auth_only"
	case RouteProtected:
		return "protected"
	case RouteAdmin:
		return "admin"
	default:
		return "public"
	}
}

// Default route lists for the front end.
var (
	defaultAuthOnly  = []string{"/login", "/register"}
	defaultProtected = []string{"/dashboard", "/profile", "/background-check", "/coupon", "/my-profile"}
	defaultAdmin     = []string{"/admin"}
)

// Classifier maps request paths onto route classes. AUTH_ONLY routes match
// exactly; PROTECTED and ADMIN routes match by prefix.
type Classifier struct {
	authOnly  map[string]struct{}
	protected []string
	admin     []string
}

// NewClassifier builds a classifier over the default route lists.
func NewClassifier() *Classifier {
	return NewClassifierWithRoutes(defaultAuthOnly, defaultProtected, defaultAdmin)
}

// NewClassifierWithRoutes builds a classifier over explicit route lists.
func NewClassifierWithRoutes(authOnly, protected, admin []string) *Classifier {
	exact := make(map[string]struct{}, len(authOnly))
	for _, p := range authOnly {
		exact[p] = struct{}{}
	}

	return &Classifier{
		authOnly:  exact,
		protected: protected,
		admin:     admin,
	}
}

// Classify returns the route class for a path. Admin prefixes are checked
// before protected ones so the more specific class wins. Classification is
// pure: the same path always yields the same class.
func (c *Classifier) Classify(path string) RouteClass {
	if _, ok := c.authOnly[path]; ok {
		return RouteAuthOnly
	}

	for _, prefix := range c.admin {
		if strings.HasPrefix(path, prefix) {
			return RouteAdmin
		}
	}

	for _, prefix := range c.protected {
		if strings.HasPrefix(path, prefix) {
			return RouteProtected
		}
	}

	return RoutePublic
}
