package auth

import "strings"

// Level is the access an API route requires.
type Level int

const (
	Public Level = iota
	Authenticated
	Admin
)

func (l Level) String() string {
	switch l {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// Allows reports whether the principal satisfies the level. A nil principal is anonymous.
func (l Level) Allows(principal *Principal) bool {
	switch l {
	case Public:
		return true
	case Authenticated:
		return principal != nil
	case Admin:
		return principal.IsAdmin()
	default:
		return false
	}
}

// Reasons reported by the page policy.
const (
	ReasonUngated        = "ungated"
	ReasonPublic         = "public"
	ReasonAuthenticated  = "authenticated"
	ReasonLoginRequired  = "login_required"
	ReasonAdminRequired  = "admin_required"
	ReasonAdminPrincipal = "admin"
)

// ungatedPrefixes are served without consulting the gate at all.
var ungatedPrefixes = []string{
	"api",
	"product",
	"_next/static",
	"_next/image",
	"favicon.ico",
	"products",
	"fashion",
	"electronics",
}

// Decision is the page policy verdict.
type Decision struct {
	Allowed bool
	Reason  string
}

// PageLevel returns the level a storefront page requires and whether the gate applies to it.
func PageLevel(path string) (Level, bool) {
	if !gated(path) {
		return Public, false
	}
	switch {
	case strings.HasSuffix(path, "/api/auth"), path == "/login", path == "/register", path == "/":
		return Public, true
	case strings.HasPrefix(path, "/add-product"):
		return Admin, true
	default:
		return Authenticated, true
	}
}

// CheckPage decides whether the principal may open a storefront page.
func CheckPage(path string, principal *Principal) Decision {
	level, isGated := PageLevel(path)
	if !isGated {
		return Decision{Allowed: true, Reason: ReasonUngated}
	}
	switch level {
	case Public:
		return Decision{Allowed: true, Reason: ReasonPublic}
	case Admin:
		if principal.IsAdmin() {
			return Decision{Allowed: true, Reason: ReasonAdminPrincipal}
		}
		return Decision{Allowed: false, Reason: ReasonAdminRequired}
	default:
		if principal != nil {
			return Decision{Allowed: true, Reason: ReasonAuthenticated}
		}
		return Decision{Allowed: false, Reason: ReasonLoginRequired}
	}
}

func gated(path string) bool {
	rest, ok := strings.CutPrefix(path, "/")
	if !ok {
		return true
	}
	for _, prefix := range ungatedPrefixes {
		if strings.HasPrefix(rest, prefix) {
			return false
		}
	}
	return true
}
