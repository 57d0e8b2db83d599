package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/model"
)

// Rule grants access to requests matching one of Patterns. An empty Method
// matches any method. Public rules need no principal; otherwise the
// principal's role must be in Roles.
//
// A pattern ending in "/**" matches its prefix and everything below it;
// any other pattern must equal the path.
type Rule struct {
	Method   string
	Patterns []string
	Public   bool
	Roles    []model.Role
}

var (
	anyRole    = []model.Role{model.RoleWorker, model.RoleLeader, model.RoleAdmin}
	leaderRole = []model.Role{model.RoleLeader, model.RoleAdmin}
	adminRole  = []model.Role{model.RoleAdmin}
)

// Rules is evaluated in order; the first matching rule decides.
var Rules = []Rule{
	{Method: http.MethodGet, Patterns: []string{"/swagger-ui/**", "/v3/api-docs/**", "/healthz", "/metrics"}, Public: true},
	{Method: http.MethodPatch, Patterns: []string{"/users/login/password"}, Public: true},
	{Method: http.MethodPost, Patterns: []string{"/users/login/**", "/login"}, Public: true},
	{Patterns: []string{"/orders/**", "/shop/**", "/users/password"}, Roles: anyRole},
	{Patterns: []string{"/clients/**", "/products/**"}, Roles: leaderRole},
	{Patterns: []string{"/**"}, Roles: adminRole},
}

// Messages of the two authorization failures.
const (
	MsgAuthenticationRequired = "Full authentication is required to access this resource"
	MsgAccessDenied           = "Access Denied"
)

// Match returns the first rule of rules matching method and path. ok is
// false only when no rule matches.
func Match(rules []Rule, method, path string) (Rule, bool) {
	for _, r := range rules {
		if r.Method != "" && r.Method != method {
			continue
		}
		for _, p := range r.Patterns {
			if matchPattern(p, path) {
				return r, true
			}
		}
	}
	return Rule{}, false
}

func matchPattern(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		return path == prefix || prefix == "" || strings.HasPrefix(path, prefix+"/")
	}
	return path == pattern
}

// Allows reports whether a caller with role (and authenticated or not)
// passes r.
func (r Rule) Allows(authenticated bool, role model.Role) bool {
	if r.Public {
		return true
	}
	return authenticated && slices.Contains(r.Roles, role)
}

// Authorize enforces rules against the principal bound by Authenticate.
// Unmatched requests are denied.
func Authorize(rules []Rule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rule, ok := Match(rules, req.Method, req.URL.Path)
			if ok && rule.Public {
				return next(c)
			}
			p, authenticated := PrincipalFrom(c)
			if !authenticated {
				return apperror.New(apperror.KindAuthentication, MsgAuthenticationRequired)
			}
			if !ok || !rule.Allows(true, p.Role) {
				return apperror.New(apperror.KindAuthorization, MsgAccessDenied)
			}
			return next(c)
		}
	}
}
