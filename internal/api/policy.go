package api

import (
	"net/http"
	"path"
	"strings"

	"alcyxob/fitness-tracker/internal/auth"
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Access is the authentication state a rule requires.
type Access int

const (
	AccessAuthenticated Access = iota
	AccessPublic
	AccessRole
)

// Requirement is what a request must carry to pass a rule.
type Requirement struct {
	Access Access
	Role   string
}

func Public() Requirement { return Requirement{Access: AccessPublic} }

func Authenticated() Requirement { return Requirement{Access: AccessAuthenticated} }

func RequireRole(role string) Requirement { return Requirement{Access: AccessRole, Role: role} }

// Rule binds a path pattern, optionally limited to some methods, to a requirement.
//
// Patterns are compared segment by segment with path.Match semantics, so a
// segment like "*.html" works. A final "*" matches one or more remaining
// segments and a final "**" matches zero or more.
type Rule struct {
	Pattern string
	Methods []string
	Require Requirement

	segments []string
}

// Policy is an ordered rule table; the first matching rule wins and
// unmatched requests require authentication.
type Policy struct {
	rules []Rule
}

func NewPolicy(rules ...Rule) *Policy {
	compiled := make([]Rule, len(rules))
	for i, r := range rules {
		r.segments = splitPath(r.Pattern)
		compiled[i] = r
	}
	return &Policy{rules: compiled}
}

// DefaultRules is the route table of the service. publicUsers opens the
// user endpoints to anonymous callers.
func DefaultRules(publicUsers bool) []Rule {
	rules := []Rule{
		// Static assets
		{Pattern: "/", Require: Public()},
		{Pattern: "/*.html", Require: Public()},
		{Pattern: "/css/**", Require: Public()},
		{Pattern: "/js/**", Require: Public()},
		{Pattern: "/favicon.ico", Require: Public()},
		// API docs
		{Pattern: "/apidocs/**", Require: Public()},
		{Pattern: "/swagger-ui/**", Require: Public()},
		{Pattern: "/swagger-ui.html", Require: Public()},
		{Pattern: "/v3/api-docs/**", Require: Public()},
		// Login and registration
		{Pattern: "/auth/*", Require: Public()},
		{Pattern: "/api/auth/*", Require: Public()},
		// Operational
		{Pattern: "/ping", Require: Public()},
		{Pattern: "/metrics", Require: Public()},
	}
	if publicUsers {
		rules = append(rules, Rule{Pattern: "/api/users/**", Require: Public()})
	}
	return append(rules, Rule{Pattern: "/api/admin/**", Require: RequireRole(string(domain.RoleAdmin))})
}

func splitPath(p string) []string {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func (r Rule) matches(method string, segments []string) bool {
	if len(r.Methods) > 0 {
		found := false
		for _, m := range r.Methods {
			if strings.EqualFold(m, method) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for i, pat := range r.segments {
		last := i == len(r.segments)-1
		if last && pat == "**" {
			return true
		}
		if i >= len(segments) {
			return false
		}
		if last && pat == "*" {
			return true
		}
		if ok, err := path.Match(pat, segments[i]); err != nil || !ok {
			return false
		}
	}
	return len(r.segments) == len(segments)
}

// Requirement returns the requirement of the first rule matching the request.
func (p *Policy) Requirement(method, urlPath string) Requirement {
	segments := splitPath(urlPath)
	for _, r := range p.rules {
		if r.matches(method, segments) {
			return r.Require
		}
	}
	return Authenticated()
}

// Check returns 0 when the request may proceed, otherwise the status to
// answer with: 401 without an identity, 403 when the role does not fit.
func (p *Policy) Check(method, urlPath string, identity auth.Identity, authenticated bool) int {
	req := p.Requirement(method, urlPath)
	switch {
	case req.Access == AccessPublic:
		return 0
	case !authenticated:
		return http.StatusUnauthorized
	case req.Access == AccessRole && !identity.HasRole(req.Role):
		return http.StatusForbidden
	default:
		return 0
	}
}

// Authorize enforces the policy. It must run after AuthGate.
func Authorize(policy *Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, authenticated := identityFromContext(c)
		switch policy.Check(c.Request.Method, c.Request.URL.Path, identity, authenticated) {
		case http.StatusUnauthorized:
			metrics.GateRejected(metrics.ReasonUnauthenticated)
			c.AbortWithStatus(http.StatusUnauthorized)
		case http.StatusForbidden:
			metrics.GateRejected(metrics.ReasonForbidden)
			c.AbortWithStatus(http.StatusForbidden)
		default:
			c.Next()
		}
	}
}
