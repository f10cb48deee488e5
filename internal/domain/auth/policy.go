package auth

import (
	"net/http"
	"strings"

	"gameshelf-server-go/internal/domain/auth/model"
)

// Access is the requirement class of an authorization rule.
type Access int

const (
	// AccessPublic allows any caller.
	AccessPublic Access = iota
	// AccessAuthenticated allows any authenticated caller.
	AccessAuthenticated
	// AccessRoles allows authenticated callers holding at least one of the
	// rule's roles.
	AccessRoles
)

// Rule is one entry of the static authorization table: (method, path pattern)
// mapped to a requirement. Method "*" matches any method; a pattern may end
// in "/*" to match the remainder of the path.
type Rule struct {
	Method  string
	Pattern string
	Access  Access
	Roles   []string
}

// Public builds a rule allowing unauthenticated access.
func Public(method, pattern string) Rule {
	return Rule{Method: method, Pattern: pattern, Access: AccessPublic}
}

// Authenticated builds a rule requiring any valid identity.
func Authenticated(method, pattern string) Rule {
	return Rule{Method: method, Pattern: pattern, Access: AccessAuthenticated}
}

// RequireAnyRole builds a rule requiring one of the listed roles.
func RequireAnyRole(method, pattern string, roles ...string) Rule {
	return Rule{Method: method, Pattern: pattern, Access: AccessRoles, Roles: roles}
}

// Decision is the outcome of evaluating the table for one request.
type Decision struct {
	Allowed bool
	Status  int
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true, Status: http.StatusOK}
}

func deny(state model.AuthState, reason string) Decision {
	// 401 for unauthenticated callers, 403 for under-privileged ones
	status := http.StatusUnauthorized
	if state.Authenticated {
		status = http.StatusForbidden
	}
	return Decision{Allowed: false, Status: status, Reason: reason}
}

// Policy evaluates the ordered rule list, first match wins. The table is
// loaded once at process start and read-only afterwards. When no rule
// matches, the request is denied.
type Policy struct {
	rules []Rule
}

// NewPolicy constructs a policy over an ordered rule list.
func NewPolicy(rules ...Rule) *Policy {
	return &Policy{rules: rules}
}

// Decide resolves a request against the table.
func (p *Policy) Decide(method, path string, state model.AuthState) Decision {
	for _, rule := range p.rules {
		if !rule.matches(method, path) {
			continue
		}
		switch rule.Access {
		case AccessPublic:
			return allow()
		case AccessAuthenticated:
			if state.Authenticated {
				return allow()
			}
			return deny(state, "authentication required")
		case AccessRoles:
			if !state.Authenticated {
				return deny(state, "authentication required")
			}
			if state.HasAnyRole(rule.Roles...) {
				return allow()
			}
			return deny(state, "insufficient role")
		}
	}
	return deny(state, "no authorization rule matches")
}

func (r Rule) matches(method, path string) bool {
	if r.Method != "*" && !strings.EqualFold(r.Method, method) {
		return false
	}
	if pattern, ok := strings.CutSuffix(r.Pattern, "/*"); ok {
		return path == pattern || strings.HasPrefix(path, pattern+"/")
	}
	return path == r.Pattern
}
