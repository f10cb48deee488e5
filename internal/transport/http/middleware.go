package httptransport

import (
	"strings"

	"github.com/gin-gonic/gin"

	"gameshelf-server-go/internal/domain/auth"
	"gameshelf-server-go/internal/domain/auth/model"
)

const authStateKey = "gameshelf.authState"

// AuthStateFrom returns the authentication state the filter attached to the
// request. Requests that never passed the filter count as unauthenticated.
func AuthStateFrom(c *gin.Context) model.AuthState {
	if value, ok := c.Get(authStateKey); ok {
		if state, ok := value.(model.AuthState); ok {
			return state
		}
	}
	return model.AuthState{}
}

// AuthFilter resolves the bearer token on each request into an authentication
// state. A missing, malformed or stale token is treated as an absent
// credential; the request continues unauthenticated and the policy decides
// what it may reach.
func AuthFilter(codec *auth.TokenCodec, store auth.CredentialStore, logger model.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := resolveAuthState(c, codec, store, logger)
		c.Set(authStateKey, state)
		c.Next()
	}
}

func resolveAuthState(c *gin.Context, codec *auth.TokenCodec, store auth.CredentialStore, logger model.Logger) model.AuthState {
	header := c.GetHeader("Authorization")
	if header == "" {
		return model.AuthState{}
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return model.AuthState{}
	}

	subject, err := codec.Validate(token)
	if err != nil {
		logger.Debug("[Auth] rejected bearer token: %v", err)
		return model.AuthState{}
	}

	identity, err := store.FindBySubject(c.Request.Context(), subject)
	if err != nil {
		logger.Warn("[Auth] credential lookup failed for %q: %v", subject, err)
		return model.AuthState{}
	}
	if identity == nil || !identity.Authenticatable() {
		return model.AuthState{}
	}

	return model.AuthState{
		Authenticated: true,
		Subject:       identity.Subject,
		Roles:         identity.ActiveRoleNames(),
	}
}

// EnforcePolicy checks every request against the authorization rule table and
// rejects what no rule allows.
func EnforcePolicy(policy *auth.Policy, logger model.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := AuthStateFrom(c)
		decision := policy.Decide(c.Request.Method, c.Request.URL.Path, state)
		if decision.Allowed {
			c.Next()
			return
		}

		logger.Debug("[Auth] denied %s %s (authenticated=%v): %s",
			c.Request.Method, c.Request.URL.Path, state.Authenticated, decision.Reason)
		AbortError(c, decision.Status, decision.Reason)
	}
}
