package auth

import (
	"net/http"
	"testing"

	"gameshelf-server-go/internal/domain/auth/model"
)

func testPolicy() *Policy {
	return NewPolicy(
		Public("POST", "/api/auth/login"),
		Public("GET", "/api/boardgames/*"),
		Public("GET", "/api/boardgames"),
		RequireAnyRole("*", "/api/boardgames/*", "ADMIN", "EMPLOYEE"),
		RequireAnyRole("*", "/api/users/*", "ADMIN"),
		Authenticated("*", "/api/reservations/*"),
		Authenticated("*", "/api/reservations"),
	)
}

func authState(roles ...string) model.AuthState {
	return model.AuthState{Authenticated: true, Subject: "tester", Roles: roles}
}

func TestPolicyDecide(t *testing.T) {
	policy := testPolicy()

	tests := []struct {
		name       string
		method     string
		path       string
		state      model.AuthState
		allowed    bool
		wantStatus int
	}{
		{
			name:    "public login",
			method:  "POST",
			path:    "/api/auth/login",
			allowed: true,
		},
		{
			name:    "public boardgame read without credentials",
			method:  "GET",
			path:    "/api/boardgames/42",
			allowed: true,
		},
		{
			name:       "write boardgame unauthenticated",
			method:     "POST",
			path:       "/api/boardgames/42/cover",
			allowed:    false,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "write boardgame wrong role",
			method:     "DELETE",
			path:       "/api/boardgames/42",
			state:      authState("CUSTOMER"),
			allowed:    false,
			wantStatus: http.StatusForbidden,
		},
		{
			name:    "write boardgame as employee",
			method:  "PUT",
			path:    "/api/boardgames/42",
			state:   authState("EMPLOYEE"),
			allowed: true,
		},
		{
			name:    "admin route as admin",
			method:  "GET",
			path:    "/api/users/7",
			state:   authState("ADMIN", "USER"),
			allowed: true,
		},
		{
			name:       "admin route as plain user",
			method:     "GET",
			path:       "/api/users/7",
			state:      authState("USER"),
			allowed:    false,
			wantStatus: http.StatusForbidden,
		},
		{
			name:    "authenticated reservations",
			method:  "POST",
			path:    "/api/reservations",
			state:   authState("CUSTOMER"),
			allowed: true,
		},
		{
			name:       "reservations without token",
			method:     "GET",
			path:       "/api/reservations",
			allowed:    false,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unmatched path denied by default unauthenticated",
			method:     "GET",
			path:       "/api/internal/debug",
			allowed:    false,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unmatched path denied by default authenticated",
			method:     "GET",
			path:       "/api/internal/debug",
			state:      authState("ADMIN"),
			allowed:    false,
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := policy.Decide(tt.method, tt.path, tt.state)
			if decision.Allowed != tt.allowed {
				t.Fatalf("Decide(%s %s) allowed=%t, want %t (reason %q)",
					tt.method, tt.path, decision.Allowed, tt.allowed, decision.Reason)
			}
			if !tt.allowed && decision.Status != tt.wantStatus {
				t.Fatalf("Decide(%s %s) status=%d, want %d",
					tt.method, tt.path, decision.Status, tt.wantStatus)
			}
		})
	}
}

func TestPolicyFirstMatchWins(t *testing.T) {
	// the specific public rule shadows the broader role rule behind it
	policy := NewPolicy(
		Public("GET", "/api/boardgames/featured"),
		RequireAnyRole("*", "/api/boardgames/*", "ADMIN"),
	)

	decision := policy.Decide("GET", "/api/boardgames/featured", model.AuthState{})
	if !decision.Allowed {
		t.Fatalf("expected first matching rule to allow, got %+v", decision)
	}

	decision = policy.Decide("GET", "/api/boardgames/9", model.AuthState{})
	if decision.Allowed {
		t.Fatal("expected fallthrough rule to deny")
	}
}

func TestRuleWildcardMatching(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/api/boardgames", "/api/boardgames", true},
		{"/api/boardgames", "/api/boardgames/1", false},
		{"/api/boardgames/*", "/api/boardgames", true},
		{"/api/boardgames/*", "/api/boardgames/1", true},
		{"/api/boardgames/*", "/api/boardgames/1/reviews", true},
		{"/api/boardgames/*", "/api/boardgamesx", false},
	}

	for _, tt := range tests {
		rule := Public("GET", tt.pattern)
		if got := rule.matches("GET", tt.path); got != tt.want {
			t.Errorf("pattern %q vs path %q: got %t, want %t", tt.pattern, tt.path, got, tt.want)
		}
	}
}
