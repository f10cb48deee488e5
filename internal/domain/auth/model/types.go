package model

import "time"

// Logger provides the minimal logging contract required by the auth domain.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity is the credential-store view of a user account. All four status
// flags gate authentication; any non-default flag fails the login.
type Identity struct {
	Subject            string
	PasswordHash       string
	Enabled            bool
	Locked             bool
	Expired            bool
	CredentialsExpired bool
	Roles              []Role
}

// Role is a named permission group with an activity flag. An identity holds a
// set of roles, unique by name, order irrelevant.
type Role struct {
	Name   string
	Active bool
}

// ActiveRoleNames returns the names of the identity's active roles.
func (i *Identity) ActiveRoleNames() []string {
	names := make([]string, 0, len(i.Roles))
	for _, r := range i.Roles {
		if r.Active {
			names = append(names, r.Name)
		}
	}
	return names
}

// Authenticatable reports whether the identity may receive a token. Callers
// must still verify the password separately.
func (i *Identity) Authenticatable() bool {
	return i.Enabled && !i.Locked && !i.Expired && !i.CredentialsExpired
}

// AuthState is the per-request authentication outcome established by the
// request filter. The zero value is the unauthenticated state.
type AuthState struct {
	Authenticated bool
	Subject       string
	Roles         []string
	IssuedAt      time.Time
}

// HasAnyRole reports whether the state carries at least one of the names.
func (s AuthState) HasAnyRole(names ...string) bool {
	if !s.Authenticated {
		return false
	}
	for _, want := range names {
		for _, have := range s.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
