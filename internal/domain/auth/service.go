package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"gameshelf-server-go/internal/domain/auth/model"
)

type (
	// Identity re-exports the credential-store entity for callers.
	Identity = model.Identity
	// AuthState re-exports the per-request authentication state.
	AuthState = model.AuthState
	// Logger re-exports the logging interface used across the domain.
	Logger = model.Logger
)

// ErrMalformedRequest marks missing or empty login fields. Callers map it to
// a 400; it is never logged as a security event.
var ErrMalformedRequest = errors.New("username and password are required")

// ErrNotAuthenticated is the uniform credential failure. The specific reason
// (unknown subject, wrong password, disabled flags) is logged internally but
// never revealed to the caller.
var ErrNotAuthenticated = errors.New("bad credentials")

// CredentialStore is the external collaborator holding identities. The lookup
// may block on I/O; implementations must be safe for concurrent use and must
// not serialize callers behind a process-wide lock.
type CredentialStore interface {
	FindBySubject(ctx context.Context, name string) (*model.Identity, error)
}

// Service verifies credentials against the store and issues tokens on
// success. It holds no per-request state and creates no session records.
type Service struct {
	store  CredentialStore
	codec  *TokenCodec
	logger Logger
}

// NewService wires an authentication service.
func NewService(store CredentialStore, codec *TokenCodec, logger Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth service requires a credential store")
	}
	if codec == nil {
		return nil, errors.New("auth service requires a token codec")
	}
	return &Service{
		store:  store,
		codec:  codec,
		logger: logger,
	}, nil
}

// Authenticate checks a username/password pair and returns a signed token.
// Empty inputs fail fast with ErrMalformedRequest; every credential failure
// surfaces as ErrNotAuthenticated, without distinguishing the cause.
func (s *Service) Authenticate(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrMalformedRequest
	}

	identity, err := s.store.FindBySubject(ctx, username)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("[Auth] credential lookup failed for %q: %v", username, err)
		}
		return "", ErrNotAuthenticated
	}
	if identity == nil {
		if s.logger != nil {
			s.logger.Warn("[Auth] login attempt for unknown subject %q", username)
		}
		return "", ErrNotAuthenticated
	}

	if !identity.Authenticatable() {
		if s.logger != nil {
			s.logger.Warn(
				"[Auth] login rejected for %q (enabled=%t locked=%t expired=%t credentials_expired=%t)",
				username, identity.Enabled, identity.Locked, identity.Expired, identity.CredentialsExpired,
			)
		}
		return "", ErrNotAuthenticated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		if s.logger != nil {
			s.logger.Warn("[Auth] password mismatch for %q", username)
		}
		return "", ErrNotAuthenticated
	}

	token, err := s.codec.Issue(identity.Subject)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("[Auth] token issue failed for %q: %v", username, err)
		}
		return "", ErrNotAuthenticated
	}
	return token, nil
}

// Codec exposes the token codec for the request filter.
func (s *Service) Codec() *TokenCodec {
	return s.codec
}

// HashPassword produces a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
