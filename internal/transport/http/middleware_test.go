package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"gameshelf-server-go/internal/domain/auth"
	"gameshelf-server-go/internal/domain/auth/model"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type fakeStore struct {
	identities map[string]*model.Identity
}

func (f *fakeStore) FindBySubject(_ context.Context, name string) (*model.Identity, error) {
	return f.identities[name], nil
}

func testIdentity(subject string, roles ...string) *model.Identity {
	identity := &model.Identity{Subject: subject, Enabled: true}
	for _, role := range roles {
		identity.Roles = append(identity.Roles, model.Role{Name: role, Active: true})
	}
	return identity
}

func newGuardedEngine(t *testing.T, codec *auth.TokenCodec, store auth.CredentialStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	policy := auth.NewPolicy(
		auth.Public("GET", "/api/boardgames/*"),
		auth.Authenticated("POST", "/api/reservations"),
		auth.RequireAnyRole("POST", "/api/boardgames/*", "EMPLOYEE", "ADMIN"),
	)

	engine := gin.New()
	api := engine.Group("/api")
	api.Use(AuthFilter(codec, store, nopLogger{}))
	api.Use(EnforcePolicy(policy, nopLogger{}))
	handler := func(c *gin.Context) {
		state := AuthStateFrom(c)
		RespondSuccess(c, http.StatusOK, gin.H{"subject": state.Subject}, "")
	}
	api.GET("/boardgames", handler)
	api.POST("/boardgames", handler)
	api.POST("/reservations", handler)
	api.GET("/admin", handler)
	return engine
}

func perform(engine *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestGuardedRoutes(t *testing.T) {
	codec, err := auth.NewTokenCodec("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}
	store := &fakeStore{identities: map[string]*model.Identity{
		"alice":  testIdentity("alice", "USER"),
		"edgar":  testIdentity("edgar", "EMPLOYEE"),
		"mallet": {Subject: "mallet", Enabled: true, Locked: true},
	}}
	engine := newGuardedEngine(t, codec, store)

	aliceToken, _ := codec.Issue("alice")
	edgarToken, _ := codec.Issue("edgar")
	malletToken, _ := codec.Issue("mallet")
	ghostToken, _ := codec.Issue("ghost")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"public read without token", "GET", "/api/boardgames", "", http.StatusOK},
		{"public read with invalid token", "GET", "/api/boardgames", "garbage", http.StatusOK},
		{"protected write without token", "POST", "/api/boardgames", "", http.StatusUnauthorized},
		{"protected write with wrong role", "POST", "/api/boardgames", aliceToken, http.StatusForbidden},
		{"protected write with staff role", "POST", "/api/boardgames", edgarToken, http.StatusOK},
		{"authenticated route with token", "POST", "/api/reservations", aliceToken, http.StatusOK},
		{"authenticated route without token", "POST", "/api/reservations", "", http.StatusUnauthorized},
		{"locked account token is ignored", "POST", "/api/reservations", malletToken, http.StatusUnauthorized},
		{"token for unknown subject is ignored", "POST", "/api/reservations", ghostToken, http.StatusUnauthorized},
		{"unmatched route denied unauthenticated", "GET", "/api/admin", "", http.StatusUnauthorized},
		{"unmatched route denied authenticated", "GET", "/api/admin", aliceToken, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := perform(engine, tt.method, tt.path, tt.token)
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d body=%s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestExpiredTokenTreatedAsAbsent(t *testing.T) {
	codec, err := auth.NewTokenCodec("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}
	shortCodec, _ := auth.NewTokenCodec("test-secret", time.Nanosecond)
	store := &fakeStore{identities: map[string]*model.Identity{
		"alice": testIdentity("alice", "USER"),
	}}
	engine := newGuardedEngine(t, codec, store)

	expired, err := shortCodec.Issue("alice")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	rec := perform(engine, "POST", "/api/reservations", expired)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}

	// expired token on a public route still passes through
	rec = perform(engine, "GET", "/api/boardgames", expired)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on public route, got %d", rec.Code)
	}
}

func TestErrorBodyShape(t *testing.T) {
	codec, _ := auth.NewTokenCodec("test-secret", time.Hour)
	store := &fakeStore{identities: map[string]*model.Identity{}}
	engine := newGuardedEngine(t, codec, store)

	rec := perform(engine, "POST", "/api/boardgames", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var body ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Status != http.StatusUnauthorized {
		t.Fatalf("unexpected status field: %d", body.Status)
	}
	if body.Error != "Unauthorized" {
		t.Fatalf("unexpected error field: %q", body.Error)
	}
	if body.Message == "" || body.Timestamp.IsZero() {
		t.Fatalf("incomplete error body: %+v", body)
	}
}
