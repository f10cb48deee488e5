package webapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"gameshelf-server-go/internal/domain/auth"
	"gameshelf-server-go/internal/domain/notify"
	notifystore "gameshelf-server-go/internal/domain/notify/store"
	"gameshelf-server-go/internal/platform/logging"
	"gameshelf-server-go/internal/platform/storage"
	platformtesting "gameshelf-server-go/internal/platform/testing"
	httptransport "gameshelf-server-go/internal/transport/http"
)

type testEnv struct {
	engine *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := platformtesting.SetupTestConfig(t)
	cfg.Web.StaticDir = ""
	cfg.Web.UploadDir = t.TempDir()

	logger, err := logging.New(logging.Config{Level: "ERROR", Dir: cfg.Log.Dir, Filename: "test.log"})
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}
	t.Cleanup(func() { logger.Close() })

	dsn := fmt.Sprintf("file:webapi-test-%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := storage.Open(dsn)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := storage.Seed(t.Context(), db); err != nil {
		t.Fatalf("seed database: %v", err)
	}

	users := storage.NewUserRepository(db)
	codec, err := auth.NewTokenCodec(cfg.Auth.Secret, cfg.Auth.TokenTTL.Std())
	if err != nil {
		t.Fatalf("create codec: %v", err)
	}
	authService, err := auth.NewService(users, codec, logger)
	if err != nil {
		t.Fatalf("create auth service: %v", err)
	}
	notifications, err := notify.NewService(notifystore.NewMemory(notifystore.Config{TTL: time.Hour}), logger)
	if err != nil {
		t.Fatalf("create notify service: %v", err)
	}
	t.Cleanup(func() { _ = notifications.Close(t.Context()) })

	service, err := NewService(Options{
		Config:        cfg,
		Logger:        logger,
		Auth:          authService,
		Users:         users,
		Boardgames:    storage.NewBoardgameRepository(db),
		Publishers:    storage.NewPublisherRepository(db),
		Reservations:  storage.NewReservationRepository(db),
		Reviews:       storage.NewReviewRepository(db),
		Analytics:     storage.NewAnalyticsRepository(db),
		Notifications: notifications,
	})
	if err != nil {
		t.Fatalf("create webapi service: %v", err)
	}

	router, err := httptransport.Build(httptransport.Options{
		Config:      cfg,
		Logger:      logger,
		AuthFilter:  httptransport.AuthFilter(codec, users, logger),
		PolicyGuard: httptransport.EnforcePolicy(Policy(), logger),
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	if err := service.Register(t.Context(), router.API); err != nil {
		t.Fatalf("register routes: %v", err)
	}
	return &testEnv{engine: router.Engine}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	rec := e.do(t, "POST", "/api/auth/login", "", gin.H{"username": username, "password": password})
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Data.Token == "" {
		t.Fatal("login returned empty token")
	}
	return resp.Data.Token
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)

	token := env.login(t, "Ruthger", "password123")
	if token == "" {
		t.Fatal("expected token")
	}

	rec := env.do(t, "POST", "/api/auth/login", "", gin.H{"username": "Ruthger", "password": "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rec.Code)
	}
	rec = env.do(t, "POST", "/api/auth/login", "", gin.H{"username": "nobody", "password": "whatever"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", rec.Code)
	}
	rec = env.do(t, "POST", "/api/auth/login", "", gin.H{"username": "", "password": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty credentials, got %d", rec.Code)
	}
}

func TestBoardgameAccessControl(t *testing.T) {
	env := newTestEnv(t)

	// anonymous reads are public
	rec := env.do(t, "GET", "/api/boardgames", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected public listing, got %d", rec.Code)
	}

	// anonymous writes are rejected before reaching the handler
	rec = env.do(t, "POST", "/api/boardgames", "", gin.H{"name": "X", "publisherId": 1})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous create, got %d", rec.Code)
	}

	token := env.login(t, "Ruthger", "password123")
	rec = env.do(t, "POST", "/api/boardgames", token, gin.H{
		"name":        "Azul",
		"publisherId": 1,
		"minPlayers":  2,
		"maxPlayers":  4,
		"stock":       3,
		"attributes":  gin.H{"category": "abstract"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, "POST", "/api/boardgames", token, gin.H{"name": "No Publisher", "publisherId": 999})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown publisher, got %d", rec.Code)
	}
}

func TestReservationLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "Ruthger", "password123")

	// create a plain customer through the admin API
	rec := env.do(t, "POST", "/api/users", admin, gin.H{
		"username": "carol",
		"password": "hunter22",
		"roles":    []string{"USER"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user failed: %d %s", rec.Code, rec.Body.String())
	}
	carol := env.login(t, "carol", "hunter22")

	// carol cannot manage users
	rec = env.do(t, "GET", "/api/users", carol, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin user list, got %d", rec.Code)
	}

	rec = env.do(t, "POST", "/api/reservations", carol, gin.H{"boardgameId": 1})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create reservation failed: %d %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data struct {
			ID   uint   `json:"id"`
			Code string `json:"code"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode reservation: %v", err)
	}

	rec = env.do(t, "GET", "/api/reservations", carol, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list own reservations failed: %d", rec.Code)
	}

	// only staff may see the full ledger
	rec = env.do(t, "GET", "/api/reservations/all", carol, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer on /reservations/all, got %d", rec.Code)
	}
	rec = env.do(t, "GET", "/api/reservations/all", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin on /reservations/all, got %d", rec.Code)
	}

	// activation is a staff action even though the policy admits any
	// authenticated caller to /api/reservations/*
	path := fmt.Sprintf("/api/reservations/%d/activate", created.Data.ID)
	rec = env.do(t, "POST", path, carol, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer activation, got %d", rec.Code)
	}
	rec = env.do(t, "POST", path, admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("activation failed: %d %s", rec.Code, rec.Body.String())
	}

	path = fmt.Sprintf("/api/reservations/%d/return", created.Data.ID)
	rec = env.do(t, "POST", path, carol, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("return failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = env.do(t, "POST", path, carol, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for double return, got %d", rec.Code)
	}
}

func TestReviewAndAnalytics(t *testing.T) {
	env := newTestEnv(t)
	admin := env.login(t, "Ruthger", "password123")

	rec := env.do(t, "POST", "/api/reviews", admin, gin.H{"boardgameId": 1, "rating": 5, "comment": "great"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create review failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = env.do(t, "POST", "/api/reviews", admin, gin.H{"boardgameId": 1, "rating": 4})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate review, got %d", rec.Code)
	}
	rec = env.do(t, "POST", "/api/reviews", admin, gin.H{"boardgameId": 1, "rating": 9})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range rating, got %d", rec.Code)
	}

	rec = env.do(t, "GET", "/api/boardgames/1/reviews", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list reviews failed: %d", rec.Code)
	}
	var reviews struct {
		Data struct {
			AverageRating float64 `json:"averageRating"`
			Count         int64   `json:"count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &reviews); err != nil {
		t.Fatalf("decode reviews: %v", err)
	}
	if reviews.Data.Count != 1 || reviews.Data.AverageRating != 5 {
		t.Fatalf("unexpected aggregate: %+v", reviews.Data)
	}

	rec = env.do(t, "GET", "/api/analytics/summary", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("analytics summary failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = env.do(t, "GET", "/api/analytics/summary", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous analytics, got %d", rec.Code)
	}
}
