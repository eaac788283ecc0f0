package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sweetshop/inventory-system/internal/core/domain"
	"github.com/sweetshop/inventory-system/internal/infrastructure/db/postgres"
)

const routerTestSecret = "router-test-secret"

func doRequest(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &body)
	return body.Error
}

type tokenUserResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// TestRouter exercises the full HTTP surface against an in-memory store.
// It runs as one test with ordered subtests: the prometheus middleware
// registers collectors in the default registry, so the router can only be
// constructed once per test binary.
func TestRouter(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:router_test?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := postgres.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	e := NewRouter(db, routerTestSecret, time.Hour, zerolog.Nop())

	// Seed an admin account the way cmd/createadmin does.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if _, err := postgres.NewAuthRepository(db).Create(context.Background(), &domain.User{
		Username: "admin", Email: "admin@example.com", PasswordHash: string(hash), Role: domain.RoleAdmin,
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	var userToken, adminToken string

	t.Run("register", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/api/auth/register", "",
			`{"username":"alice","email":"alice@example.com","password":"secret1"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp tokenUserResponse
		decodeBody(t, rec, &resp)
		if resp.Token == "" {
			t.Fatalf("expected a token")
		}
		if resp.User == nil || resp.User.Role != domain.RoleUser {
			t.Fatalf("expected role user, got %+v", resp.User)
		}
		if strings.Contains(rec.Body.String(), "password") {
			t.Fatalf("password material leaked: %s", rec.Body.String())
		}
		userToken = resp.Token
	})

	t.Run("register duplicate", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/api/auth/register", "",
			`{"username":"alice","email":"other@example.com","password":"secret1"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if msg := errorMessage(t, rec); msg == "" {
			t.Fatalf("expected error message")
		}
	})

	t.Run("login failures are indistinguishable", func(t *testing.T) {
		wrong := doRequest(e, http.MethodPost, "/api/auth/login", "",
			`{"email":"alice@example.com","password":"wrong-pass"}`)
		unknown := doRequest(e, http.MethodPost, "/api/auth/login", "",
			`{"email":"ghost@example.com","password":"secret1"}`)

		if wrong.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401/401, got %d/%d", wrong.Code, unknown.Code)
		}
		if errorMessage(t, wrong) != errorMessage(t, unknown) {
			t.Fatalf("wrong-password and unknown-email must return identical errors")
		}
	})

	t.Run("login", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/api/auth/login", "",
			`{"email":"admin@example.com","password":"admin-pass"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp tokenUserResponse
		decodeBody(t, rec, &resp)
		if resp.Token == "" || resp.User == nil || resp.User.Role != domain.RoleAdmin {
			t.Fatalf("unexpected login response: %+v", resp)
		}
		adminToken = resp.Token
	})

	t.Run("inventory requires auth", func(t *testing.T) {
		targets := []struct {
			method, target string
		}{
			{http.MethodGet, "/api/sweets"},
			{http.MethodPost, "/api/sweets"},
			{http.MethodGet, "/api/sweets/search"},
			{http.MethodGet, "/api/sweets/1"},
			{http.MethodPut, "/api/sweets/1"},
			{http.MethodDelete, "/api/sweets/1"},
			{http.MethodPost, "/api/sweets/1/purchase"},
			{http.MethodPost, "/api/sweets/1/restock"},
		}
		for _, tc := range targets {
			rec := doRequest(e, tc.method, tc.target, "", "")
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.target, rec.Code)
			}
		}
	})

	t.Run("create sweets", func(t *testing.T) {
		seed := []string{
			`{"name":"Chocolate Bar","category":"Chocolate","price":2.50,"quantity":10}`,
			`{"name":"Gummy Bears","category":"Candy","price":1.75,"quantity":20}`,
			`{"name":"Lollipop","category":"Candy","price":0.75,"quantity":5}`,
		}
		for _, body := range seed {
			rec := doRequest(e, http.MethodPost, "/api/sweets", userToken, body)
			if rec.Code != http.StatusCreated {
				t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
			}
		}

		dup := doRequest(e, http.MethodPost, "/api/sweets", userToken,
			`{"name":"Lollipop","category":"Chocolate","price":9.99,"quantity":1}`)
		if dup.Code != http.StatusBadRequest {
			t.Fatalf("duplicate name: expected 400, got %d", dup.Code)
		}
	})

	t.Run("list ordered by name", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/sweets", userToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var sweets []domain.Sweet
		decodeBody(t, rec, &sweets)
		want := []string{"Chocolate Bar", "Gummy Bears", "Lollipop"}
		if len(sweets) != len(want) {
			t.Fatalf("expected %d sweets, got %d", len(want), len(sweets))
		}
		for i, name := range want {
			if sweets[i].Name != name {
				t.Fatalf("position %d: expected %s, got %s", i, name, sweets[i].Name)
			}
		}
	})

	t.Run("search", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/sweets/search?category=Candy&minPrice=0.5&maxPrice=1.0", userToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var sweets []domain.Sweet
		decodeBody(t, rec, &sweets)
		if len(sweets) != 1 || sweets[0].Name != "Lollipop" {
			t.Fatalf("expected exactly [Lollipop], got %+v", sweets)
		}

		byName := doRequest(e, http.MethodGet, "/api/sweets/search?name=GUMMY", userToken, "")
		decodeBody(t, byName, &sweets)
		if len(sweets) != 1 || sweets[0].Name != "Gummy Bears" {
			t.Fatalf("name search should be case-insensitive, got %+v", sweets)
		}
	})

	t.Run("get by id", func(t *testing.T) {
		rec := doRequest(e, http.MethodGet, "/api/sweets/1", userToken, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		missing := doRequest(e, http.MethodGet, "/api/sweets/999", userToken, "")
		if missing.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", missing.Code)
		}

		bad := doRequest(e, http.MethodGet, "/api/sweets/abc", userToken, "")
		if bad.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for non-numeric id, got %d", bad.Code)
		}
	})

	t.Run("update", func(t *testing.T) {
		rec := doRequest(e, http.MethodPut, "/api/sweets/3", userToken, `{"price":2.00}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var sweet domain.Sweet
		decodeBody(t, rec, &sweet)
		if sweet.Price != 2.00 || sweet.Name != "Lollipop" || sweet.Quantity != 5 {
			t.Fatalf("partial update touched wrong fields: %+v", sweet)
		}

		empty := doRequest(e, http.MethodPut, "/api/sweets/3", userToken, `{}`)
		if empty.Code != http.StatusBadRequest {
			t.Fatalf("empty update: expected 400, got %d", empty.Code)
		}
	})

	t.Run("admin gates", func(t *testing.T) {
		// A 403 for non-admins regardless of whether the target exists.
		for _, target := range []string{"/api/sweets/1", "/api/sweets/999"} {
			rec := doRequest(e, http.MethodDelete, target, userToken, "")
			if rec.Code != http.StatusForbidden {
				t.Fatalf("DELETE %s: expected 403, got %d", target, rec.Code)
			}
		}
		rec := doRequest(e, http.MethodPost, "/api/sweets/1/restock", userToken, `{"quantity":5}`)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("restock as user: expected 403, got %d", rec.Code)
		}
	})

	t.Run("purchase until out of stock", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/api/sweets", userToken,
			`{"name":"Last Caramel","category":"Caramel","price":1.25,"quantity":1}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
		var sweet domain.Sweet
		decodeBody(t, rec, &sweet)

		target := fmt.Sprintf("/api/sweets/%d/purchase", sweet.ID)

		first := doRequest(e, http.MethodPost, target, userToken, "")
		if first.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", first.Code, first.Body.String())
		}
		decodeBody(t, first, &sweet)
		if sweet.Quantity != 0 {
			t.Fatalf("expected quantity 0 after purchase, got %d", sweet.Quantity)
		}

		second := doRequest(e, http.MethodPost, target, userToken, "")
		if second.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", second.Code)
		}
		if msg := errorMessage(t, second); !strings.Contains(msg, "out of stock") {
			t.Fatalf("expected an out of stock message, got %q", msg)
		}
	})

	t.Run("restock as admin", func(t *testing.T) {
		rec := doRequest(e, http.MethodPost, "/api/sweets/3/restock", adminToken, `{"quantity":10}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var sweet domain.Sweet
		decodeBody(t, rec, &sweet)
		if sweet.Quantity != 15 {
			t.Fatalf("expected quantity 15, got %d", sweet.Quantity)
		}

		bad := doRequest(e, http.MethodPost, "/api/sweets/3/restock", adminToken, `{"quantity":0}`)
		if bad.Code != http.StatusBadRequest {
			t.Fatalf("restock 0: expected 400, got %d", bad.Code)
		}
	})

	t.Run("delete as admin", func(t *testing.T) {
		rec := doRequest(e, http.MethodDelete, "/api/sweets/2", adminToken, "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}

		gone := doRequest(e, http.MethodDelete, "/api/sweets/2", adminToken, "")
		if gone.Code != http.StatusNotFound {
			t.Fatalf("second delete: expected 404, got %d", gone.Code)
		}
	})

	t.Run("health and metrics", func(t *testing.T) {
		if rec := doRequest(e, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
			t.Fatalf("/health: expected 200, got %d", rec.Code)
		}
		if rec := doRequest(e, http.MethodGet, "/health/ready", "", ""); rec.Code != http.StatusOK {
			t.Fatalf("/health/ready: expected 200, got %d", rec.Code)
		}
		if rec := doRequest(e, http.MethodGet, "/metrics", "", ""); rec.Code != http.StatusOK {
			t.Fatalf("/metrics: expected 200, got %d", rec.Code)
		}
	})
}
