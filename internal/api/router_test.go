package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports/portstest"
	"github.com/storefront/storefront-api/internal/core/service"
	"github.com/storefront/storefront-api/internal/pkg/password"
	"github.com/storefront/storefront-api/internal/pkg/token"
)

const (
	adminEmail    = "admin@shop.io"
	adminPassword = "admin-pw"
)

type testApp struct {
	e      *echo.Echo
	users  *portstest.Users
	orders *portstest.Orders
	tokens *token.Manager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := zerolog.Nop()

	users := portstest.NewUsers()
	orders := portstest.NewOrders()
	products := portstest.NewProducts()
	blobs := portstest.NewBlobs()
	revoked := portstest.NewRevocations()
	hasher := password.NewHasher(bcrypt.MinCost)

	tokens, err := token.NewManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	if err := service.EnsureAdmin(context.Background(), users, hasher, "Admin", adminEmail, adminPassword, log); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	e := NewRouter(Deps{
		Logger:   log,
		Auth:     service.NewAuthService(users, hasher, tokens, revoked, blobs, log),
		Admin:    service.NewAdminService(users, orders, blobs, log),
		Products: service.NewProductService(products, blobs, log),
		Orders:   service.NewOrderService(orders, log),
		Blobs:    blobs,
		Tokens:   tokens,
		Revoker:  revoked,
		Users:    users,
		Registry: prometheus.NewRegistry(),
	})
	return &testApp{e: e, users: users, orders: orders, tokens: tokens}
}

func (a *testApp) do(t *testing.T, method, path, bearer, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return out
}

func (a *testApp) login(t *testing.T, path, email, pw string) (string, string) {
	t.Helper()
	rec := a.do(t, http.MethodPost, path, "", `{"email":"`+email+`","password":"`+pw+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	user := body["user"].(map[string]any)
	return body["token"].(string), user["id"].(string)
}

func TestRouter_RegisterAndLogin(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/auth/register", "", `{"name":"Alice","email":"a@x.com","password":"p1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if tok, _ := body["token"].(string); tok == "" {
		t.Fatalf("expected token in register response")
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("register response leaks password: %s", rec.Body.String())
	}

	rec = app.do(t, http.MethodPost, "/auth/login", "", `{"email":"a@x.com","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", rec.Code)
	}
	if msg, _ := decode(t, rec)["error"].(string); msg == "" {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}

	signed, _ := app.login(t, "/auth/login", "a@x.com", "p1")
	claims, err := app.tokens.Verify(signed)
	if err != nil {
		t.Fatalf("login token invalid: %v", err)
	}
	if claims.Role != domain.RoleUser || claims.Email != "a@x.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRouter_RegisterDuplicate(t *testing.T) {
	app := newTestApp(t)
	body := `{"name":"Bob","email":"b@x.com","password":"pw"}`

	if rec := app.do(t, http.MethodPost, "/auth/register", "", body); rec.Code != http.StatusCreated {
		t.Fatalf("first register: %d", rec.Code)
	}
	before := app.users.Count()

	rec := app.do(t, http.MethodPost, "/auth/register", "", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if app.users.Count() != before {
		t.Fatalf("expected user count unchanged")
	}
}

func TestRouter_AdminCannotDeleteSelf(t *testing.T) {
	app := newTestApp(t)
	adminToken, adminID := app.login(t, "/auth/admin/login", adminEmail, adminPassword)
	before := app.users.Count()

	for _, id := range []string{adminID, strings.ToUpper(adminID)} {
		rec := app.do(t, http.MethodDelete, "/admin/users/"+id, adminToken, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d: %s", id, rec.Code, rec.Body.String())
		}
		if msg := decode(t, rec)["error"]; msg != domain.ErrSelfDelete.Error() {
			t.Fatalf("%s: unexpected message %v", id, msg)
		}
		if app.users.Count() != before {
			t.Fatalf("%s: expected user count unchanged", id)
		}
	}
}

func TestRouter_AdminDeletesUserWithOrders(t *testing.T) {
	app := newTestApp(t)
	adminToken, _ := app.login(t, "/auth/admin/login", adminEmail, adminPassword)

	rec := app.do(t, http.MethodPost, "/auth/register", "", `{"name":"Carl","email":"c@x.com","password":"pw"}`)
	body := decode(t, rec)
	userToken := body["token"].(string)
	userID := body["user"].(map[string]any)["id"].(string)

	for i := 0; i < 2; i++ {
		rec := app.do(t, http.MethodPost, "/orders", userToken, `{"items":[{"product_id":"p1"}],"total_amount":5}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create order: expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec = app.do(t, http.MethodGet, "/admin/users", adminToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list users: %d", rec.Code)
	}
	users := decode(t, rec)["users"].([]any)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	rec = app.do(t, http.MethodDelete, "/admin/users/"+userID, adminToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if app.orders.CountFor(userID) != 0 {
		t.Fatalf("expected orders removed with user")
	}

	// The deleted user's token no longer resolves.
	if rec := app.do(t, http.MethodGet, "/auth/profile", userToken, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted user, got %d", rec.Code)
	}
	if rec := app.do(t, http.MethodDelete, "/admin/users/"+userID, adminToken, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestRouter_RoleDowngradeRevokesAdminAccess(t *testing.T) {
	app := newTestApp(t)
	adminToken, adminID := app.login(t, "/auth/admin/login", adminEmail, adminPassword)

	if rec := app.do(t, http.MethodGet, "/admin/users", adminToken, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 before downgrade, got %d", rec.Code)
	}

	app.users.SetRole(adminID, domain.RoleUser)

	if rec := app.do(t, http.MethodGet, "/admin/users", adminToken, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 after downgrade, got %d", rec.Code)
	}
}

func TestRouter_NonAdminRejected(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, http.MethodPost, "/auth/register", "", `{"name":"Dee","email":"d@x.com","password":"pw"}`)
	userToken := decode(t, rec)["token"].(string)

	if rec := app.do(t, http.MethodGet, "/admin/users", userToken, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if rec := app.do(t, http.MethodGet, "/admin/users", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := app.do(t, http.MethodPost, "/auth/admin/login", "", `{"email":"d@x.com","password":"pw"}`); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 on admin login, got %d", rec.Code)
	}
}

func TestRouter_ProfileUpdateRefreshesToken(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, http.MethodPost, "/auth/register", "", `{"name":"Eve","email":"e@x.com","password":"pw"}`)
	oldToken := decode(t, rec)["token"].(string)

	rec = app.do(t, http.MethodPut, "/auth/profile", oldToken, `{"name":"Eve Adams"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	newToken := decode(t, rec)["token"].(string)
	claims, err := app.tokens.Verify(newToken)
	if err != nil {
		t.Fatalf("new token invalid: %v", err)
	}
	if claims.Name != "Eve Adams" || claims.Email != "e@x.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	rec = app.do(t, http.MethodGet, "/auth/profile", newToken, "")
	user := decode(t, rec)["user"].(map[string]any)
	if user["name"] != "Eve Adams" {
		t.Fatalf("unexpected profile: %v", user)
	}
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, http.MethodPost, "/auth/register", "", `{"name":"Fay","email":"f@x.com","password":"pw"}`)
	tok := decode(t, rec)["token"].(string)

	if rec := app.do(t, http.MethodPost, "/auth/logout", tok, ""); rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}
	if rec := app.do(t, http.MethodGet, "/auth/profile", tok, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected revoked token to be rejected, got %d", rec.Code)
	}
}

func TestRouter_Health(t *testing.T) {
	app := newTestApp(t)
	if rec := app.do(t, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := app.do(t, http.MethodGet, "/metrics", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected metrics endpoint, got %d", rec.Code)
	}
}
