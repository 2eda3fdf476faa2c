package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/core/domain"
)

func TestRequireAdmin_Allows(t *testing.T) {
	f := newGuardFixture(t)
	_, signed := f.addUser(t, domain.RoleAdmin)

	called := false
	rec := f.serve(t, "Bearer "+signed, func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}, RequireAdmin())

	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireAdmin_ForbidsUser(t *testing.T) {
	f := newGuardFixture(t)
	_, signed := f.addUser(t, domain.RoleUser)

	rec := f.serve(t, "Bearer "+signed, mustNotCall(t), RequireAdmin())
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireAdmin_RoleDowngradedAfterIssue(t *testing.T) {
	f := newGuardFixture(t)
	admin, signed := f.addUser(t, domain.RoleAdmin)

	claims, err := f.tokens.Verify(signed)
	if err != nil || claims.Role != domain.RoleAdmin {
		t.Fatalf("expected admin claim, got %+v (%v)", claims, err)
	}

	f.users.SetRole(admin.ID, domain.RoleUser)

	rec := f.serve(t, "Bearer "+signed, mustNotCall(t), RequireAdmin())
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 after downgrade, got %d", rec.Code)
	}
}

func TestRequireAdmin_RolePromotedAfterIssue(t *testing.T) {
	f := newGuardFixture(t)
	user, signed := f.addUser(t, domain.RoleUser)
	f.users.SetRole(user.ID, domain.RoleAdmin)

	rec := f.serve(t, "Bearer "+signed, func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RequireAdmin())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after promotion, got %d", rec.Code)
	}
}

func TestRequireRole_WithoutAuthenticate(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequireRole(domain.RoleAdmin)(mustNotCall(t))
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
