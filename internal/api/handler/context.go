package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/api/middleware"
	"github.com/storefront/storefront-api/internal/core/domain"
)

// ctxUser returns the account resolved by the Authenticate middleware. Its
// absence means the route was mounted without the guard.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authorized").SetInternal(domain.ErrUnauthenticated)
	}
	return user, nil
}
