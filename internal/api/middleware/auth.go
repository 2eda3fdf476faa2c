package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/storefront/storefront-api/internal/api/metrics"
	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
	"github.com/storefront/storefront-api/internal/pkg/token"
)

const (
	ctxUserKey   = "user"
	ctxClaimsKey = "claims"
)

// UserLoader resolves the account a token points at.
type UserLoader interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Authenticate validates the bearer token, rejects revoked tokens and loads the
// current user record into the context. Downstream checks must use
// CurrentUser, never the role embedded in the token.
func Authenticate(verifier ports.TokenVerifier, revoker ports.TokenRevoker, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.GuardRejectionsTotal.WithLabelValues("missing_header").Inc()
				return reject(domain.ErrUnauthenticated, "not authorized, no token")
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				if errors.Is(err, token.ErrExpired) {
					metrics.GuardRejectionsTotal.WithLabelValues("expired").Inc()
					return reject(domain.ErrInvalidToken, "token expired")
				}
				metrics.GuardRejectionsTotal.WithLabelValues("invalid_token").Inc()
				return reject(domain.ErrInvalidToken, "not authorized, token failed")
			}

			ctx := c.Request().Context()
			if claims.ID != "" {
				revoked, err := revoker.IsRevoked(ctx, claims.ID)
				if err != nil {
					return fmt.Errorf("check token revocation: %w", err)
				}
				if revoked {
					metrics.GuardRejectionsTotal.WithLabelValues("revoked").Inc()
					return reject(domain.ErrInvalidToken, "token has been revoked")
				}
			}

			user, err := users.FindByID(ctx, claims.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					metrics.GuardRejectionsTotal.WithLabelValues("user_gone").Inc()
					return reject(domain.ErrInvalidToken, "user no longer exists")
				}
				return fmt.Errorf("load token user: %w", err)
			}

			c.Set(ctxUserKey, user)
			c.Set(ctxClaimsKey, claims)
			return next(c)
		}
	}
}

// CurrentUser returns the account loaded by Authenticate.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	u, ok := c.Get(ctxUserKey).(*domain.User)
	return u, ok && u != nil
}

// CurrentClaims returns the verified claims of the presented token.
func CurrentClaims(c echo.Context) (*token.Claims, bool) {
	cl, ok := c.Get(ctxClaimsKey).(*token.Claims)
	return cl, ok && cl != nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	return raw, raw != ""
}

func reject(cause error, msg string) error {
	return echo.NewHTTPError(http.StatusUnauthorized, msg).SetInternal(cause)
}
