package ports

import (
	"context"
	"time"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/pkg/token"
)

// TokenIssuer mints session tokens embedding a snapshot of the user's identity.
type TokenIssuer interface {
	Issue(user *domain.User) (string, *token.Claims, error)
}

// TokenVerifier validates a presented token string.
type TokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

// TokenRevoker keeps the deny-list of revoked token IDs.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
