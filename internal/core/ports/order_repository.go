package ports

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// OrderRepository persists orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	// ListByUsers returns the orders of all given users keyed by user ID.
	ListByUsers(ctx context.Context, userIDs []string) (map[string][]*domain.Order, error)
	// DeleteByUser removes every order placed by userID and returns how many were removed.
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
