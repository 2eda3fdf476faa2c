package ports

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// UserWithOrders is the admin view of an account.
type UserWithOrders struct {
	*domain.User
	Orders []*domain.Order `json:"orders"`
}

type AdminService interface {
	ListUsersWithOrders(ctx context.Context) ([]UserWithOrders, error)
	// DeleteUser removes targetID and its orders. requesterID may never equal targetID.
	DeleteUser(ctx context.Context, requesterID, targetID string) (*domain.User, error)
}
