package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

// AdminService implements the admin user-management use cases. Callers must
// already have passed the admin capability check.
type AdminService struct {
	users  ports.UserRepository
	orders ports.OrderRepository
	blobs  ports.BlobStore
	logger zerolog.Logger
}

func NewAdminService(users ports.UserRepository, orders ports.OrderRepository, blobs ports.BlobStore, logger zerolog.Logger) *AdminService {
	return &AdminService{users: users, orders: orders, blobs: blobs, logger: logger}
}

// ListUsersWithOrders returns every account with its orders embedded.
func (s *AdminService) ListUsersWithOrders(ctx context.Context) ([]ports.UserWithOrders, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	byUser, err := s.orders.ListByUsers(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ports.UserWithOrders, len(users))
	for i, u := range users {
		orders := byUser[u.ID]
		if orders == nil {
			orders = []*domain.Order{}
		}
		out[i] = ports.UserWithOrders{User: u, Orders: orders}
	}
	return out, nil
}

// DeleteUser removes targetID together with all of its orders. An admin can
// never remove their own account here, whatever their role.
func (s *AdminService) DeleteUser(ctx context.Context, requesterID, targetID string) (*domain.User, error) {
	if requesterID == targetID {
		return nil, domain.ErrSelfDelete
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	// The store may accept several spellings of one id; compare resolved ids.
	if target.ID == requesterID {
		return nil, domain.ErrSelfDelete
	}

	removed, err := s.orders.DeleteByUser(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("delete user orders: %w", err)
	}
	if err := s.users.Delete(ctx, target.ID); err != nil {
		return nil, err
	}

	if target.AvatarBlobID != "" {
		if err := s.blobs.Delete(ctx, target.AvatarBlobID); err != nil && !errors.Is(err, domain.ErrBlobNotFound) {
			s.logger.Warn().Err(err).Str("blob_id", target.AvatarBlobID).Msg("failed to delete avatar")
		}
	}

	s.logger.Info().
		Str("admin_id", requesterID).
		Str("user_id", target.ID).
		Int64("orders_removed", removed).
		Msg("user deleted")
	return target, nil
}
