package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/storefront/storefront-api/internal/core/domain"
	"github.com/storefront/storefront-api/internal/core/ports"
)

type OrderService struct {
	repo   ports.OrderRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewOrderService(repo ports.OrderRepository, logger zerolog.Logger) *OrderService {
	return &OrderService{repo: repo, logger: logger, now: time.Now}
}

// Create places an order for in.UserID. Quantities default to 1.
func (s *OrderService) Create(ctx context.Context, in ports.CreateOrderInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: items must contain at least one product", domain.ErrInvalidInput)
	}
	if in.TotalAmount < 0 {
		return nil, fmt.Errorf("%w: total_amount must be zero or greater", domain.ErrInvalidInput)
	}

	items := make([]domain.OrderItem, len(in.Items))
	for i, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return nil, fmt.Errorf("%w: items[%d].product_id is required", domain.ErrInvalidInput, i)
		}
		if it.Quantity < 0 {
			return nil, fmt.Errorf("%w: items[%d].quantity must be at least 1", domain.ErrInvalidInput, i)
		}
		if it.Quantity == 0 {
			it.Quantity = 1
		}
		items[i] = it
	}

	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		method = domain.DefaultPaymentMethod
	}
	paidAt := s.now().UTC()

	order, err := s.repo.Create(ctx, &domain.Order{
		UserID:          in.UserID,
		Items:           items,
		TotalAmount:     in.TotalAmount,
		Status:          domain.OrderPending,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   method,
		PaidAt:          &paidAt,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("order_id", order.ID).Str("user_id", in.UserID).Msg("order created")
	return order, nil
}

func (s *OrderService) ListMine(ctx context.Context, userID string) ([]*domain.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	return orders, nil
}
