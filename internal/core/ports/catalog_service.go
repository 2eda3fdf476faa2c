package ports

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// ImageUpload is an image file attached to a request.
type ImageUpload struct {
	Filename string
	Data     []byte
}

// CreateProductInput carries a new catalog entry.
type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Image       *ImageUpload
}

// UpdateProductInput carries a partial product update.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Image       *ImageUpload
}

type ProductService interface {
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, id string, in UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// CreateOrderInput carries a new order placed by UserID.
type CreateOrderInput struct {
	UserID          string
	Items           []domain.OrderItem
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
	TotalAmount     float64
}

type OrderService interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	ListMine(ctx context.Context, userID string) ([]*domain.Order, error)
}
