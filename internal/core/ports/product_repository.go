package ports

import (
	"context"

	"github.com/storefront/storefront-api/internal/core/domain"
)

// ProductChanges carries the fields of a partial product update.
type ProductChanges struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	ImageURL    *string
	ImageID     *string
}

// ProductRepository persists catalog products.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, id string, changes ProductChanges) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
