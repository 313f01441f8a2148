package ports

import (
	"context"

	"github.com/mindfulthreads/storefront/internal/core/domain"
)

// ProductRepository defines persistence operations for catalog products.
// Each call touches a single record; missing records are domain.ErrNotFound.
type ProductRepository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	// Create assigns the ID and timestamps and returns the stored product.
	Create(ctx context.Context, p *domain.Product) (*domain.Product, error)
	// Update overwrites the mutable fields of product id in place.
	Update(ctx context.Context, id int64, fields domain.ProductFields) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}
