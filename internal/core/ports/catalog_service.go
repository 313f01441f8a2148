package ports

import (
	"context"

	"github.com/mindfulthreads/storefront/internal/core/domain"
)

// ProductInput carries the mutable product fields from the transport layer.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	Image       string
}

// Fields converts the input into domain fields.
func (in ProductInput) Fields() domain.ProductFields {
	return domain.ProductFields{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Image:       in.Image,
	}
}

// CatalogService defines the use-case operations on products. Every mutating
// call is gated by the access policy before it reaches storage.
type CatalogService interface {
	List(ctx context.Context) ([]*domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, caller *domain.Caller, in ProductInput) (*domain.Product, error)
	Update(ctx context.Context, caller *domain.Caller, id int64, in ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, caller *domain.Caller, id int64) error
	// AdminList is the catalog as seen from the admin dashboard.
	AdminList(ctx context.Context, caller *domain.Caller) ([]*domain.Product, error)
	// ListByCreator returns the designer caller's own products.
	ListByCreator(ctx context.Context, caller *domain.Caller) ([]*domain.Product, error)
}
