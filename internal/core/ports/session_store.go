package ports

import (
	"context"
	"time"

	"github.com/mindfulthreads/storefront/internal/core/domain"
)

// SessionStore keeps server-side sessions: an opaque id mapped to an account id.
type SessionStore interface {
	// Create stores a new session for accountID and returns its id.
	Create(ctx context.Context, accountID int64, ttl time.Duration) (string, error)
	// Resolve returns the account id behind sid, or domain.ErrNotFound when the
	// session is unknown or expired.
	Resolve(ctx context.Context, sid string) (int64, error)
	Delete(ctx context.Context, sid string) error
}

// CatalogCache caches the full product list. A nil slice from GetList is a miss.
type CatalogCache interface {
	GetList(ctx context.Context) ([]*domain.Product, error)
	SetList(ctx context.Context, list []*domain.Product) error
	Invalidate(ctx context.Context) error
}
