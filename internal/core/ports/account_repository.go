package ports

import (
	"context"

	"github.com/mindfulthreads/storefront/internal/core/domain"
)

// AccountRepository defines the persistence contract for accounts.
// Implementations must enforce username uniqueness in storage and report a
// collision as domain.ErrDuplicateUsername.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
}
