package ports

import (
	"context"

	"github.com/mindfulthreads/storefront/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Username string
	Password string
	Role     string
}

type AccountService interface {
	Register(ctx context.Context, caller *domain.Caller, in RegisterInput) (*domain.Account, error)
	Authenticate(ctx context.Context, username, password string) (*domain.Account, error)
	Lookup(ctx context.Context, id int64) (*domain.Account, error)
}
