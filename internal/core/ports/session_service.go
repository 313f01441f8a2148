package ports

import (
	"context"

	"github.com/mindfulthreads/storefront/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Account   *domain.Account
	SessionID string
	Token     string
	// Next is the landing path for the account's role.
	Next string
}

// SessionService establishes, resolves and clears authenticated sessions.
type SessionService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Resolve(ctx context.Context, sid string) (*domain.Account, error)
	ParseToken(token string) (string, error)
	Logout(ctx context.Context, sid string) error
}
