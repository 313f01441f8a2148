package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mindfulthreads/storefront/internal/core/domain"
)

// AccountRepository implements ports.AccountRepository with Postgres.
type AccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account; the UNIQUE constraint on username rejects collisions.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (username, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, password_hash, role, created_at`
	out, err := scanAccount(r.db.QueryRow(ctx, query, a.Username, a.PasswordHash, string(a.Role), a.CreatedAt))
	if err != nil {
		if mapped := mapError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return out, nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	out, err := scanAccount(r.db.QueryRow(ctx,
		`SELECT id, username, password_hash, role, created_at FROM accounts WHERE username = $1`,
		username,
	))
	return out, mapError(err)
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	out, err := scanAccount(r.db.QueryRow(ctx,
		`SELECT id, username, password_hash, role, created_at FROM accounts WHERE id = $1`,
		id,
	))
	return out, mapError(err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var (
		a    domain.Account
		role string
	)
	if err := row.Scan(&a.ID, &a.Username, &a.PasswordHash, &role, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Role = domain.Role(role)
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}
