package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mindfulthreads/storefront/internal/core/domain"
	"github.com/mindfulthreads/storefront/internal/core/policy"
	"github.com/mindfulthreads/storefront/internal/core/ports"
	"github.com/mindfulthreads/storefront/internal/pkg/metrics"
)

// AccountService implements registration, credential checks and account lookup.
type AccountService struct {
	repo        ports.AccountRepository
	signupRoles map[domain.Role]bool
	logger      zerolog.Logger
}

// NewAccountService builds the service. signupRoles restricts which roles may be
// chosen at self-registration; an empty list opens every role.
func NewAccountService(repo ports.AccountRepository, signupRoles []domain.Role, logger zerolog.Logger) *AccountService {
	if len(signupRoles) == 0 {
		signupRoles = domain.Roles
	}
	allowed := make(map[domain.Role]bool, len(signupRoles))
	for _, r := range signupRoles {
		allowed[r] = true
	}
	return &AccountService{repo: repo, signupRoles: allowed, logger: logger}
}

func (s *AccountService) Register(ctx context.Context, caller *domain.Caller, in ports.RegisterInput) (*domain.Account, error) {
	if err := policy.Authorize(caller, policy.OpRegister, nil); err != nil {
		metrics.AccessDeniedTotal.WithLabelValues(string(policy.OpRegister)).Inc()
		return nil, err
	}

	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	if !s.signupRoles[role] {
		return nil, fmt.Errorf("%w: role %q is not open for registration", domain.ErrInvalidInput, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.Account{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if !errors.Is(err, domain.ErrDuplicateUsername) {
			s.logger.Error().Err(err).Str("username", username).Msg("failed to create account")
		}
		return nil, err
	}

	metrics.AccountsRegisteredTotal.WithLabelValues(string(role)).Inc()
	s.logger.Info().Int64("account_id", created.ID).Str("role", string(role)).Msg("account registered")
	return created, nil
}

// Authenticate returns the account whose stored hash matches password. An
// unknown username and a wrong password are indistinguishable to the caller.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*domain.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return account, nil
}

func (s *AccountService) Lookup(ctx context.Context, id int64) (*domain.Account, error) {
	return s.repo.FindByID(ctx, id)
}
