package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/mindfulthreads/storefront/internal/core/domain"
	"github.com/mindfulthreads/storefront/internal/core/ports"
	"github.com/mindfulthreads/storefront/internal/pkg/metrics"
)

// LandingPath is where a freshly logged-in account is sent.
func LandingPath(r domain.Role) string {
	switch r {
	case domain.RoleAdmin:
		return "/admin/products"
	case domain.RoleDesigner:
		return "/designer/products"
	default:
		return "/collections"
	}
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// SessionService moves a caller between the anonymous and authenticated states.
// The server-side store is the authority: a token is only as good as the
// session id it carries.
type SessionService struct {
	accounts  ports.AccountService
	store     ports.SessionStore
	jwtSecret []byte
	ttl       time.Duration
	logger    zerolog.Logger
}

func NewSessionService(accounts ports.AccountService, store ports.SessionStore, jwtSecret string, ttl time.Duration, logger zerolog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{
		accounts:  accounts,
		store:     store,
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		logger:    logger,
	}
}

// TTL is the lifetime of sessions created by Login.
func (s *SessionService) TTL() time.Duration { return s.ttl }

func (s *SessionService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	account, err := s.accounts.Authenticate(ctx, username, password)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	sid, err := s.store.Create(ctx, account.ID, s.ttl)
	if err != nil {
		s.logger.Error().Err(err).Int64("account_id", account.ID).Msg("failed to create session")
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := s.signToken(account, sid)
	if err != nil {
		_ = s.store.Delete(ctx, sid)
		return nil, fmt.Errorf("sign token: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Int64("account_id", account.ID).Str("role", string(account.Role)).Msg("login")

	return &ports.LoginResult{
		Account:   account,
		SessionID: sid,
		Token:     token,
		Next:      LandingPath(account.Role),
	}, nil
}

// Resolve re-hydrates the account behind sid. A missing, expired or orphaned
// session yields domain.ErrNotFound.
func (s *SessionService) Resolve(ctx context.Context, sid string) (*domain.Account, error) {
	if sid == "" {
		return nil, domain.ErrNotFound
	}
	accountID, err := s.store.Resolve(ctx, sid)
	if err != nil {
		return nil, err
	}
	return s.accounts.Lookup(ctx, accountID)
}

// ParseToken verifies an HS256 token and returns the session id it carries.
func (s *SessionService) ParseToken(token string) (string, error) {
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid || claims.SessionID == "" {
		return "", domain.ErrInvalidCredentials
	}
	return claims.SessionID, nil
}

func (s *SessionService) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := s.store.Delete(ctx, sid); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

func (s *SessionService) signToken(account *domain.Account, sid string) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		SessionID: sid,
		Role:      string(account.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(account.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
