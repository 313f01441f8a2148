package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mindfulthreads/storefront/internal/core/domain"
)

type stubSessionStore struct {
	sessions map[string]int64
	next     int
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]int64)}
}

func (s *stubSessionStore) Create(_ context.Context, accountID int64, _ time.Duration) (string, error) {
	s.next++
	sid := fmt.Sprintf("sid-%d", s.next)
	s.sessions[sid] = accountID
	return sid, nil
}

func (s *stubSessionStore) Resolve(_ context.Context, sid string) (int64, error) {
	id, ok := s.sessions[sid]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

func (s *stubSessionStore) Delete(_ context.Context, sid string) error {
	delete(s.sessions, sid)
	return nil
}

func newSessionFixture(t *testing.T) (*SessionService, *stubSessionStore, *AccountService) {
	t.Helper()
	accounts := NewAccountService(newStubAccountRepo(), nil, discardLogger)
	store := newStubSessionStore()
	return NewSessionService(accounts, store, "secret", time.Hour, discardLogger), store, accounts
}

func TestSessionService_Login_Success(t *testing.T) {
	svc, store, accounts := newSessionFixture(t)
	registered := register(t, accounts, "carol", "s3cret", domain.RoleAdmin)

	res, err := svc.Login(context.Background(), "carol", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Account.ID != registered.ID {
		t.Fatalf("unexpected account: %+v", res.Account)
	}
	if res.Next != "/admin/products" {
		t.Errorf("unexpected landing path %q", res.Next)
	}
	if store.sessions[res.SessionID] != registered.ID {
		t.Fatalf("session %q not stored for account %d", res.SessionID, registered.ID)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(res.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != string(domain.RoleAdmin) {
		t.Errorf("expected role %s, got %v", domain.RoleAdmin, claims["role"])
	}
	if claims["sid"] != res.SessionID {
		t.Errorf("expected sid %s, got %v", res.SessionID, claims["sid"])
	}
	if claims["sub"] != fmt.Sprint(registered.ID) {
		t.Errorf("expected sub %d, got %v", registered.ID, claims["sub"])
	}
}

func TestSessionService_Login_WrongPasswordCreatesNoSession(t *testing.T) {
	svc, store, accounts := newSessionFixture(t)
	register(t, accounts, "alice", "pw1", domain.RoleDesigner)

	res, err := svc.Login(context.Background(), "alice", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if res != nil {
		t.Fatalf("expected no result, got %+v", res)
	}
	if len(store.sessions) != 0 {
		t.Fatalf("no session must be established, found %d", len(store.sessions))
	}
}

func TestSessionService_LandingPath(t *testing.T) {
	cases := map[domain.Role]string{
		domain.RoleAdmin:    "/admin/products",
		domain.RoleDesigner: "/designer/products",
		domain.RoleCustomer: "/collections",
	}
	for role, want := range cases {
		if got := LandingPath(role); got != want {
			t.Errorf("LandingPath(%s) = %q, want %q", role, got, want)
		}
	}
}

func TestSessionService_ResolveAndLogout(t *testing.T) {
	svc, _, accounts := newSessionFixture(t)
	register(t, accounts, "dave", "pw", domain.RoleCustomer)

	res, err := svc.Login(context.Background(), "dave", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	account, err := svc.Resolve(context.Background(), res.SessionID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if account.Username != "dave" || account.Role != domain.RoleCustomer {
		t.Fatalf("unexpected account: %+v", account)
	}

	if err := svc.Logout(context.Background(), res.SessionID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), res.SessionID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after logout, got %v", err)
	}

	// The token is still well-formed but its session is gone.
	sid, err := svc.ParseToken(res.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if _, err := svc.Resolve(context.Background(), sid); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for revoked token session, got %v", err)
	}
}

func TestSessionService_Resolve_EmptySID(t *testing.T) {
	svc, _, _ := newSessionFixture(t)
	if _, err := svc.Resolve(context.Background(), ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Fatalf("logout of anonymous session must be a no-op, got %v", err)
	}
}

func TestSessionService_ParseToken_Rejects(t *testing.T) {
	svc, _, _ := newSessionFixture(t)

	wrongKey, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": "sid-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other"))

	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": "sid-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("secret"))

	noSID, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": "sid-1",
	}).SignedString([]byte("secret"))

	for name, token := range map[string]string{
		"garbage":   "not-a-token",
		"wrong key": wrongKey,
		"expired":   expired,
		"no sid":    noSID,
		"no exp":    noExp,
	} {
		if _, err := svc.ParseToken(token); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("%s: expected ErrInvalidCredentials, got %v", name, err)
		}
	}
}
