package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/mindfulthreads/storefront/internal/api/handler"
	"github.com/mindfulthreads/storefront/internal/core/domain"
	"github.com/mindfulthreads/storefront/internal/core/ports"
)

var cookieStore = sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"))

type stubSessions struct {
	tokens   map[string]string
	accounts map[string]*domain.Account
	resolved []string
}

func (s *stubSessions) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return nil, domain.ErrInvalidCredentials
}

func (s *stubSessions) Resolve(ctx context.Context, sid string) (*domain.Account, error) {
	s.resolved = append(s.resolved, sid)
	if a, ok := s.accounts[sid]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubSessions) ParseToken(token string) (string, error) {
	if sid, ok := s.tokens[token]; ok {
		return sid, nil
	}
	return "", domain.ErrInvalidCredentials
}

func (s *stubSessions) Logout(ctx context.Context, sid string) error { return nil }

func newStubSessions() *stubSessions {
	return &stubSessions{
		tokens: map[string]string{"good": "sid-1", "revoked": "sid-gone"},
		accounts: map[string]*domain.Account{
			"sid-1": {ID: 1, Username: "root", Role: domain.RoleAdmin},
		},
	}
}

// cookieFor produces a cookie session carrying sid the same way a login does.
func cookieFor(t *testing.T, sid string) *http.Cookie {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	sess, err := cookieStore.New(req, handler.SessionName)
	if err != nil && sess == nil {
		t.Fatalf("new session: %v", err)
	}
	sess.Values["sid"] = sid
	if err := sess.Save(req, rec); err != nil {
		t.Fatalf("save session: %v", err)
	}
	return rec.Result().Cookies()[0]
}

func runIdentity(t *testing.T, stub *stubSessions, req *http.Request) (*domain.Account, bool, error) {
	t.Helper()
	e := echo.New()
	c := e.NewContext(req, httptest.NewRecorder())

	var got *domain.Account
	called := false
	h := session.Middleware(cookieStore)(Identity(stub)(func(c echo.Context) error {
		called = true
		got = handler.AccountFrom(c)
		return nil
	}))
	err := h(c)
	return got, called, err
}

func TestIdentity_Anonymous(t *testing.T) {
	stub := newStubSessions()
	got, called, err := runIdentity(t, stub, httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || got != nil {
		t.Fatalf("expected anonymous pass-through, got %+v", got)
	}
	if len(stub.resolved) != 0 {
		t.Fatalf("no session lookup expected, got %v", stub.resolved)
	}
}

func TestIdentity_BearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")

	got, called, err := runIdentity(t, newStubSessions(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || got == nil || got.ID != 1 {
		t.Fatalf("expected account 1, got %+v", got)
	}
}

func TestIdentity_InvalidToken(t *testing.T) {
	cases := map[string]string{
		"bad token":     "Bearer forged",
		"wrong scheme":  "Basic Zm9vOmJhcg==",
		"missing value": "Bearer",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", header)

			_, called, err := runIdentity(t, newStubSessions(), req)
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %v", err)
			}
			if called {
				t.Fatalf("next must not run")
			}
		})
	}
}

func TestIdentity_RevokedToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer revoked")

	_, called, err := runIdentity(t, newStubSessions(), req)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if called {
		t.Fatalf("next must not run")
	}
}

func TestIdentity_CookieSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookieFor(t, "sid-1"))

	got, _, err := runIdentity(t, newStubSessions(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got == nil || got.Username != "root" {
		t.Fatalf("expected root, got %+v", got)
	}
}

func TestIdentity_StaleCookieIsAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookieFor(t, "sid-expired"))

	got, called, err := runIdentity(t, newStubSessions(), req)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || got != nil {
		t.Fatalf("expected anonymous pass-through, got %+v", got)
	}
}
