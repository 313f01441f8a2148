package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/mindfulthreads/storefront/internal/pkg/config"
	"github.com/mindfulthreads/storefront/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init(logger.Options{Level: "error", Output: io.Discard})
	os.Exit(m.Run())
}

func memoryConfig() *config.Config {
	return &config.Config{
		StorageDriver: config.DriverMemory,
		Auth: config.AuthConfig{
			JWTSecret:     "jwt",
			SessionSecret: "0123456789abcdef0123456789abcdef",
			SessionTTL:    time.Hour,
			SignupRoles:   []string{"customer"},
		},
	}
}

func TestNew_MemoryDriver(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, memoryConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close(ctx)

	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"memory"`) {
		t.Fatalf("readiness: %d %s", rec.Code, rec.Body.String())
	}

	// SIGNUP_ROLES only opens customer registration.
	req := httptest.NewRequest(http.MethodPost, "/auth/register",
		strings.NewReader(`{"username":"eve","password":"pw","role":"admin"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("closed role: expected 422, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := memoryConfig()
	cfg.StorageDriver = "sqlite"
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
